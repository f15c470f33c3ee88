package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edupath/dashclient/client/auth/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	server, err := mock.NewHTTPTestServer()
	require.NoError(t, err)
	defer server.Close()
	_, err = server.AddUser("admin@example.com", "password", "ADMIN", "Ada", "Admin")
	require.NoError(t, err)
	student, err := server.AddUser("student@example.com", "password", "STUDENT", "Sam", "Student")
	require.NoError(t, err)
	agent, err := server.AddUser("agent@example.com", "password", "AGENT", "Alex", "Agent")
	require.NoError(t, err)

	global := []string{"--url", server.BaseURL, "--store", "file", "--store-url", filepath.Join(t.TempDir(), "session.json")}
	run := func(args ...string) (string, error) {
		stdout := &bytes.Buffer{}
		err := New(stdout, &bytes.Buffer{}).Run(context.Background(), append(append([]string{}, global...), args...))
		return stdout.String(), err
	}

	testCases := []struct {
		description string
		args        []string
		expectOut   []string
		expectErr   error
	}{
		{description: "request otp", args: []string{"login", "-e", "admin@example.com", "-p", "password"}, expectOut: []string{"OTP sent to admin@example.com"}},
		{description: "login", args: []string{"login", "-e", "admin@example.com", "-p", "password", "--otp", mock.DefaultOTP, "--remember"}, expectOut: []string{"logged in as", "ADMIN"}},
		{description: "whoami", args: []string{"whoami"}, expectOut: []string{"role", "ADMIN", "access token"}},
		{description: "users list", args: []string{"users", "list", "--page-size", "5"}, expectOut: []string{"admin@example.com", "student@example.com", "3 users total"}},
		{description: "users list by role", args: []string{"users", "list", "--role", "agent"}, expectOut: []string{"agent@example.com", "1 users in group agent"}},
		{description: "students", args: []string{"students"}, expectOut: []string{"ID", "Sam Student"}},
		{description: "invite", args: []string{"invite", "-e", "new@example.com", "-r", "agent"}, expectOut: []string{"invitation sent to new@example.com"}},
		{description: "users delete", args: []string{"users", "delete", student.ID, agent.ID}, expectOut: []string{"deleted 2 users"}},
		{description: "logout", args: []string{"logout"}, expectOut: []string{"logged out"}},
		{description: "after logout", args: []string{"users", "list"}, expectErr: ErrLoginRequired},
	}
	for _, tc := range testCases {
		out, err := run(tc.args...)
		if tc.expectErr != nil {
			assert.ErrorIs(t, err, tc.expectErr, tc.description)
			continue
		}
		require.NoError(t, err, tc.description)
		for _, expect := range tc.expectOut {
			assert.Contains(t, out, expect, tc.description)
		}
	}
	_, ok := server.InviteToken("new@example.com")
	assert.True(t, ok)
	assert.Equal(t, 1, server.UserCount())
}

func TestRunner_StaffCommands(t *testing.T) {
	server, err := mock.NewHTTPTestServer()
	require.NoError(t, err)
	defer server.Close()
	student, err := server.AddUser("student@example.com", "password", "STUDENT", "Sam", "Student")
	require.NoError(t, err)
	_, err = server.AddUser("agent@example.com", "password", "AGENT", "Alex", "Agent")
	require.NoError(t, err)

	testCases := []struct {
		description string
		email       string
		args        []string
		expectErr   error
	}{
		{description: "student users list", email: "student@example.com", args: []string{"users", "list"}, expectErr: ErrPermissionDenied},
		{description: "student users list by role", email: "student@example.com", args: []string{"users", "list", "--role", "admin"}, expectErr: ErrPermissionDenied},
		{description: "student users delete", email: "student@example.com", args: []string{"users", "delete", student.ID}, expectErr: ErrPermissionDenied},
		{description: "student students", email: "student@example.com", args: []string{"students"}, expectErr: ErrPermissionDenied},
		{description: "student invite", email: "student@example.com", args: []string{"invite", "-e", "x@example.com", "-r", "agent"}, expectErr: ErrPermissionDenied},
		{description: "student whoami", email: "student@example.com", args: []string{"whoami"}},
		{description: "agent users list", email: "agent@example.com", args: []string{"users", "list"}},
		{description: "agent students", email: "agent@example.com", args: []string{"students"}},
		{description: "agent invite", email: "agent@example.com", args: []string{"invite", "-e", "y@example.com", "-r", "student"}},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			global := []string{"--url", server.BaseURL, "--store", "file", "--store-url", filepath.Join(t.TempDir(), "session.json")}
			ctx := context.Background()
			login := append(append([]string{}, global...), "login", "-e", tc.email, "-p", "password", "-o", mock.DefaultOTP, "-r")
			require.NoError(t, New(&bytes.Buffer{}, &bytes.Buffer{}).Run(ctx, login))

			before := server.Calls(http.MethodGet, "users/") + server.Calls(http.MethodGet, "students/") + server.Calls(http.MethodPost, "send-invite/")
			err := New(&bytes.Buffer{}, &bytes.Buffer{}).Run(ctx, append(append([]string{}, global...), tc.args...))
			after := server.Calls(http.MethodGet, "users/") + server.Calls(http.MethodGet, "students/") + server.Calls(http.MethodPost, "send-invite/")
			if tc.expectErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expectErr)
			assert.Equal(t, before, after)
		})
	}
	assert.Equal(t, 2, server.UserCount())
}

func TestRunner_DefaultStore(t *testing.T) {
	server, err := mock.NewHTTPTestServer()
	require.NoError(t, err)
	defer server.Close()
	_, err = server.AddUser("admin@example.com", "password", "ADMIN", "Ada", "Admin")
	require.NoError(t, err)

	location := filepath.Join(t.TempDir(), "dashctl", "session.json")
	testCases := []struct {
		description  string
		storeURL     func() (string, error)
		expectWhoAmI bool
	}{
		{description: "user config dir", storeURL: func() (string, error) { return location, nil }, expectWhoAmI: true},
		{description: "no config dir", storeURL: func() (string, error) { return "", errors.New("$HOME is not defined") }},
	}
	for _, tc := range testCases {
		newRunner := func(stdout *bytes.Buffer) *Runner {
			runner := New(stdout, &bytes.Buffer{})
			runner.storeURL = tc.storeURL
			return runner
		}
		ctx := context.Background()
		login := []string{"--url", server.BaseURL, "login", "-e", "admin@example.com", "-p", "password", "-o", mock.DefaultOTP, "-r"}
		require.NoError(t, newRunner(&bytes.Buffer{}).Run(ctx, login), tc.description)

		stdout := &bytes.Buffer{}
		err := newRunner(stdout).Run(ctx, []string{"--url", server.BaseURL, "whoami"})
		if !tc.expectWhoAmI {
			assert.Error(t, err, tc.description)
			continue
		}
		require.NoError(t, err, tc.description)
		assert.Contains(t, stdout.String(), "ADMIN", tc.description)
		_, err = os.Stat(location)
		assert.NoError(t, err, tc.description)
	}
}

func TestRunner_SessionExpired(t *testing.T) {
	server, err := mock.NewHTTPTestServer()
	require.NoError(t, err)
	defer server.Close()
	_, err = server.AddUser("admin@example.com", "password", "ADMIN", "Ada", "Admin")
	require.NoError(t, err)

	location := filepath.Join(t.TempDir(), "dashctl.yaml")
	config := "url: " + server.BaseURL + "\nstore:\n  kind: file\n  url: " + filepath.Join(t.TempDir(), "session.json") + "\n"
	require.NoError(t, os.WriteFile(location, []byte(config), 0o600))

	runner := New(&bytes.Buffer{}, &bytes.Buffer{})
	ctx := context.Background()
	require.NoError(t, runner.Run(ctx, []string{"--config", location, "login", "-e", "admin@example.com", "-p", "password", "-o", mock.DefaultOTP, "-r"}))
	require.NoError(t, runner.Run(ctx, []string{"--config", location, "users", "list"}))

	server.ExpireAccessTokens()
	server.RejectRefresh(true)
	err = runner.Run(ctx, []string{"--config", location, "users", "list"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoginRequired)

	stdout := &bytes.Buffer{}
	err = New(stdout, &bytes.Buffer{}).Run(ctx, []string{"--config", location, "whoami"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not logged in"))
}

func TestParseArgs(t *testing.T) {
	testCases := []struct {
		description   string
		args          []string
		expectCommand string
		expectErr     bool
	}{
		{description: "nested command", args: []string{"-u", "http://localhost/api/", "users", "delete", "1", "2"}, expectCommand: "users delete"},
		{description: "global flags", args: []string{"--verbose", "--store", "redis", "--redis-addr", "localhost:6379", "students"}, expectCommand: "students"},
		{description: "missing command", args: []string{"--url", "http://localhost/api/"}, expectErr: true},
		{description: "invalid store", args: []string{"--store", "s3", "students"}, expectErr: true},
		{description: "delete without ids", args: []string{"users", "delete"}, expectErr: true},
	}
	for _, tc := range testCases {
		options := &Options{}
		command, err := parseArgs(options, tc.args)
		if tc.expectErr {
			assert.Error(t, err, tc.description)
			continue
		}
		require.NoError(t, err, tc.description)
		assert.Equal(t, tc.expectCommand, command, tc.description)
	}

	options := &Options{}
	_, err := parseArgs(options, []string{"users", "delete", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, options.Users.Delete.Args.IDs)
}
