package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	mu      sync.Mutex
	saved   *Credentials
	saves   int
	deletes int
	err     error
}

func (p *recordingPersister) Load(ctx context.Context) (*Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saved == nil {
		return nil, p.err
	}
	ret := *p.saved
	return &ret, p.err
}

func (p *recordingPersister) Save(ctx context.Context, credentials *Credentials) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.err != nil {
		return p.err
	}
	c := *credentials
	p.saved = &c
	return nil
}

func (p *recordingPersister) Delete(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletes++
	p.saved = nil
	return p.err
}

func TestSession_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	assert.False(t, s.Authenticated())
	assert.Equal(t, "", s.AccessToken())

	require.NoError(t, s.SetCredentials(ctx, Credentials{AccessToken: "A1", RefreshToken: "R1", Role: RoleAgent, UserID: "7"}))
	assert.True(t, s.Authenticated())
	assert.Equal(t, "A1", s.AccessToken())
	assert.Equal(t, "R1", s.RefreshToken())
	assert.Equal(t, RoleAgent, s.Role())
	assert.Equal(t, "7", s.UserID())

	replaced, err := s.ReplaceAccessToken(ctx, "R1", "A2")
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, Credentials{AccessToken: "A2", RefreshToken: "R1", Role: RoleAgent, UserID: "7"}, s.Credentials())

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, Credentials{}, s.Credentials())
	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, Credentials{}, s.Credentials())
}

func TestSession_ConditionalUpdates(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		description   string
		initial       Credentials
		refreshToken  string
		clear         bool
		expectApplied bool
		expect        Credentials
	}{
		{
			description:   "replace while refresh token matches",
			initial:       Credentials{AccessToken: "A1", RefreshToken: "R1", Role: RoleStudent, UserID: "1"},
			refreshToken:  "R1",
			expectApplied: true,
			expect:        Credentials{AccessToken: "A2", RefreshToken: "R1", Role: RoleStudent, UserID: "1"},
		},
		{
			description:  "replace after another login",
			initial:      Credentials{AccessToken: "NEW1", RefreshToken: "NEWR", Role: RoleAdmin, UserID: "2"},
			refreshToken: "OLDR",
			expect:       Credentials{AccessToken: "NEW1", RefreshToken: "NEWR", Role: RoleAdmin, UserID: "2"},
		},
		{
			description:  "replace after clear",
			refreshToken: "R1",
			expect:       Credentials{},
		},
		{
			description:   "clear while refresh token matches",
			initial:       Credentials{AccessToken: "A1", RefreshToken: "R1", UserID: "1"},
			refreshToken:  "R1",
			clear:         true,
			expectApplied: true,
			expect:        Credentials{},
		},
		{
			description:  "clear after another login",
			initial:      Credentials{AccessToken: "NEW1", RefreshToken: "NEWR", UserID: "2"},
			refreshToken: "OLDR",
			clear:        true,
			expect:       Credentials{AccessToken: "NEW1", RefreshToken: "NEWR", UserID: "2"},
		},
	}
	for _, tc := range testCases {
		persister := &recordingPersister{}
		s := New(WithPersister(persister), WithCredentials(tc.initial))
		var applied bool
		var err error
		if tc.clear {
			applied, err = s.ClearRefreshed(ctx, tc.refreshToken)
		} else {
			applied, err = s.ReplaceAccessToken(ctx, tc.refreshToken, "A2")
		}
		require.NoError(t, err, tc.description)
		assert.Equal(t, tc.expectApplied, applied, tc.description)
		assert.Equal(t, tc.expect, s.Credentials(), tc.description)
		if !tc.expectApplied {
			assert.Equal(t, 0, persister.saves+persister.deletes, tc.description)
		}
	}
}

func TestSession_Persistence(t *testing.T) {
	ctx := context.Background()

	var testCases = []struct {
		description string
		remember    bool
		expectSaved bool
	}{
		{description: "remembered session is mirrored", remember: true, expectSaved: true},
		{description: "session-only credentials stay in memory", remember: false, expectSaved: false},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			persister := &recordingPersister{}
			s := New(WithPersister(persister))
			require.NoError(t, s.SetCredentials(ctx, Credentials{AccessToken: "A1", RefreshToken: "R1", RememberMe: tc.remember}))
			_, err := s.ReplaceAccessToken(ctx, "R1", "A2")
			require.NoError(t, err)
			if !tc.expectSaved {
				assert.Nil(t, persister.saved)
				assert.Equal(t, 2, persister.deletes)
				return
			}
			require.NotNil(t, persister.saved)
			assert.Equal(t, "A2", persister.saved.AccessToken)
			assert.Equal(t, "R1", persister.saved.RefreshToken)

			require.NoError(t, s.Clear(ctx))
			assert.Nil(t, persister.saved)
		})
	}
}

func TestSession_PersistenceErrorKeepsMemory(t *testing.T) {
	persister := &recordingPersister{err: errors.New("disk full")}
	s := New(WithPersister(persister))
	err := s.SetCredentials(context.Background(), Credentials{AccessToken: "A1", RememberMe: true})
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, "A1", s.AccessToken())
}

func TestSession_Restore(t *testing.T) {
	ctx := context.Background()
	persister := &recordingPersister{saved: &Credentials{AccessToken: "A1", RefreshToken: "R1", Role: RoleStudent, RememberMe: true}}
	s := New(WithPersister(persister))
	ok, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "A1", s.AccessToken())
	assert.Equal(t, RoleStudent, s.Role())

	empty := New(WithPersister(&recordingPersister{}))
	ok, err = empty.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = New().Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_Token(t *testing.T) {
	s := New()
	_, err := s.Token()
	assert.ErrorIs(t, err, ErrNoAccessToken)

	require.NoError(t, s.SetCredentials(context.Background(), Credentials{AccessToken: "A1", RefreshToken: "R1"}))
	token, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "A1", token.AccessToken)
	assert.Equal(t, "Bearer", token.Type())
}

func TestSession_AccessClaims(t *testing.T) {
	expiry := time.Now().Add(time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(expiry),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	s := New(WithCredentials(Credentials{AccessToken: signed}))
	claims, err := s.AccessClaims()
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.True(t, claims.Expiry.Equal(expiry))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(expiry.Add(time.Second)))

	opaque := New(WithCredentials(Credentials{AccessToken: "opaque"}))
	_, err = opaque.AccessClaims()
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	var testCases = []struct {
		input  string
		expect Role
		err    bool
	}{
		{input: "ADMIN", expect: RoleAdmin},
		{input: "TELTH_ADMIN", expect: RoleAdmin},
		{input: "university_admin", expect: RoleUniversityAdmin},
		{input: " agent ", expect: RoleAgent},
		{input: "STUDENT", expect: RoleStudent},
		{input: "", expect: ""},
		{input: "janitor", err: true},
	}
	for _, tc := range testCases {
		actual, err := ParseRole(tc.input)
		if tc.err {
			assert.Error(t, err, tc.input)
			continue
		}
		assert.NoError(t, err, tc.input)
		assert.Equal(t, tc.expect, actual, tc.input)
	}
	assert.True(t, RoleAgent.IsStaff())
	assert.False(t, RoleStudent.IsStaff())
}

func TestRole_Group(t *testing.T) {
	var testCases = []struct {
		role  Role
		group string
		staff bool
	}{
		{role: RoleAdmin, group: "telth_admin", staff: true},
		{role: RoleUniversityAdmin, group: "university", staff: true},
		{role: RoleAgent, group: "agent", staff: true},
		{role: RoleStudent, group: "student"},
		{role: "", group: ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.group, tc.role.Group(), tc.role)
		assert.Equal(t, tc.staff, tc.role.IsStaff(), tc.role)
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New(WithCredentials(Credentials{AccessToken: "A0", RefreshToken: "R1"}))
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.ReplaceAccessToken(ctx, "R1", "A1")
		}()
		go func() {
			defer wg.Done()
			_ = s.AccessToken()
		}()
	}
	wg.Wait()
	assert.Equal(t, "A1", s.AccessToken())
	assert.Equal(t, "R1", s.RefreshToken())
}
