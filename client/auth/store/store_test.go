package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/edupath/dashclient/client/auth/session"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStores_RoundTrip(t *testing.T) {
	_, rdb := newTestRedis(t)
	dir := t.TempDir()

	var testCases = []struct {
		description string
		store       Store
	}{
		{description: "memory", store: NewMemoryStore()},
		{description: "file", store: NewFileStore(filepath.Join(dir, "session.json"))},
		{description: "secret", store: NewSecretStore(filepath.Join(dir, "session.secret"), "")},
		{description: "redis", store: NewRedisStore(rdb, "", 0)},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			ctx := context.Background()
			loaded, err := tc.store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, loaded)

			expected := &session.Credentials{AccessToken: "A1", RefreshToken: "R1", Role: session.RoleAdmin, UserID: "12", RememberMe: true}
			require.NoError(t, tc.store.Save(ctx, expected))

			loaded, err = tc.store.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, *expected, *loaded)

			expected.AccessToken = "A2"
			require.NoError(t, tc.store.Save(ctx, expected))
			loaded, err = tc.store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "A2", loaded.AccessToken)

			require.NoError(t, tc.store.Delete(ctx))
			require.NoError(t, tc.store.Delete(ctx))
			loaded, err = tc.store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}

func TestMemoryStore_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	original := &session.Credentials{AccessToken: "A1"}
	require.NoError(t, s.Save(ctx, original))
	original.AccessToken = "mutated"
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", loaded.AccessToken)
}

func TestSecretStore_EncryptsAtRest(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "session.secret")
	s := NewSecretStore(location, "")
	require.NoError(t, s.Save(ctx, &session.Credentials{AccessToken: "plain-access", RefreshToken: "plain-refresh", RememberMe: true}))
	raw, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "plain-refresh")
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb, "dash:test", time.Hour)
	require.NoError(t, s.Save(ctx, &session.Credentials{AccessToken: "A1", RememberMe: true}))
	assert.Equal(t, time.Hour, mr.TTL("dash:test"))

	mr.FastForward(2 * time.Hour)
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()
	_, err = NewRedisStore(rdb, "", 0).Load(context.Background())
	assert.Error(t, err)
}

func TestStore_WithSession(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "session.json")
	first := session.New(session.WithPersister(NewFileStore(location)))
	require.NoError(t, first.SetCredentials(ctx, session.Credentials{AccessToken: "A1", RefreshToken: "R1", Role: session.RoleStudent, UserID: "3", RememberMe: true}))
	replaced, err := first.ReplaceAccessToken(ctx, "R1", "A2")
	require.NoError(t, err)
	require.True(t, replaced)

	second := session.New(session.WithPersister(NewFileStore(location)))
	ok, err := second.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A2", second.AccessToken())
	assert.Equal(t, "R1", second.RefreshToken())

	require.NoError(t, second.Clear(ctx))
	_, err = os.Stat(location)
	assert.True(t, os.IsNotExist(err))
}
