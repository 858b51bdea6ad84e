package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/justcom/justcom-admin/pkg/domain"
)

var testUser = domain.User{ID: "u1", Email: "a@b.com", FirstName: "Ada", LastName: "Admin", Role: "admin"}

func newRedisTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, "test:", ttl), mr
}

// backends runs fn once per Store implementation.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("file", func(t *testing.T) {
		fn(t, NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json")))
	})
	t.Run("redis", func(t *testing.T) {
		s, _ := newRedisTestStore(t, 0)
		fn(t, s)
	})
}

func TestStoreReadEmpty(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		got, err := s.Read(context.Background())
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func TestStoreWriteThenRead(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Write(ctx, "t1", "r1", testUser))

		got, err := s.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, &Session{AccessToken: "t1", RefreshToken: "r1", User: testUser}, got)
	})
}

func TestStoreWriteReplacesAll(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Write(ctx, "t1", "r1", testUser))
		other := domain.User{ID: "u2", Email: "b@c.com"}
		require.NoError(t, s.Write(ctx, "t9", "r9", other))

		got, err := s.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, &Session{AccessToken: "t9", RefreshToken: "r9", User: other}, got)
	})
}

func TestStoreClear(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Write(ctx, "t1", "r1", testUser))
		require.NoError(t, s.Clear(ctx))

		got, err := s.Read(ctx)
		require.NoError(t, err)
		require.Nil(t, got)

		// Clearing an empty store is not an error.
		require.NoError(t, s.Clear(ctx))
	})
}

func TestStoreUpdateAccessToken(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Write(ctx, "t1", "r1", testUser))
		require.NoError(t, s.UpdateAccessToken(ctx, "t2"))

		got, err := s.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, "t2", got.AccessToken)
		require.Equal(t, "r1", got.RefreshToken)
		require.Equal(t, testUser, got.User)
	})
}

func TestStoreUpdateAccessTokenWithoutSession(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.ErrorIs(t, s.UpdateAccessToken(ctx, "t2"), ErrNoSession)

		got, err := s.Read(ctx)
		require.NoError(t, err)
		require.Nil(t, got, "update must not create a partial session")
	})
}

func TestFileStoreCorruptUserIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	raw := `{"justcom_access_token":"t1","justcom_refresh_token":"r1","justcom_user":"{not json"}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	got, err := NewFileStore(path).Read(context.Background())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFileStoreMissingRefreshIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	raw := `{"justcom_access_token":"t1","justcom_user":"{\"id\":\"u1\"}"}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	s := NewFileStore(path)
	got, err := s.Read(context.Background())
	require.NoError(t, err)
	require.Nil(t, got)
	require.ErrorIs(t, s.UpdateAccessToken(context.Background(), "t2"), ErrNoSession)
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)
	require.NoError(t, s.Write(context.Background(), "t1", "r1", testUser))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestRedisStoreKeyLayout(t *testing.T) {
	s, mr := newRedisTestStore(t, 0)
	require.NoError(t, s.Write(context.Background(), "t1", "r1", testUser))

	access, err := mr.Get("test:" + KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "t1", access)
	refresh, err := mr.Get("test:" + KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "r1", refresh)
	require.True(t, mr.Exists("test:"+KeyUser))
}

func TestRedisStoreTTL(t *testing.T) {
	s, mr := newRedisTestStore(t, time.Hour)
	ctx := context.Background()
	keys := []string{"test:" + KeyAccessToken, "test:" + KeyRefreshToken, "test:" + KeyUser}

	require.NoError(t, s.Write(ctx, "t1", "r1", testUser))
	mr.FastForward(50 * time.Minute)
	require.NoError(t, s.UpdateAccessToken(ctx, "t2"))
	for _, k := range keys {
		require.Equal(t, time.Hour, mr.TTL(k), k)
	}

	// Past the original expiry: the refreshed session is still whole.
	mr.FastForward(20 * time.Minute)
	for _, k := range keys {
		require.True(t, mr.Exists(k), k)
	}
	got, err := s.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "t2", got.AccessToken)

	mr.FastForward(2 * time.Hour)
	for _, k := range keys {
		require.False(t, mr.Exists(k), k)
	}
	got, err = s.Read(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisStorePartialKeysAreAbsent(t *testing.T) {
	s, mr := newRedisTestStore(t, 0)
	require.NoError(t, mr.Set("test:"+KeyAccessToken, "t1"))

	got, err := s.Read(context.Background())
	require.NoError(t, err)
	require.Nil(t, got)
	require.ErrorIs(t, s.UpdateAccessToken(context.Background(), "t2"), ErrNoSession)

	v, err := mr.Get("test:" + KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "t1", v)
}

func TestRedisStoreUnavailable(t *testing.T) {
	s, mr := newRedisTestStore(t, 0)
	mr.Close()

	_, err := s.Read(context.Background())
	require.Error(t, err)
}
