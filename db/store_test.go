package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-server-go/config"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	sqliteStore, err := OpenSQLiteStore(ctx, filepath.Join(dir, "kv.db"), "test")
	require.NoError(t, err)
	boltStore, err := OpenBoltStore(filepath.Join(dir, "kv.bolt"), "test")
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisStore := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
		"bolt":   boltStore,
		"redis":  redisStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, TabsKey)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, TabsKey, `["週一"]`))
			v, err := s.Get(ctx, TabsKey)
			require.NoError(t, err)
			assert.Equal(t, `["週一"]`, v)

			require.NoError(t, s.Set(ctx, TabsKey, `[]`))
			v, err = s.Get(ctx, TabsKey)
			require.NoError(t, err)
			assert.Equal(t, `[]`, v)

			require.NoError(t, s.Remove(ctx, TabsKey))
			_, err = s.Get(ctx, TabsKey)
			assert.ErrorIs(t, err, ErrNotFound)

			// removing a missing key is fine
			require.NoError(t, s.Remove(ctx, TabsKey))
		})
	}
}

func TestStoreApply(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, TabKey("A"), "[]"))

			require.NoError(t, s.Apply(ctx,
				Put(TabsKey, `["B"]`),
				Delete(TabKey("A")),
				Put(TabKey("B"), "[]"),
			))

			v, err := s.Get(ctx, TabsKey)
			require.NoError(t, err)
			assert.Equal(t, `["B"]`, v)
			_, err = s.Get(ctx, TabKey("A"))
			assert.ErrorIs(t, err, ErrNotFound)
			v, err = s.Get(ctx, TabKey("B"))
			require.NoError(t, err)
			assert.Equal(t, "[]", v)
		})
	}
}

func TestRedisStoreNamespacesKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "room101")
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), ListKey, "[]"))
	v, err := mr.Get("room101:attendanceList")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestSQLiteStoreNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	a, err := OpenSQLiteStore(ctx, path, "a")
	require.NoError(t, err)
	defer a.Close()
	b, err := OpenSQLiteStore(ctx, path, "b")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Set(ctx, ListKey, "[1]"))
	_, err = b.Get(ctx, ListKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.bolt")

	s, err := OpenBoltStore(path, "test")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, ListKey, "[]"))
	require.NoError(t, s.Close())

	s, err = OpenBoltStore(path, "test")
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, ListKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()

	cfg.Storage.Driver = "memory"
	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	cfg.Storage.Driver = "sqlite"
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "open.db")
	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	mr := miniredis.RunT(t)
	cfg.Storage.Driver = "redis"
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.DB = 0
	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	require.NoError(t, s.Close())

	cfg.Storage.Driver = "floppy"
	_, err = Open(ctx, cfg)
	assert.Error(t, err)
}

func TestTabKey(t *testing.T) {
	assert.Equal(t, "a_週一", TabKey("週一"))
}
