package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, 24*time.Hour), mr
}

func TestStore_SaveRestore(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "pre_main_post", []byte(`{"schema_version":1}`)))

	data, ok, err := s.Restore(ctx, "pre_main_post")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"schema_version":1}`), data)
}

func TestStore_SaveNamespacesKeys(t *testing.T) {
	s, mr := setupTestRedis(t)

	require.NoError(t, s.Save(context.Background(), "main", []byte("x")))

	got, err := mr.Get("cart:main")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestStore_SaveSetsTTL(t *testing.T) {
	s, mr := setupTestRedis(t)

	require.NoError(t, s.Save(context.Background(), "main", []byte("x")))

	assert.Equal(t, 24*time.Hour, mr.TTL("cart:main"))
}

func TestStore_RestoreAbsent(t *testing.T) {
	s, _ := setupTestRedis(t)

	data, ok, err := s.Restore(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestStore_Clear(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "main", []byte("x")))
	require.NoError(t, s.Clear(ctx, "main"))

	_, ok, err := s.Restore(ctx, "main")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ClearAbsentIsNoop(t *testing.T) {
	s, _ := setupTestRedis(t)
	assert.NoError(t, s.Clear(context.Background(), "missing"))
}

func TestStore_OverwriteReplacesBlob(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "main", []byte("first")))
	require.NoError(t, s.Save(ctx, "main", []byte("second")))

	data, ok, err := s.Restore(ctx, "main")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("second"), data)
}
