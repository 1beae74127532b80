package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedisKV(t *testing.T) *RedisKV {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisKV(client)
}

func TestRedisKVMiss(t *testing.T) {
	kv := setupRedisKV(t)

	_, err := kv.Get(context.Background(), "cetele:absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisKVSetGetDelete(t *testing.T) {
	kv := setupRedisKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "cetele:projection", `{"habits":[]}`))

	val, err := kv.Get(ctx, "cetele:projection")
	require.NoError(t, err)
	assert.Equal(t, `{"habits":[]}`, val)

	require.NoError(t, kv.Delete(ctx, "cetele:projection"))
	_, err = kv.Get(ctx, "cetele:projection")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisKVNoExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	kv := NewRedisKV(client)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "cetele:projection", "v"))
	// The projection is durable state: writes must carry no TTL.
	assert.Equal(t, int64(0), int64(mr.TTL("cetele:projection")))
}

func TestProjectionStoreOverRedis(t *testing.T) {
	kv := setupRedisKV(t)

	s := NewProjectionStore(kv, zap.NewNop())
	habit, err := s.AddHabit("Hydrate", "Droplet")
	require.NoError(t, err)

	revived := NewProjectionStore(kv, zap.NewNop())
	habits := revived.Habits()
	require.Len(t, habits, 1)
	assert.Equal(t, habit.ID, habits[0].ID)
}
