package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupBadgerKV(t *testing.T) *BadgerKV {
	t.Helper()
	kv, err := NewBadgerKV(InMemoryBadgerOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestBadgerKVMiss(t *testing.T) {
	kv := setupBadgerKV(t)

	_, err := kv.Get(context.Background(), "cetele:absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestBadgerKVSetGetDelete(t *testing.T) {
	kv := setupBadgerKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "cetele:projection", `{"habits":[]}`))

	val, err := kv.Get(ctx, "cetele:projection")
	require.NoError(t, err)
	assert.Equal(t, `{"habits":[]}`, val)

	require.NoError(t, kv.Delete(ctx, "cetele:projection"))
	_, err = kv.Get(ctx, "cetele:projection")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestBadgerKVOnDiskReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := NewBadgerKV(DefaultBadgerOptions(dir))
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "cetele:projection", "persisted"))
	require.NoError(t, kv.Close())

	reopened, err := NewBadgerKV(DefaultBadgerOptions(dir))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	val, err := reopened.Get(ctx, "cetele:projection")
	require.NoError(t, err)
	assert.Equal(t, "persisted", val)
}

func TestProjectionStoreOverBadger(t *testing.T) {
	kv := setupBadgerKV(t)

	s := NewProjectionStore(kv, zap.NewNop())
	habit, err := s.AddHabit("Meditate", "Brain")
	require.NoError(t, err)
	_, ok := s.ToggleCompletion(habit.ID, "2026-08-20")
	require.True(t, ok)

	revived := NewProjectionStore(kv, zap.NewNop())
	snap := revived.Snapshot()
	require.Len(t, snap.Habits, 1)
	assert.True(t, snap.Logs.Completed(habit.ID, "2026-08-20"))
}
