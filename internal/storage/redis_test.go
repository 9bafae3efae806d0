package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simbench/microsim/pkg/games/balancescale"
	"github.com/simbench/microsim/pkg/sim"
)

func testSnapshot(t *testing.T) *sim.Snapshot {
	t.Helper()
	eng := sim.NewEngine(balancescale.New(balancescale.Config{CubeMass: 7}), 0)
	return eng.Snapshot()
}

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
	store := NewRedisStore(mr.Addr(), logger)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestRedisStore_SaveLoadSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	id := uuid.New()
	snap := testSnapshot(t)

	require.NoError(t, store.SaveSnapshot(ctx, id, 0, snap))

	loaded, err := store.LoadSnapshot(ctx, id, 0)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.TaskDesc, loaded.TaskDesc)
	assert.Equal(t, snap.MaxUUID, loaded.MaxUUID)
	assert.Len(t, loaded.Objects, len(snap.Objects))
	assert.Equal(t, snap.Objects[0].Name, loaded.Objects[0].Name)
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	loaded, err := store.LoadSnapshot(ctx, uuid.New(), 3)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_Steps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := uuid.New()
	steps, err := store.Steps(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, -1, steps)

	snap := testSnapshot(t)
	require.NoError(t, store.SaveSnapshot(ctx, id, 0, snap))
	require.NoError(t, store.SaveSnapshot(ctx, id, 1, snap))
	require.NoError(t, store.SaveSnapshot(ctx, id, 2, snap))

	steps, err = store.Steps(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, steps)
}

func TestRedisStore_DeleteSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := uuid.New()
	snap := testSnapshot(t)
	require.NoError(t, store.SaveSnapshot(ctx, id, 0, snap))
	require.NoError(t, store.SaveSnapshot(ctx, id, 1, snap))

	require.NoError(t, store.DeleteSession(ctx, id))

	loaded, err := store.LoadSnapshot(ctx, id, 0)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	steps, err := store.Steps(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, -1, steps)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id := uuid.New()
	snap := testSnapshot(t)
	require.NoError(t, store.SaveSnapshot(ctx, id, 0, snap))

	loaded, err := store.LoadSnapshot(ctx, id, 0)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	steps, err := store.Steps(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, steps)

	require.NoError(t, store.DeleteSession(ctx, id))
	steps, err = store.Steps(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, -1, steps)
}
