package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/simbench/microsim/pkg/sim"
)

// MemoryStore is an in-memory Store for tests and for crawl runs that only
// emit JSONL.
type MemoryStore struct {
	mu    sync.Mutex
	snaps map[string]*sim.Snapshot
	steps map[uuid.UUID]int
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snaps: make(map[string]*sim.Snapshot),
		steps: make(map[uuid.UUID]int),
	}
}

func memKey(id uuid.UUID, step int) string {
	return fmt.Sprintf("%s:%d", id, step)
}

func (m *MemoryStore) SaveSnapshot(ctx context.Context, id uuid.UUID, step int, snap *sim.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[memKey(id, step)] = snap
	if cur, ok := m.steps[id]; !ok || step > cur {
		m.steps[id] = step
	}
	return nil
}

func (m *MemoryStore) LoadSnapshot(ctx context.Context, id uuid.UUID, step int) (*sim.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snaps[memKey(id, step)], nil
}

func (m *MemoryStore) Steps(ctx context.Context, id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.steps[id]; !ok {
		return -1, nil
	}
	return m.steps[id], nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	steps := m.steps[id]
	for i := 0; i <= steps; i++ {
		delete(m.snaps, memKey(id, i))
	}
	delete(m.steps, id)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }
func (m *MemoryStore) Close() error                   { return nil }
