package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/simbench/microsim/pkg/sim"
)

// Store persists per-step world snapshots for the evaluation harness. The
// engine itself never persists anything; trajectory runners push snapshots
// here so external tooling can fetch them by session and step.
type Store interface {
	// SaveSnapshot stores the snapshot taken after the given step number.
	// Step 0 is the initial state.
	SaveSnapshot(ctx context.Context, id uuid.UUID, step int, snap *sim.Snapshot) error
	// LoadSnapshot returns the stored snapshot, or nil if absent.
	LoadSnapshot(ctx context.Context, id uuid.UUID, step int) (*sim.Snapshot, error)
	// Steps returns the highest step number stored for a session, or -1 if
	// the session is unknown.
	Steps(ctx context.Context, id uuid.UUID) (int, error)
	// DeleteSession removes every snapshot for a session.
	DeleteSession(ctx context.Context, id uuid.UUID) error

	Ping(ctx context.Context) error
	Close() error
}
