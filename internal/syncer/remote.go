// Package syncer keeps the local store eventually consistent with a remote
// sync server. Conflict resolution is last-writer-wins at entity granularity;
// there is no coordinator and no cross-device locking.
package syncer

import (
	"context"

	"github.com/claude/liftlog/internal/models"
)

// Remote is the sync collaborator, addressed by an opaque owner identity.
// Pushes are full-document upserts keyed by entity id, so re-sending the
// same push twice is harmless.
type Remote interface {
	// Available probes the collaborator. Its absence disables sync for the
	// session without being a hard failure.
	Available(ctx context.Context) bool

	Fetch(ctx context.Context, owner string) (*models.SyncState, error)
	Push(ctx context.Context, owner string, state *models.SyncState) error

	UpsertProgram(ctx context.Context, owner string, p models.Program) error
	DeleteProgram(ctx context.Context, owner, id string) error
	SetActiveProgram(ctx context.Context, owner, id string) error
	UpsertWorkoutLog(ctx context.Context, owner string, l models.WorkoutLog) error
	DeleteWorkoutLog(ctx context.Context, owner, id string) error
}

// Status is the sync state surfaced to the UI layer.
type Status string

const (
	StatusDisabled Status = "disabled" // collaborator unreachable at startup
	StatusIdle     Status = "idle"
	StatusSyncing  Status = "syncing"
	StatusSynced   Status = "synced"
	StatusError    Status = "error"
)
