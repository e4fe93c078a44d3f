package models

import "time"

// SnapshotVersion is the current backup document version.
const SnapshotVersion = 1

// Snapshot is the versioned backup/transfer document produced by the store's
// export path and accepted by its import path. Import is a wholesale replace,
// distinct from the sync engine's merge.
type Snapshot struct {
	Version         int            `json:"version"`
	ExportedAt      time.Time      `json:"exported_at"`
	Programs        []Program      `json:"programs"`
	ActiveProgramID string         `json:"active_program_id,omitempty"`
	WorkoutLogs     []WorkoutLog   `json:"workout_logs"`
	Conversations   []Conversation `json:"conversations,omitempty"`
}

// SyncState is the wire document exchanged with the sync server: the four
// owner-scoped collections, without the backup envelope.
type SyncState struct {
	Programs        []Program      `json:"programs"`
	ActiveProgramID string         `json:"active_program_id,omitempty"`
	WorkoutLogs     []WorkoutLog   `json:"workout_logs"`
	Conversations   []Conversation `json:"conversations,omitempty"`
}

// Empty reports whether the state carries no programs and no workout logs.
func (s *SyncState) Empty() bool {
	return len(s.Programs) == 0 && len(s.WorkoutLogs) == 0
}
