package syncer

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// mergeByRecency merges two collections keyed by entity id. The result starts
// from the remote collection; a local entity is kept when it is unknown
// remotely, and replaces the remote one only when its recency field is
// strictly greater — on a tie the remote copy wins, which keeps the outcome
// deterministic. A losing entity's concurrent edits are dropped whole; there
// is no field-level merge.
func mergeByRecency[T any](local, remote []T, id func(T) string, recency func(T) time.Time) []T {
	out := make([]T, len(remote))
	copy(out, remote)

	index := make(map[string]int, len(remote))
	for i, e := range remote {
		index[id(e)] = i
	}

	for _, le := range local {
		ri, ok := index[id(le)]
		if !ok {
			out = append(out, le)
			continue
		}
		if recency(le).After(recency(out[ri])) {
			out[ri] = le
		}
	}
	return out
}

// MergeStates merges the program and workout-log collections independently
// and picks the remote active-program choice when it has one. Conversations
// follow the same per-id rule on UpdatedAt.
func MergeStates(local, remote models.SyncState) models.SyncState {
	merged := models.SyncState{
		Programs: mergeByRecency(local.Programs, remote.Programs,
			func(p models.Program) string { return p.ID },
			func(p models.Program) time.Time { return p.UpdatedAt }),
		WorkoutLogs: mergeByRecency(local.WorkoutLogs, remote.WorkoutLogs,
			func(l models.WorkoutLog) string { return l.ID },
			func(l models.WorkoutLog) time.Time { return l.Date }),
		Conversations: mergeByRecency(local.Conversations, remote.Conversations,
			func(c models.Conversation) string { return c.ID },
			func(c models.Conversation) time.Time { return c.UpdatedAt }),
	}

	merged.ActiveProgramID = remote.ActiveProgramID
	if merged.ActiveProgramID == "" {
		merged.ActiveProgramID = local.ActiveProgramID
	}
	return merged
}
