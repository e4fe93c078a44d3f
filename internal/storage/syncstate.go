package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// The sync store keeps each entity as a full JSONB document keyed by
// (owner, id). Pushes are idempotent upserts — the merge already happened on
// the client, the server just keeps the latest document it was handed.

// FetchState returns the owner's full sync state. An owner the server has
// never seen yields an empty state, not an error.
func (db *DB) FetchState(ctx context.Context, owner string) (*models.SyncState, error) {
	state := &models.SyncState{}

	rows, err := db.Pool.Query(ctx,
		`SELECT doc FROM sync_programs WHERE owner = $1 ORDER BY created_seq`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	state.Programs, err = scanDocs[models.Program](rows)
	if err != nil {
		return nil, fmt.Errorf("scanning programs: %w", err)
	}

	rows, err = db.Pool.Query(ctx,
		`SELECT doc FROM sync_workout_logs WHERE owner = $1 ORDER BY created_seq`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	state.WorkoutLogs, err = scanDocs[models.WorkoutLog](rows)
	if err != nil {
		return nil, fmt.Errorf("scanning workout logs: %w", err)
	}

	var activeID *string
	var conversations []byte
	err = db.Pool.QueryRow(ctx,
		`SELECT active_program_id, conversations FROM sync_owners WHERE owner = $1`,
		owner).Scan(&activeID, &conversations)
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("querying owner state: %w", err)
	}
	if activeID != nil {
		state.ActiveProgramID = *activeID
	}
	if len(conversations) > 0 {
		if err := json.Unmarshal(conversations, &state.Conversations); err != nil {
			return nil, fmt.Errorf("decoding conversations: %w", err)
		}
	}

	return state, nil
}

// ReplaceState overwrites the owner's stored state with the pushed document
// set, atomically.
func (db *DB) ReplaceState(ctx context.Context, owner string, state *models.SyncState) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sync_programs WHERE owner = $1`, owner); err != nil {
		return fmt.Errorf("clearing programs: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sync_workout_logs WHERE owner = $1`, owner); err != nil {
		return fmt.Errorf("clearing workout logs: %w", err)
	}

	for _, p := range state.Programs {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding program %s: %w", p.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO sync_programs (owner, id, doc, updated_at) VALUES ($1, $2, $3, $4)`,
			owner, p.ID, doc, p.UpdatedAt); err != nil {
			return fmt.Errorf("inserting program %s: %w", p.ID, err)
		}
	}
	for _, l := range state.WorkoutLogs {
		doc, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("encoding workout log %s: %w", l.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO sync_workout_logs (owner, id, doc, date) VALUES ($1, $2, $3, $4)`,
			owner, l.ID, doc, l.Date); err != nil {
			return fmt.Errorf("inserting workout log %s: %w", l.ID, err)
		}
	}

	conversations, err := json.Marshal(state.Conversations)
	if err != nil {
		return fmt.Errorf("encoding conversations: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO sync_owners (owner, active_program_id, conversations)
		 VALUES ($1, NULLIF($2, ''), $3)
		 ON CONFLICT (owner) DO UPDATE
		 SET active_program_id = EXCLUDED.active_program_id,
		     conversations = EXCLUDED.conversations`,
		owner, state.ActiveProgramID, conversations); err != nil {
		return fmt.Errorf("upserting owner state: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// UpsertProgram stores a single program document, replacing any previous
// version.
func (db *DB) UpsertProgram(ctx context.Context, owner string, p models.Program) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding program: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO sync_programs (owner, id, doc, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner, id) DO UPDATE
		 SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		owner, p.ID, doc, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting program: %w", err)
	}
	return nil
}

// DeleteProgram removes a single program document. Deleting an absent id is
// a no-op.
func (db *DB) DeleteProgram(ctx context.Context, owner, id string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM sync_programs WHERE owner = $1 AND id = $2`, owner, id)
	if err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	return nil
}

// SetActiveProgram records the owner's active-program choice; empty clears it.
func (db *DB) SetActiveProgram(ctx context.Context, owner, id string) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sync_owners (owner, active_program_id, conversations)
		 VALUES ($1, NULLIF($2, ''), '[]')
		 ON CONFLICT (owner) DO UPDATE SET active_program_id = NULLIF($2, '')`,
		owner, id)
	if err != nil {
		return fmt.Errorf("setting active program: %w", err)
	}
	return nil
}

// UpsertWorkoutLog stores a single workout-log document, replacing any
// previous version.
func (db *DB) UpsertWorkoutLog(ctx context.Context, owner string, l models.WorkoutLog) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encoding workout log: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO sync_workout_logs (owner, id, doc, date) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner, id) DO UPDATE
		 SET doc = EXCLUDED.doc, date = EXCLUDED.date`,
		owner, l.ID, doc, l.Date)
	if err != nil {
		return fmt.Errorf("upserting workout log: %w", err)
	}
	return nil
}

// DeleteWorkoutLog removes a single workout-log document.
func (db *DB) DeleteWorkoutLog(ctx context.Context, owner, id string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM sync_workout_logs WHERE owner = $1 AND id = $2`, owner, id)
	if err != nil {
		return fmt.Errorf("deleting workout log: %w", err)
	}
	return nil
}

func scanDocs[T any](rows pgx.Rows) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
