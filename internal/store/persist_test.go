package store

import (
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// TestStateDBRoundTrip verifies that a snapshot survives close and reopen of
// the SQLite state database.
func TestStateDBRoundTrip(t *testing.T) {
	dir := t.TempDir()

	db, err := OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}

	snap := models.Snapshot{
		Version:    models.SnapshotVersion,
		ExportedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Programs: []models.Program{
			{ID: "p1", Name: "A", Goal: models.GoalStrength},
		},
		ActiveProgramID: "p1",
		WorkoutLogs: []models.WorkoutLog{
			{ID: "w1", Date: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC), Completed: true},
		},
	}
	if err := db.Persist(snap); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	loaded, err := db.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil {
		t.Fatal("no snapshot after reopen")
	}
	if len(loaded.Programs) != 1 || loaded.Programs[0].Name != "A" {
		t.Error("programs lost across reopen")
	}
	if loaded.ActiveProgramID != "p1" {
		t.Errorf("active = %q, want p1", loaded.ActiveProgramID)
	}
	if len(loaded.WorkoutLogs) != 1 {
		t.Errorf("workout logs = %d, want 1", len(loaded.WorkoutLogs))
	}
}

// TestStateDBLoadEmpty verifies that a fresh database reports no snapshot
// rather than an error.
func TestStateDBLoadEmpty(t *testing.T) {
	db, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	loaded, err := db.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded != nil {
		t.Error("fresh database returned a snapshot")
	}
}

// TestStateDBPersistOverwrites verifies the single-row snapshot semantics:
// the latest write wins.
func TestStateDBPersistOverwrites(t *testing.T) {
	db, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.Persist(models.Snapshot{Programs: []models.Program{{ID: "p1", Name: "old"}}}); err != nil {
		t.Fatal(err)
	}
	if err := db.Persist(models.Snapshot{Programs: []models.Program{{ID: "p1", Name: "new"}}}); err != nil {
		t.Fatal(err)
	}

	loaded, err := db.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Programs[0].Name != "new" {
		t.Errorf("name = %q, want new", loaded.Programs[0].Name)
	}
}
