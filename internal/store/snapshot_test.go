package store

import (
	"testing"
	"time"

	"github.com/claude/liftlog/internal/analytics"
	"github.com/claude/liftlog/internal/models"
)

func intPtr(n int) *int          { return &n }
func floatPtr(f float64) *float64 { return &f }

// TestExportImportRoundTrip verifies that importing an exported snapshot
// reproduces an observably identical program list, active program, and
// workout-log list.
func TestExportImportRoundTrip(t *testing.T) {
	s := New(nil, testLogger())
	p := s.AddProgram(testProgram("A"))
	s.SetActiveProgram(p.ID)
	s.AddWorkoutLog(models.WorkoutLog{
		ProgramID: p.ID,
		Date:      time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC),
		Completed: true,
		Sets: []models.WorkoutSet{
			{ID: "s1", ExerciseName: "Bench Press", ActualReps: intPtr(8), ActualWeight: floatPtr(135), Completed: true},
		},
	})

	data, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}

	restored := New(nil, testLogger())
	if err := restored.Import(data); err != nil {
		t.Fatalf("import of own export rejected: %v", err)
	}

	if got, want := len(restored.Programs()), len(s.Programs()); got != want {
		t.Errorf("programs = %d, want %d", got, want)
	}
	if got, want := restored.ActiveProgramID(), s.ActiveProgramID(); got != want {
		t.Errorf("active = %q, want %q", got, want)
	}
	if got, want := len(restored.WorkoutLogs()), len(s.WorkoutLogs()); got != want {
		t.Errorf("workout logs = %d, want %d", got, want)
	}
	if restored.Programs()[0].Name != "A" {
		t.Errorf("program name = %q, want A", restored.Programs()[0].Name)
	}
	if restored.WorkoutLogs()[0].Sets[0].ExerciseName != "Bench Press" {
		t.Error("performed set lost in round trip")
	}
}

// TestImportRejectsMalformed verifies that a document missing the required
// collections is rejected without mutating existing state.
func TestImportRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", "not json at all"},
		{"empty object", "{}"},
		{"missing workout_logs", `{"programs": []}`},
		{"missing programs", `{"workout_logs": []}`},
		{"wrong shape", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil, testLogger())
			s.AddProgram(testProgram("keep me"))

			if err := s.Import([]byte(tt.blob)); err == nil {
				t.Fatal("malformed import accepted")
			}
			if len(s.Programs()) != 1 || s.Programs()[0].Name != "keep me" {
				t.Error("existing state mutated by rejected import")
			}
		})
	}
}

// TestImportMinimalDocument verifies that a document exposing just the two
// required collections is accepted.
func TestImportMinimalDocument(t *testing.T) {
	s := New(nil, testLogger())
	blob := `{"programs": [{"id": "p1", "name": "Minimal"}], "workout_logs": []}`

	if err := s.Import([]byte(blob)); err != nil {
		t.Fatalf("minimal document rejected: %v", err)
	}
	if len(s.Programs()) != 1 || s.Programs()[0].Name != "Minimal" {
		t.Error("imported program missing")
	}
}

// TestExportedVolumeScenario builds the reference store — one "Test8"
// program (8-week hypertrophy, 4 days) and one finished workout with three
// completed sets at 10 reps x 135 — and checks the exported log volume.
func TestExportedVolumeScenario(t *testing.T) {
	s := New(nil, testLogger())
	p := s.AddProgram(models.Program{
		Name:          "Test8",
		DurationWeeks: 8,
		DaysPerWeek:   4,
		Goal:          models.GoalHypertrophy,
	})
	s.SetActiveProgram(p.ID)

	sets := make([]models.WorkoutSet, 3)
	for i := range sets {
		sets[i] = models.WorkoutSet{
			ExerciseName: "Squat",
			SetNumber:    i + 1,
			ActualReps:   intPtr(10),
			ActualWeight: floatPtr(135),
			Completed:    true,
		}
	}
	s.AddWorkoutLog(models.WorkoutLog{ProgramID: p.ID, Completed: true, Sets: sets})

	data, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}

	restored := New(nil, testLogger())
	if err := restored.Import(data); err != nil {
		t.Fatal(err)
	}

	if got := analytics.TotalVolume(restored.WorkoutLogs()); got != 4050 {
		t.Errorf("exported volume = %v, want 4050", got)
	}
}
