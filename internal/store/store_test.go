package store

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingPersister counts Persist calls and keeps the last snapshot.
type recordingPersister struct {
	calls int
	last  models.Snapshot
}

func (p *recordingPersister) Persist(snap models.Snapshot) error {
	p.calls++
	p.last = snap
	return nil
}

func testProgram(name string) models.Program {
	return models.Program{
		Name:          name,
		DurationWeeks: 8,
		DaysPerWeek:   4,
		Goal:          models.GoalHypertrophy,
		Days: []models.WorkoutDay{
			{
				Name:      "Push",
				DayOfWeek: 1,
				Sets: []models.WorkoutSet{
					{ExerciseName: "Bench Press", SetNumber: 1, TargetReps: 8, TargetWeight: 135},
					{ExerciseName: "Bench Press", SetNumber: 2, TargetReps: 8, TargetWeight: 135},
				},
			},
		},
	}
}

func TestAddProgramAssignsIDs(t *testing.T) {
	s := New(nil, testLogger())

	p := s.AddProgram(testProgram("PPL"))

	if p.ID == "" {
		t.Error("program ID not assigned")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("timestamps not assigned")
	}
	if p.Days[0].ID == "" {
		t.Error("day ID not assigned")
	}
	for i, set := range p.Days[0].Sets {
		if set.ID == "" {
			t.Errorf("set %d ID not assigned", i)
		}
	}
}

// TestNoDuplicateProgramIDs verifies that any sequence of add/update/delete
// never produces two programs with the same id.
func TestNoDuplicateProgramIDs(t *testing.T) {
	s := New(nil, testLogger())

	a := s.AddProgram(testProgram("A"))
	b := s.AddProgram(testProgram("B"))
	name := "B2"
	s.UpdateProgram(b.ID, ProgramUpdate{Name: &name})
	s.DeleteProgram(a.ID)
	s.AddProgram(testProgram("C"))

	seen := make(map[string]bool)
	for _, p := range s.Programs() {
		if seen[p.ID] {
			t.Fatalf("duplicate program id %s", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestUpdateProgramRefreshesUpdatedAt(t *testing.T) {
	s := New(nil, testLogger())
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	p := s.AddProgram(testProgram("A"))

	s.now = func() time.Time { return base.Add(time.Hour) }
	name := "A2"
	updated, ok := s.UpdateProgram(p.ID, ProgramUpdate{Name: &name})
	if !ok {
		t.Fatal("update reported not found")
	}
	if updated.Name != "A2" {
		t.Errorf("name = %q, want A2", updated.Name)
	}
	if !updated.UpdatedAt.After(p.UpdatedAt) {
		t.Errorf("updatedAt not refreshed: %v <= %v", updated.UpdatedAt, p.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("createdAt changed: %v != %v", updated.CreatedAt, p.CreatedAt)
	}
}

func TestUpdateProgramAbsentIsNoOp(t *testing.T) {
	s := New(nil, testLogger())
	s.AddProgram(testProgram("A"))

	name := "X"
	if _, ok := s.UpdateProgram("no-such-id", ProgramUpdate{Name: &name}); ok {
		t.Error("update of absent id reported success")
	}
	if got := s.Programs()[0].Name; got != "A" {
		t.Errorf("existing program mutated: name = %q", got)
	}
}

func TestActiveProgramInvariant(t *testing.T) {
	s := New(nil, testLogger())
	a := s.AddProgram(testProgram("A"))
	b := s.AddProgram(testProgram("B"))

	if !s.SetActiveProgram(a.ID) {
		t.Fatal("SetActiveProgram(a) failed")
	}
	if !s.SetActiveProgram(b.ID) {
		t.Fatal("SetActiveProgram(b) failed")
	}
	if got := s.ActiveProgramID(); got != b.ID {
		t.Errorf("active = %s, want %s", got, b.ID)
	}

	// Switching active must not alter the previous active program.
	if got, _ := s.Program(a.ID); got.Name != "A" {
		t.Errorf("previous active program mutated: %q", got.Name)
	}

	if s.SetActiveProgram("no-such-id") {
		t.Error("activating unknown id reported success")
	}
	if got := s.ActiveProgramID(); got != b.ID {
		t.Errorf("active changed by failed activation: %s", got)
	}

	if !s.SetActiveProgram("") {
		t.Fatal("clearing active failed")
	}
	if s.ActiveProgram() != nil {
		t.Error("active program not cleared")
	}
}

func TestDeleteProgramClearsActivePointer(t *testing.T) {
	s := New(nil, testLogger())
	a := s.AddProgram(testProgram("A"))
	s.SetActiveProgram(a.ID)

	if !s.DeleteProgram(a.ID) {
		t.Fatal("delete failed")
	}
	if got := s.ActiveProgramID(); got != "" {
		t.Errorf("active pointer = %q after deleting active program, want empty", got)
	}
	if len(s.Programs()) != 0 {
		t.Errorf("programs remaining = %d, want 0", len(s.Programs()))
	}
}

func TestEveryMutationPersists(t *testing.T) {
	p := &recordingPersister{}
	s := New(p, testLogger())

	prog := s.AddProgram(testProgram("A"))
	name := "A2"
	s.UpdateProgram(prog.ID, ProgramUpdate{Name: &name})
	s.SetActiveProgram(prog.ID)
	log := s.AddWorkoutLog(models.WorkoutLog{Completed: true})
	s.DeleteWorkoutLog(log.ID)
	s.DeleteProgram(prog.ID)

	if p.calls != 6 {
		t.Errorf("persist calls = %d, want 6", p.calls)
	}
}

func TestSubscribersSeeCommittedMutations(t *testing.T) {
	s := New(nil, testLogger())

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	prog := s.AddProgram(testProgram("A"))
	s.SetActiveProgram(prog.ID)
	s.DeleteProgram(prog.ID)

	want := []EventKind{EventProgramUpserted, EventProgramActivated, EventProgramDeleted}
	if len(events) != len(want) {
		t.Fatalf("events = %d, want %d", len(events), len(want))
	}
	for i, kind := range want {
		if events[i].Kind != kind {
			t.Errorf("event %d kind = %v, want %v", i, events[i].Kind, kind)
		}
	}
}

func TestStoreHandsOutCopies(t *testing.T) {
	s := New(nil, testLogger())
	p := s.AddProgram(testProgram("A"))

	got, _ := s.Program(p.ID)
	got.Days[0].Sets[0].ExerciseName = "Squat"

	again, _ := s.Program(p.ID)
	if again.Days[0].Sets[0].ExerciseName != "Bench Press" {
		t.Error("mutation through returned copy leaked into the store")
	}
}

func TestCurrentWorkoutLifecycle(t *testing.T) {
	s := New(nil, testLogger())

	if s.CurrentWorkout() != nil {
		t.Fatal("fresh store has a current workout")
	}

	s.SetCurrentWorkout(models.WorkoutLog{ID: "w1", Date: time.Now()})
	if cur := s.CurrentWorkout(); cur == nil || cur.ID != "w1" {
		t.Fatal("current workout not set")
	}

	// Commit moves it into history exactly once.
	done, ok := s.CommitCurrentWorkout()
	if !ok {
		t.Fatal("commit failed")
	}
	if done.ID != "w1" {
		t.Errorf("committed id = %s, want w1", done.ID)
	}
	if s.CurrentWorkout() != nil {
		t.Error("current workout not cleared after commit")
	}
	if len(s.WorkoutLogs()) != 1 {
		t.Errorf("history length = %d, want 1", len(s.WorkoutLogs()))
	}

	if _, ok := s.CommitCurrentWorkout(); ok {
		t.Error("second commit succeeded with no current workout")
	}
}

func TestConversationAppend(t *testing.T) {
	s := New(nil, testLogger())

	c := s.StartConversation("coaching")
	if _, ok := s.AppendMessage(c.ID, models.RoleUser, "how much rest between sets?"); !ok {
		t.Fatal("append to known conversation failed")
	}
	if _, ok := s.AppendMessage("no-such-id", models.RoleAssistant, "..."); ok {
		t.Error("append to unknown conversation succeeded")
	}

	active := s.ActiveConversation()
	if active == nil {
		t.Fatal("no active conversation")
	}
	if len(active.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(active.Messages))
	}
	if active.Messages[0].Role != models.RoleUser {
		t.Errorf("role = %s, want user", active.Messages[0].Role)
	}
}
