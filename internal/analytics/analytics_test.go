package analytics

import (
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func completedLog(date time.Time, sets ...models.WorkoutSet) models.WorkoutLog {
	return models.WorkoutLog{Date: date, Completed: true, Sets: sets}
}

func performedSet(exercise string, reps int, weight float64) models.WorkoutSet {
	return models.WorkoutSet{
		ExerciseName: exercise,
		ActualReps:   intPtr(reps),
		ActualWeight: floatPtr(weight),
		Completed:    true,
	}
}

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return now.AddDate(0, 0, offset) }

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name string
		days []int // day offsets from now with a completed workout
		want int
	}{
		{"empty", nil, 0},
		{"single today", []int{0}, 1},
		{"consecutive days", []int{0, -1, -2}, 3},
		{"two-day gaps survive", []int{0, -2, -4}, 3},
		{"three-day gap breaks", []int{0, -1, -5, -6}, 2},
		{"stale history", []int{-5, -6, -7}, 0},
		{"two days ago still counts", []int{-2, -3}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs []models.WorkoutLog
			for _, off := range tt.days {
				logs = append(logs, completedLog(day(off)))
			}
			if got := CurrentStreak(logs, now); got != tt.want {
				t.Errorf("CurrentStreak(%v) = %d, want %d", tt.days, got, tt.want)
			}
		})
	}
}

func TestCurrentStreakIgnoresIncomplete(t *testing.T) {
	logs := []models.WorkoutLog{
		{Date: day(0), Completed: false},
	}
	if got := CurrentStreak(logs, now); got != 0 {
		t.Errorf("streak = %d, want 0 for incomplete-only history", got)
	}
}

func TestCurrentStreakBucketsSameDay(t *testing.T) {
	// Two workouts on the same calendar day count as one bucket.
	logs := []models.WorkoutLog{
		completedLog(day(0).Add(-2 * time.Hour)),
		completedLog(day(0)),
		completedLog(day(-1)),
	}
	if got := CurrentStreak(logs, now); got != 2 {
		t.Errorf("streak = %d, want 2", got)
	}
}

func TestTotalVolume(t *testing.T) {
	logs := []models.WorkoutLog{
		completedLog(day(0),
			performedSet("Squat", 5, 225),
			performedSet("Squat", 5, 225),
			models.WorkoutSet{ExerciseName: "Bench Press"}, // no actuals → zero
		),
		completedLog(day(-1),
			performedSet("Deadlift", 3, 315),
		),
	}

	want := 5*225.0 + 5*225.0 + 3*315.0
	if got := TotalVolume(logs); got != want {
		t.Errorf("TotalVolume = %v, want %v", got, want)
	}
}

func TestTotalVolumeEmpty(t *testing.T) {
	if got := TotalVolume(nil); got != 0 {
		t.Errorf("TotalVolume(nil) = %v, want 0", got)
	}
}

func TestWeeklyCount(t *testing.T) {
	logs := []models.WorkoutLog{
		completedLog(day(0)),
		completedLog(day(-3)),
		completedLog(day(-6)),
		completedLog(day(-8)),                  // outside the window
		{Date: day(-1), Completed: false},      // in-progress doesn't count
	}
	if got := WeeklyCount(logs, now); got != 3 {
		t.Errorf("WeeklyCount = %d, want 3", got)
	}
}

func TestPersonalRecords(t *testing.T) {
	logs := []models.WorkoutLog{
		completedLog(day(-10), performedSet("Squat", 5, 200)),  // 1000
		completedLog(day(-5), performedSet("Squat", 5, 225)),   // 1125 — the PR
		completedLog(day(-1),
			performedSet("Squat", 3, 250),                      // 750
			performedSet("Bench Press", 8, 135),                // 1080
		),
	}

	records := PersonalRecords(logs)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	// Sorted by exercise name.
	if records[0].ExerciseName != "Bench Press" || records[1].ExerciseName != "Squat" {
		t.Fatalf("unexpected order: %v, %v", records[0].ExerciseName, records[1].ExerciseName)
	}
	squat := records[1]
	if squat.Weight != 225 || squat.Reps != 5 {
		t.Errorf("squat PR = %.0fx%d, want 225x5", squat.Weight, squat.Reps)
	}
	if !squat.Date.Equal(day(-5)) {
		t.Errorf("squat PR date = %v, want %v", squat.Date, day(-5))
	}
}

// TestPersonalRecordsTieKeepsFirst verifies ties break toward the first
// encountered set.
func TestPersonalRecordsTieKeepsFirst(t *testing.T) {
	logs := []models.WorkoutLog{
		completedLog(day(-2), performedSet("Squat", 5, 225)),
		completedLog(day(-1), performedSet("Squat", 5, 225)), // same score, later
	}

	records := PersonalRecords(logs)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if !records[0].Date.Equal(day(-2)) {
		t.Errorf("tie kept later set: date = %v, want %v", records[0].Date, day(-2))
	}
}

func TestPersonalRecordsEmpty(t *testing.T) {
	if got := PersonalRecords(nil); len(got) != 0 {
		t.Errorf("PersonalRecords(nil) = %v, want empty", got)
	}
}

func TestComputeBundlesStats(t *testing.T) {
	logs := []models.WorkoutLog{
		completedLog(day(0), performedSet("Squat", 10, 135)),
	}
	stats := Compute(logs, now)

	if stats.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1", stats.CurrentStreak)
	}
	if stats.TotalVolume != 1350 {
		t.Errorf("volume = %v, want 1350", stats.TotalVolume)
	}
	if stats.WeeklyCount != 1 {
		t.Errorf("weekly = %d, want 1", stats.WeeklyCount)
	}
	if stats.TotalWorkouts != 1 {
		t.Errorf("total = %d, want 1", stats.TotalWorkouts)
	}
}
