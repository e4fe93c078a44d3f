// Package analytics derives streaks, volume, and personal records from
// workout history. Everything here is a pure function of the log slice;
// empty input yields empty or zero output.
package analytics

import (
	"sort"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// PersonalRecord is the best performed set for one exercise, measured by
// weight times reps. Derived on demand, never stored.
type PersonalRecord struct {
	ExerciseName string    `json:"exercise_name"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Date         time.Time `json:"date"`
}

// Stats bundles the headline numbers shown on the dashboard.
type Stats struct {
	CurrentStreak int     `json:"current_streak"`
	TotalVolume   float64 `json:"total_volume"`
	WeeklyCount   int     `json:"weekly_count"`
	TotalWorkouts int     `json:"total_workouts"`
}

// Compute returns all headline stats for the given history.
func Compute(logs []models.WorkoutLog, now time.Time) Stats {
	return Stats{
		CurrentStreak: CurrentStreak(logs, now),
		TotalVolume:   TotalVolume(logs),
		WeeklyCount:   WeeklyCount(logs, now),
		TotalWorkouts: completedCount(logs),
	}
}

// CurrentStreak counts consecutive calendar-day buckets of completed
// workouts, scanning most-recent-first. A gap of more than two days — from
// now to the latest workout, or between successive workout days — breaks
// the streak.
func CurrentStreak(logs []models.WorkoutLog, now time.Time) int {
	days := completedDays(logs)
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := dayOf(now)
	if daysBetween(days[0], today) > 2 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) > 2 {
			break
		}
		streak++
	}
	return streak
}

// TotalVolume sums actual weight times actual reps over every performed set
// in history. Sets with missing actuals contribute zero.
func TotalVolume(logs []models.WorkoutLog) float64 {
	var total float64
	for _, l := range logs {
		for _, s := range l.Sets {
			total += s.Volume()
		}
	}
	return total
}

// WeeklyCount counts completed workouts within the trailing seven days.
func WeeklyCount(logs []models.WorkoutLog, now time.Time) int {
	cutoff := now.AddDate(0, 0, -7)
	count := 0
	for _, l := range logs {
		if l.Completed && l.Date.After(cutoff) && !l.Date.After(now) {
			count++
		}
	}
	return count
}

// PersonalRecords returns the best weight-times-reps set per exercise name
// across all history, ties broken by first encountered. The result is sorted
// by exercise name for stable output.
func PersonalRecords(logs []models.WorkoutLog) []PersonalRecord {
	best := make(map[string]PersonalRecord)
	for _, l := range logs {
		for _, s := range l.Sets {
			if s.ExerciseName == "" || s.ActualReps == nil || s.ActualWeight == nil {
				continue
			}
			score := s.Volume()
			if prev, ok := best[s.ExerciseName]; ok && score <= prev.Weight*float64(prev.Reps) {
				continue
			}
			best[s.ExerciseName] = PersonalRecord{
				ExerciseName: s.ExerciseName,
				Weight:       *s.ActualWeight,
				Reps:         *s.ActualReps,
				Date:         l.Date,
			}
		}
	}

	out := make([]PersonalRecord, 0, len(best))
	for _, pr := range best {
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExerciseName < out[j].ExerciseName })
	return out
}

func completedCount(logs []models.WorkoutLog) int {
	n := 0
	for _, l := range logs {
		if l.Completed {
			n++
		}
	}
	return n
}

// completedDays returns the distinct calendar days with a completed workout.
func completedDays(logs []models.WorkoutLog) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		d := dayOf(l.Date)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	return days
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
