package models

import "time"

// WorkoutSet is a single set, either prescribed (under a WorkoutDay template)
// or performed (under a WorkoutLog). The same shape serves both roles: a
// performed set carries actual reps/weight/RPE and a completed flag.
type WorkoutSet struct {
	ID           string  `json:"id"`
	ExerciseID   string  `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	SetNumber    int     `json:"set_number"`
	TargetReps   int     `json:"target_reps"`
	RepRange     string  `json:"rep_range,omitempty"` // e.g. "6-8"
	TargetWeight float64 `json:"target_weight"`
	Tempo        string  `json:"tempo,omitempty"`
	Intensity    string  `json:"intensity,omitempty"`
	Rest         string  `json:"rest,omitempty"` // free text, e.g. "2-3 min"
	Notes        string  `json:"notes,omitempty"`

	ActualReps   *int     `json:"actual_reps,omitempty"`
	ActualWeight *float64 `json:"actual_weight,omitempty"`
	RPE          *float64 `json:"rpe,omitempty"`
	Completed    bool     `json:"completed,omitempty"`
}

// Volume returns actual weight times actual reps, zero when either is unset.
func (s WorkoutSet) Volume() float64 {
	if s.ActualReps == nil || s.ActualWeight == nil {
		return 0
	}
	return *s.ActualWeight * float64(*s.ActualReps)
}

// WorkoutLog is one concrete training session. Completed=false marks the
// single in-progress "current workout"; once finished it is history. Date is
// the recency field used for sync conflict resolution.
type WorkoutLog struct {
	ID           string       `json:"id"`
	ProgramID    string       `json:"program_id,omitempty"`
	WorkoutDayID string       `json:"workout_day_id,omitempty"`
	Date         time.Time    `json:"date"`
	DurationMin  int          `json:"duration_min"`
	Sets         []WorkoutSet `json:"sets"`
	Notes        string       `json:"notes,omitempty"`
	Rating       int          `json:"rating,omitempty"` // 1-5, 0 = unrated
	Completed    bool         `json:"completed"`
}

// Clone returns a deep copy of the log.
func (l WorkoutLog) Clone() WorkoutLog {
	out := l
	out.Sets = make([]WorkoutSet, len(l.Sets))
	for i, s := range l.Sets {
		out.Sets[i] = s.cloneActuals()
	}
	return out
}

func (s WorkoutSet) cloneActuals() WorkoutSet {
	out := s
	if s.ActualReps != nil {
		v := *s.ActualReps
		out.ActualReps = &v
	}
	if s.ActualWeight != nil {
		v := *s.ActualWeight
		out.ActualWeight = &v
	}
	if s.RPE != nil {
		v := *s.RPE
		out.RPE = &v
	}
	return out
}
