package models

import "time"

// Goal classifies what a training program is built for.
type Goal string

const (
	GoalStrength     Goal = "strength"
	GoalHypertrophy  Goal = "hypertrophy"
	GoalPowerlifting Goal = "powerlifting"
	GoalBodybuilding Goal = "bodybuilding"
	GoalCrossfit     Goal = "crossfit"
	GoalHybrid       Goal = "hybrid"
	GoalGeneral      Goal = "general"
)

// Valid reports whether g is one of the known goals.
func (g Goal) Valid() bool {
	switch g {
	case GoalStrength, GoalHypertrophy, GoalPowerlifting, GoalBodybuilding,
		GoalCrossfit, GoalHybrid, GoalGeneral:
		return true
	}
	return false
}

// Program is a multi-week training template. At most one program is active
// per user; UpdatedAt is the recency field used for sync conflict resolution.
type Program struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	DurationWeeks int          `json:"duration_weeks"`
	DaysPerWeek   int          `json:"days_per_week"`
	Goal          Goal         `json:"goal"`
	Days          []WorkoutDay `json:"days"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Clone returns a deep copy of the program.
func (p Program) Clone() Program {
	out := p
	out.Days = make([]WorkoutDay, len(p.Days))
	for i, d := range p.Days {
		out.Days[i] = d.Clone()
	}
	return out
}

// WorkoutDay is one named training day inside a program. It has no lifecycle
// of its own — it is embedded in, and deleted with, its program.
type WorkoutDay struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	DayOfWeek int          `json:"day_of_week"` // 0 = Sunday
	Sets      []WorkoutSet `json:"sets"`
	Notes     string       `json:"notes,omitempty"`
}

// Clone returns a deep copy of the day.
func (d WorkoutDay) Clone() WorkoutDay {
	out := d
	out.Sets = make([]WorkoutSet, len(d.Sets))
	copy(out.Sets, d.Sets)
	return out
}
