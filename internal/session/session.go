// Package session governs the single in-progress workout: start, per-set
// completion, finish or cancel. The working copy lives in the store's
// current-workout slot; history only ever grows through Finish.
package session

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/store"
	"github.com/google/uuid"
)

var (
	// ErrNoActiveWorkout is returned by mutations attempted while Idle.
	ErrNoActiveWorkout = errors.New("no workout in progress")
	// ErrSetNotFound is returned when a set id is not in the current workout.
	ErrSetNotFound = errors.New("set not found in current workout")
	// ErrInvalidRating is returned by Finish for ratings outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrNegativeActuals is returned by CompleteSet for negative reps/weight.
	ErrNegativeActuals = errors.New("actual reps and weight must be non-negative")
)

// Session is the active-workout state machine. Idle when the store has no
// current workout, Active otherwise.
type Session struct {
	store *store.Store
	log   *slog.Logger
	rest  *RestTimer
	now   func() time.Time
}

// New creates a session bound to the given store.
func New(s *store.Store, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		store: s,
		log:   log,
		rest:  NewRestTimer(),
		now:   time.Now,
	}
}

// Active reports whether a workout is in progress.
func (s *Session) Active() bool {
	return s.store.CurrentWorkout() != nil
}

// Current returns a copy of the in-progress workout, or nil when Idle.
func (s *Session) Current() *models.WorkoutLog {
	return s.store.CurrentWorkout()
}

// RestTimer returns the session's rest-timer sub-state.
func (s *Session) RestTimer() *RestTimer {
	return s.rest
}

// Start begins a new workout from the given prescribed sets. Every set is
// cloned with a fresh id and completed=false. Starting while a workout is
// already in progress replaces it — the previous working copy is discarded
// with a warning, never appended to history.
func (s *Session) Start(programID, workoutDayID string, prescribed []models.WorkoutSet) models.WorkoutLog {
	if cur := s.store.CurrentWorkout(); cur != nil {
		s.log.Warn("replacing in-progress workout", "discarded_id", cur.ID)
		s.rest.Stop()
	}

	log := models.WorkoutLog{
		ID:           uuid.NewString(),
		ProgramID:    programID,
		WorkoutDayID: workoutDayID,
		Date:         s.now(),
		Sets:         make([]models.WorkoutSet, len(prescribed)),
	}
	for i, set := range prescribed {
		performed := set
		performed.ID = uuid.NewString()
		performed.ActualReps = nil
		performed.ActualWeight = nil
		performed.RPE = nil
		performed.Completed = false
		log.Sets[i] = performed
	}

	s.store.SetCurrentWorkout(log)
	return log
}

// WorkoutUpdate carries a shallow merge into the current workout, e.g.
// swapping the set list of a freeform session.
type WorkoutUpdate struct {
	Notes *string
	Sets  *[]models.WorkoutSet
}

// UpdateCurrent shallow-merges update into the in-progress workout.
func (s *Session) UpdateCurrent(update WorkoutUpdate) error {
	ok := s.store.MutateCurrentWorkout(func(l *models.WorkoutLog) {
		if update.Notes != nil {
			l.Notes = *update.Notes
		}
		if update.Sets != nil {
			sets := make([]models.WorkoutSet, len(*update.Sets))
			copy(sets, *update.Sets)
			for i := range sets {
				if sets[i].ID == "" {
					sets[i].ID = uuid.NewString()
				}
			}
			l.Sets = sets
		}
	})
	if !ok {
		return ErrNoActiveWorkout
	}
	return nil
}

// CompleteSet marks the named set completed and records its actuals. Targets
// are not validated against — any non-negative values are accepted.
func (s *Session) CompleteSet(setID string, actualReps int, actualWeight float64, rpe *float64) error {
	if actualReps < 0 || actualWeight < 0 {
		return ErrNegativeActuals
	}
	found := false
	ok := s.store.MutateCurrentWorkout(func(l *models.WorkoutLog) {
		for i := range l.Sets {
			if l.Sets[i].ID != setID {
				continue
			}
			reps, weight := actualReps, actualWeight
			l.Sets[i].ActualReps = &reps
			l.Sets[i].ActualWeight = &weight
			if rpe != nil {
				v := *rpe
				l.Sets[i].RPE = &v
			}
			l.Sets[i].Completed = true
			found = true
			return
		}
	})
	if !ok {
		return ErrNoActiveWorkout
	}
	if !found {
		return ErrSetNotFound
	}
	return nil
}

// UncompleteSet clears the completed flag but keeps the recorded actuals —
// an idempotent toggle, not a data-erasing undo.
func (s *Session) UncompleteSet(setID string) error {
	found := false
	ok := s.store.MutateCurrentWorkout(func(l *models.WorkoutLog) {
		for i := range l.Sets {
			if l.Sets[i].ID == setID {
				l.Sets[i].Completed = false
				found = true
				return
			}
		}
	})
	if !ok {
		return ErrNoActiveWorkout
	}
	if !found {
		return ErrSetNotFound
	}
	return nil
}

// Finish computes the duration, marks the workout completed, and appends it
// to history. rating 0 means unrated; otherwise it must be 1-5.
func (s *Session) Finish(notes string, rating int) (models.WorkoutLog, error) {
	if rating != 0 && (rating < 1 || rating > 5) {
		return models.WorkoutLog{}, ErrInvalidRating
	}
	now := s.now()
	ok := s.store.MutateCurrentWorkout(func(l *models.WorkoutLog) {
		l.DurationMin = int(math.Round(now.Sub(l.Date).Minutes()))
		l.Notes = notes
		l.Rating = rating
		l.Completed = true
	})
	if !ok {
		return models.WorkoutLog{}, ErrNoActiveWorkout
	}
	s.rest.Stop()
	done, _ := s.store.CommitCurrentWorkout()
	return done, nil
}

// Cancel discards the in-progress workout without appending anything.
// Irrecoverable — confirmation is the caller's concern.
func (s *Session) Cancel() error {
	if !s.store.ClearCurrentWorkout() {
		return ErrNoActiveWorkout
	}
	s.rest.Stop()
	return nil
}
