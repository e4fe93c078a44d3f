package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/analytics"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/store"
)

// DataSource abstracts the local data layer for MCP tools.
type DataSource interface {
	Programs(ctx context.Context) ([]models.Program, error)
	ActiveProgram(ctx context.Context) (*models.Program, error)
	WorkoutHistory(ctx context.Context, start, end time.Time) ([]models.WorkoutLog, error)
	PersonalRecords(ctx context.Context) ([]analytics.PersonalRecord, error)
	TrainingStats(ctx context.Context) (*analytics.Stats, error)
}

// StoreSource adapts the local store (plus the analytics derivations) to the
// DataSource interface.
type StoreSource struct {
	Store *store.Store
}

// Compile-time check: *StoreSource satisfies DataSource.
var _ DataSource = (*StoreSource)(nil)

func (s *StoreSource) Programs(ctx context.Context) ([]models.Program, error) {
	return s.Store.Programs(), nil
}

func (s *StoreSource) ActiveProgram(ctx context.Context) (*models.Program, error) {
	return s.Store.ActiveProgram(), nil
}

func (s *StoreSource) WorkoutHistory(ctx context.Context, start, end time.Time) ([]models.WorkoutLog, error) {
	var out []models.WorkoutLog
	for _, l := range s.Store.WorkoutLogs() {
		if l.Date.Before(start) || !l.Date.Before(end) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *StoreSource) PersonalRecords(ctx context.Context) ([]analytics.PersonalRecord, error) {
	return analytics.PersonalRecords(s.Store.WorkoutLogs()), nil
}

func (s *StoreSource) TrainingStats(ctx context.Context) (*analytics.Stats, error) {
	stats := analytics.Compute(s.Store.WorkoutLogs(), time.Now())
	return &stats, nil
}
