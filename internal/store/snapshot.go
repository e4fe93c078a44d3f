package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// ErrMalformedSnapshot is returned by Import for documents missing the
// required top-level collections. Existing state is left untouched.
var ErrMalformedSnapshot = errors.New("snapshot missing programs or workout_logs")

// Export serializes the full visible state to the versioned backup format.
func (s *Store) Export() ([]byte, error) {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Import replaces state wholesale from an exported snapshot. The document
// must expose at least a programs collection and a workout-logs collection;
// anything else is rejected atomically. This is the manual backup/restore
// path — it never merges.
func (s *Store) Import(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	if _, ok := raw["programs"]; !ok {
		return ErrMalformedSnapshot
	}
	if _, ok := raw["workout_logs"]; !ok {
		return ErrMalformedSnapshot
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}

	s.mu.Lock()
	s.restoreLocked(snap)
	s.commit()
	s.mu.Unlock()
	return nil
}
