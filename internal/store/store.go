// Package store holds the authoritative client-side copy of all entities.
// Every committed mutation is synchronously written through the Persister
// before the call returns, and published to subscribers so the sync engine
// can enqueue pushes without the store knowing about the network.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// Persister durably saves the full snapshot. Implementations must be safe to
// call from a single goroutine at a time (the store serializes calls).
type Persister interface {
	Persist(snap models.Snapshot) error
}

// EventKind identifies a committed store mutation.
type EventKind int

const (
	EventProgramUpserted EventKind = iota
	EventProgramDeleted
	EventProgramActivated
	EventWorkoutUpserted
	EventWorkoutDeleted
)

// Event describes a committed mutation. Program/Workout are set for upserts,
// ID for deletes and activation.
type Event struct {
	Kind    EventKind
	ID      string
	Program *models.Program
	Workout *models.WorkoutLog
}

// Store is the in-memory, durably-persisted state container. All methods are
// safe for concurrent use; each mutation runs to completion before the next.
type Store struct {
	mu sync.Mutex

	programs        []models.Program
	activeProgramID string
	workoutLogs     []models.WorkoutLog
	conversations   []models.Conversation
	activeConvID    string
	current         *models.WorkoutLog // in-progress workout, ephemeral

	persister Persister
	subs      []func(Event)
	log       *slog.Logger

	now func() time.Time
}

// New creates an empty store. persister may be nil (nothing is saved).
func New(persister Persister, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		persister: persister,
		log:       log,
		now:       time.Now,
	}
}

// Subscribe registers fn to be called after every committed mutation.
// Subscribers run synchronously, outside the store lock, in registration
// order.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// commit persists the snapshot while still holding the lock, then returns the
// subscriber list for notification after unlock.
func (s *Store) commit() []func(Event) {
	if s.persister != nil {
		if err := s.persister.Persist(s.snapshotLocked()); err != nil {
			s.log.Warn("persist failed", "error", err)
		}
	}
	return s.subs
}

func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}

// --- Programs ---

// AddProgram assigns a fresh id and timestamps, appends the program, and
// returns the stored copy. Nested days and sets receive ids when missing.
func (s *Store) AddProgram(p models.Program) models.Program {
	s.mu.Lock()
	now := s.now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	assignProgramIDs(&p)
	s.programs = append(s.programs, p.Clone())
	subs := s.commit()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventProgramUpserted, ID: p.ID, Program: &p})
	return p
}

// ProgramUpdate carries the fields of a partial program update. Nil fields
// are left unchanged.
type ProgramUpdate struct {
	Name          *string
	Description   *string
	DurationWeeks *int
	DaysPerWeek   *int
	Goal          *models.Goal
	Days          *[]models.WorkoutDay
}

// UpdateProgram merges update into the matching program and refreshes
// UpdatedAt. Returns false (not an error) when the id is absent.
func (s *Store) UpdateProgram(id string, update ProgramUpdate) (models.Program, bool) {
	s.mu.Lock()
	idx := s.programIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Program{}, false
	}
	p := &s.programs[idx]
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.DurationWeeks != nil {
		p.DurationWeeks = *update.DurationWeeks
	}
	if update.DaysPerWeek != nil {
		p.DaysPerWeek = *update.DaysPerWeek
	}
	if update.Goal != nil {
		p.Goal = *update.Goal
	}
	if update.Days != nil {
		days := make([]models.WorkoutDay, len(*update.Days))
		for i, d := range *update.Days {
			days[i] = d.Clone()
		}
		p.Days = days
		assignProgramIDs(p)
	}
	p.UpdatedAt = s.now()
	out := p.Clone()
	subs := s.commit()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventProgramUpserted, ID: out.ID, Program: &out})
	return out, true
}

// DeleteProgram removes the program; embedded days go with it. Clears the
// active-program pointer when the deleted program was active.
func (s *Store) DeleteProgram(id string) bool {
	s.mu.Lock()
	idx := s.programIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.programs = append(s.programs[:idx], s.programs[idx+1:]...)
	if s.activeProgramID == id {
		s.activeProgramID = ""
	}
	subs := s.commit()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventProgramDeleted, ID: id})
	return true
}

// SetActiveProgram marks the program with the given id active; the empty
// string clears the pointer. Returns false when a non-empty id is unknown.
func (s *Store) SetActiveProgram(id string) bool {
	s.mu.Lock()
	if id != "" && s.programIndexLocked(id) < 0 {
		s.mu.Unlock()
		return false
	}
	s.activeProgramID = id
	subs := s.commit()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventProgramActivated, ID: id})
	return true
}

// Programs returns copies of all programs in insertion order.
func (s *Store) Programs() []models.Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Program, len(s.programs))
	for i, p := range s.programs {
		out[i] = p.Clone()
	}
	return out
}

// Program returns a copy of the program with the given id.
func (s *Store) Program(id string) (models.Program, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.programIndexLocked(id)
	if idx < 0 {
		return models.Program{}, false
	}
	return s.programs[idx].Clone(), true
}

// ActiveProgramID returns the id of the active program, or "".
func (s *Store) ActiveProgramID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeProgramID
}

// ActiveProgram returns a copy of the active program, or nil.
func (s *Store) ActiveProgram() *models.Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.programIndexLocked(s.activeProgramID)
	if idx < 0 {
		return nil
	}
	p := s.programs[idx].Clone()
	return &p
}

func (s *Store) programIndexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.programs {
		if s.programs[i].ID == id {
			return i
		}
	}
	return -1
}

func assignProgramIDs(p *models.Program) {
	for i := range p.Days {
		if p.Days[i].ID == "" {
			p.Days[i].ID = uuid.NewString()
		}
		for j := range p.Days[i].Sets {
			if p.Days[i].Sets[j].ID == "" {
				p.Days[i].Sets[j].ID = uuid.NewString()
			}
		}
	}
}

// --- Workout logs ---

// AddWorkoutLog assigns a fresh id (and date, when zero) and appends the log
// to history.
func (s *Store) AddWorkoutLog(l models.WorkoutLog) models.WorkoutLog {
	s.mu.Lock()
	l.ID = uuid.NewString()
	if l.Date.IsZero() {
		l.Date = s.now()
	}
	s.workoutLogs = append(s.workoutLogs, l.Clone())
	subs := s.commit()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventWorkoutUpserted, ID: l.ID, Workout: &l})
	return l
}

// WorkoutUpdate carries the fields of a partial workout-log update. History
// is immutable except for these append-only corrections.
type WorkoutUpdate struct {
	Notes       *string
	Rating      *int
	DurationMin *int
	Sets        *[]models.WorkoutSet
}

// UpdateWorkoutLog merges update into the matching log. Returns false when
// the id is absent.
func (s *Store) UpdateWorkoutLog(id string, update WorkoutUpdate) (models.WorkoutLog, bool) {
	s.mu.Lock()
	idx := s.workoutIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.WorkoutLog{}, false
	}
	l := &s.workoutLogs[idx]
	if update.Notes != nil {
		l.Notes = *update.Notes
	}
	if update.Rating != nil {
		l.Rating = *update.Rating
	}
	if update.DurationMin != nil {
		l.DurationMin = *update.DurationMin
	}
	if update.Sets != nil {
		l.Sets = (&models.WorkoutLog{Sets: *update.Sets}).Clone().Sets
	}
	out := l.Clone()
	subs := s.commit()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventWorkoutUpserted, ID: out.ID, Workout: &out})
	return out, true
}

// DeleteWorkoutLog removes the log with the given id.
func (s *Store) DeleteWorkoutLog(id string) bool {
	s.mu.Lock()
	idx := s.workoutIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.workoutLogs = append(s.workoutLogs[:idx], s.workoutLogs[idx+1:]...)
	subs := s.commit()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventWorkoutDeleted, ID: id})
	return true
}

// WorkoutLogs returns copies of all logged workouts in insertion order.
func (s *Store) WorkoutLogs() []models.WorkoutLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WorkoutLog, len(s.workoutLogs))
	for i, l := range s.workoutLogs {
		out[i] = l.Clone()
	}
	return out
}

func (s *Store) workoutIndexLocked(id string) int {
	for i := range s.workoutLogs {
		if s.workoutLogs[i].ID == id {
			return i
		}
	}
	return -1
}

// --- Current workout (ephemeral, owned by the session state machine) ---

// SetCurrentWorkout replaces the in-progress workout. Not persisted — an
// in-progress session does not survive a restart.
func (s *Store) SetCurrentWorkout(l models.WorkoutLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := l.Clone()
	s.current = &c
}

// CurrentWorkout returns a copy of the in-progress workout, or nil.
func (s *Store) CurrentWorkout() *models.WorkoutLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	c := s.current.Clone()
	return &c
}

// MutateCurrentWorkout applies fn to the in-progress workout in place.
// Returns false when no workout is in progress.
func (s *Store) MutateCurrentWorkout(fn func(*models.WorkoutLog)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	fn(s.current)
	return true
}

// ClearCurrentWorkout discards the in-progress workout without appending
// anything to history.
func (s *Store) ClearCurrentWorkout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	s.current = nil
	return true
}

// CommitCurrentWorkout moves the in-progress workout into history and clears
// the pointer. This is the only path by which a log becomes permanent.
func (s *Store) CommitCurrentWorkout() (models.WorkoutLog, bool) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return models.WorkoutLog{}, false
	}
	done := s.current.Clone()
	s.workoutLogs = append(s.workoutLogs, done)
	s.current = nil
	out := done.Clone()
	subs := s.commit()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventWorkoutUpserted, ID: out.ID, Workout: &out})
	return out, true
}

// --- Conversations ---

// StartConversation creates a new conversation and marks it active.
func (s *Store) StartConversation(title string) models.Conversation {
	s.mu.Lock()
	now := s.now()
	c := models.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations = append(s.conversations, c.Clone())
	s.activeConvID = c.ID
	s.commit()
	s.mu.Unlock()
	return c
}

// AppendMessage appends a role-tagged message to the given conversation.
// Returns false when the conversation is unknown.
func (s *Store) AppendMessage(convID string, role models.ChatRole, content string) (models.ChatMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.conversations {
		if s.conversations[i].ID != convID {
			continue
		}
		now := s.now()
		msg := models.ChatMessage{
			ID:        uuid.NewString(),
			Role:      role,
			Content:   content,
			CreatedAt: now,
		}
		s.conversations[i].Messages = append(s.conversations[i].Messages, msg)
		s.conversations[i].UpdatedAt = now
		s.commit()
		return msg, true
	}
	return models.ChatMessage{}, false
}

// Conversations returns copies of all conversations in insertion order.
func (s *Store) Conversations() []models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = c.Clone()
	}
	return out
}

// ActiveConversation returns a copy of the conversation shown by default,
// or nil.
func (s *Store) ActiveConversation() *models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.conversations {
		if s.conversations[i].ID == s.activeConvID {
			c := s.conversations[i].Clone()
			return &c
		}
	}
	return nil
}

// --- Snapshots ---

func (s *Store) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		Version:         models.SnapshotVersion,
		ExportedAt:      s.now(),
		Programs:        make([]models.Program, len(s.programs)),
		ActiveProgramID: s.activeProgramID,
		WorkoutLogs:     make([]models.WorkoutLog, len(s.workoutLogs)),
		Conversations:   make([]models.Conversation, len(s.conversations)),
	}
	for i, p := range s.programs {
		snap.Programs[i] = p.Clone()
	}
	for i, l := range s.workoutLogs {
		snap.WorkoutLogs[i] = l.Clone()
	}
	for i, c := range s.conversations {
		snap.Conversations[i] = c.Clone()
	}
	return snap
}

// Snapshot returns a deep copy of the full visible state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Restore replaces all state from a previously persisted snapshot without
// publishing events. An active-program pointer that no longer resolves is
// cleared.
func (s *Store) Restore(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked(snap)
}

func (s *Store) restoreLocked(snap models.Snapshot) {
	s.programs = make([]models.Program, len(snap.Programs))
	for i, p := range snap.Programs {
		s.programs[i] = p.Clone()
	}
	s.workoutLogs = make([]models.WorkoutLog, len(snap.WorkoutLogs))
	for i, l := range snap.WorkoutLogs {
		s.workoutLogs[i] = l.Clone()
	}
	s.conversations = make([]models.Conversation, len(snap.Conversations))
	for i, c := range snap.Conversations {
		s.conversations[i] = c.Clone()
	}
	s.activeProgramID = snap.ActiveProgramID
	if s.programIndexLocked(s.activeProgramID) < 0 {
		s.activeProgramID = ""
	}
}

// ApplySyncState replaces the synced collections wholesale (used when
// adopting a remote snapshot or after a manual pull). The replacement is
// persisted but publishes no per-entity events, so it never echoes back into
// the push queue.
func (s *Store) ApplySyncState(st models.SyncState) {
	s.mu.Lock()
	s.restoreLocked(models.Snapshot{
		Programs:        st.Programs,
		ActiveProgramID: st.ActiveProgramID,
		WorkoutLogs:     st.WorkoutLogs,
		Conversations:   st.Conversations,
	})
	s.commit()
	s.mu.Unlock()
}

// SyncState returns the synced collections as a wire document.
func (s *Store) SyncState() models.SyncState {
	snap := s.Snapshot()
	return models.SyncState{
		Programs:        snap.Programs,
		ActiveProgramID: snap.ActiveProgramID,
		WorkoutLogs:     snap.WorkoutLogs,
		Conversations:   snap.Conversations,
	}
}
