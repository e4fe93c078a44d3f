package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/claude/liftlog/internal/store"
)

// Reconciler drives the merge protocol between the local store and the
// remote collaborator. One reconcile pass runs at a time; overlapping
// triggers coalesce into no-ops. Individual mutation pushes flow through a
// buffered outbound queue so local mutation latency never couples to network
// latency.
type Reconciler struct {
	store  *store.Store
	remote Remote
	owner  string
	log    *slog.Logger

	busy    atomic.Bool
	enabled atomic.Bool

	mu     sync.Mutex
	status Status

	queue chan store.Event
	done  chan struct{}
}

// queueSize bounds the outbound push queue. A dropped push is superseded by
// the next reconcile pass, matching the no-retry policy.
const queueSize = 64

// New creates a reconciler for the given owner identity.
func New(s *store.Store, remote Remote, owner string, log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	r := &Reconciler{
		store:  s,
		remote: remote,
		owner:  owner,
		log:    log,
		status: StatusIdle,
		queue:  make(chan store.Event, queueSize),
		done:   make(chan struct{}),
	}
	return r
}

// Start probes the collaborator, runs the initial reconcile pass, and wires
// the store subscription that feeds the push worker. When the collaborator
// is unreachable, sync stays disabled for the rest of the session and local
// operation continues unaffected.
func (r *Reconciler) Start(ctx context.Context) {
	if !r.remote.Available(ctx) {
		r.setStatus(StatusDisabled)
		r.log.Info("sync server unavailable, running local-only")
		return
	}
	r.enabled.Store(true)

	if err := r.Reconcile(ctx); err != nil {
		r.log.Warn("initial reconcile failed", "error", err)
	}

	r.store.Subscribe(r.enqueue)
	go r.pushWorker(ctx)
}

// Stop shuts down the push worker.
func (r *Reconciler) Stop() {
	if r.enabled.CompareAndSwap(true, false) {
		close(r.done)
	}
}

// Enabled reports whether sync is active for this session.
func (r *Reconciler) Enabled() bool {
	return r.enabled.Load()
}

// Status returns the current sync status indicator.
func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Reconciler) setStatus(st Status) {
	r.mu.Lock()
	r.status = st
	r.mu.Unlock()
}

// Reconcile executes one full reconciliation pass. A pass already in flight
// turns this call into a no-op.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	if !r.enabled.Load() {
		return nil
	}
	if !r.busy.CompareAndSwap(false, true) {
		return nil
	}
	defer r.busy.Store(false)

	r.setStatus(StatusSyncing)
	err := r.reconcileOnce(ctx)
	if err != nil {
		r.setStatus(StatusError)
		return err
	}
	r.setStatus(StatusSynced)
	return nil
}

func (r *Reconciler) reconcileOnce(ctx context.Context) error {
	remote, err := r.remote.Fetch(ctx, r.owner)
	if err != nil {
		return fmt.Errorf("fetching remote state: %w", err)
	}

	local := r.store.SyncState()

	switch {
	case local.Empty() && remote.Empty():
		return nil

	case local.Empty():
		// Adopt remote wholesale — no merge needed.
		r.store.ApplySyncState(*remote)
		return nil

	case remote.Empty():
		if err := r.remote.Push(ctx, r.owner, &local); err != nil {
			return fmt.Errorf("pushing local state: %w", err)
		}
		return nil

	default:
		merged := MergeStates(local, *remote)
		r.store.ApplySyncState(merged)
		if err := r.remote.Push(ctx, r.owner, &merged); err != nil {
			return fmt.Errorf("pushing merged state: %w", err)
		}
		return nil
	}
}

// Pull re-fetches the remote snapshot and overwrites local state wholesale.
// Not a merge — this is the user-invoked "refresh from server" path, so it
// runs even when the startup probe left sync disabled.
func (r *Reconciler) Pull(ctx context.Context) error {
	remote, err := r.remote.Fetch(ctx, r.owner)
	if err != nil {
		r.setStatus(StatusError)
		return fmt.Errorf("pulling remote state: %w", err)
	}
	r.store.ApplySyncState(*remote)
	r.setStatus(StatusSynced)
	return nil
}

// enqueue feeds a committed store mutation into the outbound queue. The send
// never blocks the mutating caller; when the queue is full the push is
// dropped and the next reconcile pass covers it.
func (r *Reconciler) enqueue(ev store.Event) {
	if !r.enabled.Load() {
		return
	}
	select {
	case r.queue <- ev:
	default:
		r.log.Warn("push queue full, dropping push", "id", ev.ID)
	}
}

// pushWorker drains the outbound queue, one fire-and-forget push per event.
// Failures are logged and flagged, never retried and never rolled back.
func (r *Reconciler) pushWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case ev := <-r.queue:
			if err := r.push(ctx, ev); err != nil {
				r.setStatus(StatusError)
				r.log.Warn("push failed", "id", ev.ID, "error", err)
			} else {
				r.setStatus(StatusSynced)
			}
		}
	}
}

func (r *Reconciler) push(ctx context.Context, ev store.Event) error {
	switch ev.Kind {
	case store.EventProgramUpserted:
		return r.remote.UpsertProgram(ctx, r.owner, *ev.Program)
	case store.EventProgramDeleted:
		return r.remote.DeleteProgram(ctx, r.owner, ev.ID)
	case store.EventProgramActivated:
		return r.remote.SetActiveProgram(ctx, r.owner, ev.ID)
	case store.EventWorkoutUpserted:
		return r.remote.UpsertWorkoutLog(ctx, r.owner, *ev.Workout)
	case store.EventWorkoutDeleted:
		return r.remote.DeleteWorkoutLog(ctx, r.owner, ev.ID)
	}
	return nil
}
