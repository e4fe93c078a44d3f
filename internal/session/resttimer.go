package session

import (
	"context"
	"regexp"
	"strconv"
	"sync"
	"time"
)

// Rest prescriptions are free text; these cover the forms the program
// builder emits ("90s", "90 sec", "2 min", "2-3 min").
var (
	restSecondsRe = regexp.MustCompile(`^(\d+)\s*s(ec)?$`)
	restMinutesRe = regexp.MustCompile(`^(\d+)\s*min$`)
	restRangeRe   = regexp.MustCompile(`^(\d+)\s*-\s*\d+\s*min$`)
)

// ParseRestSeconds converts a free-text rest prescription into seconds.
// A range uses its lower bound. Anything unrecognized yields zero, which
// means no auto-start rather than an error.
func ParseRestSeconds(s string) int {
	if m := restSecondsRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	if m := restRangeRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 60
	}
	if m := restMinutesRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 60
	}
	return 0
}

// RestTimer is the countdown sub-state shown between sets. Entirely local,
// never persisted; cancelling the owning session must stop it so no ticker
// outlives the workout.
type RestTimer struct {
	mu        sync.Mutex
	remaining int
	active    bool
	cancel    context.CancelFunc
}

// NewRestTimer returns an inactive timer.
func NewRestTimer() *RestTimer {
	return &RestTimer{}
}

// Start begins a countdown of the given number of seconds, ticking once per
// second until it reaches zero, ctx is done, or Stop is called. A zero or
// negative duration is ignored. onTick may be nil.
func (t *RestTimer) Start(ctx context.Context, seconds int, onTick func(remaining int)) {
	if seconds <= 0 {
		return
	}

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.remaining = seconds
	t.active = true
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				t.deactivate()
				return
			case <-ticker.C:
				t.mu.Lock()
				t.remaining--
				rem := t.remaining
				done := rem <= 0
				if done {
					t.active = false
				}
				t.mu.Unlock()
				if onTick != nil {
					onTick(rem)
				}
				if done {
					return
				}
			}
		}
	}()
}

// Stop halts the countdown, if any.
func (t *RestTimer) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.active = false
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Remaining returns the seconds left on the countdown.
func (t *RestTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Active reports whether a countdown is running.
func (t *RestTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *RestTimer) deactivate() {
	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
}
