package session

import (
	"context"
	"testing"
	"time"
)

func TestParseRestSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"90s", 90},
		{"45 s", 45},
		{"90sec", 90},
		{"90 sec", 90},
		{"2 min", 120},
		{"2min", 120},
		{"2-3 min", 120}, // range uses the lower bound
		{"1 - 2 min", 60},
		{"", 0},
		{"as needed", 0},
		{"90", 0},         // bare number is not a recognized form
		{"2 minutes", 0},  // only the abbreviated forms are prescribed
		{"min", 0},
	}

	for _, tt := range tests {
		if got := ParseRestSeconds(tt.in); got != tt.want {
			t.Errorf("ParseRestSeconds(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRestTimerZeroDurationIgnored(t *testing.T) {
	timer := NewRestTimer()
	timer.Start(context.Background(), 0, nil)
	if timer.Active() {
		t.Error("timer active after zero-duration start")
	}
}

func TestRestTimerStop(t *testing.T) {
	timer := NewRestTimer()
	timer.Start(context.Background(), 300, nil)
	if !timer.Active() {
		t.Fatal("timer not active after start")
	}

	timer.Stop()
	if timer.Active() {
		t.Error("timer active after stop")
	}
}

func TestRestTimerCountsDown(t *testing.T) {
	timer := NewRestTimer()
	ticks := make(chan int, 4)
	timer.Start(context.Background(), 2, func(remaining int) { ticks <- remaining })
	defer timer.Stop()

	select {
	case rem := <-ticks:
		if rem != 1 {
			t.Errorf("first tick remaining = %d, want 1", rem)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no tick within 3s")
	}

	select {
	case rem := <-ticks:
		if rem != 0 {
			t.Errorf("second tick remaining = %d, want 0", rem)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timer did not reach zero")
	}

	if timer.Active() {
		t.Error("timer still active after reaching zero")
	}
}

// TestCancelStopsRestTimer verifies that ending the session stops the
// countdown so no ticker outlives the workout.
func TestCancelStopsRestTimer(t *testing.T) {
	s, _ := newTestSession()
	s.Start("", "", prescribed())

	s.RestTimer().Start(context.Background(), 300, nil)
	if !s.RestTimer().Active() {
		t.Fatal("rest timer not running")
	}

	if err := s.Cancel(); err != nil {
		t.Fatal(err)
	}
	if s.RestTimer().Active() {
		t.Error("rest timer survived cancel")
	}
}
