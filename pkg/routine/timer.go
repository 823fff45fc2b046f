package routine

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimerState is returned for a transition the timer's state does not allow.
var ErrTimerState = errors.New("routine: invalid timer transition")

// TimerState is the stopwatch state.
type TimerState string

const (
	Idle    TimerState = "idle"
	Running TimerState = "running"
	Paused  TimerState = "paused"
	Stopped TimerState = "stopped"
)

// Timer is a persisted stopwatch. LastUpdate holds unix seconds while
// running and is null otherwise.
type Timer struct {
	State              TimerState `json:"state"`
	AccumulatedSeconds float64    `json:"accumulated_seconds"`
	LastUpdate         *float64   `json:"last_update"`
}

// NewTimer returns an idle timer.
func NewTimer() Timer {
	return Timer{State: Idle}
}

func unix(now time.Time) float64 {
	return float64(now.UnixNano()) / float64(time.Second)
}

// Tick folds the time since the last update into the total while running.
func (t *Timer) Tick(now time.Time) {
	if t.State != Running {
		return
	}
	n := unix(now)
	if t.LastUpdate != nil && n > *t.LastUpdate {
		t.AccumulatedSeconds += n - *t.LastUpdate
	}
	t.LastUpdate = &n
}

// Elapsed is the accumulated time including the running span, without
// mutating the timer.
func (t Timer) Elapsed(now time.Time) float64 {
	total := t.AccumulatedSeconds
	if t.State == Running && t.LastUpdate != nil {
		if d := unix(now) - *t.LastUpdate; d > 0 {
			total += d
		}
	}
	return total
}

// Start runs an idle or stopped timer.
func (t *Timer) Start(now time.Time) error {
	if t.State != Idle && t.State != Stopped && t.State != "" {
		return fmt.Errorf("%w: start from %s", ErrTimerState, t.State)
	}
	n := unix(now)
	t.State, t.LastUpdate = Running, &n
	return nil
}

// Pause holds a running timer.
func (t *Timer) Pause(now time.Time) error {
	if t.State != Running {
		return fmt.Errorf("%w: pause from %s", ErrTimerState, t.State)
	}
	t.Tick(now)
	t.State, t.LastUpdate = Paused, nil
	return nil
}

// Resume restarts a paused timer.
func (t *Timer) Resume(now time.Time) error {
	if t.State != Paused {
		return fmt.Errorf("%w: resume from %s", ErrTimerState, t.State)
	}
	n := unix(now)
	t.State, t.LastUpdate = Running, &n
	return nil
}

// Stop ends a running or paused timer, keeping the total.
func (t *Timer) Stop(now time.Time) error {
	switch t.State {
	case Running:
		t.Tick(now)
	case Paused:
	default:
		return fmt.Errorf("%w: stop from %s", ErrTimerState, t.State)
	}
	t.State, t.LastUpdate = Stopped, nil
	return nil
}

// Reset clears the timer from any state.
func (t *Timer) Reset() {
	*t = NewTimer()
}
