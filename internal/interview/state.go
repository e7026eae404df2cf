// Package interview provides the client-side interview lifecycle and
// transcript accumulation.
package interview

import (
	"errors"
	"fmt"
	"sync"
)

// State represents the lifecycle state of an interview attempt.
type State int

const (
	// StateIdle - no session joined, no transcript. Initial state.
	StateIdle State = iota
	// StateConnecting - credential request or room join in flight.
	StateConnecting
	// StateLive - session joined, transcript segments accumulating.
	StateLive
	// StateEnded - session disconnected with at least one transcript segment.
	StateEnded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateLive:
		return "LIVE"
	case StateEnded:
		return "ENDED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// Errors for invalid state transitions.
var (
	ErrAlreadyRunning = errors.New("interview already connecting or live")
	ErrNotLive        = errors.New("interview is not live")
)

// Lifecycle manages the state machine for interview attempts.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	IDLE → CONNECTING → LIVE → ENDED
//	          │                  │
//	          └── join failure ──┼──→ back to IDLE
//	                             │
//	                             └── Restart() ──→ CONNECTING
//
// Rules:
//   - IDLE/ENDED: Begin() starts a new attempt (ENDED discards prior results)
//   - CONNECTING: GoLive() on successful join, Abort() on failure
//   - LIVE: End() once the session disconnects
type Lifecycle struct {
	mu    sync.RWMutex
	state State
}

// NewLifecycle creates a new lifecycle in IDLE state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateIdle}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Begin transitions to CONNECTING from IDLE or ENDED.
func (l *Lifecycle) Begin() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateIdle, StateEnded:
		l.state = StateConnecting
		return nil
	case StateConnecting, StateLive:
		return ErrAlreadyRunning
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// GoLive transitions CONNECTING → LIVE after a successful join.
func (l *Lifecycle) GoLive() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateConnecting {
		return fmt.Errorf("cannot go live from %v", l.state)
	}
	l.state = StateLive
	return nil
}

// Abort transitions CONNECTING → IDLE after a failed join. Idempotent from IDLE.
func (l *Lifecycle) Abort() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = StateIdle
}

// End transitions LIVE → ENDED when the session disconnects with transcript,
// or LIVE → IDLE when it disconnects empty.
func (l *Lifecycle) End(hasTranscript bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateLive {
		return ErrNotLive
	}
	if hasTranscript {
		l.state = StateEnded
	} else {
		l.state = StateIdle
	}
	return nil
}

// IsActive returns true while a session is connecting or live.
func (l *Lifecycle) IsActive() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateConnecting || l.state == StateLive
}
