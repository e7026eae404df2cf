package interview

import (
	"errors"
	"testing"
)

func TestLifecycleHappyPath(t *testing.T) {
	l := NewLifecycle()

	if l.State() != StateIdle {
		t.Fatalf("expected IDLE, got %v", l.State())
	}
	if err := l.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if l.State() != StateConnecting {
		t.Fatalf("expected CONNECTING, got %v", l.State())
	}
	if err := l.GoLive(); err != nil {
		t.Fatalf("GoLive failed: %v", err)
	}
	if !l.IsActive() {
		t.Fatal("expected IsActive while live")
	}
	if err := l.End(true); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if l.State() != StateEnded {
		t.Fatalf("expected ENDED, got %v", l.State())
	}
}

func TestLifecycleRestartFromEnded(t *testing.T) {
	l := NewLifecycle()
	l.Begin()
	l.GoLive()
	l.End(true)

	if err := l.Begin(); err != nil {
		t.Fatalf("Begin from ENDED failed: %v", err)
	}
	if l.State() != StateConnecting {
		t.Fatalf("expected CONNECTING, got %v", l.State())
	}
}

func TestLifecycleEmptyTranscriptReturnsToIdle(t *testing.T) {
	l := NewLifecycle()
	l.Begin()
	l.GoLive()

	if err := l.End(false); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if l.State() != StateIdle {
		t.Fatalf("expected IDLE after empty session, got %v", l.State())
	}
}

func TestLifecycleRejectsDoubleBegin(t *testing.T) {
	l := NewLifecycle()
	l.Begin()

	if err := l.Begin(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	l.GoLive()
	if err := l.Begin(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning while live, got %v", err)
	}
}

func TestLifecycleAbortFromConnecting(t *testing.T) {
	l := NewLifecycle()
	l.Begin()
	l.Abort()

	if l.State() != StateIdle {
		t.Fatalf("expected IDLE after abort, got %v", l.State())
	}
	if err := l.Begin(); err != nil {
		t.Fatalf("Begin after abort failed: %v", err)
	}
}

func TestLifecycleEndRequiresLive(t *testing.T) {
	l := NewLifecycle()

	if err := l.End(true); !errors.Is(err, ErrNotLive) {
		t.Fatalf("expected ErrNotLive, got %v", err)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "IDLE"},
		{StateConnecting, "CONNECTING"},
		{StateLive, "LIVE"},
		{StateEnded, "ENDED"},
		{State(42), "UNKNOWN(42)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
