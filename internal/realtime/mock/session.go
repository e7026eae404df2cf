// Package mock provides a mock realtime session for testing without a live room.
// It replays a scripted interview exchange and then disconnects, mimicking an
// agent-led session end to end.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ai-interview-service/internal/models"
	"ai-interview-service/internal/realtime"
)

// DefaultScript provides a sample interview exchange for simulation.
var DefaultScript = []models.TranscriptSegment{
	{ID: "seg-1", Role: models.RoleAgent, Text: "Tell me about yourself"},
	{ID: "seg-2", Role: models.RoleUser, Text: "I design REST APIs and backend systems"},
	{ID: "seg-3", Role: models.RoleAgent, Text: "Tell me about caching"},
	{ID: "seg-4", Role: models.RoleUser, Text: "I use Redis for hot paths and tune TTLs per workload"},
	{ID: "seg-5", Role: models.RoleAgent, Text: "Thank you, that concludes the interview"},
}

// Session replays a script to the callback, one segment per interval, then
// signals disconnection.
type Session struct {
	cb       realtime.Callback
	script   []models.TranscriptSegment
	interval time.Duration
	devErr   error

	mu      sync.Mutex
	closed  bool
	started bool
	done    chan struct{}
}

// Option configures a mock session.
type Option func(*Session)

// WithScript replaces the default scripted exchange.
func WithScript(script []models.TranscriptSegment) Option {
	return func(s *Session) { s.script = script }
}

// WithInterval sets the delay between segments.
func WithInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// WithDeviceError makes Connect report a device acquisition failure instead of
// playing the script.
func WithDeviceError(err error) Option {
	return func(s *Session) { s.devErr = err }
}

// Dial returns a realtime.DialFunc that creates mock sessions.
func Dial(opts ...Option) realtime.DialFunc {
	return func(_ models.ConnectionDetails, cb realtime.Callback) (realtime.Session, error) {
		s := &Session{
			cb:       cb,
			script:   DefaultScript,
			interval: 50 * time.Millisecond,
			done:     make(chan struct{}),
		}
		for _, opt := range opts {
			opt(s)
		}
		return s, nil
	}
}

// Connect starts replaying the script in the background.
func (s *Session) Connect(_ context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("mock session already started")
	}
	s.started = true
	s.mu.Unlock()

	if s.devErr != nil {
		go s.cb.OnDeviceError(s.devErr)
		return nil
	}

	go s.run()
	return nil
}

func (s *Session) run() {
	for _, seg := range s.script {
		select {
		case <-s.done:
			return
		case <-time.After(s.interval):
		}
		s.cb.OnSegment(seg)
	}
	s.disconnect()
}

func (s *Session) disconnect() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.cb.OnDisconnected()
}

// Close ends the session early. The disconnect callback still fires, matching
// a real room where leaving triggers the disconnected event.
func (s *Session) Close() error {
	s.disconnect()
	return nil
}
