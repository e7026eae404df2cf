package interview

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"ai-interview-service/internal/models"
	"ai-interview-service/internal/observability/metrics"
	"ai-interview-service/internal/realtime"
)

// ConnectionProvider requests session credentials for a prompt.
type ConnectionProvider interface {
	ConnectionDetails(ctx context.Context, prompt models.Prompt) (models.ConnectionDetails, error)
}

// ScoreRequester submits a completed transcript for evaluation.
type ScoreRequester interface {
	AnalyzeTranscript(ctx context.Context, transcript string, hardSkills []string, topic string) (models.ScoreResult, error)
}

// Controller drives one interview attempt at a time: provisioning a session,
// accumulating transcript while live, and requesting exactly one evaluation
// once the session ends with transcript content.
//
// Restarting from ENDED discards the previous attempt's transcript and score.
// Events from a superseded attempt are dropped by generation check, so a slow
// disconnect or segment from an old session can never leak into a new one.
type Controller struct {
	provider ConnectionProvider
	scorer   ScoreRequester
	dial     realtime.DialFunc
	logger   zerolog.Logger

	mu         sync.Mutex
	lifecycle  *Lifecycle
	transcript *Accumulator
	session    realtime.Session
	cancel     context.CancelFunc
	generation uint64
	skills     []string
	topic      string
	result     *models.ScoreResult
	done       chan struct{}
	doneOnce   *sync.Once
}

// NewController creates a controller in IDLE state.
func NewController(provider ConnectionProvider, scorer ScoreRequester, dial realtime.DialFunc, logger zerolog.Logger) *Controller {
	return &Controller{
		provider:   provider,
		scorer:     scorer,
		dial:       dial,
		logger:     logger.With().Str("component", "interview-controller").Logger(),
		lifecycle:  NewLifecycle(),
		transcript: NewAccumulator(),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.lifecycle.State()
}

// Result returns the score of the most recent completed attempt, or nil when
// no attempt has been evaluated yet.
func (c *Controller) Result() *models.ScoreResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Transcript returns the segments accumulated for the current attempt.
func (c *Controller) Transcript() []models.TranscriptSegment {
	return c.transcript.Segments()
}

// Start provisions a session for the prompt and joins it. Valid from IDLE and
// ENDED; starting from ENDED discards the prior transcript and score.
func (c *Controller) Start(ctx context.Context, prompt models.Prompt) error {
	if err := c.lifecycle.Begin(); err != nil {
		return err
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.transcript.Reset()
	c.result = nil
	c.skills = append([]string(nil), prompt.HardSkills...)
	c.topic = prompt.Topic
	c.done = make(chan struct{})
	c.doneOnce = &sync.Once{}
	attemptCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	done := c.done
	once := c.doneOnce
	c.mu.Unlock()

	log := c.logger.With().Uint64("attempt", gen).Str("topic", prompt.Topic).Logger()
	log.Info().Msg("Starting interview attempt")

	finish := func() { once.Do(func() { close(done) }) }

	details, err := c.provider.ConnectionDetails(attemptCtx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("Session provisioning failed")
		c.abort(gen, finish)
		return err
	}

	session, err := c.dial(details, &attemptCallback{controller: c, gen: gen, log: log})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create realtime session")
		c.abort(gen, finish)
		return err
	}

	if err := session.Connect(attemptCtx); err != nil {
		log.Error().Err(err).Str("roomName", details.RoomName).Msg("Failed to join room")
		c.abort(gen, finish)
		return err
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		session.Close()
		return ErrAlreadyRunning
	}
	c.session = session
	c.mu.Unlock()

	if err := c.lifecycle.GoLive(); err != nil {
		session.Close()
		c.abort(gen, finish)
		return err
	}

	metrics.DefaultMetrics.RecordInterviewStarted()
	log.Info().Str("roomName", details.RoomName).Str("identity", details.ParticipantIdentity).Msg("Interview live")
	return nil
}

// Stop leaves the current session. The disconnect callback drives the rest of
// the teardown, including scoring when transcript content exists.
func (c *Controller) Stop() error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return ErrNotLive
	}
	return session.Close()
}

// Wait blocks until the current attempt has fully finished, meaning the
// session disconnected and any scoring request completed. Returns immediately
// when no attempt is in flight.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) abort(gen uint64, finish func()) {
	c.mu.Lock()
	if gen == c.generation {
		c.session = nil
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
	}
	c.mu.Unlock()
	c.lifecycle.Abort()
	finish()
}

// onSegment records a transcript segment for the attempt it belongs to.
func (c *Controller) onSegment(gen uint64, seg models.TranscriptSegment) {
	c.mu.Lock()
	stale := gen != c.generation
	c.mu.Unlock()
	if stale {
		return
	}
	if c.lifecycle.State() != StateLive {
		return
	}
	c.transcript.Add(seg)
	metrics.DefaultMetrics.RecordTranscriptSegment()
}

// onDisconnected finishes the attempt: an empty transcript returns the
// controller to IDLE, otherwise the attempt ends and is scored once.
func (c *Controller) onDisconnected(gen uint64, log zerolog.Logger) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.session = nil
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	skills := c.skills
	topic := c.topic
	done := c.done
	once := c.doneOnce
	c.mu.Unlock()

	finish := func() { once.Do(func() { close(done) }) }

	hasTranscript := c.transcript.Len() > 0
	if err := c.lifecycle.End(hasTranscript); err != nil {
		log.Warn().Err(err).Msg("Disconnect in unexpected state")
		finish()
		return
	}
	metrics.DefaultMetrics.RecordInterviewEnded()

	if !hasTranscript {
		log.Info().Msg("Session ended with empty transcript, nothing to score")
		finish()
		return
	}

	log.Info().Int("segmentCount", c.transcript.Len()).Msg("Session ended, requesting evaluation")

	result, err := c.scorer.AnalyzeTranscript(context.Background(), c.transcript.Render(), skills, topic)
	if err != nil {
		log.Error().Err(err).Msg("Transcript evaluation failed")
		finish()
		return
	}

	c.mu.Lock()
	if gen == c.generation {
		c.result = &result
	}
	c.mu.Unlock()

	log.Info().Int("skillCount", len(result.Scores)).Msg("Evaluation complete")
	finish()
}

func (c *Controller) onDeviceError(gen uint64, log zerolog.Logger, err error) {
	c.mu.Lock()
	stale := gen != c.generation
	c.mu.Unlock()
	if stale {
		return
	}
	log.Error().Err(err).Msg("Media device error")
}

// attemptCallback routes realtime events to the controller, tagged with the
// attempt generation they were issued for.
type attemptCallback struct {
	controller *Controller
	gen        uint64
	log        zerolog.Logger
}

func (a *attemptCallback) OnSegment(seg models.TranscriptSegment) {
	a.controller.onSegment(a.gen, seg)
}

func (a *attemptCallback) OnDisconnected() {
	a.controller.onDisconnected(a.gen, a.log)
}

func (a *attemptCallback) OnDeviceError(err error) {
	a.controller.onDeviceError(a.gen, a.log, err)
}
