// Package scoring builds scoring requests for a completion model and parses
// the strict two-field JSON result.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"ai-interview-service/internal/models"
	"ai-interview-service/internal/observability/logging"
	"ai-interview-service/internal/observability/metrics"
)

// Errors returned by the scorer.
var (
	// ErrMissingHardSkills - the caller supplied no hard skills to score.
	ErrMissingHardSkills = errors.New("hardSkills array missing")
	// ErrUpstream - the completion service returned a non-success response.
	ErrUpstream = errors.New("LLM scoring failed")
	// ErrBadModelOutput - the model returned content that is not the expected JSON shape.
	ErrBadModelOutput = errors.New("invalid LLM output")
)

// completionClient is the subset of the OpenAI client used by the scorer.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds model parameters for the scorer.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Scorer sends interview transcripts to a completion model and parses the result.
// Every call is stateless; nothing is cached or persisted.
type Scorer struct {
	cli     completionClient
	cfg     Config
	metrics *metrics.Metrics
}

// New creates a Scorer backed by the OpenAI API.
func New(apiKey string, cfg Config) *Scorer {
	return NewWithClient(openai.NewClient(apiKey), cfg)
}

// NewWithClient creates a Scorer with a caller-supplied completion client.
func NewWithClient(cli completionClient, cfg Config) *Scorer {
	return &Scorer{
		cli:     cli,
		cfg:     cfg,
		metrics: metrics.DefaultMetrics,
	}
}

// buildSystemPrompt names every required skill and pins the response shape to
// exactly two top-level keys.
func buildSystemPrompt(required []string) string {
	return strings.TrimSpace(fmt.Sprintf(`
You are an assistant that reads an interview transcript and returns two things:
1) A JSON object named "scores" where each key is exactly one skill from this list: %s, and each value is a number between 0 and 100.
2) A brief (2-3 sentence) overall summary of the candidate's performance, returned under the key "summary".

Respond with valid JSON containing exactly two top-level keys: "scores" and "summary". Do not include any extra commentary.`,
		strings.Join(required, ", ")))
}

// Score sends the transcript and required skill list to the completion model
// and returns the parsed result. No retry is attempted on failure.
func (s *Scorer) Score(ctx context.Context, transcript string, hardSkills []string) (models.ScoreResult, error) {
	if len(hardSkills) == 0 {
		return models.ScoreResult{}, ErrMissingHardSkills
	}

	required := RequiredSkills(hardSkills)
	logger := logging.WithComponent("scorer")

	start := time.Now()
	resp, err := s.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(required)},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Completion request failed")
		s.metrics.RecordScoring("upstream_error", time.Since(start).Seconds())
		return models.ScoreResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(resp.Choices) == 0 {
		logger.Error().Msg("Completion response contained no choices")
		s.metrics.RecordScoring("upstream_error", time.Since(start).Seconds())
		return models.ScoreResult{}, ErrUpstream
	}

	result, err := parseResult(resp.Choices[0].Message.Content, required)
	if err != nil {
		// Raw content stays in server logs only, never in the response body.
		logger.Error().Err(err).Str("rawContent", resp.Choices[0].Message.Content).Msg("Invalid JSON from LLM")
		s.metrics.RecordScoring("format_error", time.Since(start).Seconds())
		return models.ScoreResult{}, err
	}

	s.metrics.RecordScoring("ok", time.Since(start).Seconds())
	logger.Info().
		Int("skills", len(required)).
		Dur("duration", time.Since(start)).
		Msg("Transcript scored")

	return result, nil
}

// parseResult parses the model output as strict JSON and validates its shape:
// both top-level keys must be present and every score must be a number in [0,100].
// Requested skills the model skipped are filled with 0.
func parseResult(content string, required []string) (models.ScoreResult, error) {
	var raw struct {
		Scores  map[string]float64 `json:"scores"`
		Summary *string            `json:"summary"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &raw); err != nil {
		return models.ScoreResult{}, fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	if raw.Scores == nil {
		return models.ScoreResult{}, fmt.Errorf("%w: missing \"scores\" key", ErrBadModelOutput)
	}
	if raw.Summary == nil {
		return models.ScoreResult{}, fmt.Errorf("%w: missing \"summary\" key", ErrBadModelOutput)
	}

	for skill, v := range raw.Scores {
		if v < 0 || v > 100 {
			return models.ScoreResult{}, fmt.Errorf("%w: score for %q out of range: %v", ErrBadModelOutput, skill, v)
		}
	}

	// Skipped labels are defaulted to 0 rather than rejected, so a single
	// dropped key never discards an otherwise usable result.
	for _, skill := range required {
		if _, ok := raw.Scores[skill]; !ok {
			logger := logging.WithComponent("scorer")
			logger.Warn().Str("skill", skill).Msg("Model skipped a requested skill, defaulting to 0")
			raw.Scores[skill] = 0
		}
	}

	return models.ScoreResult{Scores: raw.Scores, Summary: *raw.Summary}, nil
}

// stripFences removes a markdown code fence around the model output, if present.
func stripFences(content string) string {
	clean := strings.TrimSpace(content)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
