package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ai-interview-service/internal/catalog"
	"ai-interview-service/internal/events"
	"ai-interview-service/internal/models"
	"ai-interview-service/internal/observability/logging"
	"ai-interview-service/internal/schema"
	"ai-interview-service/internal/scoring"
	"ai-interview-service/internal/session"
)

// SessionProvisioner creates realtime rooms and participant credentials.
type SessionProvisioner interface {
	CreateSession(ctx context.Context, prompt models.Prompt) (models.ConnectionDetails, error)
}

// TranscriptScorer scores a completed interview transcript.
type TranscriptScorer interface {
	Score(ctx context.Context, transcript string, hardSkills []string) (models.ScoreResult, error)
}

// Handlers wires the API routes to their backing components.
type Handlers struct {
	Catalog     *catalog.Store
	Provisioner SessionProvisioner
	Scorer      TranscriptScorer
	Publisher   *events.Publisher
	Validator   *schema.Validator
}

// errorResponse is the structured error payload returned on failures.
// Upstream error detail stays in server logs and is never forwarded.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.WithComponent("http").Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// ListPrompts returns the full prompt catalogue.
func (h *Handlers) ListPrompts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.List())
}

// connectionDetailsRequest is the body of POST /v1/connection-details.
type connectionDetailsRequest struct {
	Prompt models.Prompt `json:"prompt"`
}

// ConnectionDetails provisions a fresh room and credential for the given prompt.
func (h *Handlers) ConnectionDetails(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithComponent("http")

	var req connectionDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	details, err := h.Provisioner.CreateSession(r.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, session.ErrMissingTopic) {
			writeError(w, http.StatusBadRequest, session.ErrMissingTopic.Error())
			return
		}
		logger.Error().Err(err).Msg("Session provisioning failed")
		writeError(w, http.StatusInternalServerError, session.ErrProvisioning.Error())
		return
	}

	h.publishSessionCreated(r.Context(), req.Prompt, details)
	writeJSON(w, http.StatusOK, details)
}

// analyzeTranscriptRequest is the body of POST /v1/analyze-transcript.
type analyzeTranscriptRequest struct {
	Transcript string   `json:"transcript"`
	HardSkills []string `json:"hardSkills"`
	Topic      string   `json:"topic,omitempty"`
}

// AnalyzeTranscript scores a completed transcript against the required skill set.
func (h *Handlers) AnalyzeTranscript(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithComponent("http")

	var req analyzeTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Scorer.Score(r.Context(), req.Transcript, req.HardSkills)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrMissingHardSkills):
			writeError(w, http.StatusBadRequest, scoring.ErrMissingHardSkills.Error())
		case errors.Is(err, scoring.ErrBadModelOutput):
			// Raw model output was already logged by the scorer.
			writeError(w, http.StatusInternalServerError, scoring.ErrBadModelOutput.Error())
		default:
			logger.Error().Err(err).Msg("Transcript scoring failed")
			writeError(w, http.StatusInternalServerError, scoring.ErrUpstream.Error())
		}
		return
	}

	h.publishScored(r.Context(), req.Topic, result)
	writeJSON(w, http.StatusOK, result)
}

// publishSessionCreated emits a session lifecycle event. Publish failures are
// logged and never affect the response.
func (h *Handlers) publishSessionCreated(ctx context.Context, prompt models.Prompt, details models.ConnectionDetails) {
	if h.Publisher == nil {
		return
	}

	ev := models.SessionCreated{
		EventType: "interview.session.created",
		RoomName:  details.RoomName,
		Topic:     prompt.Topic,
		Identity:  details.ParticipantIdentity,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := h.Validator.Validate(ev); err != nil {
		logging.WithComponent("http").Error().Err(err).Msg("Invalid session event")
		return
	}
	if err := h.Publisher.PublishSessionCreated(ctx, details.RoomName, ev); err != nil {
		logging.WithComponent("http").Error().Err(err).Msg("Failed to publish session event")
	}
}

// publishScored emits a scoring result event with the derived scores only.
func (h *Handlers) publishScored(ctx context.Context, topic string, result models.ScoreResult) {
	if h.Publisher == nil {
		return
	}

	ev := models.InterviewScored{
		EventType:  "interview.scored",
		Topic:      topic,
		Scores:     result.Scores,
		Summary:    result.Summary,
		SkillCount: len(result.Scores),
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := h.Validator.Validate(ev); err != nil {
		logging.WithComponent("http").Error().Err(err).Msg("Invalid score event")
		return
	}
	if err := h.Publisher.PublishScored(ctx, topic, ev); err != nil {
		logging.WithComponent("http").Error().Err(err).Msg("Failed to publish score event")
	}
}
