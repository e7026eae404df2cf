// Package apiclient is a typed HTTP client for the interview service API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-interview-service/internal/models"
)

// Client calls the interview service's v1 routes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the service at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prompts fetches the full prompt catalogue.
func (c *Client) Prompts(ctx context.Context) ([]models.Prompt, error) {
	var prompts []models.Prompt
	if err := c.do(ctx, http.MethodGet, "/v1/prompts", nil, &prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

// ConnectionDetails provisions a session for the prompt and returns the
// credentials needed to join it.
func (c *Client) ConnectionDetails(ctx context.Context, prompt models.Prompt) (models.ConnectionDetails, error) {
	req := struct {
		Prompt models.Prompt `json:"prompt"`
	}{Prompt: prompt}

	var details models.ConnectionDetails
	if err := c.do(ctx, http.MethodPost, "/v1/connection-details", req, &details); err != nil {
		return models.ConnectionDetails{}, err
	}
	return details, nil
}

// AnalyzeTranscript submits a completed transcript for evaluation.
func (c *Client) AnalyzeTranscript(ctx context.Context, transcript string, hardSkills []string, topic string) (models.ScoreResult, error) {
	req := struct {
		Transcript string   `json:"transcript"`
		HardSkills []string `json:"hardSkills"`
		Topic      string   `json:"topic,omitempty"`
	}{Transcript: transcript, HardSkills: hardSkills, Topic: topic}

	var result models.ScoreResult
	if err := c.do(ctx, http.MethodPost, "/v1/analyze-transcript", req, &result); err != nil {
		return models.ScoreResult{}, err
	}
	return result, nil
}

// do issues one request and decodes the JSON response into out. Non-2xx
// responses are turned into errors carrying the service's error message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
