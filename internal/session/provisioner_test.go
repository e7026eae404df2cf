package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/livekit/protocol/livekit"

	"ai-interview-service/internal/models"
)

// fakeRoomClient records CreateRoom calls.
type fakeRoomClient struct {
	calls   int
	lastReq *livekit.CreateRoomRequest
	err     error
}

func (f *fakeRoomClient) CreateRoom(_ context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &livekit.Room{Name: req.Name}, nil
}

func testConfig() Config {
	return Config{
		URL:          "https://interview.livekit.example",
		APIKey:       "test-key",
		APISecret:    "test-secret-test-secret-test-secret",
		EmptyTimeout: 600 * time.Second,
	}
}

func backendPrompt() models.Prompt {
	return models.Prompt{
		Topic:        "Backend Engineer",
		Instructions: "Ask about API design.",
		HardSkills:   []string{"SQL", "Caching"},
	}
}

func TestCreateSession_MissingTopic_FailsBeforeExternalCall(t *testing.T) {
	fake := &fakeRoomClient{}
	p := NewWithClient(fake, testConfig())

	_, err := p.CreateSession(context.Background(), models.Prompt{HardSkills: []string{"SQL"}})
	if !errors.Is(err, ErrMissingTopic) {
		t.Fatalf("expected ErrMissingTopic, got %v", err)
	}
	if fake.calls != 0 {
		t.Errorf("expected no external call, got %d", fake.calls)
	}
}

func TestCreateSession_RoomRequestShape(t *testing.T) {
	fake := &fakeRoomClient{}
	p := NewWithClient(fake, testConfig())

	details, err := p.CreateSession(context.Background(), backendPrompt())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fake.calls != 1 {
		t.Fatalf("expected exactly one CreateRoom call, got %d", fake.calls)
	}
	if !strings.HasPrefix(fake.lastReq.Name, "interview-") {
		t.Errorf("expected room name with interview- prefix, got %s", fake.lastReq.Name)
	}
	if fake.lastReq.EmptyTimeout != 600 {
		t.Errorf("expected empty timeout 600s, got %d", fake.lastReq.EmptyTimeout)
	}

	// Room metadata carries the full prompt for the voice-agent worker.
	var meta models.Prompt
	if err := json.Unmarshal([]byte(fake.lastReq.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not prompt JSON: %v", err)
	}
	if meta.Topic != "Backend Engineer" || len(meta.HardSkills) != 2 {
		t.Errorf("unexpected metadata prompt %+v", meta)
	}

	if details.RoomName != fake.lastReq.Name {
		t.Errorf("expected returned room name to match request, got %s", details.RoomName)
	}
}

func TestCreateSession_ConnectionDetails(t *testing.T) {
	p := NewWithClient(&fakeRoomClient{}, testConfig())

	details, err := p.CreateSession(context.Background(), backendPrompt())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if details.ServerURL != "wss://interview.livekit.example" {
		t.Errorf("expected wss URL, got %s", details.ServerURL)
	}
	if !strings.HasPrefix(details.ParticipantIdentity, "voice_assistant_user_") {
		t.Errorf("unexpected identity %s", details.ParticipantIdentity)
	}
	if details.ParticipantToken == "" {
		t.Error("expected non-empty participant token")
	}
}

func TestCreateSession_UniquePerCall(t *testing.T) {
	p := NewWithClient(&fakeRoomClient{}, testConfig())

	a, err := p.CreateSession(context.Background(), backendPrompt())
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.CreateSession(context.Background(), backendPrompt())
	if err != nil {
		t.Fatal(err)
	}

	if a.RoomName == b.RoomName {
		t.Error("expected unique room names per call")
	}
	if a.ParticipantIdentity == b.ParticipantIdentity {
		t.Error("expected unique identities per call")
	}
}

func TestCreateSession_UpstreamFailure(t *testing.T) {
	fake := &fakeRoomClient{err: errors.New("connection refused")}
	p := NewWithClient(fake, testConfig())

	_, err := p.CreateSession(context.Background(), backendPrompt())
	if !errors.Is(err, ErrProvisioning) {
		t.Fatalf("expected ErrProvisioning, got %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("expected exactly one call (no retry), got %d", fake.calls)
	}
}

func TestWSURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://host.example", "wss://host.example"},
		{"http://localhost:7880", "ws://localhost:7880"},
		{"wss://already.ws", "wss://already.ws"},
	}

	for _, tt := range tests {
		if got := wsURL(tt.in); got != tt.want {
			t.Errorf("wsURL(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
