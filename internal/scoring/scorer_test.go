package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// fakeCompleter returns a canned response or error.
type fakeCompleter struct {
	content string
	err     error
	calls   int
	lastReq openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func testConfig() Config {
	return Config{Model: "gpt-4o-mini", Temperature: 0.2, MaxTokens: 400}
}

func TestRequiredSkills_UnionWithoutDuplicates(t *testing.T) {
	got := RequiredSkills([]string{"SQL", "Caching", "Teamwork", "SQL"})

	want := []string{
		"Communication", "Teamwork", "Attitude", "Professionalism",
		"Leadership", "Creativity", "Sociability", "SQL", "Caching",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d skills, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("skill %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestScore_EmptyHardSkills_FailsBeforeExternalCall(t *testing.T) {
	fake := &fakeCompleter{content: "{}"}
	s := NewWithClient(fake, testConfig())

	_, err := s.Score(context.Background(), "transcript", nil)
	if !errors.Is(err, ErrMissingHardSkills) {
		t.Fatalf("expected ErrMissingHardSkills, got %v", err)
	}
	if fake.calls != 0 {
		t.Errorf("expected no external call, got %d", fake.calls)
	}
}

func TestScore_WellFormedResponse_PassedThrough(t *testing.T) {
	fake := &fakeCompleter{content: `{
		"scores": {
			"Communication": 70, "Teamwork": 65, "Attitude": 80, "Professionalism": 75,
			"Leadership": 60, "Creativity": 55, "Sociability": 72, "SQL": 88, "Caching": 90
		},
		"summary": "Solid backend candidate."
	}`}
	s := NewWithClient(fake, testConfig())

	result, err := s.Score(context.Background(), "transcript", []string{"SQL", "Caching"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != "Solid backend candidate." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	if result.Scores["Communication"] != 70 {
		t.Errorf("expected Communication=70, got %v", result.Scores["Communication"])
	}
	if result.Scores["SQL"] != 88 {
		t.Errorf("expected SQL=88, got %v", result.Scores["SQL"])
	}
	if len(result.Scores) != 9 {
		t.Errorf("expected 9 scores, got %d", len(result.Scores))
	}
}

func TestScore_RequestShape(t *testing.T) {
	fake := &fakeCompleter{content: `{"scores": {}, "summary": "ok"}`}
	s := NewWithClient(fake, testConfig())

	if _, err := s.Score(context.Background(), "Candidate: hello", []string{"SQL"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := fake.lastReq
	if req.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %s", req.Model)
	}
	if req.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", req.Temperature)
	}
	if req.MaxTokens != 400 {
		t.Errorf("expected max tokens 400, got %d", req.MaxTokens)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected two messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("expected first message to be system, got %s", req.Messages[0].Role)
	}
	if !strings.Contains(req.Messages[0].Content, "Communication, Teamwork, Attitude, Professionalism, Leadership, Creativity, Sociability, SQL") {
		t.Errorf("system prompt missing required skill list: %s", req.Messages[0].Content)
	}
	if req.Messages[1].Role != openai.ChatMessageRoleUser || req.Messages[1].Content != "Candidate: hello" {
		t.Errorf("expected user message to carry the transcript, got %+v", req.Messages[1])
	}
}

func TestScore_MissingSkills_DefaultToZero(t *testing.T) {
	fake := &fakeCompleter{content: `{"scores": {"Communication": 50}, "summary": "brief"}`}
	s := NewWithClient(fake, testConfig())

	result, err := s.Score(context.Background(), "transcript", []string{"SQL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scores["SQL"] != 0 {
		t.Errorf("expected skipped skill defaulted to 0, got %v", result.Scores["SQL"])
	}
	if result.Scores["Teamwork"] != 0 {
		t.Errorf("expected skipped soft skill defaulted to 0, got %v", result.Scores["Teamwork"])
	}
	if result.Scores["Communication"] != 50 {
		t.Errorf("expected Communication=50, got %v", result.Scores["Communication"])
	}
}

func TestScore_InvalidJSON_IsFormatError(t *testing.T) {
	fake := &fakeCompleter{content: "I'd rate this candidate highly overall."}
	s := NewWithClient(fake, testConfig())

	_, err := s.Score(context.Background(), "transcript", []string{"SQL"})
	if !errors.Is(err, ErrBadModelOutput) {
		t.Fatalf("expected ErrBadModelOutput, got %v", err)
	}
}

func TestScore_MissingTopLevelKeys_IsFormatError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no scores", `{"summary": "fine"}`},
		{"no summary", `{"scores": {"SQL": 10}}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCompleter{content: tt.content}
			s := NewWithClient(fake, testConfig())

			_, err := s.Score(context.Background(), "transcript", []string{"SQL"})
			if !errors.Is(err, ErrBadModelOutput) {
				t.Fatalf("expected ErrBadModelOutput, got %v", err)
			}
		})
	}
}

func TestScore_OutOfRangeScore_IsFormatError(t *testing.T) {
	fake := &fakeCompleter{content: `{"scores": {"SQL": 150}, "summary": "fine"}`}
	s := NewWithClient(fake, testConfig())

	_, err := s.Score(context.Background(), "transcript", []string{"SQL"})
	if !errors.Is(err, ErrBadModelOutput) {
		t.Fatalf("expected ErrBadModelOutput, got %v", err)
	}
}

func TestScore_FencedJSON_Accepted(t *testing.T) {
	fake := &fakeCompleter{content: "```json\n{\"scores\": {\"SQL\": 90}, \"summary\": \"good\"}\n```"}
	s := NewWithClient(fake, testConfig())

	result, err := s.Score(context.Background(), "transcript", []string{"SQL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scores["SQL"] != 90 {
		t.Errorf("expected SQL=90, got %v", result.Scores["SQL"])
	}
}

func TestScore_UpstreamFailure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("status 500")}
	s := NewWithClient(fake, testConfig())

	_, err := s.Score(context.Background(), "transcript", []string{"SQL"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("expected exactly one call (no retry), got %d", fake.calls)
	}
}
