package models

// SessionCreated is published when a new interview room has been provisioned.
type SessionCreated struct {
	EventType string `json:"eventType"`
	RoomName  string `json:"roomName"`
	Topic     string `json:"topic"`
	Identity  string `json:"identity"`
	Timestamp int64  `json:"timestamp"`
}

// InterviewScored is published after a transcript has been scored.
// The transcript itself is never published, only the derived scores.
type InterviewScored struct {
	EventType  string             `json:"eventType"`
	Topic      string             `json:"topic"`
	Scores     map[string]float64 `json:"scores"`
	Summary    string             `json:"summary"`
	SkillCount int                `json:"skillCount"`
	Timestamp  int64              `json:"timestamp"`
}
