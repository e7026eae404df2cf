// Package models defines the data structures shared across the interview service.
package models

// Prompt is one interview scenario from the static catalogue.
// Topic is assumed unique within the catalogue.
type Prompt struct {
	Topic        string   `json:"topic"`
	Instructions string   `json:"instructions"`
	HardSkills   []string `json:"hard_skills"`
}

// ConnectionDetails is everything a client needs to join a provisioned session.
type ConnectionDetails struct {
	ServerURL           string `json:"serverUrl"`
	RoomName            string `json:"roomName"`
	ParticipantIdentity string `json:"participantIdentity"`
	ParticipantToken    string `json:"participantToken"`
}

// Transcript segment roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// TranscriptSegment is one attributed utterance captured during a session.
type TranscriptSegment struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// ScoreResult holds the per-skill scores (0-100) and the candidate summary
// produced for one completed interview.
type ScoreResult struct {
	Scores  map[string]float64 `json:"scores"`
	Summary string             `json:"summary"`
}
