// Package schema validates event payloads before publication.
package schema

import (
	"errors"
	"fmt"

	"ai-interview-service/internal/models"
)

var errNotAnEvent = errors.New("unknown event type")

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Validate checks the required fields of a known event payload.
func (v *Validator) Validate(event any) error {
	switch e := event.(type) {
	case models.SessionCreated:
		if e.EventType == "" || e.RoomName == "" || e.Identity == "" {
			return fmt.Errorf("session event missing required fields: %+v", e)
		}
		return nil
	case models.InterviewScored:
		if e.EventType == "" {
			return fmt.Errorf("score event missing eventType")
		}
		if e.Scores == nil {
			return fmt.Errorf("score event missing scores")
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", errNotAnEvent, event)
	}
}
