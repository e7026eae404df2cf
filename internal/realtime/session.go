// Package realtime defines the interface for realtime interview session backends.
package realtime

import (
	"context"

	"ai-interview-service/internal/models"
)

// Callback receives events from a realtime session.
type Callback interface {
	// OnSegment is called for each transcript segment as it arrives.
	OnSegment(seg models.TranscriptSegment)

	// OnDisconnected is called once when the session ends.
	OnDisconnected()

	// OnDeviceError is called when media device acquisition fails.
	OnDeviceError(err error)
}

// Session is one connection to a realtime interview room.
type Session interface {
	// Connect joins the room and starts delivering events to the callback.
	Connect(ctx context.Context) error

	// Close leaves the room and releases resources.
	Close() error
}

// DialFunc creates a session for the provisioned connection details.
type DialFunc func(details models.ConnectionDetails, cb Callback) (Session, error)
