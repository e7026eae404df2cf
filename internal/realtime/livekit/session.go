// Package livekit implements realtime.Session on top of a LiveKit room.
package livekit

import (
	"context"
	"encoding/json"
	"sync"

	lksdk "github.com/livekit/server-sdk-go/v2"

	"ai-interview-service/internal/models"
	"ai-interview-service/internal/observability/logging"
	"ai-interview-service/internal/realtime"
)

// Session joins a LiveKit room and forwards transcript data packets published
// by the voice-agent worker to the callback.
type Session struct {
	details models.ConnectionDetails
	cb      realtime.Callback

	mu   sync.Mutex
	room *lksdk.Room
}

// Dial returns a realtime.DialFunc backed by LiveKit.
func Dial() realtime.DialFunc {
	return func(details models.ConnectionDetails, cb realtime.Callback) (realtime.Session, error) {
		return &Session{details: details, cb: cb}, nil
	}
}

// Connect joins the room with the provisioned token.
func (s *Session) Connect(_ context.Context) error {
	logger := logging.WithRoom(s.details.RoomName)

	room, err := lksdk.ConnectToRoomWithToken(
		s.details.ServerURL,
		s.details.ParticipantToken,
		&lksdk.RoomCallback{
			OnDisconnected: s.cb.OnDisconnected,
			ParticipantCallback: lksdk.ParticipantCallback{
				OnDataPacket: s.onDataPacket,
			},
		},
		lksdk.WithAutoSubscribe(true),
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.room = room
	s.mu.Unlock()

	logger.Info().
		Str("identity", s.details.ParticipantIdentity).
		Msg("Joined realtime room")
	return nil
}

// onDataPacket decodes transcript segments published into the room.
// Packets that are not transcript JSON are ignored.
func (s *Session) onDataPacket(data lksdk.DataPacket, params lksdk.DataReceiveParams) {
	user, ok := data.(*lksdk.UserDataPacket)
	if !ok {
		return
	}

	var seg models.TranscriptSegment
	if err := json.Unmarshal(user.Payload, &seg); err != nil {
		logging.WithRoom(s.details.RoomName).Debug().Err(err).Msg("Ignoring non-transcript data packet")
		return
	}
	if seg.ID == "" || seg.Text == "" {
		return
	}
	if seg.Role == "" {
		seg.Role = models.RoleAgent
	}

	s.cb.OnSegment(seg)
}

// Close leaves the room. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	room := s.room
	s.room = nil
	s.mu.Unlock()

	if room != nil {
		room.Disconnect()
	}
	return nil
}
