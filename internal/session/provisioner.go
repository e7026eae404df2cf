// Package session provisions realtime interview rooms and participant credentials.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"ai-interview-service/internal/models"
	"ai-interview-service/internal/observability/logging"
	"ai-interview-service/internal/observability/metrics"
)

// Errors returned by the provisioner.
var (
	// ErrMissingTopic - the prompt carries no topic, nothing to provision.
	ErrMissingTopic = errors.New("missing prompt.topic in request body")
	// ErrProvisioning - the realtime service rejected or failed the room/token request.
	ErrProvisioning = errors.New("session provisioning failed")
)

// roomCreator is the subset of the LiveKit room service used by the provisioner.
type roomCreator interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
}

// Config holds realtime service credentials and policy.
type Config struct {
	URL          string
	APIKey       string
	APISecret    string
	EmptyTimeout time.Duration
}

// Provisioner creates interview rooms on the realtime media service and issues
// participant credentials scoped to them.
//
// Every call creates a real room upstream whether or not the client ever joins.
// There is no compensating delete; abandoned rooms are reaped by the service's
// empty-timeout policy.
type Provisioner struct {
	rooms   roomCreator
	cfg     Config
	metrics *metrics.Metrics
}

// New creates a Provisioner backed by the LiveKit room service.
func New(cfg Config) *Provisioner {
	return NewWithClient(lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret), cfg)
}

// NewWithClient creates a Provisioner with a caller-supplied room client.
func NewWithClient(rooms roomCreator, cfg Config) *Provisioner {
	return &Provisioner{
		rooms:   rooms,
		cfg:     cfg,
		metrics: metrics.DefaultMetrics,
	}
}

// CreateSession creates a fresh room tagged with the prompt as metadata and
// issues a single-use participant credential for it.
func (p *Provisioner) CreateSession(ctx context.Context, prompt models.Prompt) (models.ConnectionDetails, error) {
	if prompt.Topic == "" {
		return models.ConnectionDetails{}, ErrMissingTopic
	}

	start := time.Now()
	roomName := fmt.Sprintf("interview-%s", uuid.NewString())
	logger := logging.WithRoom(roomName)

	// The metadata is consumed by the external voice-agent worker, not by us.
	metadata, err := json.Marshal(prompt)
	if err != nil {
		return models.ConnectionDetails{}, fmt.Errorf("serialize prompt: %w", err)
	}

	_, err = p.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:         roomName,
		Metadata:     string(metadata),
		EmptyTimeout: uint32(p.cfg.EmptyTimeout.Seconds()),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Room creation failed")
		p.metrics.RecordProvision(err, "upstream", time.Since(start).Seconds())
		return models.ConnectionDetails{}, fmt.Errorf("%w: %v", ErrProvisioning, err)
	}

	identity := fmt.Sprintf("voice_assistant_user_%s", uuid.NewString())
	token, err := p.participantToken(roomName, identity)
	if err != nil {
		logger.Error().Err(err).Msg("Token signing failed")
		p.metrics.RecordProvision(err, "token", time.Since(start).Seconds())
		return models.ConnectionDetails{}, fmt.Errorf("%w: %v", ErrProvisioning, err)
	}

	p.metrics.RecordProvision(nil, "", time.Since(start).Seconds())
	logger.Info().
		Str("identity", identity).
		Str("topic", prompt.Topic).
		Dur("duration", time.Since(start)).
		Msg("Session provisioned")

	return models.ConnectionDetails{
		ServerURL:           wsURL(p.cfg.URL),
		RoomName:            roomName,
		ParticipantIdentity: identity,
		ParticipantToken:    token,
	}, nil
}

// participantToken signs a credential granting join/publish/subscribe/publish-data
// rights for exactly one room. Expiry follows the signer's default policy.
func (p *Provisioner) participantToken(roomName, identity string) (string, error) {
	canPublish := true
	canSubscribe := true
	canPublishData := true

	at := auth.NewAccessToken(p.cfg.APIKey, p.cfg.APISecret)
	at.SetIdentity(identity).
		SetVideoGrant(&auth.VideoGrant{
			Room:           roomName,
			RoomJoin:       true,
			CanPublish:     &canPublish,
			CanSubscribe:   &canSubscribe,
			CanPublishData: &canPublishData,
		})

	return at.ToJWT()
}

// wsURL rewrites the configured http(s) URL to the websocket scheme.
func wsURL(url string) string {
	if strings.HasPrefix(url, "http") {
		return "ws" + strings.TrimPrefix(url, "http")
	}
	return url
}
