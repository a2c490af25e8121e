package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/credon/authserver/config"
)

// Event names emitted by the auth service.
const (
	UserSignedUp           = "user.signed_up"
	PasswordResetRequested = "password.reset_requested"
	PasswordResetCompleted = "password.reset_completed"
)

const defaultChannel = "auth-events"

// Event is the payload published for an auth-domain occurrence. It carries
// no password or token material.
type Event struct {
	Name       string    `json:"event"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Backend defines the broker-agnostic publish operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Publisher wraps a backend with a stable API. A Publisher with no backend
// drops events, so callers never branch on whether publishing is enabled.
type Publisher struct {
	backend Backend
	channel string
}

// New constructs a Publisher for the provided backend.
func New(backend Backend) *Publisher {
	return &Publisher{backend: backend, channel: defaultChannel}
}

// NewNop constructs a Publisher that discards all events.
func NewNop() *Publisher {
	return &Publisher{}
}

// FromConfig constructs a Publisher for the configured broker. An empty
// broker name yields a no-op publisher.
func FromConfig(ctx context.Context, cfg config.EventsConfig) (*Publisher, error) {
	switch cfg.Broker {
	case "":
		return NewNop(), nil
	case "rabbitmq":
		backend, err := NewRabbitMQBackend(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	case "pubsub":
		backend, err := NewPubSubBackend(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	default:
		return nil, fmt.Errorf("unknown events broker %q", cfg.Broker)
	}
}

// Publish sends an event to the auth-events channel.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if p.backend == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.backend.Publish(ctx, p.channel, data, map[string]string{"event": event.Name})
	return err
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	if p.backend == nil {
		return nil
	}
	return p.backend.Close()
}
