package domain

import (
	"context"
)

// EventBus defines the interface for publishing the labeled stream to
// downstream consumers (scoring services, dashboards). Supports Go channels
// for in-process consumers or NATS for shared deployments. All methods take
// a runID so consumers can isolate streams from concurrent runs.
type EventBus interface {
	// Publish sends a message to a topic.
	Publish(ctx context.Context, runID string, topic string, payload []byte) error

	// Subscribe registers a handler for a topic.
	// Returns a subscription that can be used to unsubscribe.
	Subscribe(ctx context.Context, runID string, topic string, handler MessageHandler) (Subscription, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// MessageHandler processes incoming messages.
type MessageHandler func(ctx context.Context, msg *Message) error

// Message represents an event message.
type Message struct {
	ID        string            `json:"id"`
	RunID     string            `json:"runId"`
	Topic     string            `json:"topic"`
	Payload   []byte            `json:"payload"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp int64             `json:"timestamp"`
}

// Subscription represents an active subscription.
type Subscription interface {
	// Unsubscribe stops receiving messages.
	Unsubscribe() error

	// Topic returns the subscribed topic.
	Topic() string
}

// EventBusConfig holds configuration for event bus initialization.
type EventBusConfig struct {
	// Type is the bus type: "channel" or "nats"
	Type string

	// Channel settings (in-process)
	ChannelBufferSize int

	// NATS settings (shared deployments)
	NATSUrl           string
	NATSToken         string
	NATSMaxReconnects int
	NATSReconnectWait int // seconds
}

// Standard topic names for the replay stream.
const (
	TopicEventLabeled = "shrike.event.labeled"
	TopicRunCompleted = "shrike.run.completed"
)
