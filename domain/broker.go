package domain

import (
	"context"
	"time"
)

// MessageBroker defines the interface for message broker operations
type MessageBroker interface {
	// Publish sends a message to a specific topic/channel with a routing key
	Publish(ctx context.Context, topic string, routingKey string, message []byte) error

	// Subscribe listens for messages on a specific topic/channel and routing key
	Subscribe(ctx context.Context, topic string, routingKey string) (<-chan Message, error)

	// Close closes the message broker connection
	Close() error
}

// Message represents a message received from the broker
type Message struct {
	Topic      string
	RoutingKey string
	Payload    []byte
	Timestamp  time.Time
}

// FeedbackEvent is published when a feedback run completes, so connected
// clients can be told the report is ready without polling.
type FeedbackEvent struct {
	RunID     string          `json:"run_id"`
	UserID    string          `json:"user_id,omitempty"`
	Fallback  bool            `json:"fallback"`
	Reason    string          `json:"reason,omitempty"`
	Feedback  FeedbackPayload `json:"feedback"`
	Timestamp time.Time       `json:"timestamp"`
}
