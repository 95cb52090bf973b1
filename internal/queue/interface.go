package queue

import (
	"context"
)

// MessageInterface is what a consumer needs from a delivered event message.
// The indirection allows mock implementations in worker tests.
type MessageInterface interface {
	Ack() error
	Nack(requeue bool) error
	GetEvent() *LoginEvent
}

// EventQueue is the interface for the login audit event queue.
type EventQueue interface {
	// Publish adds a login event to the queue.
	Publish(ctx context.Context, event *LoginEvent) error

	// Consume returns a channel of messages from the queue. Messages are
	// delivered asynchronously; the caller acknowledges each one. Prefetch
	// controls how many unacknowledged messages each consumer can hold.
	// Both channels close when the context is cancelled or an error occurs.
	Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error)

	// Close closes the queue connection.
	Close() error

	// HealthCheck verifies the queue connection is healthy.
	HealthCheck(ctx context.Context) error
}
