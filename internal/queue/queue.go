package queue

import "context"

const (
	// WorkQueueName is the single delivery work queue. Channel selection
	// happens inside the orchestrator, so there is one queue for all
	// notifications rather than one per channel.
	WorkQueueName = "deliveries"

	// DLQName receives rejected delivery messages.
	DLQName = "dlq.deliveries"
)

// Publisher publishes delivery messages to the work queue.
type Publisher interface {
	Publish(ctx context.Context, msg DeliveryMessage) error
	Close() error
}

// MessageHandler handles a consumed delivery message.
type MessageHandler func(ctx context.Context, msg DeliveryMessage) error

// Consumer consumes delivery messages from the work queue.
type Consumer interface {
	Consume(ctx context.Context, handler MessageHandler) error
	Close() error
}
