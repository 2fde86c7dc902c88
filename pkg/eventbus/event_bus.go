// Package eventbus publishes and consumes flowdesk events over watermill.
//
// Flowdesk stores and describes flows but does not run them. An executor
// running elsewhere consumes the lifecycle events through EventSubscriber,
// and the flowdesk CLI uses the same interface to watch the bus.
package eventbus

import (
	"context"
	"fmt"

	"github.com/dukex/flowdesk/pkg/events"
)

// Event is a payload that can be published on the bus.
type Event interface {
	GetType() events.EventType
}

// EventPublisher sends events keyed by flow so that events of one flow keep
// their order on partitioned transports.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// EventSubscriber routes consumed events to one handler per type. Handlers
// are registered before Subscribe starts consuming.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventHandler receives the decoded event as returned by events.New. A
// returned error nacks the message.
type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

// HandleEach registers handler for every type in eventTypes.
func HandleEach(sub EventSubscriber, handler EventHandler, eventTypes ...events.EventType) error {
	for _, eventType := range eventTypes {
		if err := sub.Handle(eventType, handler); err != nil {
			return fmt.Errorf("failed to register handler for %s: %w", eventType, err)
		}
	}

	return nil
}
