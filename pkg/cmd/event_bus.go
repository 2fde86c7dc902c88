package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/flowdesk/pkg/channels/gochannel"
	"github.com/dukex/flowdesk/pkg/channels/kafka"
	"github.com/dukex/flowdesk/pkg/eventbus"
)

const serviceName = "flowdesk"

// NewEventBus creates the event bus for provider. "memory" keeps events in
// process; "kafka" publishes to brokers, a comma separated list.
func NewEventBus(provider string, logger *slog.Logger, brokers string) (*eventbus.WatermillEventBus, error) {
	return NewEventBusForService(provider, logger, brokers, serviceName)
}

// NewEventBusForService is NewEventBus with the Kafka client and consumer
// group named after service, so several consumers each see every event.
func NewEventBusForService(provider string, logger *slog.Logger, brokers, service string) (*eventbus.WatermillEventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "memory", "gochannel", "":
		pub, sub, err := gochannel.CreateChannel(wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	case "kafka":
		pub, sub, err := kafka.CreateChannel(wmLogger, service, kafka.ParseBrokers(brokers))
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
