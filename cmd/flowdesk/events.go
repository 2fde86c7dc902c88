package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/urfave/cli/v3"
)

func NewEventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Consume flowdesk events",
		Commands: []*cli.Command{
			{
				Name:  "watch",
				Usage: "Print events from the bus as JSON lines until interrupted",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "event-bus",
						Usage:   "Event bus type (memory, kafka)",
						Value:   "kafka",
						Sources: cli.EnvVars("EVENT_BUS_TYPE"),
					},
					&cli.StringFlag{
						Name:    "kafka-brokers",
						Usage:   "Comma separated Kafka brokers",
						Value:   "localhost:9092",
						Sources: cli.EnvVars("KAFKA_BROKERS"),
					},
					&cli.StringFlag{
						Name:  "group",
						Usage: "Kafka consumer group suffix",
						Value: "flowdesk-watch",
					},
					&cli.StringSliceFlag{
						Name:  "type",
						Usage: "Only print events of this type, may be repeated",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					types, err := events.ParseEventTypes(command.StringSlice("type"))
					if err != nil {
						return err
					}

					logger := slog.Default()

					bus, err := cmd.NewEventBusForService(
						command.String("event-bus"),
						logger,
						command.String("kafka-brokers"),
						command.String("group"),
					)
					if err != nil {
						return err
					}

					defer func() {
						if err := bus.Close(); err != nil {
							logger.Error("Failed to close event bus", "error", err)
						}
					}()

					ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
					defer stop()

					if err := watchEvents(ctx, bus, command.Root().Writer, types); err != nil {
						return err
					}

					logger.Info("Watching events", "types", types)
					<-ctx.Done()

					return nil
				},
			},
		},
	}
}

// watchEvents writes every event of types to w, one JSON document per line.
func watchEvents(ctx context.Context, sub eventbus.EventSubscriber, w io.Writer, types []events.EventType) error {
	encoder := json.NewEncoder(w)

	err := eventbus.HandleEach(sub, func(_ context.Context, event any) error {
		return encoder.Encode(event)
	}, types...)
	if err != nil {
		return err
	}

	return sub.Subscribe(ctx)
}
