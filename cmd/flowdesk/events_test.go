package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestWatchEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := cmd.NewEventBus("memory", slog.Default(), "")
	require.NoError(t, err)

	t.Cleanup(func() { _ = bus.Close() })

	var out syncBuffer

	require.NoError(t, watchEvents(ctx, bus, &out, []events.EventType{events.FlowActivatedEvent}))

	require.NoError(t, bus.Publish(ctx, "flow-1", events.FlowUpdated{BaseEvent: events.NewBaseEvent(events.FlowUpdatedEvent, "flow-1")}))
	require.NoError(t, bus.Publish(ctx, "flow-1", events.FlowActivated{BaseEvent: events.NewBaseEvent(events.FlowActivatedEvent, "flow-1")}))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "\n")
	}, 5*time.Second, 10*time.Millisecond)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)

	var event events.FlowActivated
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, events.FlowActivatedEvent, event.Type)
	assert.Equal(t, "flow-1", event.FlowID)
}

func TestEventsWatch_UnknownType(t *testing.T) {
	app := NewApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run(context.Background(), []string{"flowdesk", "events", "watch", "--event-bus", "memory", "--type", "flow.executed"})
	require.ErrorIs(t, err, events.ErrUnknownEventType)
}
