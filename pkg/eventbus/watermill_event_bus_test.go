package eventbus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/flowdesk/pkg/channels/gochannel"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBus(t *testing.T) *eventbus.WatermillEventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newBus(t)
	received := make(chan *events.FlowCreated, 1)

	require.NoError(t, bus.Handle(events.FlowCreatedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.FlowCreated)

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))

	err := bus.Publish(ctx, "flow-1", events.FlowCreated{
		BaseEvent: events.NewBaseEvent(events.FlowCreatedEvent, "flow-1"),
		Name:      "Reminders",
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "flow-1", event.FlowID)
		assert.Equal(t, "Reminders", event.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("flow.created event was not delivered")
	}
}

func TestWatermillEventBus_UnhandledTypesAreSkipped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newBus(t)
	received := make(chan events.EventType, 2)

	require.NoError(t, bus.Handle(events.FlowDeletedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.FlowDeleted).Type

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))

	require.NoError(t, bus.Publish(ctx, "flow-1", events.FlowUpdated{BaseEvent: events.NewBaseEvent(events.FlowUpdatedEvent, "flow-1")}))
	require.NoError(t, bus.Publish(ctx, "flow-1", events.FlowDeleted{BaseEvent: events.NewBaseEvent(events.FlowDeletedEvent, "flow-1")}))

	select {
	case eventType := <-received:
		assert.Equal(t, events.FlowDeletedEvent, eventType)
	case <-time.After(5 * time.Second):
		t.Fatal("flow.deleted event was not delivered")
	}

	assert.Len(t, received, 0)
	assert.NotEmpty(t, bus.GenerateID())
}

func TestHandleEach(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newBus(t)
	received := make(chan events.EventType, 2)

	handler := func(_ context.Context, event any) error {
		received <- event.(eventbus.Event).GetType()

		return nil
	}

	require.NoError(t, eventbus.HandleEach(bus, handler, events.FlowActivatedEvent, events.FlowDeactivatedEvent))
	require.NoError(t, bus.Subscribe(ctx))

	require.NoError(t, bus.Publish(ctx, "flow-1", events.FlowActivated{BaseEvent: events.NewBaseEvent(events.FlowActivatedEvent, "flow-1")}))
	require.NoError(t, bus.Publish(ctx, "flow-1", events.FlowDeactivated{BaseEvent: events.NewBaseEvent(events.FlowDeactivatedEvent, "flow-1")}))

	for _, expected := range []events.EventType{events.FlowActivatedEvent, events.FlowDeactivatedEvent} {
		select {
		case eventType := <-received:
			assert.Equal(t, expected, eventType)
		case <-time.After(5 * time.Second):
			t.Fatalf("%s event was not delivered", expected)
		}
	}
}

func TestHandleEach_StopsOnRegistrationError(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Handle", events.FlowCreatedEvent, mock.Anything).Return(errors.New("closed"))

	err := eventbus.HandleEach(bus, func(context.Context, any) error { return nil }, events.FlowCreatedEvent, events.FlowDeletedEvent)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow.created")
	bus.AssertNumberOfCalls(t, "Handle", 1)
}
