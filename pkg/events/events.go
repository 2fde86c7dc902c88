// Package events defines the flow lifecycle and dashboard events published on the event bus.
package events

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dukex/flowdesk/pkg/dashboard"
	"github.com/google/uuid"
)

type EventType string

var ErrUnknownEventType = errors.New("unknown event type")

// Topic carries every flowdesk event.
const Topic = "flowdesk.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	FlowCreatedEvent      EventType = "flow.created"
	FlowUpdatedEvent      EventType = "flow.updated"
	FlowDeletedEvent      EventType = "flow.deleted"
	FlowActivatedEvent    EventType = "flow.activated"
	FlowDeactivatedEvent  EventType = "flow.deactivated"
	FlowInstantiatedEvent EventType = "flow.instantiated"

	DashboardSnapshotEvent EventType = "dashboard.snapshot"
)

// EventTypes lists every event type published on Topic.
var EventTypes = []EventType{
	FlowCreatedEvent,
	FlowUpdatedEvent,
	FlowDeletedEvent,
	FlowActivatedEvent,
	FlowDeactivatedEvent,
	FlowInstantiatedEvent,
	DashboardSnapshotEvent,
}

// ParseEventTypes validates a list of event type names. An empty list
// selects every type.
func ParseEventTypes(names []string) ([]EventType, error) {
	if len(names) == 0 {
		return EventTypes, nil
	}

	types := make([]EventType, 0, len(names))

	for _, name := range names {
		t := EventType(name)
		if !slices.Contains(EventTypes, t) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, name)
		}

		types = append(types, t)
	}

	return types, nil
}

type BaseEvent struct {
	ID             string         `json:"id"`
	Type           EventType      `json:"type"`
	Timestamp      time.Time      `json:"timestamp"`
	FlowID         string         `json:"flow_id,omitempty"`
	OrganizationID string         `json:"organization_id,omitempty"`
	Actor          string         `json:"actor,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type FlowCreated struct {
	BaseEvent

	Name     string `json:"name"`
	EventID  string `json:"event_id,omitempty"`
	Template bool   `json:"template"`
}

func (FlowCreated) GetType() EventType {
	return FlowCreatedEvent
}

type FlowUpdated struct {
	BaseEvent

	Name string `json:"name"`
}

func (FlowUpdated) GetType() EventType {
	return FlowUpdatedEvent
}

type FlowDeleted struct {
	BaseEvent
}

func (FlowDeleted) GetType() EventType {
	return FlowDeletedEvent
}

type FlowActivated struct {
	BaseEvent
}

func (FlowActivated) GetType() EventType {
	return FlowActivatedEvent
}

type FlowDeactivated struct {
	BaseEvent
}

func (FlowDeactivated) GetType() EventType {
	return FlowDeactivatedEvent
}

// FlowInstantiated is published when a template is copied into an event.
type FlowInstantiated struct {
	BaseEvent

	TemplateID string `json:"template_id"`
	EventID    string `json:"event_id"`
}

func (FlowInstantiated) GetType() EventType {
	return FlowInstantiatedEvent
}

// DashboardSnapshot carries a periodically computed dashboard summary.
type DashboardSnapshot struct {
	BaseEvent

	Summary dashboard.Summary `json:"summary"`
}

func (DashboardSnapshot) GetType() EventType {
	return DashboardSnapshotEvent
}

func NewBaseEvent(eventType EventType, flowID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		FlowID:    flowID,
		Metadata:  make(map[string]any),
	}
}

// New returns a pointer to an empty event of eventType, ready to be decoded
// into, or nil for an unknown type.
func New(eventType EventType) any {
	switch eventType {
	case FlowCreatedEvent:
		return &FlowCreated{}
	case FlowUpdatedEvent:
		return &FlowUpdated{}
	case FlowDeletedEvent:
		return &FlowDeleted{}
	case FlowActivatedEvent:
		return &FlowActivated{}
	case FlowDeactivatedEvent:
		return &FlowDeactivated{}
	case FlowInstantiatedEvent:
		return &FlowInstantiated{}
	case DashboardSnapshotEvent:
		return &DashboardSnapshot{}
	default:
		return nil
	}
}
