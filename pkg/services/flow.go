package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrFlowNotFound is returned when a flow is not found.
	ErrFlowNotFound = persistence.ErrFlowNotFound
)

type Flow struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
	validate    *validator.Validate
}

// NewFlow creates a new flow service. A nil publisher disables lifecycle events.
func NewFlow(
	persistence persistence.Persistence,
	reg *registry.Registry,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Flow {
	return &Flow{
		persistence: persistence,
		registry:    reg,
		publisher:   publisher,
		tracer:      tracer,
		logger:      logger,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HealthCheck checks the health of the persistence layer.
func (f *Flow) HealthCheck(ctx context.Context) (string, bool) {
	if f.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := f.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListFlowsRequest contains options for listing flows.
type ListFlowsRequest struct {
	Limit  int
	Offset int

	OrganizationID string
	EventID        string
	Active         *bool
	Template       *bool

	SortBy    string
	SortOrder string
}

// ListFlowsResponse contains the result of listing flows.
type ListFlowsResponse struct {
	Flows       []*models.Flow `json:"flows"`
	TotalCount  int64          `json:"total_count"`
	HasNextPage bool           `json:"has_next_page"`
}

// ListFlows retrieves flows with filtering, sorting, and pagination.
func (f *Flow) ListFlows(ctx context.Context, req ListFlowsRequest) (*ListFlowsResponse, error) {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flows.list",
		attribute.String(otelhelper.OrganizationIDKey, req.OrganizationID),
		attribute.String(otelhelper.EventIDKey, req.EventID),
	)
	defer span.End()

	if err := validateListFlowsRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	result, err := f.persistence.FlowRepository().ListFlows(ctx, persistence.ListFlowsOptions{
		OrganizationID: req.OrganizationID,
		EventID:        req.EventID,
		Active:         req.Active,
		Template:       req.Template,
		SortBy:         req.SortBy,
		SortOrder:      req.SortOrder,
		Limit:          req.Limit,
		Offset:         req.Offset,
	})
	if err != nil {
		if persistence.IsInvalidSortField(err) {
			return nil, ErrInvalidSortField
		}

		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	return &ListFlowsResponse{
		Flows:       result.Flows,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

// validateListFlowsRequest validates and sets defaults for the request.
func validateListFlowsRequest(req *ListFlowsRequest) error {
	if req.Limit <= 0 {
		req.Limit = persistence.DefaultListLimit
	}

	if req.Limit > persistence.MaxListLimit {
		req.Limit = persistence.MaxListLimit
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = persistence.SortByCreatedAt
	}

	if req.SortOrder == "" {
		req.SortOrder = persistence.SortOrderDesc
	}

	allowedSorts := []string{persistence.SortByCreatedAt, persistence.SortByUpdatedAt, persistence.SortByName}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListFlowsRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != persistence.SortOrderAsc && req.SortOrder != persistence.SortOrderDesc {
		return NewValidationError(
			"validateListFlowsRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	req.OrganizationID = strings.TrimSpace(req.OrganizationID)
	req.EventID = strings.TrimSpace(req.EventID)

	return nil
}

// FetchByID retrieves a flow by its ID.
func (f *Flow) FetchByID(ctx context.Context, id string) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flows.fetch", attribute.String(otelhelper.FlowIDKey, id))
	defer span.End()

	return f.fetch(ctx, id)
}

// Create stores a new flow on behalf of actor.
func (f *Flow) Create(ctx context.Context, flow *models.Flow, actor string) (*models.Flow, error) {
	if flow == nil {
		return nil, ErrFlowNil
	}

	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flows.create",
		attribute.String(otelhelper.OrganizationIDKey, flow.OrganizationID),
		attribute.String(otelhelper.ActorKey, actor),
	)
	defer span.End()

	now := time.Now().UTC()
	flow.ID = uuid.New().String()
	flow.CreatedAt = now
	flow.UpdatedAt = now
	flow.CreatedBy = actor
	flow.UpdatedBy = actor
	flow.TemplateID = strings.TrimSpace(flow.TemplateID)
	assignItemIDs(flow)

	err := f.check(flow)
	if err != nil {
		return nil, err
	}

	err = f.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to create flow: %w", err)
	}

	f.publish(ctx, flow.ID, events.FlowCreated{
		BaseEvent: f.baseEvent(events.FlowCreatedEvent, flow, actor),
		Name:      flow.Name,
		EventID:   flow.EventID,
		Template:  flow.Template,
	})

	return flow, nil
}

// Update replaces an existing flow. Identity and creation audit fields are kept.
func (f *Flow) Update(ctx context.Context, id string, flow *models.Flow, actor string) (*models.Flow, error) {
	if flow == nil {
		return nil, ErrFlowNil
	}

	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flows.update",
		attribute.String(otelhelper.FlowIDKey, id),
		attribute.String(otelhelper.ActorKey, actor),
	)
	defer span.End()

	existing, err := f.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	flow.ID = id
	flow.CreatedAt = existing.CreatedAt
	flow.CreatedBy = existing.CreatedBy
	flow.UpdatedAt = time.Now().UTC()
	flow.UpdatedBy = actor
	assignItemIDs(flow)

	err = f.check(flow)
	if err != nil {
		return nil, err
	}

	err = f.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to update flow: %w", err)
	}

	f.publish(ctx, flow.ID, events.FlowUpdated{
		BaseEvent: f.baseEvent(events.FlowUpdatedEvent, flow, actor),
		Name:      flow.Name,
	})

	return flow, nil
}

// Delete removes a flow by its ID.
func (f *Flow) Delete(ctx context.Context, id string, actor string) error {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flows.delete",
		attribute.String(otelhelper.FlowIDKey, id),
		attribute.String(otelhelper.ActorKey, actor),
	)
	defer span.End()

	existing, err := f.fetch(ctx, id)
	if err != nil {
		return err
	}

	err = f.persistence.FlowRepository().Delete(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("failed to delete flow: %w", err)
	}

	f.publish(ctx, id, events.FlowDeleted{
		BaseEvent: f.baseEvent(events.FlowDeletedEvent, existing, actor),
	})

	return nil
}

// SetActive switches a flow on or off. Switching to the current state is a no-op.
func (f *Flow) SetActive(ctx context.Context, id string, active bool, actor string) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flows.set_active",
		attribute.String(otelhelper.FlowIDKey, id),
		attribute.Bool("flowdesk.flow.active", active),
		attribute.String(otelhelper.ActorKey, actor),
	)
	defer span.End()

	flow, err := f.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if flow.Active == active {
		return flow, nil
	}

	flow.Active = active

	err = checkActivation(flow)
	if err != nil {
		return nil, err
	}

	flow.UpdatedAt = time.Now().UTC()
	flow.UpdatedBy = actor

	err = f.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to save flow: %w", err)
	}

	if active {
		f.publish(ctx, id, events.FlowActivated{BaseEvent: f.baseEvent(events.FlowActivatedEvent, flow, actor)})
	} else {
		f.publish(ctx, id, events.FlowDeactivated{BaseEvent: f.baseEvent(events.FlowDeactivatedEvent, flow, actor)})
	}

	return flow, nil
}

// Instantiate copies a template into a new, inactive flow bound to eventID.
func (f *Flow) Instantiate(ctx context.Context, templateID, eventID, actor string) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "flows.instantiate",
		attribute.String(otelhelper.TemplateIDKey, templateID),
		attribute.String(otelhelper.EventIDKey, eventID),
		attribute.String(otelhelper.ActorKey, actor),
	)
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, ErrEventIDRequired
	}

	template, err := f.fetch(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if !template.Template {
		return nil, ErrNotTemplate
	}

	now := time.Now().UTC()
	instance := template.Copy()
	instance.ID = uuid.New().String()
	instance.EventID = eventID
	instance.TemplateID = template.ID
	instance.Template = false
	instance.Active = false
	instance.CreatedAt = now
	instance.UpdatedAt = now
	instance.CreatedBy = actor
	instance.UpdatedBy = actor

	for _, trigger := range instance.Triggers {
		trigger.ID = uuid.New().String()
	}

	for _, action := range instance.Actions {
		action.ID = uuid.New().String()
	}

	err = f.persistence.FlowRepository().Save(ctx, instance)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to save flow instance: %w", err)
	}

	f.publish(ctx, instance.ID, events.FlowInstantiated{
		BaseEvent:  f.baseEvent(events.FlowInstantiatedEvent, instance, actor),
		TemplateID: template.ID,
		EventID:    eventID,
	})

	return instance, nil
}

func (f *Flow) fetch(ctx context.Context, id string) (*models.Flow, error) {
	flow, err := f.persistence.FlowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if flow == nil {
		return nil, ErrFlowNotFound
	}

	return flow, nil
}

// check validates the flow shape, the details of every trigger and action
// against the catalog, and the activation rules.
func (f *Flow) check(flow *models.Flow) error {
	err := f.validate.Struct(flow)
	if err != nil {
		return NewValidationError("check", "INVALID_FLOW", err.Error(), ErrInvalidFlow)
	}

	if flow.Template && flow.EventID != "" {
		return ErrTemplateWithEvent
	}

	for _, trigger := range flow.Triggers {
		err := f.checkDetails(string(trigger.Type), trigger.Details, f.registry.ValidateTriggerDetails)
		if err != nil {
			return err
		}
	}

	for _, action := range flow.Actions {
		err := f.checkDetails(string(action.Type), action.Details, f.registry.ValidateActionDetails)
		if err != nil {
			return err
		}
	}

	return checkActivation(flow)
}

func (f *Flow) checkDetails(tag string, details any, validate func(string, map[string]any) error) error {
	payload, err := detailsPayload(details)
	if err != nil {
		return NewValidationError("checkDetails", "INVALID_DETAILS", err.Error(), ErrInvalidDetails)
	}

	err = validate(tag, payload)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, registry.ErrUnknownTriggerType):
		return NewValidationError("checkDetails", "UNKNOWN_TRIGGER_TYPE", err.Error(), ErrUnknownTriggerType)
	case errors.Is(err, registry.ErrUnknownActionType):
		return NewValidationError("checkDetails", "UNKNOWN_ACTION_TYPE", err.Error(), ErrUnknownActionType)
	case registry.IsSchemaViolation(err):
		return NewValidationError("checkDetails", "INVALID_DETAILS", err.Error(), ErrInvalidDetails)
	default:
		return fmt.Errorf("failed to validate %s details: %w", tag, err)
	}
}

func checkActivation(flow *models.Flow) error {
	if !flow.Active {
		return nil
	}

	if flow.Template {
		return ErrTemplateActivation
	}

	if len(flow.Triggers) == 0 {
		return ErrTriggersRequired
	}

	if len(flow.Actions) == 0 {
		return ErrActionsRequired
	}

	return nil
}

// detailsPayload turns a details variant back into the loose form the
// catalog schemas are written against.
func detailsPayload(details any) (map[string]any, error) {
	payload := map[string]any{}

	if details == nil {
		return payload, nil
	}

	switch d := details.(type) {
	case models.UnknownTriggerDetails:
		return d.Fields, nil
	case models.UnknownActionDetails:
		return d.Fields, nil
	}

	data, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(data, &payload)
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// assignItemIDs drops nil entries and gives new triggers and actions an id.
func assignItemIDs(flow *models.Flow) {
	flow.Triggers = slices.DeleteFunc(flow.Triggers, func(t *models.Trigger) bool { return t == nil })
	flow.Actions = slices.DeleteFunc(flow.Actions, func(a *models.Action) bool { return a == nil })

	for _, trigger := range flow.Triggers {
		if trigger.ID == "" {
			trigger.ID = uuid.New().String()
		}

		if trigger.Details == nil {
			trigger.Details = models.EmptyTriggerDetails(trigger.Type)
		}
	}

	for _, action := range flow.Actions {
		if action.ID == "" {
			action.ID = uuid.New().String()
		}

		if action.Details == nil {
			action.Details = models.EmptyActionDetails(action.Type)
		}
	}
}

func (f *Flow) baseEvent(eventType events.EventType, flow *models.Flow, actor string) events.BaseEvent {
	base := events.NewBaseEvent(eventType, flow.ID)
	base.OrganizationID = flow.OrganizationID
	base.Actor = actor

	return base
}

func (f *Flow) publish(ctx context.Context, flowID string, event eventbus.Event) {
	if f.publisher == nil {
		return
	}

	err := f.publisher.Publish(ctx, flowID, event)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to publish flow event", "event_type", event.GetType(), "flow_id", flowID, "error", err)
	}
}
