// Package registry holds the catalog of trigger and action types offered to
// flow editors, with their display labels and details schemas.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/flowdesk/pkg/describe"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrUnknownTriggerType = errors.New("unknown trigger type")
	ErrUnknownActionType  = errors.New("unknown action type")
	ErrInvalidPayload     = errors.New("details payload does not match schema")
)

// Kind tells triggers and actions apart in the catalog.
type Kind string

const (
	KindTrigger Kind = "trigger"
	KindAction  Kind = "action"
)

// Descriptor describes one trigger or action type to editors.
type Descriptor struct {
	Kind   Kind               `json:"kind"`
	Type   string             `json:"type"`
	Title  string             `json:"title"`
	Icon   describe.Icon      `json:"icon"`
	Schema *models.JSONSchema `json:"schema"`
}

// SchemaError lists every schema violation found in a details payload.
type SchemaError struct {
	Type       string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid details for %s: %s", e.Type, strings.Join(e.Violations, "; "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidPayload
}

type Registry struct {
	logger       *slog.Logger
	triggers     map[models.TriggerType]*Descriptor
	actions      map[models.ActionType]*Descriptor
	triggerOrder []models.TriggerType
	actionOrder  []models.ActionType
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:   log,
		triggers: make(map[models.TriggerType]*Descriptor),
		actions:  make(map[models.ActionType]*Descriptor),
	}
}

// Default returns a registry holding every canonical trigger and action type.
func Default(log *slog.Logger) *Registry {
	reg := NewRegistry(log)

	for _, t := range models.TriggerTypes {
		reg.RegisterTrigger(t, models.TriggerDetailsSchema(t))
	}

	for _, a := range models.ActionTypes {
		reg.RegisterAction(a, models.ActionDetailsSchema(a))
	}

	return reg
}

// RegisterTrigger adds or replaces a trigger type.
func (r *Registry) RegisterTrigger(t models.TriggerType, schema *models.JSONSchema) {
	if _, exists := r.triggers[t]; !exists {
		r.triggerOrder = append(r.triggerOrder, t)
	}

	r.triggers[t] = &Descriptor{
		Kind:   KindTrigger,
		Type:   string(t),
		Title:  describe.TriggerTitle(t),
		Icon:   describe.TriggerIcon(t),
		Schema: schema,
	}

	r.logger.Debug("Registered trigger type", "type", t)
}

// RegisterAction adds or replaces an action type.
func (r *Registry) RegisterAction(a models.ActionType, schema *models.JSONSchema) {
	if _, exists := r.actions[a]; !exists {
		r.actionOrder = append(r.actionOrder, a)
	}

	r.actions[a] = &Descriptor{
		Kind:   KindAction,
		Type:   string(a),
		Title:  describe.ActionTitle(a),
		Icon:   describe.ActionIcon(a),
		Schema: schema,
	}

	r.logger.Debug("Registered action type", "type", a)
}

// Triggers returns the registered trigger types in registration order.
func (r *Registry) Triggers() []*Descriptor {
	descriptors := make([]*Descriptor, 0, len(r.triggerOrder))
	for _, t := range r.triggerOrder {
		descriptors = append(descriptors, r.triggers[t])
	}

	return descriptors
}

// Actions returns the registered action types in registration order.
func (r *Registry) Actions() []*Descriptor {
	descriptors := make([]*Descriptor, 0, len(r.actionOrder))
	for _, a := range r.actionOrder {
		descriptors = append(descriptors, r.actions[a])
	}

	return descriptors
}

// Trigger looks up a trigger type; legacy aliases are resolved first.
func (r *Registry) Trigger(tag string) (*Descriptor, bool) {
	t, _ := models.ParseTriggerType(tag)
	d, ok := r.triggers[t]

	return d, ok
}

// Action looks up an action type; legacy aliases are resolved first.
func (r *Registry) Action(tag string) (*Descriptor, bool) {
	a, _ := models.ParseActionType(tag)
	d, ok := r.actions[a]

	return d, ok
}

// ValidateTriggerDetails checks a loosely typed payload against the schema
// of its trigger type.
func (r *Registry) ValidateTriggerDetails(tag string, payload map[string]any) error {
	descriptor, ok := r.Trigger(tag)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTriggerType, tag)
	}

	return validate(descriptor, payload)
}

// ValidateActionDetails checks a loosely typed payload against the schema of
// its action type.
func (r *Registry) ValidateActionDetails(tag string, payload map[string]any) error {
	descriptor, ok := r.Action(tag)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownActionType, tag)
	}

	return validate(descriptor, payload)
}

// HealthCheck reports whether the catalog offers at least one trigger and one action.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.triggers) == 0 || len(r.actions) == 0 {
		return "Registry has no trigger or action types", false
	}

	return fmt.Sprintf("Registry has %d trigger and %d action types", len(r.triggers), len(r.actions)), true
}

func validate(descriptor *Descriptor, payload map[string]any) error {
	if descriptor.Schema == nil {
		return nil
	}

	if payload == nil {
		payload = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(descriptor.Schema),
		gojsonschema.NewGoLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to validate %s details: %w", descriptor.Type, err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, violation := range result.Errors() {
		violations = append(violations, violation.String())
	}

	return &SchemaError{Type: descriptor.Type, Violations: violations}
}

// IsSchemaViolation checks if an error is a payload/schema mismatch.
func IsSchemaViolation(err error) bool {
	return errors.Is(err, ErrInvalidPayload)
}

// IsUnknownType checks if an error reports an unregistered trigger or action type.
func IsUnknownType(err error) bool {
	return errors.Is(err, ErrUnknownTriggerType) || errors.Is(err, ErrUnknownActionType)
}
