package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrInvalidDetails is returned when a details payload does not match the
// shape of its type.
var ErrInvalidDetails = errors.New("invalid details payload")

// TriggerDetails is the per-type configuration of a trigger. Each trigger type
// has exactly one implementation.
type TriggerDetails interface {
	TriggerType() TriggerType
}

// ActionDetails is the per-type configuration of an action. Each action type
// has exactly one implementation.
type ActionDetails interface {
	ActionType() ActionType
}

const (
	DateOperatorOn     = "on"
	DateOperatorBefore = "before"
	DateOperatorAfter  = "after"

	DateReferenceStart = "start"
	DateReferenceEnd   = "end"

	DirectionBefore = "before"
	DirectionAfter  = "after"

	AttendeeValueTypeNumber     = "number"
	AttendeeValueTypePercentage = "percentage"
)

// DateDetails configures a date trigger. It is either absolute (Operator and
// Value) or relative to the event (Reference, Direction, Amount and Unit).
type DateDetails struct {
	Operator  string `json:"operator,omitempty"`
	Value     string `json:"value,omitempty"`
	Reference string `json:"reference,omitempty"`
	Direction string `json:"direction,omitempty"`
	Amount    *int   `json:"amount,omitempty"`
	Unit      string `json:"unit,omitempty"`
}

func (DateDetails) TriggerType() TriggerType { return TriggerTypeDate }

// IsAbsolute reports whether the trigger compares against a fixed date.
func (d DateDetails) IsAbsolute() bool {
	return d.Operator != "" && d.Value != ""
}

// IsRelative reports whether the trigger is an offset from the event start or end.
func (d DateDetails) IsRelative() bool {
	return d.Reference != "" && d.Direction != "" && d.Amount != nil && d.Unit != ""
}

// AttendeeCountDetails fires when attendance crosses a threshold.
type AttendeeCountDetails struct {
	Operator  string   `json:"operator,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	ValueType string   `json:"valueType,omitempty"`
}

func (AttendeeCountDetails) TriggerType() TriggerType { return TriggerTypeAttendeeCount }

// StatusChangeTriggerDetails fires when the event moves to Status.
type StatusChangeTriggerDetails struct {
	Status string `json:"status,omitempty"`
}

func (StatusChangeTriggerDetails) TriggerType() TriggerType { return TriggerTypeStatusChange }

// RegistrationDetails fires on every new registration and carries no configuration.
type RegistrationDetails struct{}

func (RegistrationDetails) TriggerType() TriggerType { return TriggerTypeRegistration }

// UnknownTriggerDetails keeps the payload of a trigger type this build does
// not know about so that it survives a read/write cycle.
type UnknownTriggerDetails struct {
	Type   TriggerType
	Fields map[string]any
}

func (u UnknownTriggerDetails) TriggerType() TriggerType { return u.Type }

type EmailDetails struct {
	Subject    string   `json:"subject,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
	Body       string   `json:"body,omitempty"`
}

func (EmailDetails) ActionType() ActionType { return ActionTypeEmail }

type NotificationDetails struct {
	Message    string   `json:"message,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

func (NotificationDetails) ActionType() ActionType { return ActionTypeNotification }

type StatusChangeActionDetails struct {
	NewStatus string `json:"newStatus,omitempty"`
}

func (StatusChangeActionDetails) ActionType() ActionType { return ActionTypeStatusChange }

// FileShareDetails shares an event file. Status is the access level granted.
type FileShareDetails struct {
	FileID string `json:"fileId,omitempty"`
	Status string `json:"status,omitempty"`
}

func (FileShareDetails) ActionType() ActionType { return ActionTypeFileShare }

type ImageChangeDetails struct {
	ImageURL string `json:"imageUrl,omitempty"`
}

func (ImageChangeDetails) ActionType() ActionType { return ActionTypeImageChange }

type TitleChangeDetails struct {
	NewTitle string `json:"newTitle,omitempty"`
}

func (TitleChangeDetails) ActionType() ActionType { return ActionTypeTitleChange }

type DescriptionChangeDetails struct {
	NewDescription string `json:"newDescription,omitempty"`
}

func (DescriptionChangeDetails) ActionType() ActionType { return ActionTypeDescriptionChange }

// UnknownActionDetails keeps the payload of an unrecognised action type.
type UnknownActionDetails struct {
	Type   ActionType
	Fields map[string]any
}

func (u UnknownActionDetails) ActionType() ActionType { return u.Type }

// EmptyTriggerDetails returns the zero-valued variant for t.
//
//nolint:ireturn // tagged union
func EmptyTriggerDetails(t TriggerType) TriggerDetails {
	switch t {
	case TriggerTypeDate:
		return DateDetails{}
	case TriggerTypeAttendeeCount:
		return AttendeeCountDetails{}
	case TriggerTypeStatusChange:
		return StatusChangeTriggerDetails{}
	case TriggerTypeRegistration:
		return RegistrationDetails{}
	default:
		return UnknownTriggerDetails{Type: t, Fields: map[string]any{}}
	}
}

// EmptyActionDetails returns the zero-valued variant for t.
//
//nolint:ireturn // tagged union
func EmptyActionDetails(t ActionType) ActionDetails {
	switch t {
	case ActionTypeEmail:
		return EmailDetails{}
	case ActionTypeNotification:
		return NotificationDetails{}
	case ActionTypeStatusChange:
		return StatusChangeActionDetails{}
	case ActionTypeFileShare:
		return FileShareDetails{}
	case ActionTypeImageChange:
		return ImageChangeDetails{}
	case ActionTypeTitleChange:
		return TitleChangeDetails{}
	case ActionTypeDescriptionChange:
		return DescriptionChangeDetails{}
	default:
		return UnknownActionDetails{Type: t, Fields: map[string]any{}}
	}
}

// DecodeTriggerDetails decodes raw JSON into the variant selected by tag.
// Aliased tags are normalised first. A missing or null payload yields the
// empty variant; a field of the wrong JSON type is an error.
//
//nolint:ireturn // tagged union
func DecodeTriggerDetails(tag string, raw json.RawMessage) (TriggerDetails, error) {
	t, known := ParseTriggerType(tag)
	if !known {
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, &DetailsError{Type: tag, Err: err}
		}

		return UnknownTriggerDetails{Type: t, Fields: fields}, nil
	}

	var (
		details TriggerDetails
		err     error
	)

	switch t {
	case TriggerTypeDate:
		details, err = decodeVariant[DateDetails](raw)
	case TriggerTypeAttendeeCount:
		details, err = decodeVariant[AttendeeCountDetails](raw)
	case TriggerTypeStatusChange:
		details, err = decodeVariant[StatusChangeTriggerDetails](raw)
	case TriggerTypeRegistration:
		details, err = decodeVariant[RegistrationDetails](raw)
	}

	if err != nil {
		return nil, &DetailsError{Type: string(t), Err: err}
	}

	return details, nil
}

// DecodeActionDetails decodes raw JSON into the variant selected by tag.
//
//nolint:ireturn // tagged union
func DecodeActionDetails(tag string, raw json.RawMessage) (ActionDetails, error) {
	t, known := ParseActionType(tag)
	if !known {
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, &DetailsError{Type: tag, Err: err}
		}

		return UnknownActionDetails{Type: t, Fields: fields}, nil
	}

	var (
		details ActionDetails
		err     error
	)

	switch t {
	case ActionTypeEmail:
		details, err = decodeVariant[EmailDetails](raw)
	case ActionTypeNotification:
		details, err = decodeVariant[NotificationDetails](raw)
	case ActionTypeStatusChange:
		details, err = decodeVariant[StatusChangeActionDetails](raw)
	case ActionTypeFileShare:
		details, err = decodeVariant[FileShareDetails](raw)
	case ActionTypeImageChange:
		details, err = decodeVariant[ImageChangeDetails](raw)
	case ActionTypeTitleChange:
		details, err = decodeVariant[TitleChangeDetails](raw)
	case ActionTypeDescriptionChange:
		details, err = decodeVariant[DescriptionChangeDetails](raw)
	}

	if err != nil {
		return nil, &DetailsError{Type: string(t), Err: err}
	}

	return details, nil
}

// DecodeTriggerPayload decodes a loosely typed payload, as received from a
// form or another service, into its trigger variant.
//
//nolint:ireturn // tagged union
func DecodeTriggerPayload(tag string, payload map[string]any) (TriggerDetails, error) {
	raw, err := payloadJSON(payload)
	if err != nil {
		return nil, &DetailsError{Type: tag, Err: err}
	}

	return DecodeTriggerDetails(tag, raw)
}

// DecodeActionPayload decodes a loosely typed payload into its action variant.
//
//nolint:ireturn // tagged union
func DecodeActionPayload(tag string, payload map[string]any) (ActionDetails, error) {
	raw, err := payloadJSON(payload)
	if err != nil {
		return nil, &DetailsError{Type: tag, Err: err}
	}

	return DecodeActionDetails(tag, raw)
}

// LenientTriggerPayload decodes payload one field at a time. A field whose
// JSON type does not match the variant is dropped and the remaining fields
// are kept. Unknown tags keep the whole payload.
//
//nolint:ireturn // tagged union
func LenientTriggerPayload(tag string, payload map[string]any) TriggerDetails {
	t, known := ParseTriggerType(tag)
	if !known {
		return UnknownTriggerDetails{Type: t, Fields: cloneFields(payload)}
	}

	switch t {
	case TriggerTypeDate:
		return decodeLenient[DateDetails](payload)
	case TriggerTypeAttendeeCount:
		return decodeLenient[AttendeeCountDetails](payload)
	case TriggerTypeStatusChange:
		return decodeLenient[StatusChangeTriggerDetails](payload)
	case TriggerTypeRegistration:
		return RegistrationDetails{}
	default:
		return EmptyTriggerDetails(t)
	}
}

// LenientActionPayload is LenientTriggerPayload for actions.
//
//nolint:ireturn // tagged union
func LenientActionPayload(tag string, payload map[string]any) ActionDetails {
	t, known := ParseActionType(tag)
	if !known {
		return UnknownActionDetails{Type: t, Fields: cloneFields(payload)}
	}

	switch t {
	case ActionTypeEmail:
		return decodeLenient[EmailDetails](payload)
	case ActionTypeNotification:
		return decodeLenient[NotificationDetails](payload)
	case ActionTypeStatusChange:
		return decodeLenient[StatusChangeActionDetails](payload)
	case ActionTypeFileShare:
		return decodeLenient[FileShareDetails](payload)
	case ActionTypeImageChange:
		return decodeLenient[ImageChangeDetails](payload)
	case ActionTypeTitleChange:
		return decodeLenient[TitleChangeDetails](payload)
	case ActionTypeDescriptionChange:
		return decodeLenient[DescriptionChangeDetails](payload)
	default:
		return EmptyActionDetails(t)
	}
}

// DetailsError reports a payload that could not be decoded for Type.
type DetailsError struct {
	Type string
	Err  error
}

func (e *DetailsError) Error() string {
	return fmt.Sprintf("invalid details for type %q: %v", e.Type, e.Err)
}

func (e *DetailsError) Unwrap() error {
	return e.Err
}

func (e *DetailsError) Is(target error) bool {
	return target == ErrInvalidDetails
}

// IsInvalidDetails checks if an error is a details decoding error.
func IsInvalidDetails(err error) bool {
	return errors.Is(err, ErrInvalidDetails)
}

func decodeVariant[T any](raw json.RawMessage) (T, error) {
	var v T

	if isEmptyJSON(raw) {
		return v, nil
	}

	err := json.Unmarshal(raw, &v)

	return v, err
}

func decodeLenient[T any](payload map[string]any) T {
	var v T

	for _, key := range slices.Sorted(maps.Keys(payload)) {
		raw, err := json.Marshal(map[string]any{key: payload[key]})
		if err != nil {
			continue
		}

		next := v
		if err := json.Unmarshal(raw, &next); err == nil {
			v = next
		}
	}

	return v
}

func cloneFields(payload map[string]any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}

	return maps.Clone(payload)
}

func decodeFields(raw json.RawMessage) (map[string]any, error) {
	fields := map[string]any{}

	if isEmptyJSON(raw) {
		return fields, nil
	}

	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	return fields, nil
}

func payloadJSON(payload map[string]any) (json.RawMessage, error) {
	if payload == nil {
		return nil, nil
	}

	return json.Marshal(payload)
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func marshalTriggerDetails(details TriggerDetails) (json.RawMessage, error) {
	if details == nil {
		return nil, nil
	}

	if unknown, ok := details.(UnknownTriggerDetails); ok {
		return json.Marshal(unknown.Fields)
	}

	return json.Marshal(details)
}

func marshalActionDetails(details ActionDetails) (json.RawMessage, error) {
	if details == nil {
		return nil, nil
	}

	if unknown, ok := details.(UnknownActionDetails); ok {
		return json.Marshal(unknown.Fields)
	}

	return json.Marshal(details)
}
