package models

import "slices"

// TriggerType identifies when a flow fires.
type TriggerType string

const (
	TriggerTypeDate          TriggerType = "date"
	TriggerTypeAttendeeCount TriggerType = "attendee-count"
	TriggerTypeStatusChange  TriggerType = "status-change"
	TriggerTypeRegistration  TriggerType = "registration"
)

// ActionType identifies what a flow does once triggered.
type ActionType string

const (
	ActionTypeEmail             ActionType = "email"
	ActionTypeNotification      ActionType = "notification"
	ActionTypeStatusChange      ActionType = "status-change"
	ActionTypeFileShare         ActionType = "file-share"
	ActionTypeImageChange       ActionType = "image-change"
	ActionTypeTitleChange       ActionType = "title-change"
	ActionTypeDescriptionChange ActionType = "description-change"
)

// TriggerTypes lists the canonical trigger types in display order.
var TriggerTypes = []TriggerType{
	TriggerTypeDate,
	TriggerTypeAttendeeCount,
	TriggerTypeStatusChange,
	TriggerTypeRegistration,
}

// ActionTypes lists the canonical action types in display order.
var ActionTypes = []ActionType{
	ActionTypeEmail,
	ActionTypeNotification,
	ActionTypeStatusChange,
	ActionTypeFileShare,
	ActionTypeImageChange,
	ActionTypeTitleChange,
	ActionTypeDescriptionChange,
}

// Older admin pages used camelCase tags. They are accepted on input and
// normalised to the canonical kebab-case form.
var triggerTypeAliases = map[string]TriggerType{
	"numOfAttendees":  TriggerTypeAttendeeCount,
	"attendeeCount":   TriggerTypeAttendeeCount,
	"statusChange":    TriggerTypeStatusChange,
	"newRegistration": TriggerTypeRegistration,
}

var actionTypeAliases = map[string]ActionType{
	"sendEmail":         ActionTypeEmail,
	"sendNotification":  ActionTypeNotification,
	"statusChange":      ActionTypeStatusChange,
	"fileShare":         ActionTypeFileShare,
	"imageChange":       ActionTypeImageChange,
	"titleChange":       ActionTypeTitleChange,
	"descriptionChange": ActionTypeDescriptionChange,
}

// ParseTriggerType resolves a tag, including legacy aliases, to its canonical
// trigger type. Unknown tags are returned unchanged with ok set to false.
func ParseTriggerType(tag string) (TriggerType, bool) {
	if t := TriggerType(tag); t.Known() {
		return t, true
	}

	if t, ok := triggerTypeAliases[tag]; ok {
		return t, true
	}

	return TriggerType(tag), false
}

// ParseActionType resolves a tag, including legacy aliases, to its canonical
// action type. Unknown tags are returned unchanged with ok set to false.
func ParseActionType(tag string) (ActionType, bool) {
	if t := ActionType(tag); t.Known() {
		return t, true
	}

	if t, ok := actionTypeAliases[tag]; ok {
		return t, true
	}

	return ActionType(tag), false
}

// Known reports whether t is one of the canonical trigger types.
func (t TriggerType) Known() bool {
	return slices.Contains(TriggerTypes, t)
}

// Known reports whether t is one of the canonical action types.
func (t ActionType) Known() bool {
	return slices.Contains(ActionTypes, t)
}
