package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intValue(v int) *int {
	return &v
}

func floatValue(v float64) *float64 {
	return &v
}

func TestParseTriggerType(t *testing.T) {
	tests := []struct {
		tag      string
		expected TriggerType
		known    bool
	}{
		{"date", TriggerTypeDate, true},
		{"attendee-count", TriggerTypeAttendeeCount, true},
		{"numOfAttendees", TriggerTypeAttendeeCount, true},
		{"attendeeCount", TriggerTypeAttendeeCount, true},
		{"statusChange", TriggerTypeStatusChange, true},
		{"newRegistration", TriggerTypeRegistration, true},
		{"webhook", TriggerType("webhook"), false},
		{"", TriggerType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, known := ParseTriggerType(tt.tag)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestParseActionType(t *testing.T) {
	tests := []struct {
		tag      string
		expected ActionType
		known    bool
	}{
		{"email", ActionTypeEmail, true},
		{"sendEmail", ActionTypeEmail, true},
		{"fileShare", ActionTypeFileShare, true},
		{"file-share", ActionTypeFileShare, true},
		{"descriptionChange", ActionTypeDescriptionChange, true},
		{"sms", ActionType("sms"), false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, known := ParseActionType(tt.tag)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestTrigger_JSONKeepsVariant(t *testing.T) {
	original := NewTrigger("t-1", DateDetails{
		Reference: DateReferenceStart,
		Direction: DirectionBefore,
		Amount:    intValue(3),
		Unit:      "days",
	})
	original.Name = "Reminder"

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Trigger
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "t-1", decoded.ID)
	assert.Equal(t, "Reminder", decoded.Name)
	assert.Equal(t, TriggerTypeDate, decoded.Type)

	details, ok := decoded.Details.(DateDetails)
	require.True(t, ok, "expected DateDetails, got %T", decoded.Details)
	assert.True(t, details.IsRelative())
	assert.False(t, details.IsAbsolute())
	assert.Equal(t, 3, *details.Amount)
}

func TestTrigger_UnmarshalNormalisesAlias(t *testing.T) {
	var trigger Trigger

	err := json.Unmarshal([]byte(`{"id":"t-1","type":"numOfAttendees","details":{"operator":"gt","value":100}}`), &trigger)
	require.NoError(t, err)

	assert.Equal(t, TriggerTypeAttendeeCount, trigger.Type)

	details, ok := trigger.Details.(AttendeeCountDetails)
	require.True(t, ok)
	assert.Equal(t, "gt", details.Operator)
	assert.InDelta(t, 100.0, *details.Value, 0)
}

func TestTrigger_UnmarshalMissingDetails(t *testing.T) {
	var trigger Trigger

	require.NoError(t, json.Unmarshal([]byte(`{"id":"t-1","type":"date"}`), &trigger))
	assert.Equal(t, DateDetails{}, trigger.Details)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"t-2","type":"status-change","details":null}`), &trigger))
	assert.Equal(t, StatusChangeTriggerDetails{}, trigger.Details)
}

func TestTrigger_UnmarshalWrongFieldType(t *testing.T) {
	var trigger Trigger

	err := json.Unmarshal([]byte(`{"id":"t-1","type":"attendee-count","details":{"value":"many"}}`), &trigger)
	require.Error(t, err)
	assert.True(t, IsInvalidDetails(err))

	var detailsErr *DetailsError
	require.True(t, errors.As(err, &detailsErr))
	assert.Equal(t, "attendee-count", detailsErr.Type)
}

func TestTrigger_UnknownTypeSurvivesRoundTrip(t *testing.T) {
	var trigger Trigger

	require.NoError(t, json.Unmarshal([]byte(`{"id":"t-1","type":"webhook","details":{"url":"https://example.com"}}`), &trigger))

	unknown, ok := trigger.Details.(UnknownTriggerDetails)
	require.True(t, ok)
	assert.Equal(t, TriggerType("webhook"), unknown.Type)
	assert.Equal(t, "https://example.com", unknown.Fields["url"])

	data, err := json.Marshal(trigger)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"t-1","type":"webhook","details":{"url":"https://example.com"}}`, string(data))
}

func TestAction_JSONKeepsVariant(t *testing.T) {
	original := NewAction("a-1", EmailDetails{Subject: "Welcome", Recipients: []string{"a@example.com"}})
	original.Summary = "Welcome mail"

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a-1","type":"email","summary":"Welcome mail","details":{"subject":"Welcome","recipients":["a@example.com"]}}`, string(data))

	var decoded Action
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *original, decoded)
}

func TestAction_UnmarshalAliasAndWrongType(t *testing.T) {
	var action Action

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a-1","type":"fileShare","details":{"fileId":"f-9","status":"public"}}`), &action))
	assert.Equal(t, ActionTypeFileShare, action.Type)
	assert.Equal(t, FileShareDetails{FileID: "f-9", Status: "public"}, action.Details)

	err := json.Unmarshal([]byte(`{"id":"a-2","type":"email","details":{"subject":42}}`), &action)
	require.Error(t, err)
	assert.True(t, IsInvalidDetails(err))
}

func TestDecodePayload(t *testing.T) {
	details, err := DecodeTriggerPayload("date", map[string]any{"operator": "on", "value": "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, DateDetails{Operator: "on", Value: "2024-01-01"}, details)

	details, err = DecodeTriggerPayload("registration", nil)
	require.NoError(t, err)
	assert.Equal(t, RegistrationDetails{}, details)

	action, err := DecodeActionPayload("titleChange", map[string]any{"newTitle": "Launch"})
	require.NoError(t, err)
	assert.Equal(t, TitleChangeDetails{NewTitle: "Launch"}, action)

	_, err = DecodeActionPayload("notification", map[string]any{"message": []int{1}})
	assert.True(t, IsInvalidDetails(err))
}

func TestLenientPayload_KeepsWellTypedFields(t *testing.T) {
	tests := []struct {
		name     string
		actual   any
		expected any
	}{
		{
			"file share with numeric id",
			LenientActionPayload("file-share", map[string]any{"fileId": 42, "status": "read"}),
			FileShareDetails{Status: "read"},
		},
		{
			"fractional attendance threshold",
			LenientTriggerPayload("numOfAttendees", map[string]any{"operator": "gt", "value": 12.5, "valueType": "percentage"}),
			AttendeeCountDetails{Operator: "gt", Value: floatValue(12.5), ValueType: "percentage"},
		},
		{
			"recipients of the wrong type",
			LenientActionPayload("email", map[string]any{"subject": "Hi", "recipients": "a@example.com"}),
			EmailDetails{Subject: "Hi"},
		},
		{
			"nil payload",
			LenientTriggerPayload("date", nil),
			DateDetails{},
		},
		{
			"unknown tag keeps the payload",
			LenientTriggerPayload("webhook", map[string]any{"url": "x"}),
			UnknownTriggerDetails{Type: "webhook", Fields: map[string]any{"url": "x"}},
		},
		{
			"unknown action without payload",
			LenientActionPayload("sms", nil),
			UnknownActionDetails{Type: "sms", Fields: map[string]any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.actual)
		})
	}
}

func TestCanonicalType(t *testing.T) {
	assert.Equal(t, TriggerTypeAttendeeCount, (&Trigger{Type: "numOfAttendees"}).CanonicalType())
	assert.Equal(t, TriggerTypeDate, (&Trigger{Type: "numOfAttendees", Details: DateDetails{}}).CanonicalType())
	assert.Equal(t, TriggerType("webhook"), (&Trigger{Type: "webhook"}).CanonicalType())
	assert.Equal(t, ActionTypeFileShare, (&Action{Type: "fileShare"}).CanonicalType())
	assert.Equal(t, ActionType("sms"), (&Action{Type: "sms"}).CanonicalType())
}

func TestEmptyDetails(t *testing.T) {
	for _, tt := range TriggerTypes {
		assert.Equal(t, tt, EmptyTriggerDetails(tt).TriggerType())
	}

	for _, at := range ActionTypes {
		assert.Equal(t, at, EmptyActionDetails(at).ActionType())
	}

	assert.Equal(t, TriggerType("custom"), EmptyTriggerDetails("custom").TriggerType())
	assert.Equal(t, ActionType("custom"), EmptyActionDetails("custom").ActionType())
}

func TestSchemasCoverEveryType(t *testing.T) {
	for _, tt := range TriggerTypes {
		assert.NotNil(t, TriggerDetailsSchema(tt), string(tt))
	}

	for _, at := range ActionTypes {
		assert.NotNil(t, ActionDetailsSchema(at), string(at))
	}

	assert.Nil(t, TriggerDetailsSchema("custom"))
	assert.Nil(t, ActionDetailsSchema("custom"))
}

func TestFlow_Validation(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	flow := &Flow{Name: "Reminders", OrganizationID: "org-1"}
	require.NoError(t, validate.Struct(flow))

	flow.Name = "ab"
	err := validate.Struct(flow)
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))
	assert.Equal(t, "Name", validationErrors[0].Field())
	assert.Equal(t, "min", validationErrors[0].Tag())
}

func TestFlow_Complete(t *testing.T) {
	flow := &Flow{}
	assert.False(t, flow.Complete())

	flow.Triggers = []*Trigger{NewTrigger("t-1", RegistrationDetails{})}
	assert.False(t, flow.Complete())

	flow.Actions = []*Action{NewAction("a-1", ImageChangeDetails{})}
	assert.True(t, flow.Complete())
}

func TestFlow_Copy(t *testing.T) {
	flow := &Flow{
		ID:       "flow-1",
		Name:     "Welcome",
		Triggers: []*Trigger{NewTrigger("t-1", RegistrationDetails{}), nil},
		Actions:  []*Action{NewAction("a-1", EmailDetails{Subject: "Hi"})},
	}

	copied := flow.Copy()
	copied.Triggers[0].ID = "t-2"
	copied.Actions[0].Name = "changed"
	copied.Name = "Other"

	assert.Equal(t, "t-1", flow.Triggers[0].ID)
	assert.Empty(t, flow.Actions[0].Name)
	assert.Equal(t, "Welcome", flow.Name)
	assert.Len(t, copied.Triggers, 1)
}
