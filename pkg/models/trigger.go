package models

import "encoding/json"

// Trigger is one "when" condition of a flow. A flow exclusively owns its triggers.
type Trigger struct {
	ID      string         `json:"id"`
	Type    TriggerType    `json:"type"              validate:"required"`
	Name    string         `json:"name,omitempty"`
	Summary string         `json:"summary,omitempty"` // overrides the generated description when set
	Details TriggerDetails `json:"details"`
}

type triggerJSON struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Name    string          `json:"name,omitempty"`
	Summary string          `json:"summary,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// NewTrigger builds a trigger whose type follows its details variant.
func NewTrigger(id string, details TriggerDetails) *Trigger {
	return &Trigger{ID: id, Type: details.TriggerType(), Details: details}
}

// CanonicalType returns the trigger's type with aliases resolved. The type of
// the details variant wins when details are set.
func (t *Trigger) CanonicalType() TriggerType {
	if t.Details != nil {
		return t.Details.TriggerType()
	}

	canonical, _ := ParseTriggerType(string(t.Type))

	return canonical
}

func (t Trigger) MarshalJSON() ([]byte, error) {
	triggerType := t.Type
	if triggerType == "" && t.Details != nil {
		triggerType = t.Details.TriggerType()
	}

	details, err := marshalTriggerDetails(t.Details)
	if err != nil {
		return nil, err
	}

	return json.Marshal(triggerJSON{
		ID:      t.ID,
		Type:    string(triggerType),
		Name:    t.Name,
		Summary: t.Summary,
		Details: details,
	})
}

func (t *Trigger) UnmarshalJSON(data []byte) error {
	var raw triggerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	details, err := DecodeTriggerDetails(raw.Type, raw.Details)
	if err != nil {
		return err
	}

	t.ID = raw.ID
	t.Type = details.TriggerType()
	t.Name = raw.Name
	t.Summary = raw.Summary
	t.Details = details

	return nil
}
