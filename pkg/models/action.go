package models

import "encoding/json"

// Action is one "what" step of a flow. A flow exclusively owns its actions.
type Action struct {
	ID      string        `json:"id"`
	Type    ActionType    `json:"type"              validate:"required"`
	Name    string        `json:"name,omitempty"`
	Summary string        `json:"summary,omitempty"` // overrides the generated description when set
	Details ActionDetails `json:"details"`
}

type actionJSON struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Name    string          `json:"name,omitempty"`
	Summary string          `json:"summary,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// NewAction builds an action whose type follows its details variant.
func NewAction(id string, details ActionDetails) *Action {
	return &Action{ID: id, Type: details.ActionType(), Details: details}
}

// CanonicalType returns the action's type with aliases resolved.
func (a *Action) CanonicalType() ActionType {
	if a.Details != nil {
		return a.Details.ActionType()
	}

	canonical, _ := ParseActionType(string(a.Type))

	return canonical
}

func (a Action) MarshalJSON() ([]byte, error) {
	actionType := a.Type
	if actionType == "" && a.Details != nil {
		actionType = a.Details.ActionType()
	}

	details, err := marshalActionDetails(a.Details)
	if err != nil {
		return nil, err
	}

	return json.Marshal(actionJSON{
		ID:      a.ID,
		Type:    string(actionType),
		Name:    a.Name,
		Summary: a.Summary,
		Details: details,
	})
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var raw actionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	details, err := DecodeActionDetails(raw.Type, raw.Details)
	if err != nil {
		return err
	}

	a.ID = raw.ID
	a.Type = details.ActionType()
	a.Name = raw.Name
	a.Summary = raw.Summary
	a.Details = details

	return nil
}
