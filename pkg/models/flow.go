// Package models defines the domain model for event automation flows.
package models

import "time"

// Flow is a named automation rule: when any of its triggers fires, its
// actions run in order. A template flow belongs to an organization and is
// copied into event-bound instances: EventID is empty on templates and
// TemplateID points back at the template on instances.
type Flow struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"                  validate:"required,min=3"`
	Description    string     `json:"description"`
	OrganizationID string     `json:"organization_id"       validate:"required"`
	EventID        string     `json:"event_id,omitempty"`
	TemplateID     string     `json:"template_id,omitempty"`
	Triggers       []*Trigger `json:"triggers"`
	Actions        []*Action  `json:"actions"`
	Active         bool       `json:"active"`
	Template       bool       `json:"template"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CreatedBy      string     `json:"created_by,omitempty"`
	UpdatedBy      string     `json:"updated_by,omitempty"`
}

// Complete reports whether the flow has at least one trigger and one action,
// the minimum for it to do anything once activated.
func (f *Flow) Complete() bool {
	return len(f.Triggers) > 0 && len(f.Actions) > 0
}

// Copy returns a copy of the flow with its own trigger and action slices.
// Details variants are immutable values and are shared.
func (f *Flow) Copy() *Flow {
	c := *f

	c.Triggers = make([]*Trigger, 0, len(f.Triggers))
	for _, t := range f.Triggers {
		if t == nil {
			continue
		}

		tc := *t
		c.Triggers = append(c.Triggers, &tc)
	}

	c.Actions = make([]*Action, 0, len(f.Actions))
	for _, a := range f.Actions {
		if a == nil {
			continue
		}

		ac := *a
		c.Actions = append(c.Actions, &ac)
	}

	return &c
}
