// Package web provides the HTTP handlers and request/response types of the flow API.
package web

import (
	"github.com/dukex/flowdesk/pkg/dashboard"
	"github.com/dukex/flowdesk/pkg/describe"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/services"
)

// ActorHeader names the user performing a mutating request.
const ActorHeader = "X-User-ID"

// ItemRequest is a trigger or an action as sent by the flow editor.
type ItemRequest struct {
	ID      string         `json:"id,omitempty"`
	Type    string         `json:"type"              validate:"required"`
	Name    string         `json:"name,omitempty"`
	Summary string         `json:"summary,omitempty"`
	Details map[string]any `json:"details"`
}

// CreateFlowRequest represents the request body for creating a new flow.
type CreateFlowRequest struct {
	Name           string        `json:"name"            validate:"required,min=3"`
	Description    string        `json:"description"`
	OrganizationID string        `json:"organization_id" validate:"required"`
	EventID        string        `json:"event_id"`
	Template       bool          `json:"template"`
	Active         bool          `json:"active"`
	Triggers       []ItemRequest `json:"triggers"        validate:"dive"`
	Actions        []ItemRequest `json:"actions"         validate:"dive"`
}

// UpdateFlowRequest represents the request body for updating an existing flow.
// Omitted fields keep their current value; an empty list clears triggers or actions.
type UpdateFlowRequest struct {
	Name        *string       `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string       `json:"description,omitempty"`
	Triggers    []ItemRequest `json:"triggers,omitempty"    validate:"omitempty,dive"`
	Actions     []ItemRequest `json:"actions,omitempty"     validate:"omitempty,dive"`
}

// InstantiateRequest binds a template to an event.
type InstantiateRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

// DescribeRequest asks for the rendering of a trigger or action being edited.
type DescribeRequest struct {
	Type    string         `json:"type"    validate:"required"`
	Details map[string]any `json:"details"`
}

type DescribeResponse struct {
	Type        string        `json:"type"`
	Title       string        `json:"title"`
	Icon        describe.Icon `json:"icon"`
	Description string        `json:"description"`
	Summary     string        `json:"summary"`
}

// FlowResponse is a stored flow together with its rendered triggers and actions.
type FlowResponse struct {
	*models.Flow

	View describe.FlowView `json:"view"`
}

type ListFlowsResponse struct {
	Flows       []FlowResponse `json:"flows"`
	TotalCount  int64          `json:"total_count"`
	HasNextPage bool           `json:"has_next_page"`
	Pagination  Pagination     `json:"pagination"`
	Sorting     Sorting        `json:"sorting"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type Sorting struct {
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

type SummaryResponse struct {
	dashboard.Summary

	Filter services.DashboardFilter `json:"filter"`
}

// NewFlowResponse renders flow for the API.
func NewFlowResponse(flow *models.Flow) FlowResponse {
	return FlowResponse{Flow: flow, View: describe.RenderFlow(flow)}
}

func toTriggers(items []ItemRequest) ([]*models.Trigger, error) {
	triggers := make([]*models.Trigger, 0, len(items))

	for _, item := range items {
		details, err := models.DecodeTriggerPayload(item.Type, item.Details)
		if err != nil {
			return nil, err
		}

		triggers = append(triggers, &models.Trigger{
			ID:      item.ID,
			Type:    details.TriggerType(),
			Name:    item.Name,
			Summary: item.Summary,
			Details: details,
		})
	}

	return triggers, nil
}

func toActions(items []ItemRequest) ([]*models.Action, error) {
	actions := make([]*models.Action, 0, len(items))

	for _, item := range items {
		details, err := models.DecodeActionPayload(item.Type, item.Details)
		if err != nil {
			return nil, err
		}

		actions = append(actions, &models.Action{
			ID:      item.ID,
			Type:    details.ActionType(),
			Name:    item.Name,
			Summary: item.Summary,
			Details: details,
		})
	}

	return actions, nil
}
