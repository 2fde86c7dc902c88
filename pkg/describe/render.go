package describe

import "github.com/dukex/flowdesk/pkg/models"

// ItemView is the rendered form of a trigger or an action.
type ItemView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Title       string `json:"title"`
	Icon        Icon   `json:"icon"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
	Label       string `json:"label"`
}

// FlowView holds the rendered triggers and actions of a flow, in flow order.
type FlowView struct {
	Triggers []ItemView `json:"triggers"`
	Actions  []ItemView `json:"actions"`
}

// RenderTrigger renders every display attribute of a trigger.
func RenderTrigger(trigger *models.Trigger) ItemView {
	details := triggerDetails(trigger)

	return ItemView{
		ID:          trigger.ID,
		Type:        string(details.TriggerType()),
		Name:        trigger.Name,
		Title:       TriggerTitle(details.TriggerType()),
		Icon:        TriggerIcon(details.TriggerType()),
		Description: DescribeTrigger(details),
		Summary:     TriggerSummary(details),
		Label:       TriggerLabel(trigger),
	}
}

// RenderAction renders every display attribute of an action.
func RenderAction(action *models.Action) ItemView {
	details := actionDetails(action)

	return ItemView{
		ID:          action.ID,
		Type:        string(details.ActionType()),
		Name:        action.Name,
		Title:       ActionTitle(details.ActionType()),
		Icon:        ActionIcon(details.ActionType()),
		Description: DescribeAction(details),
		Summary:     ActionSummary(details),
		Label:       ActionLabel(action),
	}
}

// RenderFlow renders the triggers and actions of a flow. Nil entries are skipped.
func RenderFlow(flow *models.Flow) FlowView {
	view := FlowView{
		Triggers: make([]ItemView, 0, len(flow.Triggers)),
		Actions:  make([]ItemView, 0, len(flow.Actions)),
	}

	for _, trigger := range flow.Triggers {
		if trigger != nil {
			view.Triggers = append(view.Triggers, RenderTrigger(trigger))
		}
	}

	for _, action := range flow.Actions {
		if action != nil {
			view.Actions = append(view.Actions, RenderAction(action))
		}
	}

	return view
}
