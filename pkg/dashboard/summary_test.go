package dashboard_test

import (
	"testing"

	"github.com/dukex/flowdesk/pkg/dashboard"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/stretchr/testify/assert"
)

func flowWith(triggers []models.TriggerDetails, actions []models.ActionDetails) *models.Flow {
	flow := &models.Flow{}

	for _, details := range triggers {
		flow.Triggers = append(flow.Triggers, models.NewTrigger("", details))
	}

	for _, details := range actions {
		flow.Actions = append(flow.Actions, models.NewAction("", details))
	}

	return flow
}

func TestSummarize_Empty(t *testing.T) {
	for _, flows := range [][]*models.Flow{nil, {}} {
		summary := dashboard.Summarize(flows)

		assert.Equal(t, dashboard.Summary{
			TriggerCounts: map[string]int{},
			ActionCounts:  map[string]int{},
			TopTriggers:   []dashboard.TypeCount{},
			TopActions:    []dashboard.TypeCount{},
		}, summary)
	}
}

func TestSummarize_CountsEveryOccurrence(t *testing.T) {
	flows := []*models.Flow{
		flowWith(
			[]models.TriggerDetails{models.DateDetails{}, models.DateDetails{}},
			[]models.ActionDetails{models.EmailDetails{}},
		),
		flowWith(
			[]models.TriggerDetails{models.RegistrationDetails{}},
			[]models.ActionDetails{models.EmailDetails{}, models.NotificationDetails{}},
		),
		nil,
	}
	flows[0].Active = true
	flows[1].Template = true

	summary := dashboard.Summarize(flows)

	assert.Equal(t, 2, summary.TotalFlows)
	assert.Equal(t, 1, summary.ActiveFlows)
	assert.Equal(t, 1, summary.TemplateFlows)
	assert.Equal(t, map[string]int{"date": 2, "registration": 1}, summary.TriggerCounts)
	assert.Equal(t, map[string]int{"email": 2, "notification": 1}, summary.ActionCounts)
	assert.Equal(t, []dashboard.TypeCount{{"date", 2}, {"registration", 1}}, summary.TopTriggers)
	assert.Equal(t, []dashboard.TypeCount{{"email", 2}, {"notification", 1}}, summary.TopActions)
}

func TestSummarize_StableTies(t *testing.T) {
	flows := []*models.Flow{
		flowWith([]models.TriggerDetails{models.DateDetails{}, models.StatusChangeTriggerDetails{}}, nil),
		flowWith([]models.TriggerDetails{models.RegistrationDetails{}, models.StatusChangeTriggerDetails{}}, nil),
		flowWith([]models.TriggerDetails{models.DateDetails{}, models.StatusChangeTriggerDetails{}, models.DateDetails{}}, nil),
	}

	summary := dashboard.Summarize(flows)

	assert.Equal(t, map[string]int{"date": 3, "status-change": 3, "registration": 1}, summary.TriggerCounts)
	assert.Equal(t, []dashboard.TypeCount{
		{"date", 3},
		{"status-change", 3},
		{"registration", 1},
	}, summary.TopTriggers)

	// The same counts seen in the other order rank the other way round.
	reversed := []*models.Flow{
		flowWith([]models.TriggerDetails{models.StatusChangeTriggerDetails{}, models.DateDetails{}}, nil),
		flowWith([]models.TriggerDetails{models.StatusChangeTriggerDetails{}, models.DateDetails{}}, nil),
		flowWith([]models.TriggerDetails{models.StatusChangeTriggerDetails{}, models.DateDetails{}}, nil),
	}

	assert.Equal(t, []dashboard.TypeCount{{"status-change", 3}, {"date", 3}}, dashboard.Summarize(reversed).TopTriggers)
}

func TestSummarize_KeepsTopFour(t *testing.T) {
	flow := flowWith(nil, []models.ActionDetails{
		models.TitleChangeDetails{},
		models.EmailDetails{},
		models.EmailDetails{},
		models.ImageChangeDetails{},
		models.FileShareDetails{},
		models.NotificationDetails{},
		models.NotificationDetails{},
		models.DescriptionChangeDetails{},
	})

	summary := dashboard.Summarize([]*models.Flow{flow})

	assert.Len(t, summary.ActionCounts, 6)
	assert.Equal(t, []dashboard.TypeCount{
		{"email", 2},
		{"notification", 2},
		{"title-change", 1},
		{"image-change", 1},
	}, summary.TopActions)
}

func TestSummarize_UnknownTypesCountUnderTheirTag(t *testing.T) {
	flow := &models.Flow{
		Triggers: []*models.Trigger{{Type: "webhook", Details: models.UnknownTriggerDetails{Type: "webhook"}}},
	}

	summary := dashboard.Summarize([]*models.Flow{flow, flow})

	assert.Equal(t, map[string]int{"webhook": 2}, summary.TriggerCounts)
}

func TestSummarize_AliasesCountUnderCanonicalType(t *testing.T) {
	flow := &models.Flow{
		Triggers: []*models.Trigger{
			{Type: "numOfAttendees"},
			models.NewTrigger("t-2", models.AttendeeCountDetails{}),
		},
		Actions: []*models.Action{
			{Type: "fileShare"},
			{Type: "file-share"},
			{Type: "sendEmail", Details: models.EmailDetails{}},
		},
	}

	summary := dashboard.Summarize([]*models.Flow{flow})

	assert.Equal(t, map[string]int{"attendee-count": 2}, summary.TriggerCounts)
	assert.Equal(t, map[string]int{"file-share": 2, "email": 1}, summary.ActionCounts)
	assert.Equal(t, []dashboard.TypeCount{{"file-share", 2}, {"email", 1}}, summary.TopActions)
}

func TestSummarize_Idempotent(t *testing.T) {
	flows := []*models.Flow{flowWith([]models.TriggerDetails{models.DateDetails{}}, []models.ActionDetails{models.EmailDetails{}})}

	assert.Equal(t, dashboard.Summarize(flows), dashboard.Summarize(flows))
}
