package services

import (
	"testing"
	"time"

	"github.com/dukex/flowdesk/pkg/dashboard"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_Summary(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.FlowRepository()

	flows := []*models.Flow{
		{ID: "f1", OrganizationID: "org-1", EventID: "ev-1", Active: true,
			Triggers: []*models.Trigger{models.NewTrigger("t1", models.RegistrationDetails{})},
			Actions:  []*models.Action{models.NewAction("a1", models.EmailDetails{})}},
		{ID: "f2", OrganizationID: "org-1", EventID: "ev-2",
			Triggers: []*models.Trigger{models.NewTrigger("t1", models.StatusChangeTriggerDetails{})}},
		{ID: "f3", OrganizationID: "org-2", Template: true,
			Actions: []*models.Action{models.NewAction("a1", models.NotificationDetails{})}},
	}

	for _, flow := range flows {
		require.NoError(t, repo.Save(t.Context(), flow))
	}

	service := NewDashboard(p, otelhelper.NoopTracer())

	tests := []struct {
		name     string
		filter   DashboardFilter
		total    int
		triggers map[string]int
	}{
		{name: "everything", total: 3, triggers: map[string]int{"registration": 1, "status-change": 1}},
		{name: "organization", filter: DashboardFilter{OrganizationID: "org-1"}, total: 2, triggers: map[string]int{"registration": 1, "status-change": 1}},
		{name: "event", filter: DashboardFilter{EventID: "ev-2"}, total: 1, triggers: map[string]int{"status-change": 1}},
		{name: "active only", filter: DashboardFilter{ActiveOnly: true}, total: 1, triggers: map[string]int{"registration": 1}},
		{name: "no match", filter: DashboardFilter{OrganizationID: "org-9"}, total: 0, triggers: map[string]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := service.Summary(t.Context(), tt.filter)
			require.NoError(t, err)

			assert.Equal(t, tt.total, summary.TotalFlows)
			assert.Equal(t, tt.triggers, summary.TriggerCounts)
		})
	}
}

func TestDashboard_SummaryRanksTiesByCreation(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.FlowRepository()
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	// File names sort as aaa, mmm, zzz; creation order is mmm and zzz, then aaa.
	flows := []*models.Flow{
		{ID: "aaa", CreatedAt: created.Add(time.Hour),
			Triggers: []*models.Trigger{models.NewTrigger("t1", models.StatusChangeTriggerDetails{})}},
		{ID: "zzz", CreatedAt: created,
			Triggers: []*models.Trigger{models.NewTrigger("t1", models.DateDetails{})}},
		{ID: "mmm", CreatedAt: created,
			Triggers: []*models.Trigger{models.NewTrigger("t1", models.RegistrationDetails{})}},
	}

	for _, flow := range flows {
		require.NoError(t, repo.Save(t.Context(), flow))
	}

	summary, err := NewDashboard(p, otelhelper.NoopTracer()).Summary(t.Context(), DashboardFilter{})
	require.NoError(t, err)

	assert.Equal(t, []dashboard.TypeCount{
		{Type: "registration", Count: 1},
		{Type: "date", Count: 1},
		{Type: "status-change", Count: 1},
	}, summary.TopTriggers)
}
