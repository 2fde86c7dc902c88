package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/dukex/flowdesk/pkg/dashboard"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DashboardFilter narrows the flows a summary is computed over.
type DashboardFilter struct {
	OrganizationID string `json:"organization_id,omitempty"`
	EventID        string `json:"event_id,omitempty"`
	ActiveOnly     bool   `json:"active_only"`
}

type Dashboard struct {
	persistence persistence.Persistence
	tracer      trace.Tracer
}

func NewDashboard(persistence persistence.Persistence, tracer trace.Tracer) *Dashboard {
	return &Dashboard{persistence: persistence, tracer: tracer}
}

// Summary aggregates the flows matching filter.
func (d *Dashboard) Summary(ctx context.Context, filter DashboardFilter) (dashboard.Summary, error) {
	ctx, span := otelhelper.StartSpan(ctx, d.tracer, "dashboard.summary",
		attribute.String(otelhelper.OrganizationIDKey, filter.OrganizationID),
		attribute.String(otelhelper.EventIDKey, filter.EventID),
	)
	defer span.End()

	flows, err := d.persistence.FlowRepository().GetAll(ctx)
	if err != nil {
		otelhelper.SetError(span, err)

		return dashboard.Summary{}, fmt.Errorf("failed to load flows: %w", err)
	}

	opts := persistence.ListFlowsOptions{
		OrganizationID: filter.OrganizationID,
		EventID:        filter.EventID,
	}

	if filter.ActiveOnly {
		active := true
		opts.Active = &active
	}

	selected := make([]*models.Flow, 0, len(flows))

	for _, flow := range flows {
		if flow != nil && opts.Matches(flow) {
			selected = append(selected, flow)
		}
	}

	// Ties in the ranking follow creation order.
	slices.SortStableFunc(selected, func(a, b *models.Flow) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})

	span.SetAttributes(attribute.Int("flowdesk.dashboard.flows", len(selected)))

	return dashboard.Summarize(selected), nil
}
