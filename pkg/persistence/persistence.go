// Package persistence provides the storage abstraction for flows.
package persistence

import (
	"context"

	"github.com/dukex/flowdesk/pkg/models"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100

	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByName      = "name"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

type Persistence interface {
	FlowRepository() FlowRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// FlowRepository stores flows. GetByID returns nil, nil when the flow does
// not exist and Delete of a missing flow is not an error.
type FlowRepository interface {
	GetAll(ctx context.Context) ([]*models.Flow, error)
	ListFlows(ctx context.Context, opts ListFlowsOptions) (*FlowListResult, error)
	GetByID(ctx context.Context, id string) (*models.Flow, error)
	Save(ctx context.Context, flow *models.Flow) error
	Delete(ctx context.Context, id string) error
}

// ListFlowsOptions filters, sorts and paginates a flow listing.
type ListFlowsOptions struct {
	OrganizationID string
	EventID        string
	Active         *bool
	Template       *bool

	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

type FlowListResult struct {
	Flows       []*models.Flow `json:"flows"`
	TotalCount  int64          `json:"total_count"`
	HasNextPage bool           `json:"has_next_page"`
}

// Normalize fills in defaults and rejects sort fields outside the allowlist.
func (o ListFlowsOptions) Normalize() (ListFlowsOptions, error) {
	if o.Limit <= 0 || o.Limit > MaxListLimit {
		o.Limit = DefaultListLimit
	}

	if o.Offset < 0 {
		o.Offset = 0
	}

	if o.SortBy == "" {
		o.SortBy = SortByCreatedAt
	}

	if o.SortOrder != SortOrderAsc {
		o.SortOrder = SortOrderDesc
	}

	switch o.SortBy {
	case SortByCreatedAt, SortByUpdatedAt, SortByName:
	default:
		return o, &ListError{SortBy: o.SortBy, Err: ErrInvalidSortField}
	}

	return o, nil
}

// Matches reports whether flow passes the filters of o.
func (o ListFlowsOptions) Matches(flow *models.Flow) bool {
	if o.OrganizationID != "" && flow.OrganizationID != o.OrganizationID {
		return false
	}

	if o.EventID != "" && flow.EventID != o.EventID {
		return false
	}

	if o.Active != nil && flow.Active != *o.Active {
		return false
	}

	if o.Template != nil && flow.Template != *o.Template {
		return false
	}

	return true
}
