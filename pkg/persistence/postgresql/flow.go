package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

const flowColumns = `
			id
		  , name
		  , description
		  , organization_id
		  , event_id
		  , template_id
		  , triggers
		  , actions
		  , active
		  , template
		  , created_at
		  , updated_at
		  , created_by
		  , updated_by`

// FlowRepository handles flow-related database operations.
type FlowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewFlowRepository creates a new flow repository.
func NewFlowRepository(db *sql.DB, logger *slog.Logger) *FlowRepository {
	return &FlowRepository{db: db, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// GetAll returns all flows, newest first.
func (r *FlowRepository) GetAll(ctx context.Context) ([]*models.Flow, error) {
	query := `SELECT ` + flowColumns + `
		FROM flows
		ORDER BY created_at DESC
	`

	return r.query(ctx, query)
}

// ListFlows pushes filtering, sorting and pagination down to the database.
func (r *FlowRepository) ListFlows(ctx context.Context, opts persistence.ListFlowsOptions) (*persistence.FlowListResult, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	var (
		conditions []string
		args       []any
	)

	addCondition := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, column+" = $"+strconv.Itoa(len(args)))
	}

	if opts.OrganizationID != "" {
		addCondition("organization_id", opts.OrganizationID)
	}

	if opts.EventID != "" {
		addCondition("event_id", opts.EventID)
	}

	if opts.Active != nil {
		addCondition("active", *opts.Active)
	}

	if opts.Template != nil {
		addCondition("template", *opts.Template)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64

	err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM flows"+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count flows: %w", err)
	}

	// SortBy and SortOrder come from the Normalize allowlist.
	query := fmt.Sprintf("SELECT %s FROM flows%s ORDER BY %s %s, id LIMIT $%d OFFSET $%d",
		flowColumns, where, opts.SortBy, strings.ToUpper(opts.SortOrder), len(args)+1, len(args)+2)

	flows, err := r.query(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, err
	}

	return &persistence.FlowListResult{
		Flows:       flows,
		TotalCount:  total,
		HasNextPage: int64(opts.Offset+len(flows)) < total,
	}, nil
}

func (r *FlowRepository) GetByID(ctx context.Context, id string) (*models.Flow, error) {
	query := `SELECT ` + flowColumns + `
		FROM flows
		WHERE id = $1
	`

	flow, err := scanFlow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan flow: %w", err)
	}

	return flow, nil
}

// Save inserts or replaces a flow.
func (r *FlowRepository) Save(ctx context.Context, flow *models.Flow) error {
	triggersJSON, err := json.Marshal(nonNil(flow.Triggers))
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to marshal triggers: %w", err))
	}

	actionsJSON, err := json.Marshal(nonNil(flow.Actions))
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to marshal actions: %w", err))
	}

	query := `
		INSERT INTO flows (id, name, description, organization_id, event_id, template_id,
triggers, actions, active, template, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			organization_id = EXCLUDED.organization_id,
			event_id = EXCLUDED.event_id,
			template_id = EXCLUDED.template_id,
			triggers = EXCLUDED.triggers,
			actions = EXCLUDED.actions,
			active = EXCLUDED.active,
			template = EXCLUDED.template,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`

	_, err = r.db.ExecContext(ctx, query,
		flow.ID,
		flow.Name,
		flow.Description,
		flow.OrganizationID,
		flow.EventID,
		flow.TemplateID,
		triggersJSON,
		actionsJSON,
		flow.Active,
		flow.Template,
		flow.CreatedAt,
		flow.UpdatedAt,
		flow.CreatedBy,
		flow.UpdatedBy,
	)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, err)
	}

	return nil
}

// Delete removes a flow. Deleting a missing flow is not an error.
func (r *FlowRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM flows WHERE id = $1`, id)
	if err != nil {
		return persistence.NewFlowError("Delete", id, err)
	}

	return nil
}

func (r *FlowRepository) query(ctx context.Context, query string, args ...any) ([]*models.Flow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flows: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	flows := make([]*models.Flow, 0)

	for rows.Next() {
		flow, err := scanFlow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flow: %w", err)
		}

		flows = append(flows, flow)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating flows: %w", err)
	}

	return flows, nil
}

func scanFlow(row rowScanner) (*models.Flow, error) {
	var (
		flow                      models.Flow
		triggersJSON, actionsJSON []byte
	)

	err := row.Scan(
		&flow.ID,
		&flow.Name,
		&flow.Description,
		&flow.OrganizationID,
		&flow.EventID,
		&flow.TemplateID,
		&triggersJSON,
		&actionsJSON,
		&flow.Active,
		&flow.Template,
		&flow.CreatedAt,
		&flow.UpdatedAt,
		&flow.CreatedBy,
		&flow.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(triggersJSON, &flow.Triggers)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal triggers of flow %s: %w", flow.ID, err)
	}

	err = json.Unmarshal(actionsJSON, &flow.Actions)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal actions of flow %s: %w", flow.ID, err)
	}

	flow.CreatedAt = flow.CreatedAt.UTC()
	flow.UpdatedAt = flow.UpdatedAt.UTC()

	return &flow, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}
