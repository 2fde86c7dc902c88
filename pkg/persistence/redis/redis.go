// Package redis provides Redis persistence for flows. Every flow is a JSON
// value in a single hash keyed by flow id.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/redis/go-redis/v9"
)

const DefaultFlowsKey = "flowdesk:flows"

// Persistence implements persistence.Persistence on top of a Redis client.
type Persistence struct {
	client   redis.UniversalClient
	logger   *slog.Logger
	flowRepo *FlowRepository
}

// NewPersistence connects to the redis:// URL and verifies the connection.
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string) (*Persistence, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.InfoContext(ctx, "Connected to Redis", "addr", opts.Addr, "db", opts.DB)

	return NewPersistenceWithClient(client, logger), nil
}

// NewPersistenceWithClient wraps an existing client.
func NewPersistenceWithClient(client redis.UniversalClient, logger *slog.Logger) *Persistence {
	return &Persistence{
		client:   client,
		logger:   logger,
		flowRepo: NewFlowRepository(client, DefaultFlowsKey),
	}
}

func (p *Persistence) FlowRepository() persistence.FlowRepository {
	return p.flowRepo
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

// FlowRepository stores flows in the hash at key.
type FlowRepository struct {
	client redis.UniversalClient
	key    string
}

func NewFlowRepository(client redis.UniversalClient, key string) *FlowRepository {
	return &FlowRepository{client: client, key: key}
}

func (r *FlowRepository) GetAll(ctx context.Context) ([]*models.Flow, error) {
	values, err := r.client.HVals(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read flows: %w", err)
	}

	flows := make([]*models.Flow, 0, len(values))

	for _, value := range values {
		var flow models.Flow

		err := json.Unmarshal([]byte(value), &flow)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal flow: %w", err)
		}

		flows = append(flows, &flow)
	}

	return flows, nil
}

func (r *FlowRepository) ListFlows(ctx context.Context, opts persistence.ListFlowsOptions) (*persistence.FlowListResult, error) {
	if _, err := opts.Normalize(); err != nil {
		return nil, err
	}

	flows, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return persistence.ApplyListOptions(flows, opts)
}

func (r *FlowRepository) GetByID(ctx context.Context, id string) (*models.Flow, error) {
	value, err := r.client.HGet(ctx, r.key, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch flow %s: %w", id, err)
	}

	var flow models.Flow

	err = json.Unmarshal([]byte(value), &flow)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow %s: %w", id, err)
	}

	return &flow, nil
}

func (r *FlowRepository) Save(ctx context.Context, flow *models.Flow) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to marshal flow: %w", err))
	}

	err = r.client.HSet(ctx, r.key, flow.ID, data).Err()
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, err)
	}

	return nil
}

func (r *FlowRepository) Delete(ctx context.Context, id string) error {
	err := r.client.HDel(ctx, r.key, id).Err()
	if err != nil {
		return persistence.NewFlowError("Delete", id, err)
	}

	return nil
}
