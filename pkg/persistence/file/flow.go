package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

const flowsDir = "flows"

// FlowRepository stores one JSON document per flow under root/flows.
type FlowRepository struct {
	root string
	mu   sync.RWMutex
}

// NewFlowRepository creates a new flow repository.
func NewFlowRepository(root string) *FlowRepository {
	return &FlowRepository{root: root}
}

// GetAll returns every stored flow.
func (fr *FlowRepository) GetAll(ctx context.Context) ([]*models.Flow, error) {
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	jsonFiles, err := fs.Glob(os.DirFS(fr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list flow files: %w", err)
	}

	flows := make([]*models.Flow, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		flow, err := fr.read(strings.TrimSuffix(file, ".json"))
		if err != nil {
			return nil, err
		}

		if flow != nil {
			flows = append(flows, flow)
		}
	}

	return flows, nil
}

// ListFlows returns paginated and filtered flows with in-memory operations.
func (fr *FlowRepository) ListFlows(ctx context.Context, opts persistence.ListFlowsOptions) (*persistence.FlowListResult, error) {
	if _, err := opts.Normalize(); err != nil {
		return nil, err
	}

	flows, err := fr.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return persistence.ApplyListOptions(flows, opts)
}

// GetByID retrieves a flow by its ID from the file system.
func (fr *FlowRepository) GetByID(_ context.Context, id string) (*models.Flow, error) {
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	return fr.read(id)
}

// Save writes a flow to the file system, replacing any previous version.
func (fr *FlowRepository) Save(_ context.Context, flow *models.Flow) error {
	if !validID(flow.ID) {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("invalid flow id"))
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()

	err := os.MkdirAll(fr.dir(), 0750)
	if err != nil {
		return fmt.Errorf("failed to create flows directory: %w", err)
	}

	data, err := json.MarshalIndent(flow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal flow %s: %w", flow.ID, err)
	}

	return os.WriteFile(fr.path(flow.ID), data, 0600)
}

// Delete removes a flow by its ID.
func (fr *FlowRepository) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return nil
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()

	err := os.Remove(fr.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete flow %s: %w", id, err)
	}

	return nil
}

func (fr *FlowRepository) read(id string) (*models.Flow, error) {
	if !validID(id) {
		return nil, nil
	}

	body, err := os.ReadFile(fr.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch flow %s: %w", id, err)
	}

	var flow models.Flow

	err = json.Unmarshal(body, &flow)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow %s: %w", id, err)
	}

	return &flow, nil
}

func (fr *FlowRepository) dir() string {
	return filepath.Join(fr.root, flowsDir)
}

func (fr *FlowRepository) path(id string) string {
	return filepath.Join(fr.dir(), id+".json")
}

// validID rejects ids that would escape the flows directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}
