// Package config loads flow definitions from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dukex/flowdesk/pkg/models"
	"gopkg.in/yaml.v3"
)

var ErrNoFlows = errors.New("flow file defines no flows")

// FlowFile is the layout of a flows.yaml file. Defaults apply to every flow
// that leaves the field empty.
type FlowFile struct {
	OrganizationID string       `yaml:"organization_id"`
	Flows          []FlowConfig `yaml:"flows"`
}

// FlowConfig represents a flow in the YAML file.
type FlowConfig struct {
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description"`
	OrganizationID string       `yaml:"organization_id"`
	EventID        string       `yaml:"event_id"`
	Template       bool         `yaml:"template"`
	Active         bool         `yaml:"active"`
	Triggers       []ItemConfig `yaml:"triggers"`
	Actions        []ItemConfig `yaml:"actions"`
}

// ItemConfig is a trigger or an action. Type accepts legacy camelCase tags.
type ItemConfig struct {
	Type    string         `yaml:"type"`
	Name    string         `yaml:"name"`
	Summary string         `yaml:"summary"`
	Details map[string]any `yaml:"details"`
}

// LoadFlows reads and decodes the flows defined in the YAML file at path.
func LoadFlows(path string) ([]*models.Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file %s: %w", path, err)
	}

	return ParseFlows(data)
}

// ParseFlows decodes a flows.yaml document. Details payloads go through the
// same decoding as API requests, so a field of the wrong type is an error.
func ParseFlows(data []byte) ([]*models.Flow, error) {
	var file FlowFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML flow file: %w", err)
	}

	if len(file.Flows) == 0 {
		return nil, ErrNoFlows
	}

	flows := make([]*models.Flow, 0, len(file.Flows))

	for i, fc := range file.Flows {
		flow, err := fc.toFlow(file.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("flow %d (%s): %w", i, fc.Name, err)
		}

		flows = append(flows, flow)
	}

	return flows, nil
}

func (fc FlowConfig) toFlow(defaultOrganization string) (*models.Flow, error) {
	flow := &models.Flow{
		Name:           fc.Name,
		Description:    fc.Description,
		OrganizationID: fc.OrganizationID,
		EventID:        fc.EventID,
		Template:       fc.Template,
		Active:         fc.Active,
		Triggers:       make([]*models.Trigger, 0, len(fc.Triggers)),
		Actions:        make([]*models.Action, 0, len(fc.Actions)),
	}

	if flow.OrganizationID == "" {
		flow.OrganizationID = defaultOrganization
	}

	for _, item := range fc.Triggers {
		details, err := models.DecodeTriggerPayload(item.Type, item.Details)
		if err != nil {
			return nil, err
		}

		flow.Triggers = append(flow.Triggers, &models.Trigger{
			Type:    details.TriggerType(),
			Name:    item.Name,
			Summary: item.Summary,
			Details: details,
		})
	}

	for _, item := range fc.Actions {
		details, err := models.DecodeActionPayload(item.Type, item.Details)
		if err != nil {
			return nil, err
		}

		flow.Actions = append(flow.Actions, &models.Action{
			Type:    details.ActionType(),
			Name:    item.Name,
			Summary: item.Summary,
			Details: details,
		})
	}

	return flow, nil
}
