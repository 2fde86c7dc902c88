// Package dashboard aggregates flows into the counts shown on the admin dashboard.
package dashboard

import (
	"sort"

	"github.com/dukex/flowdesk/pkg/models"
)

// TopN is the number of entries kept in the ranked lists of a Summary.
const TopN = 4

// TypeCount is the number of occurrences of one trigger or action type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Summary holds trigger and action usage across a set of flows.
type Summary struct {
	TotalFlows    int            `json:"total_flows"`
	ActiveFlows   int            `json:"active_flows"`
	TemplateFlows int            `json:"template_flows"`
	TriggerCounts map[string]int `json:"trigger_counts"`
	ActionCounts  map[string]int `json:"action_counts"`
	TopTriggers   []TypeCount    `json:"top_triggers"`
	TopActions    []TypeCount    `json:"top_actions"`
}

// Summarize counts every trigger and action occurrence by type and ranks the
// TopN most used types. Ties keep the order in which types were first seen.
func Summarize(flows []*models.Flow) Summary {
	triggers := newCounter()
	actions := newCounter()
	summary := Summary{}

	for _, flow := range flows {
		if flow == nil {
			continue
		}

		summary.TotalFlows++

		if flow.Active {
			summary.ActiveFlows++
		}

		if flow.Template {
			summary.TemplateFlows++
		}

		for _, trigger := range flow.Triggers {
			if trigger != nil {
				triggers.add(string(trigger.CanonicalType()))
			}
		}

		for _, action := range flow.Actions {
			if action != nil {
				actions.add(string(action.CanonicalType()))
			}
		}
	}

	summary.TriggerCounts = triggers.counts
	summary.ActionCounts = actions.counts
	summary.TopTriggers = triggers.top(TopN)
	summary.TopActions = actions.top(TopN)

	return summary
}

// counter remembers the first-seen position of every key so ranking is
// deterministic even though counts live in a map.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}

	c.counts[key]++
}

func (c *counter) top(n int) []TypeCount {
	type ranked struct {
		TypeCount

		index int
	}

	entries := make([]ranked, len(c.order))
	for i, key := range c.order {
		entries[i] = ranked{TypeCount: TypeCount{Type: key, Count: c.counts[key]}, index: i}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}

		return entries[i].index < entries[j].index
	})

	if len(entries) > n {
		entries = entries[:n]
	}

	result := make([]TypeCount, len(entries))
	for i, entry := range entries {
		result[i] = entry.TypeCount
	}

	return result
}
