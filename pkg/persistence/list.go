package persistence

import (
	"sort"
	"strings"

	"github.com/dukex/flowdesk/pkg/models"
)

// ApplyListOptions filters, sorts and pages flows in memory. It is shared by
// the backends that cannot push the query down to storage.
func ApplyListOptions(flows []*models.Flow, opts ListFlowsOptions) (*FlowListResult, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Flow, 0, len(flows))

	for _, flow := range flows {
		if flow != nil && opts.Matches(flow) {
			filtered = append(filtered, flow)
		}
	}

	sortFlows(filtered, opts.SortBy, opts.SortOrder)

	total := len(filtered)
	if opts.Offset >= total {
		return &FlowListResult{
			Flows:      make([]*models.Flow, 0),
			TotalCount: int64(total),
		}, nil
	}

	end := min(opts.Offset+opts.Limit, total)

	return &FlowListResult{
		Flows:       filtered[opts.Offset:end],
		TotalCount:  int64(total),
		HasNextPage: end < total,
	}, nil
}

func sortFlows(flows []*models.Flow, sortBy, sortOrder string) {
	sort.SliceStable(flows, func(i, j int) bool {
		var cmp int

		switch sortBy {
		case SortByUpdatedAt:
			cmp = flows[i].UpdatedAt.Compare(flows[j].UpdatedAt)
		case SortByName:
			cmp = strings.Compare(flows[i].Name, flows[j].Name)
		default:
			cmp = flows[i].CreatedAt.Compare(flows[j].CreatedAt)
		}

		if sortOrder == SortOrderDesc {
			return cmp > 0
		}

		return cmp < 0
	})
}
