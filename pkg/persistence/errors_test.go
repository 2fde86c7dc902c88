package persistence_test

import (
	"errors"
	"testing"

	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/stretchr/testify/assert"
)

func TestStandardizedErrors(t *testing.T) {
	t.Parallel()

	t.Run("flow error unwraps", func(t *testing.T) {
		err := persistence.NewFlowError("GetByID", "flow-123", persistence.ErrFlowNotFound)

		assert.True(t, persistence.IsFlowNotFound(err))
		assert.True(t, errors.Is(err, persistence.ErrFlowNotFound))
		assert.False(t, persistence.IsInvalidSortField(err))
	})

	t.Run("flow error contains context", func(t *testing.T) {
		err := persistence.NewFlowError("Delete", "flow-123", persistence.ErrFlowNotFound)

		assert.Contains(t, err.Error(), "Delete")
		assert.Contains(t, err.Error(), "flow-123")
		assert.Contains(t, err.Error(), "flow not found")
	})

	t.Run("list error unwraps", func(t *testing.T) {
		_, err := persistence.ListFlowsOptions{SortBy: "name; DROP TABLE flows; --"}.Normalize()

		assert.True(t, persistence.IsInvalidSortField(err))
		assert.Contains(t, err.Error(), "DROP TABLE")
	})
}
