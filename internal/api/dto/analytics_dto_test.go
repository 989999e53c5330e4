package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-analytics/internal/domain"
	"github.com/spec-kit/ticket-analytics/pkg/util/errorutil"
)

func TestTimeRangePayloadToTimeRange(t *testing.T) {
	t.Run("parses ISO dates", func(t *testing.T) {
		r, err := TimeRangePayload{Start: "2025-03-01", End: "2025-03-07"}.ToTimeRange("range")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), r.Start)
		assert.Equal(t, 7, r.Days())
	})

	t.Run("missing dates are an input error", func(t *testing.T) {
		_, err := TimeRangePayload{Start: "2025-03-01"}.ToTimeRange("range")

		require.Error(t, err)
		assert.True(t, errorutil.IsKind(err, errorutil.KindInput))
	})

	t.Run("malformed dates are an input error", func(t *testing.T) {
		_, err := TimeRangePayload{Start: "03/01/2025", End: "2025-03-07"}.ToTimeRange("range")

		require.Error(t, err)
		assert.True(t, errorutil.IsKind(err, errorutil.KindInput))
	})

	t.Run("reversed ranges are accepted", func(t *testing.T) {
		r, err := TimeRangePayload{Start: "2025-03-07", End: "2025-03-01"}.ToTimeRange("range")

		require.NoError(t, err)
		assert.Equal(t, 0, r.Days())
	})
}

func TestFiltersPayloadToFilters(t *testing.T) {
	t.Run("tenant comes from the token, not the body", func(t *testing.T) {
		var p *FiltersPayload
		filters := p.ToFilters("tenant-7")

		require.NotNil(t, filters.TenantID)
		assert.Equal(t, "tenant-7", *filters.TenantID)
	})

	t.Run("populated fields carry over", func(t *testing.T) {
		category := "billing"
		p := &FiltersPayload{
			Category:    &category,
			AssigneeIDs: []string{"s1"},
		}

		filters := p.ToFilters("tenant-7")

		require.NotNil(t, filters.Category)
		assert.Equal(t, domain.CategoryBilling, *filters.Category)
		assert.Equal(t, []string{"s1"}, filters.AssigneeIDs)
		assert.Nil(t, filters.Priority)
	})
}

func TestTicketPayloadToTicket(t *testing.T) {
	created := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	p := TicketPayload{
		ID:           "t-1",
		Title:        "Camera connection lost",
		Category:     "technical",
		Priority:     "high",
		Status:       "open",
		ClientID:     "client-1",
		CreatedAt:    created,
		UpdatedAt:    created,
		CommentCount: 3,
	}

	ticket := p.ToTicket("tenant-7")

	assert.Equal(t, "tenant-7", ticket.TenantID)
	assert.Equal(t, domain.CategoryTechnical, ticket.Category)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
	assert.Len(t, ticket.Comments, 3)
}
