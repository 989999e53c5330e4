package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

func TestTrendCalculatorSeries(t *testing.T) {
	calc := NewTrendCalculator(3)

	t.Run("reversed range yields empty series", func(t *testing.T) {
		r := domain.TimeRange{Start: day(2025, time.March, 10), End: day(2025, time.March, 1)}

		s := calc.Series([]domain.Ticket{baseTicket("1", day(2025, time.March, 5))}, r)

		assert.Empty(t, s.Dates)
		assert.Empty(t, s.TicketCounts)
	})

	t.Run("ticket counts are an exact daily histogram", func(t *testing.T) {
		r := domain.TimeRange{Start: day(2025, time.March, 1), End: day(2025, time.March, 3)}
		tickets := []domain.Ticket{
			baseTicket("1", day(2025, time.March, 1)),
			baseTicket("2", day(2025, time.March, 1)),
			baseTicket("3", day(2025, time.March, 3)),
			// Outside the range, must not be counted.
			baseTicket("4", day(2025, time.February, 28)),
		}

		s := calc.Series(tickets, r)

		require.Len(t, s.Dates, 3)
		assert.Equal(t, []int{2, 0, 1}, s.TicketCounts)
		assert.Equal(t, day(2025, time.March, 2), s.Dates[1])
	})

	t.Run("equal-length series", func(t *testing.T) {
		r := domain.TimeRange{Start: day(2025, time.March, 1), End: day(2025, time.March, 7)}

		s := calc.Series(nil, r)

		require.Len(t, s.Dates, 7)
		assert.Len(t, s.TicketCounts, 7)
		assert.Len(t, s.ResponseMinutes, 7)
		assert.Len(t, s.ResolutionMinutes, 7)
		assert.Len(t, s.Satisfaction, 7)
	})

	t.Run("sparse days fall back to the range-wide mean", func(t *testing.T) {
		r := domain.TimeRange{Start: day(2025, time.March, 1), End: day(2025, time.March, 2)}
		// Day one carries three resolutions at 60 minutes, day two a single
		// outlier at 600: below the sample floor, so day two reports the
		// range-wide mean instead of the outlier.
		tickets := []domain.Ticket{
			resolvedTicket("1", day(2025, time.March, 1), 60, 0),
			resolvedTicket("2", day(2025, time.March, 1), 60, 0),
			resolvedTicket("3", day(2025, time.March, 1), 60, 0),
			resolvedTicket("4", day(2025, time.March, 2), 600, 0),
		}

		s := calc.Series(tickets, r)

		require.Len(t, s.ResolutionMinutes, 2)
		assert.InDelta(t, 60, s.ResolutionMinutes[0], 0.001)
		assert.InDelta(t, 195, s.ResolutionMinutes[1], 0.001)
	})

	t.Run("dense day reports its own aggregate", func(t *testing.T) {
		r := domain.TimeRange{Start: day(2025, time.March, 1), End: day(2025, time.March, 1)}
		tickets := []domain.Ticket{
			resolvedTicket("1", day(2025, time.March, 1), 30, 5),
			resolvedTicket("2", day(2025, time.March, 1), 60, 4),
			resolvedTicket("3", day(2025, time.March, 1), 90, 5),
		}

		s := calc.Series(tickets, r)

		require.Len(t, s.ResolutionMinutes, 1)
		assert.InDelta(t, 60, s.ResolutionMinutes[0], 0.001)
		assert.Equal(t, 4.7, s.Satisfaction[0])
	})
}
