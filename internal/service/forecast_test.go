package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-analytics/internal/config"
	"github.com/spec-kit/ticket-analytics/internal/domain"
)

// flatHistory returns perDay tickets on each of spanDays consecutive days
// starting at start.
func flatHistory(start time.Time, spanDays, perDay int) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, spanDays*perDay)
	for d := 0; d < spanDays; d++ {
		created := start.AddDate(0, 0, d)
		for i := 0; i < perDay; i++ {
			tickets = append(tickets, baseTicket(fmt.Sprintf("%d-%d", d, i), created))
		}
	}
	return tickets
}

func TestVolumeForecaster(t *testing.T) {
	forecaster := NewVolumeForecaster(config.DefaultHeuristics(), 5)
	historyStart := day(2025, time.February, 1)
	window := domain.TimeRange{Start: day(2025, time.March, 1), End: day(2025, time.March, 7)}

	t.Run("reversed window yields an empty forecast", func(t *testing.T) {
		reversed := domain.TimeRange{Start: day(2025, time.March, 7), End: day(2025, time.March, 1)}

		forecast := forecaster.Forecast(flatHistory(historyStart, 28, 5), reversed)

		assert.Empty(t, forecast.Predictions)
		assert.Empty(t, forecast.Capacity)
	})

	t.Run("flat history projects the historical mean", func(t *testing.T) {
		forecast := forecaster.Forecast(flatHistory(historyStart, 28, 5), window)

		require.Len(t, forecast.Predictions, 7)
		for _, p := range forecast.Predictions {
			assert.Equal(t, 5.0, p.Predicted)
			assert.Equal(t, 4.0, p.Lower)
			assert.Equal(t, 6.0, p.Upper)
			assert.Equal(t, []string{"baseline volume"}, p.Drivers)
		}
		assert.Empty(t, forecast.SeasonalFactors)
		assert.Equal(t, 0.7, forecast.ConfidenceLevel)
	})

	t.Run("bounds bracket every prediction", func(t *testing.T) {
		history := flatHistory(historyStart, 14, 3)
		// A busier stretch near the end introduces trend and variance.
		history = append(history, flatHistory(historyStart.AddDate(0, 0, 14), 7, 9)...)

		forecast := forecaster.Forecast(history, window)

		require.NotEmpty(t, forecast.Predictions)
		for _, p := range forecast.Predictions {
			assert.LessOrEqual(t, p.Lower, p.Predicted)
			assert.LessOrEqual(t, p.Predicted, p.Upper)
			assert.GreaterOrEqual(t, p.Lower, 0.0)
		}
	})

	t.Run("same inputs produce the same forecast", func(t *testing.T) {
		history := flatHistory(historyStart, 28, 4)

		first := forecaster.Forecast(history, window)
		second := forecaster.Forecast(history, window)

		assert.Equal(t, first, second)
	})

	t.Run("strong weekday effect is reported and applied", func(t *testing.T) {
		// 28-day span, 4 per day, with Mondays doubled. 2025-02-03 is a Monday.
		history := flatHistory(historyStart, 28, 4)
		for d := 2; d < 28; d += 7 {
			created := historyStart.AddDate(0, 0, d)
			for i := 0; i < 4; i++ {
				history = append(history, baseTicket(fmt.Sprintf("extra-%d-%d", d, i), created))
			}
		}

		forecast := forecaster.Forecast(history, window)

		require.NotEmpty(t, forecast.SeasonalFactors)
		assert.Equal(t, "monday effect", forecast.SeasonalFactors[0].Name)
		assert.Greater(t, forecast.SeasonalFactors[0].ImpactPct, 0.0)
		assert.Equal(t, 4, forecast.SeasonalFactors[0].Samples)

		// 2025-03-03 is the Monday inside the window.
		var monday *domain.VolumePrediction
		for i := range forecast.Predictions {
			if forecast.Predictions[i].Date.Weekday() == time.Monday {
				monday = &forecast.Predictions[i]
			}
		}
		require.NotNil(t, monday)
		assert.Contains(t, monday.Drivers, "monday effect")
	})

	t.Run("no history still yields a bounded forecast", func(t *testing.T) {
		forecast := forecaster.Forecast(nil, window)

		require.Len(t, forecast.Predictions, 7)
		for _, p := range forecast.Predictions {
			assert.Zero(t, p.Predicted)
			assert.Equal(t, 0.0, p.Lower)
			assert.Equal(t, 1.0, p.Upper)
		}
		assert.Equal(t, 0.3, forecast.ConfidenceLevel)
	})

	t.Run("capacity scales with predicted volume", func(t *testing.T) {
		forecast := forecaster.Forecast(flatHistory(historyStart, 28, 20), window)

		require.Len(t, forecast.Capacity, 7)
		for _, c := range forecast.Capacity {
			assert.Equal(t, 3, c.SuggestedStaff)
			assert.Equal(t, 50, c.SkillMix["general"])
			assert.Equal(t, 30, c.SkillMix["technical"])
			assert.Equal(t, 20, c.SkillMix["specialist"])
		}
	})
}
