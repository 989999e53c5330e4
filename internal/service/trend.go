package service

import (
	"time"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

// TrendCalculator produces per-day time series across a date range.
type TrendCalculator struct {
	// minSamples is the per-day sample floor below which the range-wide
	// mean is reported instead of an unstable per-day aggregate.
	minSamples int
}

// NewTrendCalculator builds a calculator with the configured sample floor.
func NewTrendCalculator(minSamples int) *TrendCalculator {
	if minSamples < 1 {
		minSamples = 1
	}
	return &TrendCalculator{minSamples: minSamples}
}

// Series returns four equal-length daily series over the inclusive range.
// TicketCounts is an exact histogram of creation dates; the quality series
// are true per-day aggregates with the range-wide mean as fallback for
// days with too few samples. A reversed range yields empty series.
func (c *TrendCalculator) Series(tickets []domain.Ticket, r domain.TimeRange) domain.TrendSeries {
	days := r.Days()
	series := domain.TrendSeries{
		Dates:             make([]time.Time, 0, days),
		TicketCounts:      make([]int, 0, days),
		ResponseMinutes:   make([]float64, 0, days),
		ResolutionMinutes: make([]float64, 0, days),
		Satisfaction:      make([]float64, 0, days),
	}
	if days == 0 {
		return series
	}

	byDay := make(map[time.Time][]domain.Ticket, days)
	for i := range tickets {
		day := dayKey(tickets[i].CreatedAt)
		if !r.Contains(tickets[i].CreatedAt) {
			continue
		}
		byDay[day] = append(byDay[day], tickets[i])
	}

	// Range-wide fallbacks for days with sparse samples.
	all := make([]domain.Ticket, 0, len(tickets))
	for _, bucket := range byDay {
		all = append(all, bucket...)
	}
	fallbackResponse := meanResponseMinutes(all)
	fallbackResolution := meanResolutionMinutes(all)
	fallbackSatisfaction := meanSatisfaction(all)

	day := dayKey(r.Start)
	for i := 0; i < days; i++ {
		bucket := byDay[day]
		series.Dates = append(series.Dates, day)
		series.TicketCounts = append(series.TicketCounts, len(bucket))

		if len(bucket) >= c.minSamples {
			series.ResponseMinutes = append(series.ResponseMinutes, meanResponseMinutes(bucket))
			series.ResolutionMinutes = append(series.ResolutionMinutes, meanResolutionMinutes(bucket))
			series.Satisfaction = append(series.Satisfaction, meanSatisfaction(bucket))
		} else {
			series.ResponseMinutes = append(series.ResponseMinutes, fallbackResponse)
			series.ResolutionMinutes = append(series.ResolutionMinutes, fallbackResolution)
			series.Satisfaction = append(series.Satisfaction, fallbackSatisfaction)
		}
		day = day.AddDate(0, 0, 1)
	}
	return series
}

func meanResponseMinutes(tickets []domain.Ticket) float64 {
	var sum float64
	var n int
	for i := range tickets {
		if mins, ok := tickets[i].ResponseMinutes(); ok {
			sum += mins
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func dayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
