package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/ticket-analytics/internal/config"
	"github.com/spec-kit/ticket-analytics/internal/domain"
)

// VolumeForecaster projects future ticket volume from historical daily
// statistics and weekday seasonality. The projection is fully deterministic:
// the same historical set and window always produce the same forecast.
type VolumeForecaster struct {
	heuristics      *config.Heuristics
	minImpactPct    float64
	minSpreadFactor float64
}

// NewVolumeForecaster builds a forecaster. minImpactPct is the threshold
// below which a weekday effect is not reported as a seasonal factor.
func NewVolumeForecaster(heuristics *config.Heuristics, minImpactPct float64) *VolumeForecaster {
	if minImpactPct <= 0 {
		minImpactPct = 5
	}
	return &VolumeForecaster{
		heuristics:      heuristics,
		minImpactPct:    minImpactPct,
		minSpreadFactor: 0.20,
	}
}

type historyStats struct {
	days        int
	mean        float64
	slopePerDay float64
	stddev      float64
	weekdayMean map[time.Weekday]float64
	weekdayN    map[time.Weekday]int
}

// Forecast projects volume over the inclusive window. A reversed window
// yields an empty forecast.
func (f *VolumeForecaster) Forecast(historical []domain.Ticket, window domain.TimeRange) *domain.VolumeForecast {
	forecast := &domain.VolumeForecast{
		Window:          window,
		Predictions:     []domain.VolumePrediction{},
		SeasonalFactors: []domain.SeasonalFactor{},
		Capacity:        []domain.CapacityRecommendation{},
	}
	days := window.Days()
	if days == 0 {
		return forecast
	}

	stats := f.historyStats(historical)
	forecast.SeasonalFactors = f.seasonalFactors(stats)
	forecast.ConfidenceLevel = f.confidenceLevel(stats)

	factorByWeekday := make(map[time.Weekday]float64)
	for weekday, mean := range stats.weekdayMean {
		if stats.mean > 0 {
			factorByWeekday[weekday] = (mean - stats.mean) / stats.mean
		}
	}

	spread := f.minSpreadFactor
	if stats.mean > 0 {
		cv := stats.stddev / stats.mean
		if s := 1.96 * cv; s > spread {
			spread = s
		}
	}

	day := dayKey(window.Start)
	for i := 0; i < days; i++ {
		predicted := stats.mean + stats.slopePerDay*float64(i+1)
		drivers := []string{"baseline volume"}
		if adj, ok := factorByWeekday[day.Weekday()]; ok && math.Abs(adj)*100 >= f.minImpactPct {
			predicted *= 1 + adj
			drivers = append(drivers, fmt.Sprintf("%s effect", strings.ToLower(day.Weekday().String())))
		}
		if stats.slopePerDay != 0 {
			drivers = append(drivers, "volume trend")
		}
		if predicted < 0 {
			predicted = 0
		}
		predicted = round1(predicted)

		lower := round1(predicted * (1 - spread))
		upper := round1(predicted * (1 + spread))
		if lower < 0 {
			lower = 0
		}
		if upper <= lower {
			// Keep the interval non-degenerate even at zero volume.
			upper = lower + 1
		}

		forecast.Predictions = append(forecast.Predictions, domain.VolumePrediction{
			Date:      day,
			Predicted: predicted,
			Lower:     lower,
			Upper:     upper,
			Drivers:   drivers,
		})
		forecast.Capacity = append(forecast.Capacity, f.capacityFor(day, predicted))
		day = day.AddDate(0, 0, 1)
	}
	return forecast
}

func (f *VolumeForecaster) historyStats(historical []domain.Ticket) historyStats {
	stats := historyStats{
		weekdayMean: make(map[time.Weekday]float64),
		weekdayN:    make(map[time.Weekday]int),
	}
	if len(historical) == 0 {
		return stats
	}

	counts := make(map[time.Time]int)
	var first, last time.Time
	for i := range historical {
		day := dayKey(historical[i].CreatedAt)
		counts[day]++
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}

	// Zero-ticket days inside the observed span count toward the baseline.
	span := int(last.Sub(first).Hours()/24) + 1
	stats.days = span

	daily := make([]float64, 0, span)
	weekdaySum := make(map[time.Weekday]float64)
	day := first
	for i := 0; i < span; i++ {
		n := float64(counts[day])
		daily = append(daily, n)
		weekdaySum[day.Weekday()] += n
		stats.weekdayN[day.Weekday()]++
		day = day.AddDate(0, 0, 1)
	}

	var sum float64
	for _, n := range daily {
		sum += n
	}
	stats.mean = sum / float64(span)

	var varianceSum float64
	for _, n := range daily {
		varianceSum += (n - stats.mean) * (n - stats.mean)
	}
	stats.stddev = math.Sqrt(varianceSum / float64(span))

	stats.slopePerDay = linearSlope(daily)

	for weekday, total := range weekdaySum {
		stats.weekdayMean[weekday] = total / float64(stats.weekdayN[weekday])
	}
	return stats
}

// linearSlope is the least-squares slope of the daily series.
func linearSlope(daily []float64) float64 {
	n := float64(len(daily))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range daily {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func (f *VolumeForecaster) seasonalFactors(stats historyStats) []domain.SeasonalFactor {
	factors := make([]domain.SeasonalFactor, 0)
	if stats.mean == 0 {
		return factors
	}
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		mean, ok := stats.weekdayMean[weekday]
		if !ok {
			continue
		}
		impact := (mean - stats.mean) / stats.mean * 100
		if math.Abs(impact) < f.minImpactPct {
			continue
		}
		factors = append(factors, domain.SeasonalFactor{
			Name:      fmt.Sprintf("%s effect", strings.ToLower(weekday.String())),
			ImpactPct: round1(impact),
			Samples:   stats.weekdayN[weekday],
		})
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return math.Abs(factors[i].ImpactPct) > math.Abs(factors[j].ImpactPct)
	})
	return factors
}

// confidenceLevel reflects data sufficiency and historical stability,
// clamped to [0.3, 0.95].
func (f *VolumeForecaster) confidenceLevel(stats historyStats) float64 {
	if stats.days == 0 {
		return 0.3
	}
	confidence := 0.5
	switch {
	case stats.days >= 56:
		confidence += 0.3
	case stats.days >= 28:
		confidence += 0.2
	case stats.days >= 14:
		confidence += 0.1
	}
	if stats.mean > 0 {
		cv := stats.stddev / stats.mean
		confidence -= math.Min(cv*0.3, 0.3)
	}
	if confidence < 0.3 {
		confidence = 0.3
	}
	if confidence > 0.95 {
		confidence = 0.95
	}
	return round2(confidence)
}

func (f *VolumeForecaster) capacityFor(day time.Time, predicted float64) domain.CapacityRecommendation {
	perStaff := f.heuristics.TicketsPerStaffPerDay
	if perStaff < 1 {
		perStaff = 1
	}
	staff := int(math.Ceil(predicted / float64(perStaff)))
	if staff < 1 {
		staff = 1
	}
	mix := make(map[string]int, len(f.heuristics.SkillMixPct))
	for skill, pct := range f.heuristics.SkillMixPct {
		mix[skill] = pct
	}
	return domain.CapacityRecommendation{
		Date:           day,
		SuggestedStaff: staff,
		SkillMix:       mix,
	}
}
