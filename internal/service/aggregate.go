package service

import (
	"math"
	"strings"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

// Aggregator computes point-in-time scalar KPIs over a ticket set.
// It is a pure function of its input; the escalation heuristic hints are
// the only state and never change after construction.
type Aggregator struct {
	escalationHints []string
}

// NewAggregator builds an aggregator with the configured assignee-name hints.
func NewAggregator(escalationHints []string) *Aggregator {
	return &Aggregator{escalationHints: escalationHints}
}

// Overview returns the scalar KPIs for tickets. Every metric is zero-valued
// on an empty input; none can produce NaN.
func (a *Aggregator) Overview(tickets []domain.Ticket) domain.OverviewMetrics {
	m := domain.OverviewMetrics{TotalTickets: len(tickets)}
	if len(tickets) == 0 {
		return m
	}

	var (
		responseSum   float64
		responseN     int
		resolutionSum float64
		resolutionN   int
		ratingSum     int
		ratingN       int
		firstCallN    int
		escalatedN    int
		aiN           int
	)

	for i := range tickets {
		t := &tickets[i]
		if mins, ok := t.ResponseMinutes(); ok {
			responseSum += mins
			responseN++
		}
		if mins, ok := t.ResolutionMinutes(); ok {
			resolutionSum += mins
			resolutionN++
		}
		if t.SatisfactionRating != nil {
			ratingSum += *t.SatisfactionRating
			ratingN++
		}
		if t.IsResolved() && len(t.Comments) <= 2 {
			firstCallN++
		}
		if a.IsEscalated(t) {
			escalatedN++
		}
		if t.AIGenerated {
			aiN++
		}
	}

	if responseN > 0 {
		m.AvgResponseMinutes = responseSum / float64(responseN)
	}
	if resolutionN > 0 {
		m.AvgResolutionMinutes = resolutionSum / float64(resolutionN)
	}
	if ratingN > 0 {
		m.CustomerSatisfaction = round1(float64(ratingSum) / float64(ratingN))
	}
	total := float64(len(tickets))
	m.FirstCallResolutionPct = roundPct(float64(firstCallN) / total)
	m.EscalationPct = roundPct(float64(escalatedN) / total)
	m.AutomationPct = roundPct(float64(aiN) / total)
	return m
}

// AISummary returns the AI-generated slice of the overview.
func (a *Aggregator) AISummary(tickets []domain.Ticket) domain.AIMetrics {
	ai := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if tickets[i].AIGenerated {
			ai = append(ai, tickets[i])
		}
	}
	summary := domain.AIMetrics{Generated: len(ai)}
	if len(tickets) > 0 {
		summary.SharePct = roundPct(float64(len(ai)) / float64(len(tickets)))
	}
	if len(ai) == 0 {
		return summary
	}
	var resolutionSum float64
	var resolutionN, ratingSum, ratingN int
	for i := range ai {
		if mins, ok := ai[i].ResolutionMinutes(); ok {
			resolutionSum += mins
			resolutionN++
		}
		if ai[i].SatisfactionRating != nil {
			ratingSum += *ai[i].SatisfactionRating
			ratingN++
		}
	}
	if resolutionN > 0 {
		summary.AvgResolutionMinutes = resolutionSum / float64(resolutionN)
	}
	if ratingN > 0 {
		summary.Satisfaction = round1(float64(ratingSum) / float64(ratingN))
	}
	return summary
}

// IsEscalated applies the assignee display-name heuristic. The match is a
// case-insensitive substring test against the configured hint list.
func (a *Aggregator) IsEscalated(t *domain.Ticket) bool {
	if t.AssigneeName == nil {
		return false
	}
	name := strings.ToLower(*t.AssigneeName)
	for _, hint := range a.escalationHints {
		if hint != "" && strings.Contains(name, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}

func meanResolutionMinutes(tickets []domain.Ticket) float64 {
	var sum float64
	var n int
	for i := range tickets {
		if mins, ok := tickets[i].ResolutionMinutes(); ok {
			sum += mins
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func meanSatisfaction(tickets []domain.Ticket) float64 {
	var sum, n int
	for i := range tickets {
		if tickets[i].SatisfactionRating != nil {
			sum += *tickets[i].SatisfactionRating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round1(float64(sum) / float64(n))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundPct(fraction float64) int {
	return int(math.Round(fraction * 100))
}
