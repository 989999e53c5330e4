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

// AnalysisType selects which pattern sub-analyses run.
type AnalysisType string

const (
	AnalysisIssues      AnalysisType = "issues"
	AnalysisEscalations AnalysisType = "escalations"
	AnalysisTime        AnalysisType = "time"
	AnalysisCustomers   AnalysisType = "customers"
	AnalysisAI          AnalysisType = "ai"
	AnalysisAll         AnalysisType = "all"
)

// ValidAnalysisType reports whether t names a known analysis.
func ValidAnalysisType(t AnalysisType) bool {
	switch t {
	case AnalysisIssues, AnalysisEscalations, AnalysisTime, AnalysisCustomers, AnalysisAI, AnalysisAll:
		return true
	}
	return false
}

// PatternRecognizer runs the five independent pattern sub-analyses.
// Each sub-analysis is pure; one that cannot produce output returns an
// empty list without affecting the others.
type PatternRecognizer struct {
	heuristics *config.Heuristics
	aggregator *Aggregator
}

// NewPatternRecognizer builds a recognizer over the signature library.
func NewPatternRecognizer(heuristics *config.Heuristics, aggregator *Aggregator) *PatternRecognizer {
	return &PatternRecognizer{heuristics: heuristics, aggregator: aggregator}
}

// IssuePatterns matches tickets against the keyword signature library and
// reports every signature with non-zero frequency, most frequent first.
func (p *PatternRecognizer) IssuePatterns(tickets []domain.Ticket) []domain.IssuePattern {
	patterns := make([]domain.IssuePattern, 0, len(p.heuristics.IssueSignatures))
	for _, sig := range p.heuristics.IssueSignatures {
		matches := make([]domain.Ticket, 0)
		for i := range tickets {
			if matchesSignature(&tickets[i], sig.Keywords) {
				matches = append(matches, tickets[i])
			}
		}
		if len(matches) == 0 {
			continue
		}
		patterns = append(patterns, domain.IssuePattern{
			ID:                   sig.ID,
			Name:                 sig.Name,
			Category:             sig.Category,
			Frequency:            len(matches),
			AvgResolutionMinutes: meanResolutionMinutes(matches),
			Suggestions:          sig.Suggestions,
		})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Frequency > patterns[j].Frequency
	})
	return patterns
}

func matchesSignature(t *domain.Ticket, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	text := strings.ToLower(t.Title + " " + t.Description)
	for _, kw := range keywords {
		if !strings.Contains(text, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// EscalationPatterns groups escalated tickets by trigger condition derived
// from content heuristics, ordered by frequency.
func (p *PatternRecognizer) EscalationPatterns(tickets []domain.Ticket) []domain.EscalationPattern {
	type bucket struct {
		count     int
		minuteSum float64
		minuteN   int
		resolved  int
	}
	buckets := make(map[string]*bucket)

	for i := range tickets {
		t := &tickets[i]
		if !p.aggregator.IsEscalated(t) {
			continue
		}
		label := p.triggerLabel(t)
		b := buckets[label]
		if b == nil {
			b = &bucket{}
			buckets[label] = b
		}
		b.count++
		// Time-to-escalation approximated by the reassignment update.
		if mins, ok := t.ResponseMinutes(); ok {
			b.minuteSum += mins
			b.minuteN++
		}
		if t.IsResolved() {
			b.resolved++
		}
	}

	patterns := make([]domain.EscalationPattern, 0, len(buckets))
	for label, b := range buckets {
		pattern := domain.EscalationPattern{
			Trigger:               label,
			Frequency:             b.count,
			ResolvedAfterEscalate: b.resolved,
		}
		if b.minuteN > 0 {
			pattern.AvgMinutesToEscalate = b.minuteSum / float64(b.minuteN)
		}
		patterns = append(patterns, pattern)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Frequency != patterns[j].Frequency {
			return patterns[i].Frequency > patterns[j].Frequency
		}
		return patterns[i].Trigger < patterns[j].Trigger
	})
	return patterns
}

func (p *PatternRecognizer) triggerLabel(t *domain.Ticket) string {
	text := strings.ToLower(t.Title + " " + t.Description)
	for _, trigger := range p.heuristics.EscalationTriggers {
		for _, kw := range trigger.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return trigger.Label
			}
		}
	}
	if t.Priority == domain.TicketPriorityCritical {
		return "critical_priority"
	}
	return "complexity"
}

// TimePatterns buckets tickets by hour of day and day of week using real
// bucketed aggregates, reporting only buckets that carry load.
func (p *PatternRecognizer) TimePatterns(tickets []domain.Ticket) []domain.TimePattern {
	if len(tickets) == 0 {
		return []domain.TimePattern{}
	}

	overallResolution := meanResolutionMinutes(tickets)
	total := float64(len(tickets))

	hourBuckets := make(map[int][]domain.Ticket)
	weekdayBuckets := make(map[time.Weekday][]domain.Ticket)
	for i := range tickets {
		created := tickets[i].CreatedAt.UTC()
		hourBuckets[created.Hour()] = append(hourBuckets[created.Hour()], tickets[i])
		weekdayBuckets[created.Weekday()] = append(weekdayBuckets[created.Weekday()], tickets[i])
	}

	patterns := make([]domain.TimePattern, 0, len(hourBuckets)+len(weekdayBuckets))
	for hour := 0; hour < 24; hour++ {
		bucket := hourBuckets[hour]
		if len(bucket) == 0 {
			continue
		}
		share := float64(len(bucket)) / total * 100
		patterns = append(patterns, domain.TimePattern{
			Bucket:          fmt.Sprintf("hour_%02d", hour),
			Tickets:         len(bucket),
			VolumeSharePct:  round1(share),
			ComplexityIndex: complexityIndex(bucket, overallResolution),
			StaffingAdvice:  staffingAdvice(share),
		})
	}
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		bucket := weekdayBuckets[weekday]
		if len(bucket) == 0 {
			continue
		}
		share := float64(len(bucket)) / total * 100
		patterns = append(patterns, domain.TimePattern{
			Bucket:          strings.ToLower(weekday.String()),
			Tickets:         len(bucket),
			VolumeSharePct:  round1(share),
			ComplexityIndex: complexityIndex(bucket, overallResolution),
			StaffingAdvice:  staffingAdvice(share),
		})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Tickets > patterns[j].Tickets
	})
	return patterns
}

func complexityIndex(bucket []domain.Ticket, overallResolution float64) float64 {
	if overallResolution == 0 {
		return 1
	}
	mean := meanResolutionMinutes(bucket)
	if mean == 0 {
		return 1
	}
	return round1(mean / overallResolution)
}

func staffingAdvice(sharePct float64) string {
	switch {
	case sharePct >= 15:
		return "peak load: schedule full coverage"
	case sharePct >= 8:
		return "moderate load: standard coverage"
	default:
		return "light load: shared coverage sufficient"
	}
}

// Volume cohort boundaries for customer segmentation.
const (
	highVolumeTickets    = 5
	regularVolumeTickets = 2
)

// CustomerPatterns segments tickets into client cohorts by ticket volume
// and reports cohort-level issue mix, channel, satisfaction and risk.
func (p *PatternRecognizer) CustomerPatterns(tickets []domain.Ticket) []domain.CustomerPattern {
	if len(tickets) == 0 {
		return []domain.CustomerPattern{}
	}

	byClient := make(map[string][]domain.Ticket)
	for i := range tickets {
		if tickets[i].ClientID == "" {
			continue
		}
		byClient[tickets[i].ClientID] = append(byClient[tickets[i].ClientID], tickets[i])
	}

	segments := map[string][]string{}
	for client, owned := range byClient {
		segments[segmentFor(len(owned))] = append(segments[segmentFor(len(owned))], client)
	}

	order := []string{"high_volume", "regular", "occasional"}
	patterns := make([]domain.CustomerPattern, 0, len(order))
	for _, segment := range order {
		clients := segments[segment]
		if len(clients) == 0 {
			continue
		}
		members := make([]domain.Ticket, 0)
		for _, client := range clients {
			members = append(members, byClient[client]...)
		}
		satisfaction := meanSatisfaction(members)
		patterns = append(patterns, domain.CustomerPattern{
			Segment:          segment,
			Clients:          len(clients),
			Tickets:          len(members),
			CommonIssues:     topCategories(members, 3),
			PreferredChannel: preferredChannel(members),
			AvgSatisfaction:  satisfaction,
			RetentionRisk:    retentionRisk(members, satisfaction, p.aggregator),
		})
	}
	return patterns
}

func segmentFor(ticketCount int) string {
	switch {
	case ticketCount >= highVolumeTickets:
		return "high_volume"
	case ticketCount >= regularVolumeTickets:
		return "regular"
	default:
		return "occasional"
	}
}

func topCategories(tickets []domain.Ticket, limit int) []domain.TicketCategory {
	counts := make(map[domain.TicketCategory]int)
	for i := range tickets {
		counts[tickets[i].Category]++
	}
	categories := make([]domain.TicketCategory, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > limit {
		categories = categories[:limit]
	}
	return categories
}

func preferredChannel(tickets []domain.Ticket) string {
	counts := map[string]int{}
	for i := range tickets {
		for _, tag := range tickets[i].Tags {
			switch strings.ToLower(tag) {
			case "email", "phone", "chat", "portal":
				counts[strings.ToLower(tag)]++
			}
		}
	}
	best := "portal"
	bestCount := 0
	for channel, count := range counts {
		if count > bestCount || (count == bestCount && channel < best && count > 0) {
			best = channel
			bestCount = count
		}
	}
	return best
}

// retentionRisk scores a cohort in [0,1]: low satisfaction and a high
// escalation share both push the score up.
func retentionRisk(tickets []domain.Ticket, satisfaction float64, aggregator *Aggregator) float64 {
	risk := 0.2
	if satisfaction > 0 {
		risk += (5 - satisfaction) / 5 * 0.5
	}
	escalated := 0
	for i := range tickets {
		if aggregator.IsEscalated(&tickets[i]) {
			escalated++
		}
	}
	if len(tickets) > 0 {
		risk += float64(escalated) / float64(len(tickets)) * 0.3
	}
	if risk > 1 {
		risk = 1
	}
	return round2(risk)
}

// AIPatterns reports per-component accuracy from caller-supplied telemetry.
// No telemetry means no output; the engine never infers these figures from
// ticket text.
func (p *PatternRecognizer) AIPatterns(telemetry []domain.AIComponentTelemetry) []domain.AIPattern {
	patterns := make([]domain.AIPattern, 0, len(telemetry))
	for _, t := range telemetry {
		patterns = append(patterns, domain.AIPattern{
			Component:         t.Component,
			Accuracy:          t.Accuracy,
			FalsePositiveRate: t.FalsePositiveRate,
			FeedbackScore:     t.FeedbackScore,
			Suggestions:       aiSuggestions(t),
		})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Accuracy < patterns[j].Accuracy
	})
	return patterns
}

func aiSuggestions(t domain.AIComponentTelemetry) []string {
	suggestions := []string{}
	if t.Accuracy < 0.9 {
		suggestions = append(suggestions, "expand training data for "+t.Component)
	}
	if t.FalsePositiveRate > 0.1 {
		suggestions = append(suggestions, "raise alert thresholds to cut false positives")
	}
	if t.FeedbackScore < 3.5 {
		suggestions = append(suggestions, "review recent user feedback for "+t.Component)
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "maintain current model configuration")
	}
	return suggestions
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
