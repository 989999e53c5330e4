package service

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

// Pattern-category to recommendation-type mapping. The mapping is explicit
// so tests can pin it: issue and escalation findings target efficiency or
// quality, temporal findings target staffing, AI findings target automation
// or quality.
var recommendationTypeFor = map[AnalysisType][]domain.RecommendationType{
	AnalysisIssues:      {domain.RecommendationEfficiency, domain.RecommendationQuality},
	AnalysisEscalations: {domain.RecommendationEfficiency, domain.RecommendationQuality},
	AnalysisTime:        {domain.RecommendationStaffing},
	AnalysisCustomers:   {domain.RecommendationQuality},
	AnalysisAI:          {domain.RecommendationAutomation, domain.RecommendationQuality},
}

var priorityRank = map[domain.TicketPriority]int{
	domain.TicketPriorityCritical: 0,
	domain.TicketPriorityHigh:     1,
	domain.TicketPriorityMedium:   2,
	domain.TicketPriorityLow:      3,
}

// RecommendationEngine synthesizes ranked recommendations from the five
// pattern lists.
type RecommendationEngine struct{}

// NewRecommendationEngine builds the engine.
func NewRecommendationEngine() *RecommendationEngine {
	return &RecommendationEngine{}
}

// Build emits recommendations ranked by priority tier, then confidence
// descending, with stable input order as the final tiebreak.
func (e *RecommendationEngine) Build(insights *domain.PatternInsights) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0)

	for _, issue := range insights.CommonIssues {
		if issue.Frequency < 2 {
			continue
		}
		rec := domain.Recommendation{
			ID:             uuid.NewString(),
			Type:           typeFor(AnalysisIssues, issue.Frequency >= 5),
			Priority:       priorityForFrequency(issue.Frequency),
			Title:          fmt.Sprintf("Address recurring issue: %s", issue.Name),
			Description:    firstOr(issue.Suggestions, "Create a runbook for this recurring issue"),
			ExpectedImpact: fmt.Sprintf("reduce repeat volume for %d matching tickets", issue.Frequency),
			Effort:         effortForFrequency(issue.Frequency),
			Confidence:     confidenceForSamples(issue.Frequency),
		}
		recs = append(recs, rec)
	}

	for _, esc := range insights.EscalationPatterns {
		if esc.Frequency < 2 {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ID:             uuid.NewString(),
			Type:           typeFor(AnalysisEscalations, esc.ResolvedAfterEscalate < esc.Frequency/2),
			Priority:       domain.TicketPriorityHigh,
			Title:          fmt.Sprintf("Reduce escalations triggered by %s", esc.Trigger),
			Description:    "Equip first-tier agents to resolve these tickets before reassignment",
			ExpectedImpact: fmt.Sprintf("avoid up to %d escalations", esc.Frequency),
			Effort:         "medium",
			Confidence:     confidenceForSamples(esc.Frequency),
		})
	}

	for _, tp := range insights.TimePatterns {
		if tp.VolumeSharePct < 15 {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ID:             uuid.NewString(),
			Type:           domain.RecommendationStaffing,
			Priority:       domain.TicketPriorityMedium,
			Title:          fmt.Sprintf("Align staffing with %s peak", tp.Bucket),
			Description:    tp.StaffingAdvice,
			ExpectedImpact: fmt.Sprintf("cover %.1f%% of ticket volume at peak", tp.VolumeSharePct),
			Effort:         "low",
			Confidence:     confidenceForSamples(tp.Tickets),
		})
	}

	for _, cp := range insights.CustomerPatterns {
		if cp.RetentionRisk < 0.5 {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ID:             uuid.NewString(),
			Type:           domain.RecommendationQuality,
			Priority:       domain.TicketPriorityHigh,
			Title:          fmt.Sprintf("Retention outreach for %s clients", cp.Segment),
			Description:    "Proactive check-ins for the cohort with elevated churn signals",
			ExpectedImpact: fmt.Sprintf("lower retention risk for %d clients", cp.Clients),
			Effort:         "medium",
			Confidence:     cp.RetentionRisk,
		})
	}

	for _, ap := range insights.AIPatterns {
		if ap.Accuracy >= 0.9 && ap.FalsePositiveRate <= 0.1 {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ID:             uuid.NewString(),
			Type:           typeFor(AnalysisAI, ap.Accuracy < 0.8),
			Priority:       priorityForAccuracy(ap.Accuracy),
			Title:          fmt.Sprintf("Improve %s model performance", ap.Component),
			Description:    firstOr(ap.Suggestions, "Schedule a model review"),
			ExpectedImpact: fmt.Sprintf("raise accuracy from %.0f%%", ap.Accuracy*100),
			Effort:         "high",
			Confidence:     round2(1 - ap.Accuracy + 0.5),
		})
	}

	for i := range recs {
		if recs[i].Confidence > 1 {
			recs[i].Confidence = 1
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if priorityRank[recs[i].Priority] != priorityRank[recs[j].Priority] {
			return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
		}
		return recs[i].Confidence > recs[j].Confidence
	})
	return recs
}

// typeFor picks the recommendation type for a pattern category; severe
// findings take the first (stronger) mapping, the rest take the fallback.
func typeFor(category AnalysisType, severe bool) domain.RecommendationType {
	options := recommendationTypeFor[category]
	if len(options) == 1 || severe {
		return options[0]
	}
	return options[len(options)-1]
}

func priorityForFrequency(frequency int) domain.TicketPriority {
	switch {
	case frequency >= 10:
		return domain.TicketPriorityCritical
	case frequency >= 5:
		return domain.TicketPriorityHigh
	default:
		return domain.TicketPriorityMedium
	}
}

func priorityForAccuracy(accuracy float64) domain.TicketPriority {
	if accuracy < 0.8 {
		return domain.TicketPriorityCritical
	}
	return domain.TicketPriorityHigh
}

func effortForFrequency(frequency int) string {
	if frequency >= 10 {
		return "high"
	}
	return "medium"
}

// confidenceForSamples grows with sample size and saturates at 0.95.
func confidenceForSamples(samples int) float64 {
	c := 0.5 + float64(samples)*0.05
	if c > 0.95 {
		c = 0.95
	}
	return round2(c)
}

func firstOr(list []string, fallback string) string {
	if len(list) > 0 {
		return list[0]
	}
	return fallback
}
