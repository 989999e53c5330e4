package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

func TestRecommendationEngineBuild(t *testing.T) {
	engine := NewRecommendationEngine()

	t.Run("empty insights produce no recommendations", func(t *testing.T) {
		recs := engine.Build(&domain.PatternInsights{})
		assert.Empty(t, recs)
	})

	t.Run("single-occurrence findings are skipped", func(t *testing.T) {
		insights := &domain.PatternInsights{
			CommonIssues:       []domain.IssuePattern{{ID: "one-off", Name: "One off", Frequency: 1}},
			EscalationPatterns: []domain.EscalationPattern{{Trigger: "complexity", Frequency: 1}},
		}

		assert.Empty(t, engine.Build(insights))
	})

	t.Run("issue frequency sets priority, effort and type", func(t *testing.T) {
		insights := &domain.PatternInsights{
			CommonIssues: []domain.IssuePattern{
				{ID: "mild", Name: "Mild", Frequency: 2, Suggestions: []string{"write a macro"}},
				{ID: "hot", Name: "Hot", Frequency: 6},
				{ID: "fire", Name: "Fire", Frequency: 12},
			},
		}

		recs := engine.Build(insights)
		require.Len(t, recs, 3)

		byTitle := make(map[string]domain.Recommendation, len(recs))
		for _, r := range recs {
			byTitle[r.Title] = r
		}

		mild := byTitle["Address recurring issue: Mild"]
		assert.Equal(t, domain.TicketPriorityMedium, mild.Priority)
		assert.Equal(t, domain.RecommendationQuality, mild.Type)
		assert.Equal(t, "medium", mild.Effort)
		assert.Equal(t, "write a macro", mild.Description)
		assert.Equal(t, 0.6, mild.Confidence)

		hot := byTitle["Address recurring issue: Hot"]
		assert.Equal(t, domain.TicketPriorityHigh, hot.Priority)
		assert.Equal(t, domain.RecommendationEfficiency, hot.Type)

		fire := byTitle["Address recurring issue: Fire"]
		assert.Equal(t, domain.TicketPriorityCritical, fire.Priority)
		assert.Equal(t, "high", fire.Effort)
	})

	t.Run("output sorts by priority tier then confidence", func(t *testing.T) {
		insights := &domain.PatternInsights{
			TimePatterns: []domain.TimePattern{
				{Bucket: "monday", Tickets: 4, VolumeSharePct: 20, StaffingAdvice: "peak load: schedule full coverage"},
			},
			AIPatterns: []domain.AIPattern{
				{Component: "anomaly-detector", Accuracy: 0.7, FalsePositiveRate: 0.3},
			},
			EscalationPatterns: []domain.EscalationPattern{
				{Trigger: "outage", Frequency: 3, ResolvedAfterEscalate: 3},
			},
		}

		recs := engine.Build(insights)
		require.Len(t, recs, 3)

		assert.Equal(t, domain.TicketPriorityCritical, recs[0].Priority)
		assert.Equal(t, "Improve anomaly-detector model performance", recs[0].Title)
		assert.Equal(t, domain.RecommendationAutomation, recs[0].Type)

		assert.Equal(t, domain.TicketPriorityHigh, recs[1].Priority)
		assert.Equal(t, domain.TicketPriorityMedium, recs[2].Priority)
		assert.Equal(t, domain.RecommendationStaffing, recs[2].Type)
	})

	t.Run("customer cohorts below the risk floor are skipped", func(t *testing.T) {
		insights := &domain.PatternInsights{
			CustomerPatterns: []domain.CustomerPattern{
				{Segment: "occasional", Clients: 3, RetentionRisk: 0.3},
				{Segment: "high_volume", Clients: 2, RetentionRisk: 0.8},
			},
		}

		recs := engine.Build(insights)
		require.Len(t, recs, 1)
		assert.Equal(t, "Retention outreach for high_volume clients", recs[0].Title)
		assert.Equal(t, 0.8, recs[0].Confidence)
	})

	t.Run("confidence never exceeds one", func(t *testing.T) {
		insights := &domain.PatternInsights{
			AIPatterns: []domain.AIPattern{
				{Component: "triage", Accuracy: 0.2, FalsePositiveRate: 0.5},
			},
		}

		recs := engine.Build(insights)
		require.Len(t, recs, 1)
		assert.Equal(t, 1.0, recs[0].Confidence)
	})

	t.Run("ids are unique", func(t *testing.T) {
		insights := &domain.PatternInsights{
			CommonIssues: []domain.IssuePattern{
				{ID: "a", Name: "A", Frequency: 2},
				{ID: "b", Name: "B", Frequency: 2},
			},
		}

		recs := engine.Build(insights)
		require.Len(t, recs, 2)
		assert.NotEqual(t, recs[0].ID, recs[1].ID)
	})
}
