package domain

import "time"

// TimeRange is an inclusive calendar-day window.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days covered, inclusive.
// A reversed range covers zero days.
func (r TimeRange) Days() int {
	start := dayStart(r.Start)
	end := dayStart(r.End)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	d := dayStart(t)
	return !d.Before(dayStart(r.Start)) && !d.After(dayStart(r.End))
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Filters narrows the ticket snapshot. Nil fields impose no constraint;
// populated fields compose with AND semantics.
type Filters struct {
	Category           *TicketCategory
	Priority           *TicketPriority
	Status             *TicketStatus
	AssigneeIDs        []string
	ClientIDs          []string
	TenantID           *string
	IncludeAIGenerated *bool
	IncludeClosed      *bool
}

// Matches evaluates the filter against a single ticket.
func (f *Filters) Matches(t *Ticket) bool {
	if f == nil {
		return true
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.TenantID != nil && t.TenantID != *f.TenantID {
		return false
	}
	if len(f.AssigneeIDs) > 0 {
		if t.AssigneeID == nil || !containsString(f.AssigneeIDs, *t.AssigneeID) {
			return false
		}
	}
	if len(f.ClientIDs) > 0 && !containsString(f.ClientIDs, t.ClientID) {
		return false
	}
	if f.IncludeAIGenerated != nil && !*f.IncludeAIGenerated && t.AIGenerated {
		return false
	}
	if f.IncludeClosed != nil && !*f.IncludeClosed && t.Status == TicketStatusClosed {
		return false
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// OverviewMetrics holds point-in-time scalar KPIs over a ticket set.
type OverviewMetrics struct {
	TotalTickets            int     `json:"total_tickets"`
	AvgResponseMinutes      float64 `json:"avg_response_minutes"`
	AvgResolutionMinutes    float64 `json:"avg_resolution_minutes"`
	CustomerSatisfaction    float64 `json:"customer_satisfaction"`
	FirstCallResolutionPct  int     `json:"first_call_resolution_pct"`
	EscalationPct           int     `json:"escalation_pct"`
	AutomationPct           int     `json:"automation_pct"`
}

// TrendSeries holds four parallel daily series sharing one date axis.
type TrendSeries struct {
	Dates             []time.Time `json:"dates"`
	TicketCounts      []int       `json:"ticket_counts"`
	ResponseMinutes   []float64   `json:"response_minutes"`
	ResolutionMinutes []float64   `json:"resolution_minutes"`
	Satisfaction      []float64   `json:"satisfaction"`
}

// GroupMetrics is one row of a distribution table.
type GroupMetrics struct {
	Key                  string  `json:"key"`
	Count                int     `json:"count"`
	Percentage           float64 `json:"percentage"`
	AvgResolutionMinutes float64 `json:"avg_resolution_minutes"`
	AvgSatisfaction      float64 `json:"avg_satisfaction"`
	EscalationPct        int     `json:"escalation_pct,omitempty"`
	UtilizationPct       int     `json:"utilization_pct,omitempty"`
}

// DistributionTables groups tickets along the four partition attributes.
type DistributionTables struct {
	ByCategory []GroupMetrics `json:"by_category"`
	ByPriority []GroupMetrics `json:"by_priority"`
	ByStatus   []GroupMetrics `json:"by_status"`
	ByAssignee []GroupMetrics `json:"by_assignee"`
}

// AIMetrics summarizes the AI-generated slice of the ticket set.
type AIMetrics struct {
	Generated            int     `json:"generated"`
	SharePct             int     `json:"share_pct"`
	AvgResolutionMinutes float64 `json:"avg_resolution_minutes"`
	Satisfaction         float64 `json:"satisfaction"`
}

// PerformanceReport is the composed on-demand analytics report.
// Reports are value snapshots: a cached report is returned as-is and
// must never be mutated by callers.
type PerformanceReport struct {
	Range        TimeRange          `json:"range"`
	Overview     OverviewMetrics    `json:"overview"`
	Trends       TrendSeries        `json:"trends"`
	Distribution DistributionTables `json:"distribution"`
	AI           AIMetrics          `json:"ai"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// IssuePattern is a recurring issue signature with non-zero frequency.
type IssuePattern struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Category             TicketCategory `json:"category"`
	Frequency            int            `json:"frequency"`
	AvgResolutionMinutes float64        `json:"avg_resolution_minutes"`
	Suggestions          []string       `json:"suggestions"`
}

// EscalationPattern describes a recurring escalation trigger.
type EscalationPattern struct {
	Trigger               string  `json:"trigger"`
	Frequency             int     `json:"frequency"`
	AvgMinutesToEscalate  float64 `json:"avg_minutes_to_escalate"`
	ResolvedAfterEscalate int     `json:"resolved_after_escalate"`
}

// TimePattern describes a temporal load bucket.
type TimePattern struct {
	Bucket          string  `json:"bucket"`
	Tickets         int     `json:"tickets"`
	VolumeSharePct  float64 `json:"volume_share_pct"`
	ComplexityIndex float64 `json:"complexity_index"`
	StaffingAdvice  string  `json:"staffing_advice"`
}

// CustomerPattern describes a client cohort.
type CustomerPattern struct {
	Segment          string           `json:"segment"`
	Clients          int              `json:"clients"`
	Tickets          int              `json:"tickets"`
	CommonIssues     []TicketCategory `json:"common_issues"`
	PreferredChannel string           `json:"preferred_channel"`
	AvgSatisfaction  float64          `json:"avg_satisfaction"`
	RetentionRisk    float64          `json:"retention_risk"`
}

// AIPattern reports accuracy telemetry for one AI subsystem component.
type AIPattern struct {
	Component         string   `json:"component"`
	Accuracy          float64  `json:"accuracy"`
	FalsePositiveRate float64  `json:"false_positive_rate"`
	FeedbackScore     float64  `json:"feedback_score"`
	Suggestions       []string `json:"suggestions"`
}

// AIComponentTelemetry is caller-supplied accuracy telemetry for one AI
// subsystem component. The engine consumes it verbatim; it never derives
// these figures from ticket text.
type AIComponentTelemetry struct {
	Component         string  `json:"component"`
	Accuracy          float64 `json:"accuracy"`
	FalsePositiveRate float64 `json:"false_positive_rate"`
	FeedbackScore     float64 `json:"feedback_score"`
}

// RecommendationType classifies what a recommendation targets.
type RecommendationType string

const (
	RecommendationEfficiency RecommendationType = "efficiency"
	RecommendationQuality    RecommendationType = "quality"
	RecommendationAutomation RecommendationType = "automation"
	RecommendationStaffing   RecommendationType = "staffing"
)

// Recommendation is a ranked, actionable suggestion synthesized from
// pattern analysis. Recommendations are generated, never persisted here.
type Recommendation struct {
	ID             string             `json:"id"`
	Type           RecommendationType `json:"type"`
	Priority       TicketPriority     `json:"priority"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	ExpectedImpact string             `json:"expected_impact"`
	Effort         string             `json:"effort"`
	Confidence     float64            `json:"confidence"`
}

// PatternInsights bundles the five independent pattern lists plus the
// derived recommendations. Each list is ordered by descending relevance;
// items carry no cross-references.
type PatternInsights struct {
	CommonIssues       []IssuePattern      `json:"common_issues"`
	EscalationPatterns []EscalationPattern `json:"escalation_patterns"`
	TimePatterns       []TimePattern       `json:"time_patterns"`
	CustomerPatterns   []CustomerPattern   `json:"customer_patterns"`
	AIPatterns         []AIPattern         `json:"ai_patterns"`
	Recommendations    []Recommendation    `json:"recommendations"`
}

// VolumePrediction is one forecast day.
type VolumePrediction struct {
	Date      time.Time `json:"date"`
	Predicted float64   `json:"predicted"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
	Drivers   []string  `json:"drivers"`
}

// SeasonalFactor names a recurring volume effect.
type SeasonalFactor struct {
	Name      string  `json:"name"`
	ImpactPct float64 `json:"impact_pct"`
	Samples   int     `json:"samples"`
}

// CapacityRecommendation suggests staffing for one forecast day.
type CapacityRecommendation struct {
	Date           time.Time      `json:"date"`
	SuggestedStaff int            `json:"suggested_staff"`
	SkillMix       map[string]int `json:"skill_mix"`
}

// VolumeForecast projects ticket volume over a forecast window.
// Capacity rows align one-to-one with Predictions by date.
type VolumeForecast struct {
	Window          TimeRange                `json:"window"`
	Predictions     []VolumePrediction       `json:"predictions"`
	ConfidenceLevel float64                  `json:"confidence_level"`
	SeasonalFactors []SeasonalFactor         `json:"seasonal_factors"`
	Capacity        []CapacityRecommendation `json:"capacity"`
}

// QuickStats is the lightweight dashboard summary.
type QuickStats struct {
	TodayTickets         int     `json:"today_tickets"`
	AvgResponseMinutes   float64 `json:"avg_response_minutes"`
	CustomerSatisfaction float64 `json:"customer_satisfaction"`
	AutomationPct        int     `json:"automation_pct"`
}
