package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/ticket-analytics/internal/domain"
	"github.com/spec-kit/ticket-analytics/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

// TimeRangePayload carries ISO calendar dates over the wire.
type TimeRangePayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ToTimeRange validates and converts the payload. Malformed dates are an
// input error; a reversed range is valid and yields empty reports.
func (p TimeRangePayload) ToTimeRange(field string) (domain.TimeRange, error) {
	if p.Start == "" || p.End == "" {
		return domain.TimeRange{}, errorutil.NewInputError(
			field+" start and end are required",
			map[string]any{"field": field})
	}
	start, err := time.Parse(dateLayout, p.Start)
	if err != nil {
		return domain.TimeRange{}, errorutil.NewInputError(
			field+" start must be an ISO date (YYYY-MM-DD)",
			map[string]any{"field": field, "value": p.Start})
	}
	end, err := time.Parse(dateLayout, p.End)
	if err != nil {
		return domain.TimeRange{}, errorutil.NewInputError(
			field+" end must be an ISO date (YYYY-MM-DD)",
			map[string]any{"field": field, "value": p.End})
	}
	return domain.TimeRange{Start: start, End: end}, nil
}

// FiltersPayload mirrors domain.Filters for requests.
type FiltersPayload struct {
	Category           *string  `json:"category"`
	Priority           *string  `json:"priority"`
	Status             *string  `json:"status"`
	AssigneeIDs        []string `json:"assignee_ids"`
	ClientIDs          []string `json:"client_ids"`
	IncludeAIGenerated *bool    `json:"include_ai_generated"`
	IncludeClosed      *bool    `json:"include_closed"`
}

// ToFilters converts the payload, pinning the tenant from the caller's
// token rather than the request body.
func (p *FiltersPayload) ToFilters(tenantID string) *domain.Filters {
	filters := &domain.Filters{TenantID: &tenantID}
	if p == nil {
		return filters
	}
	if p.Category != nil {
		c := domain.TicketCategory(*p.Category)
		filters.Category = &c
	}
	if p.Priority != nil {
		pr := domain.TicketPriority(*p.Priority)
		filters.Priority = &pr
	}
	if p.Status != nil {
		st := domain.TicketStatus(*p.Status)
		filters.Status = &st
	}
	filters.AssigneeIDs = p.AssigneeIDs
	filters.ClientIDs = p.ClientIDs
	filters.IncludeAIGenerated = p.IncludeAIGenerated
	filters.IncludeClosed = p.IncludeClosed
	return filters
}

// TicketPayload is an inline ticket supplied to the pattern analysis.
type TicketPayload struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Category           string     `json:"category"`
	Priority           string     `json:"priority"`
	Status             string     `json:"status"`
	ClientID           string     `json:"client_id"`
	AssigneeID         *string    `json:"assignee_id"`
	AssigneeName       *string    `json:"assignee_name"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ResolvedAt         *time.Time `json:"resolved_at"`
	SatisfactionRating *int       `json:"satisfaction_rating"`
	CommentCount       int        `json:"comment_count"`
	Tags               []string   `json:"tags"`
	AIGenerated        bool       `json:"ai_generated"`
}

// ToTicket converts the payload into the analytics ticket model.
func (p TicketPayload) ToTicket(tenantID string) domain.Ticket {
	ticket := domain.Ticket{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Category:           domain.TicketCategory(p.Category),
		Priority:           domain.TicketPriority(p.Priority),
		Status:             domain.TicketStatus(p.Status),
		TenantID:           tenantID,
		ClientID:           p.ClientID,
		AssigneeID:         p.AssigneeID,
		AssigneeName:       p.AssigneeName,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		ResolvedAt:         p.ResolvedAt,
		SatisfactionRating: p.SatisfactionRating,
		Tags:               p.Tags,
		AIGenerated:        p.AIGenerated,
	}
	// Only the count matters to the engine; synthesize placeholder comments.
	for i := 0; i < p.CommentCount; i++ {
		ticket.Comments = append(ticket.Comments, domain.TicketComment{TicketID: p.ID})
	}
	return ticket
}

// PatternRequest asks for pattern analysis over inline or fetched tickets.
// Routing holds upstream routing/escalation decision outputs; the engine
// passes them through untouched.
type PatternRequest struct {
	AnalysisType string                        `json:"analysis_type"`
	Tickets      []TicketPayload               `json:"tickets"`
	Range        *TimeRangePayload             `json:"range"`
	Filters      *FiltersPayload               `json:"filters"`
	Telemetry    []domain.AIComponentTelemetry `json:"telemetry"`
	Routing      json.RawMessage               `json:"routing,omitempty"`
}

// ForecastRequest asks for a volume forecast.
type ForecastRequest struct {
	Window     TimeRangePayload  `json:"window"`
	Historical []TicketPayload   `json:"historical"`
	Range      *TimeRangePayload `json:"historical_range"`
	Filters    *FiltersPayload   `json:"filters"`
}
