package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// TicketCategory enumerates supported issue domains.
type TicketCategory string

const (
	CategoryGeneral        TicketCategory = "general"
	CategoryTechnical      TicketCategory = "technical"
	CategoryBilling        TicketCategory = "billing"
	CategoryAISupport      TicketCategory = "ai_support"
	CategoryFeatureRequest TicketCategory = "feature_request"
	CategoryBugReport      TicketCategory = "bug_report"
)

// TicketComment is a message attached to a ticket.
type TicketComment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

// Ticket is the read-only snapshot entity the analytics engine consumes.
// Tickets are owned by the upstream ticketing system; the engine never
// mutates them or holds a reference past the current computation.
type Ticket struct {
	ID                 string
	Title              string
	Description        string
	Category           TicketCategory
	Priority           TicketPriority
	Status             TicketStatus
	TenantID           string
	ClientID           string
	AssigneeID         *string
	AssigneeName       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ResolvedAt         *time.Time
	SatisfactionRating *int
	Comments           []TicketComment
	Tags               []string
	AIGenerated        bool
	AIComponent        *string
}

// HasAssignee reports whether the ticket has been assigned.
func (t *Ticket) HasAssignee() bool {
	return t.AssigneeID != nil && *t.AssigneeID != ""
}

// IsResolved reports whether the ticket reached a terminal resolved state.
func (t *Ticket) IsResolved() bool {
	return t.Status == TicketStatusResolved || t.Status == TicketStatusClosed
}

// ResolutionMinutes returns the creation-to-resolution interval in minutes.
// Tickets without a resolution timestamp, or with one preceding creation
// (upstream data violations the engine tolerates), report false.
func (t *Ticket) ResolutionMinutes() (float64, bool) {
	if t.ResolvedAt == nil {
		return 0, false
	}
	d := t.ResolvedAt.Sub(t.CreatedAt)
	if d < 0 {
		return 0, false
	}
	return d.Minutes(), true
}

// ResponseMinutes returns the creation-to-first-assignment interval in
// minutes, approximated by the last update timestamp for assigned tickets.
func (t *Ticket) ResponseMinutes() (float64, bool) {
	if !t.HasAssignee() {
		return 0, false
	}
	d := t.UpdatedAt.Sub(t.CreatedAt)
	if d < 0 {
		return 0, false
	}
	return d.Minutes(), true
}
