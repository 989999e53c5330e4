package service

import (
	"time"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

// Test fixture helpers shared across the service tests.

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func baseTicket(id string, created time.Time) domain.Ticket {
	return domain.Ticket{
		ID:        id,
		Title:     "ticket " + id,
		Category:  domain.CategoryGeneral,
		Priority:  domain.TicketPriorityMedium,
		Status:    domain.TicketStatusOpen,
		TenantID:  "tenant-1",
		ClientID:  "client-1",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func resolvedTicket(id string, created time.Time, resolutionMinutes float64, rating int) domain.Ticket {
	t := baseTicket(id, created)
	resolved := created.Add(time.Duration(resolutionMinutes) * time.Minute)
	t.Status = domain.TicketStatusResolved
	t.ResolvedAt = &resolved
	if rating > 0 {
		t.SatisfactionRating = intPtr(rating)
	}
	return t
}

func assignedTicket(id string, created time.Time, assigneeName string, responseMinutes float64) domain.Ticket {
	t := baseTicket(id, created)
	t.AssigneeID = strPtr("staff-" + id)
	t.AssigneeName = strPtr(assigneeName)
	t.UpdatedAt = created.Add(time.Duration(responseMinutes) * time.Minute)
	return t
}

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}
