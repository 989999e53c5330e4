package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

// AnalyticsQuery scopes a snapshot read for the analytics engine.
type AnalyticsQuery struct {
	Range   domain.TimeRange
	Filters *domain.Filters
}

// TicketReader is the snapshot provider boundary: a pure, read-only data
// source. Implementations must return an empty slice, never nil, when no
// tickets match.
type TicketReader interface {
	ListForAnalytics(ctx context.Context, query AnalyticsQuery) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the pgx-backed snapshot provider.
func NewTicketRepository(pool *pgxpool.Pool) TicketReader {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) ListForAnalytics(ctx context.Context, query AnalyticsQuery) ([]domain.Ticket, error) {
	sql, args := buildAnalyticsQuery(query)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	for i := range tickets {
		comments, err := r.listComments(ctx, tickets[i].ID)
		if err != nil {
			return nil, err
		}
		tickets[i].Comments = comments
	}
	return tickets, nil
}

func buildAnalyticsQuery(query AnalyticsQuery) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
        SELECT id, title, description, category, priority, status, tenant_id, client_id,
               assignee_id, assignee_name, created_at, updated_at, resolved_at,
               satisfaction_rating, tags, ai_generated, ai_component
        FROM tickets WHERE 1=1`)

	args := make([]any, 0, 8)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !query.Range.Start.IsZero() {
		sb.WriteString(" AND created_at >= " + arg(query.Range.Start))
	}
	if !query.Range.End.IsZero() {
		sb.WriteString(" AND created_at < " + arg(query.Range.End.AddDate(0, 0, 1)))
	}

	f := query.Filters
	if f != nil {
		if f.TenantID != nil {
			sb.WriteString(" AND tenant_id = " + arg(*f.TenantID))
		}
		if f.Category != nil {
			sb.WriteString(" AND category = " + arg(string(*f.Category)))
		}
		if f.Priority != nil {
			sb.WriteString(" AND priority = " + arg(string(*f.Priority)))
		}
		if f.Status != nil {
			sb.WriteString(" AND status = " + arg(string(*f.Status)))
		}
		if len(f.AssigneeIDs) > 0 {
			sb.WriteString(" AND assignee_id = ANY(" + arg(f.AssigneeIDs) + ")")
		}
		if len(f.ClientIDs) > 0 {
			sb.WriteString(" AND client_id = ANY(" + arg(f.ClientIDs) + ")")
		}
		if f.IncludeAIGenerated != nil && !*f.IncludeAIGenerated {
			sb.WriteString(" AND ai_generated = FALSE")
		}
		if f.IncludeClosed != nil && !*f.IncludeClosed {
			sb.WriteString(" AND status <> 'closed'")
		}
	}

	sb.WriteString(" ORDER BY created_at")
	return sb.String(), args
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.TenantID,
		&ticket.ClientID,
		&ticket.AssigneeID,
		&ticket.AssigneeName,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
		&ticket.SatisfactionRating,
		&ticket.Tags,
		&ticket.AIGenerated,
		&ticket.AIComponent,
	)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) listComments(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	const query = `
        SELECT id, ticket_id, author_id, body, created_at
        FROM ticket_comments WHERE ticket_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]domain.TicketComment, 0)
	for rows.Next() {
		var c domain.TicketComment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
