package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeRangeDays(t *testing.T) {
	t.Run("inclusive of both endpoints", func(t *testing.T) {
		r := TimeRange{Start: date(2025, time.March, 1), End: date(2025, time.March, 7)}
		assert.Equal(t, 7, r.Days())
	})

	t.Run("single day range", func(t *testing.T) {
		r := TimeRange{Start: date(2025, time.March, 1), End: date(2025, time.March, 1)}
		assert.Equal(t, 1, r.Days())
	})

	t.Run("reversed range is empty", func(t *testing.T) {
		r := TimeRange{Start: date(2025, time.March, 7), End: date(2025, time.March, 1)}
		assert.Equal(t, 0, r.Days())
	})

	t.Run("intra-day timestamps do not change the count", func(t *testing.T) {
		r := TimeRange{
			Start: time.Date(2025, time.March, 1, 23, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.March, 2, 1, 0, 0, 0, time.UTC),
		}
		assert.Equal(t, 2, r.Days())
	})
}

func TestTimeRangeContains(t *testing.T) {
	r := TimeRange{Start: date(2025, time.March, 1), End: date(2025, time.March, 7)}

	assert.True(t, r.Contains(date(2025, time.March, 1)))
	assert.True(t, r.Contains(time.Date(2025, time.March, 7, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.Contains(date(2025, time.February, 28)))
	assert.False(t, r.Contains(date(2025, time.March, 8)))
}

func TestFiltersMatches(t *testing.T) {
	category := CategoryBilling
	closed := TicketStatusClosed
	no := false

	ticket := Ticket{
		Category: CategoryBilling,
		Priority: TicketPriorityHigh,
		Status:   TicketStatusOpen,
		TenantID: "tenant-1",
		ClientID: "client-1",
	}

	t.Run("nil filters match everything", func(t *testing.T) {
		var f *Filters
		assert.True(t, f.Matches(&ticket))
	})

	t.Run("fields compose with AND semantics", func(t *testing.T) {
		f := &Filters{Category: &category, ClientIDs: []string{"client-1"}}
		assert.True(t, f.Matches(&ticket))

		f.ClientIDs = []string{"other"}
		assert.False(t, f.Matches(&ticket))
	})

	t.Run("assignee filter excludes unassigned tickets", func(t *testing.T) {
		f := &Filters{AssigneeIDs: []string{"staff-1"}}
		assert.False(t, f.Matches(&ticket))

		assigned := ticket
		id := "staff-1"
		assigned.AssigneeID = &id
		assert.True(t, f.Matches(&assigned))
	})

	t.Run("excluding AI-generated tickets", func(t *testing.T) {
		f := &Filters{IncludeAIGenerated: &no}
		ai := ticket
		ai.AIGenerated = true

		assert.True(t, f.Matches(&ticket))
		assert.False(t, f.Matches(&ai))
	})

	t.Run("excluding closed tickets", func(t *testing.T) {
		f := &Filters{IncludeClosed: &no}
		done := ticket
		done.Status = closed

		assert.True(t, f.Matches(&ticket))
		assert.False(t, f.Matches(&done))
	})
}

func TestTicketDurations(t *testing.T) {
	created := date(2025, time.March, 1)

	t.Run("resolution minutes from creation to resolution", func(t *testing.T) {
		resolved := created.Add(90 * time.Minute)
		tk := Ticket{CreatedAt: created, ResolvedAt: &resolved}

		mins, ok := tk.ResolutionMinutes()
		assert.True(t, ok)
		assert.InDelta(t, 90, mins, 0.001)
	})

	t.Run("unresolved ticket has no resolution time", func(t *testing.T) {
		tk := Ticket{CreatedAt: created}
		_, ok := tk.ResolutionMinutes()
		assert.False(t, ok)
	})

	t.Run("resolution before creation is discarded", func(t *testing.T) {
		earlier := created.Add(-time.Minute)
		tk := Ticket{CreatedAt: created, ResolvedAt: &earlier}
		_, ok := tk.ResolutionMinutes()
		assert.False(t, ok)
	})

	t.Run("response minutes require an assignee", func(t *testing.T) {
		tk := Ticket{CreatedAt: created, UpdatedAt: created.Add(20 * time.Minute)}
		_, ok := tk.ResponseMinutes()
		assert.False(t, ok)

		id := "staff-1"
		tk.AssigneeID = &id
		mins, ok := tk.ResponseMinutes()
		assert.True(t, ok)
		assert.InDelta(t, 20, mins, 0.001)
	})
}
