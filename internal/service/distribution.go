package service

import (
	"math"
	"sort"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

// DistributionAnalyzer partitions tickets along the four report attributes.
type DistributionAnalyzer struct {
	aggregator       *Aggregator
	capacityPerStaff int
}

// NewDistributionAnalyzer builds an analyzer. capacityPerStaff is the
// tickets-per-staff-per-day constant used for the utilization estimate.
func NewDistributionAnalyzer(aggregator *Aggregator, capacityPerStaff int) *DistributionAnalyzer {
	if capacityPerStaff < 1 {
		capacityPerStaff = 1
	}
	return &DistributionAnalyzer{aggregator: aggregator, capacityPerStaff: capacityPerStaff}
}

// Tables computes all four distribution tables over the same ticket set.
// Percentages are relative to the filtered total; empty groups are never
// emitted. Rows sort by count descending with the key as tiebreak.
func (d *DistributionAnalyzer) Tables(tickets []domain.Ticket) domain.DistributionTables {
	return domain.DistributionTables{
		ByCategory: d.groupBy(tickets, func(t *domain.Ticket) string { return string(t.Category) }, false),
		ByPriority: d.groupBy(tickets, func(t *domain.Ticket) string { return string(t.Priority) }, false),
		ByStatus:   d.groupBy(tickets, func(t *domain.Ticket) string { return string(t.Status) }, false),
		ByAssignee: d.groupBy(tickets, assigneeKey, true),
	}
}

func assigneeKey(t *domain.Ticket) string {
	if t.AssigneeName != nil && *t.AssigneeName != "" {
		return *t.AssigneeName
	}
	if t.AssigneeID != nil {
		return *t.AssigneeID
	}
	return ""
}

func (d *DistributionAnalyzer) groupBy(tickets []domain.Ticket, key func(*domain.Ticket) string, assignee bool) []domain.GroupMetrics {
	groups := make(map[string][]domain.Ticket)
	for i := range tickets {
		k := key(&tickets[i])
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], tickets[i])
	}

	total := float64(len(tickets))
	rows := make([]domain.GroupMetrics, 0, len(groups))
	for k, members := range groups {
		row := domain.GroupMetrics{
			Key:                  k,
			Count:                len(members),
			Percentage:           round1(float64(len(members)) / total * 100),
			AvgResolutionMinutes: meanResolutionMinutes(members),
			AvgSatisfaction:      meanSatisfaction(members),
		}
		if assignee {
			escalated := 0
			for i := range members {
				if d.aggregator.IsEscalated(&members[i]) {
					escalated++
				}
			}
			row.EscalationPct = roundPct(float64(escalated) / float64(len(members)))
			row.UtilizationPct = utilizationPct(len(members), d.capacityPerStaff)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

func utilizationPct(assigned, capacity int) int {
	pct := math.Round(float64(assigned) / float64(capacity) * 100)
	if pct > 100 {
		return 100
	}
	return int(pct)
}
