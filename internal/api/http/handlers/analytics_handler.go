package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-analytics/internal/api/dto"
	"github.com/spec-kit/ticket-analytics/internal/auth"
	"github.com/spec-kit/ticket-analytics/internal/domain"
	"github.com/spec-kit/ticket-analytics/internal/observability"
	"github.com/spec-kit/ticket-analytics/internal/service"
	"github.com/spec-kit/ticket-analytics/pkg/util/errorutil"
)

// AnalyticsHandler exposes the analytics engine over HTTP.
type AnalyticsHandler struct {
	service *service.AnalyticsService
	metrics *observability.Metrics
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService, metrics *observability.Metrics) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService, metrics: metrics}
}

// Performance GET /analytics/performance.
func (h *AnalyticsHandler) Performance(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("tenant context required")
	}

	r, err := dto.TimeRangePayload{
		Start: c.Query("start"),
		End:   c.Query("end"),
	}.ToTimeRange("range")
	if err != nil {
		return err
	}
	filters := filtersFromQuery(c).ToFilters(principal.TenantID)

	report, err := h.service.GeneratePerformanceMetrics(c.UserContext(), r, filters)
	if err != nil {
		return err
	}
	h.metrics.RecordReport("performance", false)
	return c.JSON(fiber.Map{"data": report})
}

// Patterns POST /analytics/patterns.
func (h *AnalyticsHandler) Patterns(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("tenant context required")
	}

	var req dto.PatternRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewInputError("invalid payload", nil)
	}
	analysisType := service.AnalysisType(req.AnalysisType)
	if req.AnalysisType == "" {
		analysisType = service.AnalysisAll
	}

	tickets, err := h.resolvePatternTickets(c, principal.TenantID, &req)
	if err != nil {
		return err
	}

	insights, err := h.service.IdentifyTicketPatterns(c.UserContext(), tickets, analysisType, req.Telemetry)
	if err != nil {
		return err
	}
	h.metrics.RecordReport("patterns", false)

	response := fiber.Map{"data": insights}
	if len(req.Routing) > 0 {
		// Upstream routing decisions ride along untouched.
		response["routing"] = json.RawMessage(req.Routing)
	}
	return c.JSON(response)
}

func (h *AnalyticsHandler) resolvePatternTickets(c *fiber.Ctx, tenantID string, req *dto.PatternRequest) ([]domain.Ticket, error) {
	if len(req.Tickets) > 0 {
		tickets := make([]domain.Ticket, 0, len(req.Tickets))
		for _, payload := range req.Tickets {
			tickets = append(tickets, payload.ToTicket(tenantID))
		}
		return tickets, nil
	}
	if req.Range == nil {
		return []domain.Ticket{}, nil
	}
	r, err := req.Range.ToTimeRange("range")
	if err != nil {
		return nil, err
	}
	filters := req.Filters.ToFilters(tenantID)
	return h.service.SnapshotForRange(c.UserContext(), r, filters)
}

// Forecast POST /analytics/forecast.
func (h *AnalyticsHandler) Forecast(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("tenant context required")
	}

	var req dto.ForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewInputError("invalid payload", nil)
	}
	window, err := req.Window.ToTimeRange("window")
	if err != nil {
		return err
	}

	historical := make([]domain.Ticket, 0, len(req.Historical))
	for _, payload := range req.Historical {
		historical = append(historical, payload.ToTicket(principal.TenantID))
	}
	if len(historical) == 0 && req.Range != nil {
		r, err := req.Range.ToTimeRange("historical_range")
		if err != nil {
			return err
		}
		historical, err = h.service.SnapshotForRange(c.UserContext(), r, req.Filters.ToFilters(principal.TenantID))
		if err != nil {
			return err
		}
	}

	forecast, err := h.service.PredictTicketVolume(c.UserContext(), historical, window)
	if err != nil {
		return err
	}
	h.metrics.RecordReport("forecast", false)
	return c.JSON(fiber.Map{"data": forecast})
}

// QuickStats GET /analytics/quick-stats.
func (h *AnalyticsHandler) QuickStats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("tenant context required")
	}
	filters := (&dto.FiltersPayload{}).ToFilters(principal.TenantID)
	stats, err := h.service.QuickStats(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// ClearCache POST /admin/cache/clear.
func (h *AnalyticsHandler) ClearCache(c *fiber.Ctx) error {
	if err := h.service.ClearCache(c.UserContext(), "admin_request"); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"cleared": true}})
}

func filtersFromQuery(c *fiber.Ctx) *dto.FiltersPayload {
	payload := &dto.FiltersPayload{}
	if v := c.Query("category"); v != "" {
		payload.Category = &v
	}
	if v := c.Query("priority"); v != "" {
		payload.Priority = &v
	}
	if v := c.Query("status"); v != "" {
		payload.Status = &v
	}
	if v := c.Query("assignee_ids"); v != "" {
		payload.AssigneeIDs = splitCSV(v)
	}
	if v := c.Query("client_ids"); v != "" {
		payload.ClientIDs = splitCSV(v)
	}
	if v := c.Query("include_ai_generated"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			payload.IncludeAIGenerated = &parsed
		}
	}
	if v := c.Query("include_closed"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			payload.IncludeClosed = &parsed
		}
	}
	return payload
}

func splitCSV(v string) []string {
	parts := make([]string, 0)
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
