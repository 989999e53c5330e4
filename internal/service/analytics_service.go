package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/ticket-analytics/internal/cache"
	"github.com/spec-kit/ticket-analytics/internal/config"
	"github.com/spec-kit/ticket-analytics/internal/domain"
	"github.com/spec-kit/ticket-analytics/internal/events"
	"github.com/spec-kit/ticket-analytics/internal/repository"
	"github.com/spec-kit/ticket-analytics/pkg/util/errorutil"
)

// AnalyticsService composes the aggregation, pattern and forecasting
// components into the three externally consumed report types plus quick
// stats. The service itself is stateless between calls; the injected cache
// is the only shared mutable resource.
type AnalyticsService struct {
	tickets    repository.TicketReader
	cache      cache.Store
	cfg        config.AnalyticsConfig
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	aggregator   *Aggregator
	trends       *TrendCalculator
	distribution *DistributionAnalyzer
	patterns     *PatternRecognizer
	recommender  *RecommendationEngine
	forecaster   *VolumeForecaster

	group singleflight.Group
}

// AnalyticsDependencies bundles collaborators for the analytics service.
type AnalyticsDependencies struct {
	TicketReader repository.TicketReader
	Cache        cache.Store
	Heuristics   *config.Heuristics
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        func() time.Time
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(cfg config.AnalyticsConfig, deps AnalyticsDependencies) *AnalyticsService {
	heuristics := deps.Heuristics
	if heuristics == nil {
		heuristics = config.DefaultHeuristics()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	store := deps.Cache
	if store == nil {
		store = cache.NewMemoryStore()
	}
	capacity := cfg.TicketsPerStaffPerDay
	if capacity <= 0 {
		capacity = heuristics.TicketsPerStaffPerDay
	}

	aggregator := NewAggregator(heuristics.EscalationAssigneeHints)
	return &AnalyticsService{
		tickets:      deps.TicketReader,
		cache:        store,
		cfg:          cfg,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		now:          clock,
		aggregator:   aggregator,
		trends:       NewTrendCalculator(cfg.TrendMinSamples),
		distribution: NewDistributionAnalyzer(aggregator, capacity),
		patterns:     NewPatternRecognizer(heuristics, aggregator),
		recommender:  NewRecommendationEngine(),
		forecaster:   NewVolumeForecaster(heuristics, cfg.SeasonalImpactMinPct),
	}
}

// GeneratePerformanceMetrics builds the composed performance report for the
// range and filters, memoized under a deterministic key for the cache TTL.
// A cache hit returns the previously computed report without touching the
// snapshot provider; concurrent identical requests share one computation.
func (s *AnalyticsService) GeneratePerformanceMetrics(ctx context.Context, r domain.TimeRange, filters *domain.Filters) (*domain.PerformanceReport, error) {
	if r.Start.IsZero() || r.End.IsZero() {
		return nil, errorutil.NewInputError("time range start and end are required", nil)
	}

	key := performanceCacheKey(r, filters)
	var cached *domain.PerformanceReport
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit && cached != nil {
		s.publishReportEvent(ctx, filters, cached, true, 0)
		return cached, nil
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		return s.computePerformanceReport(ctx, key, r, filters)
	})
	if err != nil {
		return nil, err
	}
	report, ok := result.(*domain.PerformanceReport)
	if !ok {
		return nil, errorutil.NewComputationError("unexpected report type from computation", nil)
	}
	return report, nil
}

func (s *AnalyticsService) computePerformanceReport(ctx context.Context, key string, r domain.TimeRange, filters *domain.Filters) (*domain.PerformanceReport, error) {
	started := s.now()

	// Re-check under singleflight: a concurrent caller may have populated
	// the entry after our miss.
	var cached *domain.PerformanceReport
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit && cached != nil {
		return cached, nil
	}

	tickets, err := s.fetchSnapshot(ctx, r, filters)
	if err != nil {
		return nil, err
	}

	report := &domain.PerformanceReport{Range: r, GeneratedAt: s.now()}

	// The four sub-reports are pure and independent; run them in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Overview = s.aggregator.Overview(tickets)
		return gctx.Err()
	})
	g.Go(func() error {
		report.Trends = s.trends.Series(tickets, r)
		return gctx.Err()
	})
	g.Go(func() error {
		report.Distribution = s.distribution.Tables(tickets)
		return gctx.Err()
	})
	g.Go(func() error {
		report.AI = s.aggregator.AISummary(tickets)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A cancelled computation must not populate the cache.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := s.cache.Set(ctx, key, report, s.cfg.ReportCacheTTL()); err != nil {
		s.logger.Warn("report cache write failed", zap.Error(err))
	}

	s.publishReportEvent(ctx, filters, report, false, s.now().Sub(started).Milliseconds())
	return report, nil
}

func (s *AnalyticsService) fetchSnapshot(ctx context.Context, r domain.TimeRange, filters *domain.Filters) ([]domain.Ticket, error) {
	query := repository.AnalyticsQuery{Range: r, Filters: filters}
	tickets, err := s.tickets.ListForAnalytics(ctx, query)
	if err != nil {
		s.logger.Error("ticket snapshot fetch failed",
			zap.String("tenant", tenantOf(filters)),
			zap.Time("range_start", r.Start),
			zap.Time("range_end", r.End),
			zap.Error(err))
		return nil, errorutil.NewDataSourceError("ticket snapshot fetch failed", err)
	}

	// The provider is trusted to filter, but a snapshot from a permissive
	// provider must still honor the caller's constraints.
	filtered := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if !r.Contains(tickets[i].CreatedAt) {
			continue
		}
		if !filters.Matches(&tickets[i]) {
			continue
		}
		filtered = append(filtered, tickets[i])
	}
	return filtered, nil
}

// IdentifyTicketPatterns runs the requested pattern sub-analyses over the
// caller-supplied ticket list. Sub-analyses are independent: one producing
// no output never aborts the others. Telemetry feeds the AI analysis only.
func (s *AnalyticsService) IdentifyTicketPatterns(ctx context.Context, tickets []domain.Ticket, analysisType AnalysisType, telemetry []domain.AIComponentTelemetry) (*domain.PatternInsights, error) {
	if !ValidAnalysisType(analysisType) {
		return nil, errorutil.NewInputError(
			fmt.Sprintf("unknown analysis type %q", analysisType),
			map[string]any{"analysis_type": string(analysisType)},
		)
	}

	insights := &domain.PatternInsights{
		CommonIssues:       []domain.IssuePattern{},
		EscalationPatterns: []domain.EscalationPattern{},
		TimePatterns:       []domain.TimePattern{},
		CustomerPatterns:   []domain.CustomerPattern{},
		AIPatterns:         []domain.AIPattern{},
		Recommendations:    []domain.Recommendation{},
	}

	runs := map[AnalysisType]func(){
		AnalysisIssues:      func() { insights.CommonIssues = s.patterns.IssuePatterns(tickets) },
		AnalysisEscalations: func() { insights.EscalationPatterns = s.patterns.EscalationPatterns(tickets) },
		AnalysisTime:        func() { insights.TimePatterns = s.patterns.TimePatterns(tickets) },
		AnalysisCustomers:   func() { insights.CustomerPatterns = s.patterns.CustomerPatterns(tickets) },
		AnalysisAI:          func() { insights.AIPatterns = s.patterns.AIPatterns(telemetry) },
	}

	g, _ := errgroup.WithContext(ctx)
	for kind, run := range runs {
		kind, run := kind, run
		if analysisType != AnalysisAll && analysisType != kind {
			continue
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("pattern analysis panicked",
						zap.String("analysis", string(kind)),
						zap.Any("panic", r))
				}
			}()
			run()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	insights.Recommendations = s.recommender.Build(insights)
	return insights, nil
}

// PredictTicketVolume projects ticket volume over the forecast window from
// the supplied historical set. Forecasts are cached under the window plus a
// cheap fingerprint of the history.
func (s *AnalyticsService) PredictTicketVolume(ctx context.Context, historical []domain.Ticket, window domain.TimeRange) (*domain.VolumeForecast, error) {
	if window.Start.IsZero() || window.End.IsZero() {
		return nil, errorutil.NewInputError("forecast window start and end are required", nil)
	}

	key := forecastCacheKey(historical, window)
	var cached *domain.VolumeForecast
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit && cached != nil {
		return cached, nil
	}

	forecast := s.forecaster.Forecast(historical, window)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := s.cache.Set(ctx, key, forecast, s.cfg.ReportCacheTTL()); err != nil {
		s.logger.Warn("forecast cache write failed", zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventForecastGenerated,
		Payload: events.ForecastGeneratedPayload{
			Window:          window,
			Days:            len(forecast.Predictions),
			ConfidenceLevel: forecast.ConfidenceLevel,
		},
	})
	return forecast, nil
}

// SnapshotForRange fetches a filtered ticket snapshot for callers that run
// pattern analysis or forecasting over a provider-scoped window.
func (s *AnalyticsService) SnapshotForRange(ctx context.Context, r domain.TimeRange, filters *domain.Filters) ([]domain.Ticket, error) {
	return s.fetchSnapshot(ctx, r, filters)
}

// QuickStats returns the lightweight dashboard summary for today.
func (s *AnalyticsService) QuickStats(ctx context.Context, filters *domain.Filters) (*domain.QuickStats, error) {
	today := s.now()
	r := domain.TimeRange{Start: today, End: today}
	tickets, err := s.fetchSnapshot(ctx, r, filters)
	if err != nil {
		return nil, err
	}
	overview := s.aggregator.Overview(tickets)
	return &domain.QuickStats{
		TodayTickets:         overview.TotalTickets,
		AvgResponseMinutes:   overview.AvgResponseMinutes,
		CustomerSatisfaction: overview.CustomerSatisfaction,
		AutomationPct:        overview.AutomationPct,
	}, nil
}

// ClearCache drops every memoized report. There is no per-entry
// invalidation; expiry is otherwise time-based only.
func (s *AnalyticsService) ClearCache(ctx context.Context, reason string) error {
	if err := s.cache.Clear(ctx); err != nil {
		return errorutil.NewComputationError("cache clear failed", err)
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventCacheCleared,
		Payload: events.CacheClearedPayload{Reason: reason},
	})
	return nil
}

func (s *AnalyticsService) publishReportEvent(ctx context.Context, filters *domain.Filters, report *domain.PerformanceReport, fromCache bool, durationMS int64) {
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportGenerated,
		TenantID: tenantOf(filters),
		Payload: events.ReportGeneratedPayload{
			Range:        report.Range,
			TotalTickets: report.Overview.TotalTickets,
			FromCache:    fromCache,
			DurationMS:   durationMS,
		},
	})
}

func (s *AnalyticsService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func tenantOf(filters *domain.Filters) string {
	if filters == nil || filters.TenantID == nil {
		return ""
	}
	return *filters.TenantID
}

func performanceCacheKey(r domain.TimeRange, filters *domain.Filters) string {
	var b strings.Builder
	b.WriteString("performance|")
	b.WriteString(r.Start.UTC().Format("2006-01-02"))
	b.WriteString("|")
	b.WriteString(r.End.UTC().Format("2006-01-02"))
	b.WriteString("|")
	b.WriteString(canonicalFilters(filters))
	return b.String()
}

func forecastCacheKey(historical []domain.Ticket, window domain.TimeRange) string {
	var newest time.Time
	for i := range historical {
		if historical[i].CreatedAt.After(newest) {
			newest = historical[i].CreatedAt
		}
	}
	return fmt.Sprintf("forecast|%s|%s|%d|%d",
		window.Start.UTC().Format("2006-01-02"),
		window.End.UTC().Format("2006-01-02"),
		len(historical),
		newest.Unix())
}

// canonicalFilters renders filters deterministically: slice fields are
// sorted so logically equal filters share one cache entry.
func canonicalFilters(f *domain.Filters) string {
	if f == nil {
		return "-"
	}
	parts := make([]string, 0, 8)
	if f.Category != nil {
		parts = append(parts, "cat="+string(*f.Category))
	}
	if f.Priority != nil {
		parts = append(parts, "pri="+string(*f.Priority))
	}
	if f.Status != nil {
		parts = append(parts, "st="+string(*f.Status))
	}
	if f.TenantID != nil {
		parts = append(parts, "tenant="+*f.TenantID)
	}
	if len(f.AssigneeIDs) > 0 {
		ids := append([]string{}, f.AssigneeIDs...)
		sort.Strings(ids)
		parts = append(parts, "asg="+strings.Join(ids, ","))
	}
	if len(f.ClientIDs) > 0 {
		ids := append([]string{}, f.ClientIDs...)
		sort.Strings(ids)
		parts = append(parts, "cli="+strings.Join(ids, ","))
	}
	if f.IncludeAIGenerated != nil {
		parts = append(parts, "ai="+strconv.FormatBool(*f.IncludeAIGenerated))
	}
	if f.IncludeClosed != nil {
		parts = append(parts, "closed="+strconv.FormatBool(*f.IncludeClosed))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "&")
}
