package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/buildsight/backend/internal/metrics"
	"github.com/buildsight/backend/internal/storage/models"
	"github.com/buildsight/backend/pkg/logger"
	"github.com/buildsight/backend/pkg/retry"
)

// ErrComputation marks a failed extractor or analyzer run. No partial snapshot
// is ever written when it occurs.
var ErrComputation = errors.New("analytics computation failed")

// ProjectStore loads the read-only project snapshot and receives the computed
// analytics row.
type ProjectStore interface {
	LoadProjectSnapshot(ctx context.Context, projectID string) (*models.ProjectSnapshot, error)
	UpsertAnalyticsSnapshot(ctx context.Context, projectID string, snap *models.AnalyticsSnapshot) error
}

// SnapshotCache receives freshly computed snapshots; failures are best-effort.
type SnapshotCache interface {
	SetAnalytics(ctx context.Context, projectID string, snap *models.AnalyticsSnapshot) error
}

// WeatherProvider supplies a measured weather delay risk in [0,100].
type WeatherProvider interface {
	DelayRisk(ctx context.Context) (float64, error)
}

// Broadcaster pushes computed snapshots to live subscribers.
type Broadcaster interface {
	Broadcast(snap *models.AnalyticsSnapshot)
}

type Engine struct {
	store       ProjectStore
	cache       SnapshotCache
	weather     WeatherProvider
	broadcaster Broadcaster
	retryCfg    retry.Config
	nowFn       func() time.Time
}

type Option func(*Engine)

func WithCache(cache SnapshotCache) Option {
	return func(e *Engine) { e.cache = cache }
}

func WithWeather(provider WeatherProvider) Option {
	return func(e *Engine) { e.weather = provider }
}

func WithBroadcaster(b Broadcaster) Option {
	return func(e *Engine) { e.broadcaster = b }
}

func WithRetryConfig(cfg retry.Config) Option {
	return func(e *Engine) { e.retryCfg = cfg }
}

// WithClock fixes the engine's notion of "now"; used by tests and replays.
func WithClock(nowFn func() time.Time) Option {
	return func(e *Engine) { e.nowFn = nowFn }
}

func NewEngine(store ProjectStore, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		retryCfg: retry.DefaultConfig(),
		nowFn:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComputeAnalytics runs one full computation cycle for a project: load the
// snapshot, run the five extractors (concurrently, no data dependencies), then
// the risk analyzer and the completion predictor in strict order, and persist
// the assembled row.
//
// Persistence is best-effort: a write-back failure is logged and counted but
// the computed snapshot is still returned. Load and computation failures are
// terminal and nothing is written.
func (e *Engine) ComputeAnalytics(ctx context.Context, projectID string) (*models.AnalyticsSnapshot, error) {
	startTime := time.Now()
	runID := uuid.New().String()
	now := e.nowFn().UTC()

	logger.Info("Computing project analytics",
		zap.String("run_id", runID),
		zap.String("project_id", projectID),
	)

	snap, err := e.store.LoadProjectSnapshot(ctx, projectID)
	if err != nil {
		metrics.ComputeTotal.WithLabelValues("load_failed").Inc()
		return nil, fmt.Errorf("load project snapshot: %w", err)
	}

	result, err := e.compute(ctx, snap, now)
	if err != nil {
		metrics.ComputeTotal.WithLabelValues("compute_failed").Inc()
		return nil, err
	}
	result.ProjectID = projectID
	result.RunID = runID

	row := result.Snapshot()

	e.persist(ctx, projectID, row)

	metrics.ComputeTotal.WithLabelValues("success").Inc()
	metrics.ComputeDuration.Observe(time.Since(startTime).Seconds())
	metrics.OverallRiskScore.Observe(row.OverallRiskScore)

	logger.Info("Project analytics computed",
		zap.String("run_id", runID),
		zap.String("project_id", projectID),
		zap.Float64("overall_risk", row.OverallRiskScore),
		zap.Int("days_overdue", row.DaysOverdue),
	)

	return row, nil
}

// compute runs extractors behind a barrier, then the analyzer and predictor.
func (e *Engine) compute(ctx context.Context, snap *models.ProjectSnapshot, now time.Time) (*Result, error) {
	result := &Result{ComputedAt: now}
	errs := make([]error, 5)

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		result.Timeline, errs[0] = ExtractTimeline(snap, now)
	}()
	go func() {
		defer wg.Done()
		result.Budget, errs[1] = ExtractBudget(snap, now)
	}()
	go func() {
		defer wg.Done()
		result.Quality, errs[2] = ExtractQuality(snap, now)
	}()
	go func() {
		defer wg.Done()
		result.Team, errs[3] = ExtractTeam(snap, now)
	}()
	go func() {
		defer wg.Done()
		result.Vendor, errs[4] = ExtractVendor(snap, now)
	}()
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrComputation, err)
	}

	result.Risk = AnalyzeRisk(result.Timeline, result.Budget, result.Quality,
		result.Team, result.Vendor, e.weatherRisk(ctx))
	result.Prediction = PredictCompletion(result.Timeline, result.Budget,
		result.Quality, result.Risk, now)

	return result, nil
}

// weatherRisk asks the provider when one is wired; any failure falls back to
// the documented default so the computation never depends on the integration.
func (e *Engine) weatherRisk(ctx context.Context) WeatherRisk {
	if e.weather == nil {
		return DefaultWeatherRisk()
	}

	value, err := e.weather.DelayRisk(ctx)
	if err != nil {
		logger.Warn("Weather provider unavailable, using default risk", zap.Error(err))
		metrics.WeatherLookups.WithLabelValues("failed").Inc()
		return DefaultWeatherRisk()
	}

	metrics.WeatherLookups.WithLabelValues("ok").Inc()
	return WeatherRisk{Value: value, Source: SourceMeasured}
}

// persist upserts the row, refreshes the cache and notifies subscribers. All
// three are best-effort; the caller gets the computed snapshot either way.
func (e *Engine) persist(ctx context.Context, projectID string, row *models.AnalyticsSnapshot) {
	err := retry.Do(ctx, e.retryCfg, func() error {
		return e.store.UpsertAnalyticsSnapshot(ctx, projectID, row)
	})
	if err != nil {
		metrics.PersistFailures.Inc()
		logger.Error("Failed to persist analytics snapshot",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
	}

	if e.cache != nil {
		if err := e.cache.SetAnalytics(ctx, projectID, row); err != nil {
			logger.Warn("Failed to cache analytics snapshot",
				zap.String("project_id", projectID),
				zap.Error(err),
			)
		}
	}

	if e.broadcaster != nil {
		e.broadcaster.Broadcast(row)
	}
}
