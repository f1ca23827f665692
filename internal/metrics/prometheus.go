package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ComputeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "buildsight_analytics_compute_duration_seconds",
			Help:    "Analytics computation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
	)

	ComputeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildsight_analytics_compute_total",
			Help: "Total analytics computations by outcome",
		},
		[]string{"status"},
	)

	PersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "buildsight_analytics_persist_failures_total",
			Help: "Snapshot write-backs that failed after retries",
		},
	)

	OverallRiskScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "buildsight_analytics_overall_risk_score",
			Help:    "Distribution of computed overall risk scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	WeatherLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildsight_weather_lookups_total",
			Help: "Weather provider lookups by outcome",
		},
		[]string{"outcome"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildsight_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildsight_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	WebSocketSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "buildsight_ws_subscribers",
			Help: "Currently connected analytics feed subscribers",
		},
	)
)

func Init() {
	prometheus.MustRegister(ComputeDuration)
	prometheus.MustRegister(ComputeTotal)
	prometheus.MustRegister(PersistFailures)
	prometheus.MustRegister(OverallRiskScore)
	prometheus.MustRegister(WeatherLookups)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(WebSocketSubscribers)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
