package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the ledger API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	storeErrors     *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	sweepOutcomes   *prometheus.CounterVec
	alertsEmitted   *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "financeiro_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financeiro_store_errors_total",
				Help: "Total errors from the ledger store, by collection.",
			},
			[]string{"collection"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financeiro_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financeiro_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		sweepOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financeiro_sweep_entries_total",
				Help: "Entries touched by the cancellation sweep, by outcome.",
			},
			[]string{"outcome"},
		),
		alertsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financeiro_alerts_emitted_total",
				Help: "Alerts emitted by the rule evaluator, by kind.",
			},
			[]string{"kind"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financeiro_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the store error counter for a collection.
func (m *Metrics) IncrStoreError(collection string) {
	m.storeErrors.WithLabelValues(collection).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordSweep records cancellation sweep outcomes.
func (m *Metrics) RecordSweep(cancelled, failed int) {
	m.sweepOutcomes.WithLabelValues("cancelled").Add(float64(cancelled))
	m.sweepOutcomes.WithLabelValues("failed").Add(float64(failed))
}

// IncrAlert increments the emitted alert counter for a kind.
func (m *Metrics) IncrAlert(kind string) {
	m.alertsEmitted.WithLabelValues(kind).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// OpsSnapshot is a point-in-time view of operational counters, served
// by GET /v1/metrics/resumo.
type OpsSnapshot struct {
	SweepCancelled float64 `json:"sweep_cancelled"`
	SweepFailed    float64 `json:"sweep_failed"`
	CriticalAlerts float64 `json:"critical_alerts"`
	WarningAlerts  float64 `json:"warning_alerts"`
	InfoAlerts     float64 `json:"info_alerts"`
	CacheHitRate   float64 `json:"cache_hit_rate"`
}

// GetOpsSnapshot gathers current counter values.
// Prometheus counters expose cumulative values.
func (m *Metrics) GetOpsSnapshot() *OpsSnapshot {
	hits := getCounterValue(m.cacheHits, "aggregate")
	misses := getCounterValue(m.cacheMisses, "aggregate")

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &OpsSnapshot{
		SweepCancelled: getCounterValue(m.sweepOutcomes, "cancelled"),
		SweepFailed:    getCounterValue(m.sweepOutcomes, "failed"),
		CriticalAlerts: getCounterValue(m.alertsEmitted, "critical"),
		WarningAlerts:  getCounterValue(m.alertsEmitted, "warning"),
		InfoAlerts:     getCounterValue(m.alertsEmitted, "info"),
		CacheHitRate:   hitRate,
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
