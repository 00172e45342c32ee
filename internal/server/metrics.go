package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/citylink/pkg/observability"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

// Metrics implements the observability hooks with Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge

	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	rows         prometheus.Gauge
	selections   *prometheus.CounterVec
	queries      prometheus.Counter
	queryMatches prometheus.Histogram
	redraws      *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	sessions prometheus.Gauge
}

var (
	_ observability.DashboardHooks = (*Metrics)(nil)
	_ observability.CacheHooks     = (*Metrics)(nil)
	_ observability.HTTPHooks      = (*Metrics)(nil)
)

// NewMetrics registers the citylink collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citylink_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "citylink_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"method", "route"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "citylink_http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		}),
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citylink_dataset_loads_total",
			Help: "Total number of dataset loads by result",
		}, []string{"result"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "citylink_dataset_load_duration_seconds",
			Help:    "Duration of dataset loads",
			Buckets: prometheus.DefBuckets,
		}),
		rows: f.NewGauge(prometheus.GaugeOpts{
			Name: "citylink_dataset_rows",
			Help: "Number of records in the last loaded dataset",
		}),
		selections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citylink_selection_changes_total",
			Help: "Total number of selection writes by kind",
		}, []string{"kind"}),
		queries: f.NewCounter(prometheus.CounterOpts{
			Name: "citylink_table_queries_total",
			Help: "Total number of table search queries",
		}),
		queryMatches: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "citylink_table_query_matches",
			Help:    "Number of records matched by table queries",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		}),
		redraws: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citylink_view_redraws_total",
			Help: "Total number of view redraws by view",
		}, []string{"view"}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citylink_cache_hits_total",
			Help: "Total number of cache hits by key type",
		}, []string{"type"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citylink_cache_misses_total",
			Help: "Total number of cache misses by key type",
		}, []string{"type"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citylink_cache_written_bytes_total",
			Help: "Total bytes written to the cache by key type",
		}, []string{"type"}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "citylink_sessions",
			Help: "Number of live dashboard sessions",
		}),
	}
}

// Registry returns the registry served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Install sets m as the process-wide hook implementation.
func (m *Metrics) Install() {
	observability.SetDashboardHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnLoad(_ context.Context, _ string, rows int, d time.Duration, err error) {
	if err != nil {
		m.loads.WithLabelValues("error").Inc()
		return
	}
	m.loads.WithLabelValues("ok").Inc()
	m.loadDuration.Observe(d.Seconds())
	m.rows.Set(float64(rows))
}

func (m *Metrics) OnSelection(_, _ string, active bool) {
	kind := "clear"
	if active {
		kind = "highlight"
	}
	m.selections.WithLabelValues(kind).Inc()
}

func (m *Metrics) OnQuery(_ string, matches int) {
	m.queries.Inc()
	m.queryMatches.Observe(float64(matches))
}

func (m *Metrics) OnRedraw(view string, _ int) { m.redraws.WithLabelValues(view).Inc() }

func (m *Metrics) OnCacheHit(_ context.Context, keyType string)  { m.cacheHits.WithLabelValues(keyType).Inc() }
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) { m.cacheMisses.WithLabelValues(keyType).Inc() }
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) { m.inFlight.Inc() }

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
