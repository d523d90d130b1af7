package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the scheduling engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	groupsCommitted *prometheus.CounterVec
	lessonsCreated  prometheus.Counter
	importRows      *prometheus.CounterVec
	sampledConflict prometheus.Counter
	commitRetries   prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency for cache set operations",
			Buckets: prometheus.DefBuckets,
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by result",
		}, []string{"result"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		groupsCommitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_groups_committed_total",
			Help: "Submission groups processed by the committer, by outcome",
		}, []string{"status"}),
		lessonsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_lessons_created_total",
			Help: "Lessons materialised from recurrence patterns",
		}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_import_rows_total",
			Help: "Expanded import rows validated, by verdict",
		}, []string{"verdict"}),
		sampledConflict: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_sampled_conflicts_total",
			Help: "Conflicts reported by the pre-save sampler",
		}),
		commitRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_commit_retries_total",
			Help: "Group transactions retried after a serialization failure",
		}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(m.requestDuration, m.requestTotal, m.cacheLatency, m.cacheWrite,
		m.cacheLookups, m.dbQueryDuration, m.groupsCommitted, m.lessonsCreated, m.importRows, m.sampledConflict, m.commitRetries, goroutines)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordGroupCommit counts one committed group and the lessons it created.
func (m *MetricsService) RecordGroupCommit(status string, lessons int) {
	if m == nil {
		return
	}
	m.groupsCommitted.WithLabelValues(status).Inc()
	if lessons > 0 {
		m.lessonsCreated.Add(float64(lessons))
	}
}

// RecordImportRows counts validated rows split by verdict.
func (m *MetricsService) RecordImportRows(valid, invalid int) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues("valid").Add(float64(valid))
	m.importRows.WithLabelValues("invalid").Add(float64(invalid))
}

// RecordSampledConflicts counts advisory conflicts.
func (m *MetricsService) RecordSampledConflicts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sampledConflict.Add(float64(n))
}

// RecordCommitRetry counts one retried group transaction.
func (m *MetricsService) RecordCommitRetry() {
	if m == nil {
		return
	}
	m.commitRetries.Inc()
}
