package metrics

import (
	"database/sql"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const namespace = "workflow_service"

// Metrics holds every collector exported by the service
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBConnectionsOpen        prometheus.Gauge
	DBConnectionsInUse       prometheus.Gauge
	DBConnectionsIdle        prometheus.Gauge
	DBConnectionsMax         prometheus.Gauge
	DBConnectionWaitTotal    prometheus.Counter
	DBConnectionWaitDuration prometheus.Counter
	DBQueryDuration          *prometheus.HistogramVec
	DBQueryErrors            *prometheus.CounterVec

	ExternalAPIRequestDuration *prometheus.HistogramVec
	ExternalAPIRequestsTotal   *prometheus.CounterVec
	ExternalAPIErrors          *prometheus.CounterVec

	TemplatesTotal          prometheus.Gauge
	LockedTemplatesTotal    prometheus.Gauge
	IssuesTotal             prometheus.Gauge
	IssuesCreatedTotal      prometheus.Counter
	TransitionsTotal        *prometheus.CounterVec
	ValidationFailuresTotal *prometheus.CounterVec
	SnapshotCacheTotal      *prometheus.CounterVec

	statsMu   sync.Mutex
	lastStats sql.DBStats

	logger *zap.Logger
}

// New registers the metrics with the default registry
func New(logger *zap.Logger) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, logger)
}

// NewWithRegistry registers the metrics with registerer
func NewWithRegistry(registerer prometheus.Registerer, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := promauto.With(registerer)

	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
	}
	histogramVec := func(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
		return f.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: buckets}, labels)
	}

	return &Metrics{
		HTTPRequestsTotal: counterVec("http_requests_total", "Total number of HTTP requests", "method", "endpoint", "status"),
		HTTPRequestDuration: histogramVec("http_request_duration_seconds", "HTTP request duration in seconds",
			[]float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}, "method", "endpoint"),

		DBConnectionsOpen:        gauge("db_connections_open", "Current number of open database connections"),
		DBConnectionsInUse:       gauge("db_connections_in_use", "Current number of in-use database connections"),
		DBConnectionsIdle:        gauge("db_connections_idle", "Current number of idle database connections"),
		DBConnectionsMax:         gauge("db_connections_max", "Maximum number of open database connections configured"),
		DBConnectionWaitTotal:    counter("db_connection_wait_total", "Total number of times waited for a database connection"),
		DBConnectionWaitDuration: counter("db_connection_wait_duration_seconds_total", "Total time waited for database connections in seconds"),
		DBQueryDuration: histogramVec("db_query_duration_seconds", "Database statement duration in seconds",
			[]float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}, "operation", "table"),
		DBQueryErrors: counterVec("db_query_errors_total", "Total number of failed database statements", "operation", "table"),

		ExternalAPIRequestDuration: histogramVec("external_api_request_duration_seconds", "Auth service request duration in seconds",
			[]float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}, "endpoint", "status"),
		ExternalAPIRequestsTotal: counterVec("external_api_requests_total", "Total number of auth service requests", "endpoint", "method", "status"),
		ExternalAPIErrors:        counterVec("external_api_errors_total", "Total number of failed auth service requests", "endpoint", "error_type"),

		TemplatesTotal:          gauge("templates_total", "Number of templates"),
		LockedTemplatesTotal:    gauge("templates_locked", "Number of locked templates"),
		IssuesTotal:             gauge("issues_total", "Number of issues"),
		IssuesCreatedTotal:      counter("issues_created_total", "Total number of created issues"),
		TransitionsTotal:        counterVec("transitions_total", "Issue state changes by outcome", "result"),
		ValidationFailuresTotal: counterVec("field_validation_failures_total", "Rejected field values by error code", "code"),
		SnapshotCacheTotal:      counterVec("snapshot_cache_requests_total", "Template snapshot cache lookups", "result"),

		logger: logger,
	}
}

// safeExecute keeps a failing collector from taking the request down
func (m *Metrics) safeExecute(operation string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Panic in metrics operation", zap.String("operation", operation), zap.Any("panic", r))
		}
	}()
	fn()
}
