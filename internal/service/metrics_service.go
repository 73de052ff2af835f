package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for scheduling
// cycles and solver invocations.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	solverRuns        *prometheus.CounterVec
	solverDuration    prometheus.Histogram
	sessionsPersisted prometheus.Counter
	sessionsSkipped   prometheus.Counter
}

// NewMetricsService registers the scheduling collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	solverRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_runs_total",
		Help: "Total solver invocations by outcome",
	}, []string{"status"})

	solverDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solver_run_duration_seconds",
		Help:    "Wall-clock duration of solver invocations",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	sessionsPersisted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_sessions_persisted_total",
		Help: "Solver sessions successfully reconciled into schedule rows",
	})

	sessionsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_sessions_skipped_total",
		Help: "Solver sessions skipped due to unresolvable references",
	})

	registry.MustRegister(solverRuns, solverDuration, sessionsPersisted, sessionsSkipped)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		solverRuns:        solverRuns,
		solverDuration:    solverDuration,
		sessionsPersisted: sessionsPersisted,
		sessionsSkipped:   sessionsSkipped,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveSolverRun records one solver invocation.
func (m *MetricsService) ObserveSolverRun(status string, elapsed time.Duration) {
	m.solverRuns.WithLabelValues(status).Inc()
	m.solverDuration.Observe(elapsed.Seconds())
}

// ObserveReconciliation records reconciliation counts.
func (m *MetricsService) ObserveReconciliation(persisted, skipped int) {
	m.sessionsPersisted.Add(float64(persisted))
	m.sessionsSkipped.Add(float64(skipped))
}
