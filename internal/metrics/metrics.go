package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meb_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meb_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	solverRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meb_solver_runs_total",
			Help: "Total number of solver runs by outcome.",
		},
		[]string{"solver", "outcome"},
	)

	solverDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meb_solver_duration_seconds",
			Help:    "Solver run duration in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"solver"},
	)

	rangeTableRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meb_range_table_rows",
			Help:    "Number of rows of the range tables built.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(solverRunsTotal)
	prometheus.MustRegister(solverDurationSeconds)
	prometheus.MustRegister(rangeTableRows)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeDivergence   = "divergence"
	OutcomeSimulation   = "simulation"
	OutcomeCanceled     = "canceled"
	OutcomeError        = "error"
)

// Outcome classifies the error returned by a solver.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, eb.ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, eb.ErrDivergence):
		return OutcomeDivergence
	case errors.Is(err, eb.ErrSimulation):
		return OutcomeSimulation
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

// ObserveSolver records one solver run which started at start and ended with err.
func ObserveSolver(solver string, start time.Time, err error) {
	solverRunsTotal.WithLabelValues(solver, Outcome(err)).Inc()
	solverDurationSeconds.WithLabelValues(solver).Observe(time.Since(start).Seconds())
}

// ObserveRangeTable records the size of a range table built.
func ObserveRangeTable(rows int) {
	rangeTableRows.Observe(float64(rows))
}

// knownRoutes are the paths labelled as is; everything else collapses to "other".
var knownRoutes = map[string]bool{
	"/healthz":                true,
	"/readyz":                 true,
	"/metrics":                true,
	"/api/v1/trajectory":      true,
	"/api/v1/form-factor":     true,
	"/api/v1/match-range":     true,
	"/api/v1/max-range":       true,
	"/api/v1/range-table":     true,
	"/api/v1/drag-functions":  true,
	"/api/v1/trajectory/plot": true,
}

// normalizeRoute keeps the path label cardinality bounded.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
