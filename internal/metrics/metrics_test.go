package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
)

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/healthz", "/healthz"},
		{"/readyz", "/readyz"},
		{"/metrics", "/metrics"},
		{"/api/v1/trajectory", "/api/v1/trajectory"},
		{"/api/v1/range-table", "/api/v1/range-table"},
		{"/api/v1/drag-functions", "/api/v1/drag-functions"},

		// Unknown/bot paths collapse to "other".
		{"/wp-admin", "other"},
		{"/api/v2/trajectory", "other"},
		{"/favicon.ico", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := normalizeRoute(tt.path)
			if got != tt.want {
				t.Errorf("normalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeOK},
		{"invalid input", &eb.InvalidInputError{Subject: "Projectile", Reason: "mass"}, OutcomeInvalidInput},
		{"wrapped divergence", fmt.Errorf("row 3: %w", &eb.DivergenceError{Solver: "RangeMatcher"}), OutcomeDivergence},
		{"simulation", &eb.SimulationError{Steps: 10}, OutcomeSimulation},
		{"canceled", context.Canceled, OutcomeCanceled},
		{"other", errors.New("disk full"), OutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Outcome(tt.err); got != tt.want {
				t.Errorf("Outcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObserveSolver(t *testing.T) {
	before := testutil.ToFloat64(solverRunsTotal.WithLabelValues("test", OutcomeDivergence))
	ObserveSolver("test", time.Now(), &eb.DivergenceError{Solver: "test"})
	after := testutil.ToFloat64(solverRunsTotal.WithLabelValues("test", OutcomeDivergence))
	if after-before != 1 {
		t.Errorf("expected one divergence to be counted, got %f", after-before)
	}
}

func TestMiddleware(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	counter := httpRequestsTotal.WithLabelValues("other", "GET", "418")
	before := testutil.ToFloat64(counter)

	// 100 unknown paths produce one label.
	for i := 0; i < 100; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", fmt.Sprintf("/probe/%d", i), nil))
	}
	if got := testutil.ToFloat64(counter) - before; got != 100 {
		t.Errorf("expected 100 requests under the other label, got %f", got)
	}
}
