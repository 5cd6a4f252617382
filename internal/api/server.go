package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/health"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/metrics"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/report"
)

// maxBodyBytes bounds the size of request bodies.
const maxBodyBytes = 1 << 20

// Limits bound the CPU a single request may use.
type Limits struct {
	Workers        int
	MaxRows        int
	MaxTargets     int
	MaxSteps       int
	MaxIterations  int
	MinTimestep    float64
	RequestTimeout time.Duration
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		Workers:        1,
		MaxRows:        500,
		MaxTargets:     50,
		MaxSteps:       200000,
		MaxIterations:  eb.DefaultMaxIterations,
		MinTimestep:    0.001,
		RequestTimeout: 30 * time.Second,
	}
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     log.Logger
	limits     Limits
	readiness  *health.Readiness
}

// NewServer creates a configured HTTP server.
func NewServer(addr string, logger log.Logger, limits Limits) *Server {
	s := &Server{
		logger:    log.With(logger, "component", "api"),
		limits:    limits,
		readiness: &health.Readiness{},
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      limits.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler builds the routes and the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", s.readiness.Readyz)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/drag-functions", s.dragFunctions)
	mux.HandleFunc("POST /api/v1/trajectory", s.trajectory)
	mux.HandleFunc("POST /api/v1/trajectory/plot", s.trajectoryPlot)
	mux.HandleFunc("POST /api/v1/max-range", s.maxRange)
	mux.HandleFunc("POST /api/v1/match-range", s.matchRange)
	mux.HandleFunc("POST /api/v1/form-factor", s.formFactor)
	mux.HandleFunc("POST /api/v1/range-table", s.rangeTable)

	// Build middleware chain: metrics -> logging -> mux.
	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger)(handler)
	handler = metrics.Middleware(handler)
	return handler
}

// Readiness returns the readiness flag served on /readyz.
func (s *Server) Readiness() *health.Readiness {
	return s.readiness
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	// the built-in drag functions are loaded on first use
	eb.DragTableNames()
	s.readiness.SetReady(true)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests and waits for the running ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.readiness.SetReady(false)
	return s.httpServer.Shutdown(ctx)
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			lvl := level.Info
			if probePath(r.URL.Path) {
				lvl = level.Debug
			}
			lvl(logger).Log(
				"msg", "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusOf maps the errors of the solvers to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, eb.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, eb.ErrDivergence), errors.Is(err, eb.ErrSimulation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled):
		// the client is gone
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error, extra ...interface{}) {
	status := statusOf(err)
	body := map[string]interface{}{"error": err.Error()}
	var div *eb.DivergenceError
	if errors.As(err, &div) {
		body["solver"] = div.Solver
		body["iterations"] = div.Iterations
	}
	for i := 0; i+1 < len(extra); i += 2 {
		body[fmt.Sprint(extra[i])] = extra[i+1]
	}
	if status == http.StatusInternalServerError {
		level.Error(s.logger).Log("msg", "request failed", "err", err)
	}
	writeJSON(w, status, body)
}

// decode reads the JSON body into v. Unknown fields are rejected.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &eb.InvalidInputError{Subject: "Request", Reason: err.Error()}
	}
	return nil
}

func (s *Server) context(r *http.Request) (context.Context, context.CancelFunc) {
	if s.limits.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.limits.RequestTimeout)
}

func (s *Server) dragFunctions(w http.ResponseWriter, r *http.Request) {
	var resp []dragFunctionResponse
	for _, name := range eb.DragTableNames() {
		points := eb.MustDragTableByName(name).Points()
		resp = append(resp, dragFunctionResponse{
			Name:    name,
			Points:  len(points),
			MinMach: points[0].Mach,
			MaxMach: points[len(points)-1].Mach,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) runTrajectory(w http.ResponseWriter, r *http.Request, recordPath bool) (shot, trajectoryRequest, eb.TrajectoryResult, bool) {
	var req trajectoryRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return shot{}, req, eb.TrajectoryResult{}, false
	}
	sh, err := s.build(req.shotRequest)
	if err != nil {
		s.writeError(w, err)
		return shot{}, req, eb.TrajectoryResult{}, false
	}
	start := time.Now()
	result, err := sh.calculator.Trajectory(sh.projectile, sh.conditions, recordPath || req.Path)
	metrics.ObserveSolver("trajectory", start, err)
	if err != nil {
		s.writeError(w, err)
		return shot{}, req, eb.TrajectoryResult{}, false
	}
	return sh, req, result, true
}

func (s *Server) trajectory(w http.ResponseWriter, r *http.Request) {
	_, req, result, ok := s.runTrajectory(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newTrajectoryResponse(result, req.PathEvery))
}

// trajectoryPlot returns the PNG plot of the trajectory.
func (s *Server) trajectoryPlot(w http.ResponseWriter, r *http.Request) {
	units, err := report.ParseUnits(r.URL.Query().Get("units"))
	if err != nil {
		s.writeError(w, &eb.InvalidInputError{Subject: "Request", Reason: err.Error()})
		return
	}
	sh, _, result, ok := s.runTrajectory(w, r, true)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := report.WritePlot(w, "png", sh.projectile.Name(), units, result); err != nil {
		level.Error(s.logger).Log("msg", "plot failed", "err", err)
	}
}

func (s *Server) maxRange(w http.ResponseWriter, r *http.Request) {
	var req shotRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sh, err := s.build(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	start := time.Now()
	m, err := sh.calculator.MaxRange(sh.projectile, sh.conditions)
	metrics.ObserveSolver("max_range", start, err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMaxRangeResponse(m))
}

func (s *Server) matchRange(w http.ResponseWriter, r *http.Request) {
	var req matchRangeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Targets) == 0 {
		s.writeError(w, &eb.InvalidInputError{Subject: "Request", Reason: "at least one target range is required"})
		return
	}
	if len(req.Targets) > s.limits.MaxTargets {
		s.writeError(w, &eb.InvalidInputError{Subject: "Request", Reason: "too many target ranges"}, "max_targets", s.limits.MaxTargets)
		return
	}
	arc := strings.ToLower(req.Arc)
	if arc != "" && arc != "low" && arc != "high" {
		s.writeError(w, &eb.InvalidInputError{Subject: "Request", Reason: "arc must be low or high"})
		return
	}
	sh, err := s.build(req.shotRequest)
	if err != nil {
		s.writeError(w, err)
		return
	}

	start := time.Now()
	m, err := sh.calculator.MaxRange(sh.projectile, sh.conditions)
	metrics.ObserveSolver("max_range", start, err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	bracket := eb.LowArc(m)
	if arc == "high" {
		bracket = eb.HighArc(m)
	}

	resp := matchRangeResponse{MaxRange: newMaxRangeResponse(m)}
	for _, target := range req.Targets {
		if err := r.Context().Err(); err != nil {
			s.writeError(w, err)
			return
		}
		start := time.Now()
		match, err := sh.calculator.MatchRange(sh.projectile, sh.conditions, target, bracket)
		metrics.ObserveSolver("match_range", start, err)
		if err != nil {
			s.writeError(w, err, "target_range", target)
			return
		}
		resp.Matches = append(resp.Matches, matchResponse{
			TargetRange: match.TargetRange,
			Iterations:  match.Iterations,
			Trajectory:  newTrajectoryResponse(match.Trajectory, 1),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) formFactor(w http.ResponseWriter, r *http.Request) {
	var req formFactorRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Shots) > s.limits.MaxTargets {
		s.writeError(w, &eb.InvalidInputError{Subject: "Request", Reason: "too many shots"}, "max_targets", s.limits.MaxTargets)
		return
	}
	sh, err := s.build(req.shotRequest)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.context(r)
	defer cancel()
	start := time.Now()
	f, solutions, err := sh.calculator.SolveFormFactors(ctx, sh.projectile, sh.conditions, req.Shots)
	metrics.ObserveSolver("form_factor", start, err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := formFactorResponse{Solutions: solutions}
	for _, p := range f.Points() {
		resp.FormFactors = append(resp.FormFactors, formFactorPoint{Angle: p.Angle, FormFactor: p.FormFactor})
	}
	writeJSON(w, http.StatusOK, resp)
}

// rowBudget returns the number of rows the sweep asks for; the solvers
// validate the sweep itself.
func rowBudget(start, end, increment float64) float64 {
	if !(increment > 0) || end < start {
		return 0
	}
	return math.Floor((end-start)/increment) + 1
}

func (s *Server) rangeTable(w http.ResponseWriter, r *http.Request) {
	var req rangeTableRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	by := strings.ToLower(req.By)
	if by != "" && by != "range" && by != "angle" {
		s.writeError(w, &eb.InvalidInputError{Subject: "Request", Reason: "by must be range or angle"})
		return
	}
	if rows := rowBudget(req.Start, req.End, req.Increment); rows > float64(s.limits.MaxRows) {
		s.writeError(w, &eb.InvalidInputError{Subject: "Request", Reason: "the range table has too many rows"}, "max_rows", s.limits.MaxRows)
		return
	}
	sh, err := s.build(req.shotRequest)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.context(r)
	defer cancel()
	start := time.Now()
	var rows []eb.RangeTableRow
	if by == "angle" {
		rows, err = sh.calculator.RangeTableByAngle(ctx, sh.projectile, sh.conditions, req.Start, req.End, req.Increment)
	} else {
		rows, err = sh.calculator.RangeTableByRange(ctx, sh.projectile, sh.conditions, req.Start, req.End, req.Increment)
	}
	metrics.ObserveSolver("range_table", start, err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	metrics.ObserveRangeTable(len(rows))
	writeJSON(w, http.StatusOK, rangeTableResponse{Rows: rows})
}
