package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/logging"
)

const tracerName = "github.com/agbru/bigcalc/internal/server"

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// Config configures a Server.
type Config struct {
	Addr string
	// DefaultAlgo is used when a request names no strategy.
	DefaultAlgo string
	// Timeout bounds each calculation.
	Timeout time.Duration
	// CacheSize is the number of cached results; 0 disables the cache.
	CacheSize int
	Security  SecurityConfig
}

// ConfigFromApp derives the server configuration from the command line.
func ConfigFromApp(cfg config.AppConfig) Config {
	algo := cfg.Algo
	if algo == "" || algo == "all" {
		algo = "adaptive"
	}
	security := DefaultSecurityConfig()
	security.MaxDigits = cfg.MaxDigits
	return Config{
		Addr:        cfg.Addr,
		DefaultAlgo: algo,
		Timeout:     cfg.Timeout,
		CacheSize:   cfg.CacheSize,
		Security:    security,
	}
}

// Server is the HTTP front end.
type Server struct {
	cfg     Config
	factory calc.CalculatorFactory
	metrics *Metrics
	cache   *resultCache
	logger  logging.Logger
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics shares a metrics instance.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New validates cfg and builds a server.
func New(factory calc.CalculatorFactory, cfg Config, opts ...Option) (*Server, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	if cfg.Security.MaxDigits <= 0 {
		return nil, apperrors.NewConfigError("max digits must be positive, got %d", cfg.Security.MaxDigits)
	}
	if _, err := factory.Get(cfg.DefaultAlgo); err != nil {
		return nil, err
	}
	// Results are at most twice as long as the largest operand.
	maxLimbs := cfg.CacheSize * (2*cfg.Security.MaxDigits/bigint.LimbDigits + 2)
	cache, err := newResultCache(cfg.CacheSize, maxLimbs)
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		factory: factory,
		cache:   cache,
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/calculate", s.wrap("/calculate", s.handleCalculate))
	mux.HandleFunc("/health", s.wrap("/health", s.handleHealth))
	mux.HandleFunc("/metrics", s.wrap("/metrics", s.handleMetrics))
	return mux
}

func (s *Server) wrap(path string, h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.cfg.Security, s.requestIDMiddleware(s.metricsMiddleware(path, h)))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

type requestIDKey struct{}

// RequestID returns the identifier assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestIDMiddleware propagates a client X-Request-ID when it is a UUID
// and generates one otherwise.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next(rec, r)
		s.metrics.RecordRequest(path, rec.code)
		s.logger.Debug("request served",
			logging.String("path", path),
			logging.Int("status", rec.code),
			logging.Duration("duration", time.Since(start)),
			logging.String("request_id", RequestID(r.Context())))
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status     string   `json:"status"`
	Strategies []string `json:"strategies"`
	CacheSize  int      `json:"cache_entries"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Strategies: s.factory.List(),
		CacheSize:  s.cache.Len(),
	})
}

// CalculateResponse is the body of a successful /calculate.
type CalculateResponse struct {
	RequestID  string  `json:"request_id"`
	Expression string  `json:"expression,omitempty"`
	Op         string  `json:"op"`
	Algo       string  `json:"algo"`
	Result     string  `json:"result"`
	Digits     int     `json:"digits"`
	Limbs      int     `json:"limbs"`
	DurationMS float64 `json:"duration_ms"`
	Cached     bool    `json:"cached"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	q := r.URL.Query()
	algo := q.Get("algo")
	if algo == "" {
		algo = s.cfg.DefaultAlgo
	}
	calculator, err := s.factory.Get(algo)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	for _, field := range []string{"a", "b", "m"} {
		if n := len(q.Get(field)); n > s.cfg.Security.MaxDigits+1 {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, apperrors.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("operand exceeds %d digits", s.cfg.Security.MaxDigits),
			})
			return
		}
	}
	req, err := calc.NewRequest(q.Get("op"), q.Get("a"), q.Get("b"), q.Get("m"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "calculate")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.id", RequestID(ctx)),
		attribute.String("calc.op", string(req.Op)),
		attribute.String("calc.algo", algo),
		attribute.Int("calc.digits_a", req.A.DigitCount()),
		attribute.Int("calc.digits_b", req.B.DigitCount()),
	)

	key := keyFor(algo, req)
	if result, ok := s.cache.Get(key); ok {
		s.metrics.RecordCacheHit()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		writeJSON(w, http.StatusOK, s.response(r, req, algo, result, 0, true))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	start := time.Now()
	result, err := calculator.Calculate(ctx, nil, 0, req)
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.writeError(w, r, statusFor(err), err)
		return
	}
	s.metrics.ObserveOperation(string(req.Op), algo, duration)
	s.cache.Add(key, result)
	span.SetAttributes(attribute.Int("calc.result_digits", result.DigitCount()))
	writeJSON(w, http.StatusOK, s.response(r, req, algo, result, duration, false))
}

func (s *Server) response(r *http.Request, req calc.Request, algo string, result bigint.BigInt, d time.Duration, cached bool) CalculateResponse {
	expr := ""
	if req.A.DigitCount()+req.B.DigitCount()+req.M.DigitCount() <= 120 {
		expr = req.String()
	}
	return CalculateResponse{
		RequestID:  RequestID(r.Context()),
		Expression: expr,
		Op:         string(req.Op),
		Algo:       algo,
		Result:     result.String(),
		Digits:     result.DigitCount(),
		Limbs:      result.LimbCount(),
		DurationMS: float64(d) / float64(time.Millisecond),
		Cached:     cached,
	}
}

// statusFor maps calculation errors to HTTP status codes.
func statusFor(err error) int {
	var (
		validErr  apperrors.ValidationError
		formatErr apperrors.FormatError
	)
	switch {
	case errors.Is(err, apperrors.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	case errors.As(err, &validErr), errors.As(err, &formatErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	id := logging.String("request_id", RequestID(r.Context()))
	switch {
	case apperrors.IsContextError(err):
		s.logger.Warn("request interrupted", id, logging.Err(err))
	case code >= http.StatusInternalServerError:
		s.logger.Error("request failed", err, id)
	}
	writeJSON(w, code, ErrorResponse{RequestID: RequestID(r.Context()), Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
