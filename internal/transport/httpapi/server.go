// Package httpapi exposes the query engine over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/models"
	"airport-query-engine/pkg/catalog"
)

const (
	maxBodyBytes    = 1 << 20
	requestIDHeader = "X-Request-ID"
)

// Processor answers a parsed query. *registry.Registry satisfies it.
type Processor interface {
	Process(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response
}

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

type QueryRequest struct {
	Query   *models.ParsedQuery `json:"query"`
	Context *models.Context     `json:"context,omitempty"`
}

type Server struct {
	processor    Processor
	catalog      catalog.Source
	version      string
	queryTimeout time.Duration
	checks       map[string]ReadinessCheck
	logger       logger.Logger
	now          func() time.Time
}

type Option func(*Server)

// WithQueryTimeout bounds each query; 0 disables the deadline.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Server) { s.queryTimeout = d }
}

func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

func WithCatalog(src catalog.Source, version string) Option {
	return func(s *Server) {
		s.catalog = src
		s.version = version
	}
}

func NewServer(p Processor, log logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{
		processor: p,
		checks:    map[string]ReadinessCheck{},
		logger:    log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler for every endpoint.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/query", s.handleQuery)
	mux.HandleFunc("GET /v1/intents", s.handleIntents)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.withRequestID(s.withRecovery(mux))
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeEnvelope(w, http.StatusBadRequest, response.Failure(apperrors.KindProcessing,
			"Invalid request body", map[string]interface{}{"originalError": err.Error()}))
		return
	}
	if req.Query == nil || req.Query.Intent == "" && !req.Query.Complex {
		writeEnvelope(w, http.StatusBadRequest, response.FromError(apperrors.NewMissingEntityError("query.intent")))
		return
	}

	ctx := r.Context()
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	resp := s.processor.Process(ctx, req.Query, req.Context)
	status := StatusFor(resp)
	s.logger.Info("query served", map[string]interface{}{
		"requestId": r.Header.Get(requestIDHeader),
		"intent":    req.Query.Intent,
		"status":    resp.Status(),
		"http":      status,
	})
	writeEnvelope(w, status, resp)
}

func (s *Server) handleIntents(w http.ResponseWriter, _ *http.Request) {
	if s.catalog == nil {
		writeJSON(w, http.StatusOK, catalog.Catalog{Version: s.version, Intents: []catalog.Intent{}})
		return
	}
	writeJSON(w, http.StatusOK, catalog.Build(s.catalog, s.version, s.now()))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": results})
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				engErr := apperrors.NewErrorHandler(s.logger).HandlePanic(p, map[string]interface{}{
					"path": r.URL.Path,
				})
				writeEnvelope(w, http.StatusInternalServerError, response.FromError(engErr))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeEnvelope(w http.ResponseWriter, status int, resp *response.Response) {
	raw, err := resp.Marshal()
	if err != nil {
		http.Error(w, `{"success":false}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
