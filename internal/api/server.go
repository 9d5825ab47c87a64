// Package api exposes stored runs over HTTP and can start headless runs.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/tttarena/internal/runner"
	"github.com/vovakirdan/tttarena/internal/storage"
)

// RunStore is the part of storage the API reads and writes.
type RunStore interface {
	SaveRun(rec storage.RunRecord) (string, error)
	RunByID(id string) (storage.RunRecord, error)
	RecentRuns(limit int) ([]storage.RunRecord, error)
	BestRuns(limit int) ([]storage.RunRecord, error)
	RunsBySeed(seed int64) ([]storage.RunRecord, error)
	Stats() (*storage.Stats, error)
}

// RunRequest asks for a headless run.
type RunRequest struct {
	Seed     int64  `json:"seed"`
	Bot      string `json:"bot"`
	MaxSteps int    `json:"max_steps"`
}

// Simulator executes a run to completion and returns its record. obs, when
// not nil, sees every placement.
type Simulator func(ctx context.Context, req RunRequest, obs runner.Observer) (storage.RunRecord, error)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

const (
	defaultLimit = 20
	maxLimit     = 500
)

// Server handles HTTP requests.
type Server struct {
	store     RunStore
	simulate  Simulator
	logger    *log.Logger
	startTime time.Time
}

// NewServer creates an API server. simulate may be nil, which disables
// POST /api/v1/runs and the live stream.
func NewServer(store RunStore, simulate Simulator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:     store,
		simulate:  simulate,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs", s.handleListRuns)
		r.Post("/runs", s.handleCreateRun)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/stats", s.handleStats)
		r.Get("/live", s.handleLive)
	})

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleListRuns serves recent runs, or ?best=true, or ?seed=N.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	var (
		runs []storage.RunRecord
		err  error
	)
	switch {
	case q.Get("seed") != "":
		seed, parseErr := strconv.ParseInt(q.Get("seed"), 10, 64)
		if parseErr != nil {
			s.writeError(w, r, http.StatusBadRequest, "seed must be an integer")
			return
		}
		runs, err = s.store.RunsBySeed(seed)
		if len(runs) > limit {
			runs = runs[:limit]
		}
	case q.Get("best") == "true":
		runs, err = s.store.BestRuns(limit)
	default:
		runs, err = s.store.RecentRuns(limit)
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if runs == nil {
		runs = []storage.RunRecord{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.RunByID(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	if s.simulate == nil {
		s.writeError(w, r, http.StatusNotImplemented, "running simulations is disabled")
		return
	}

	var req RunRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.MaxSteps < 0 {
		s.writeError(w, r, http.StatusBadRequest, "max_steps must not be negative")
		return
	}

	rec, err := s.simulate(r.Context(), req, nil)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if rec.Reason == string(runner.StopCanceled) {
		s.logger.Warn("run canceled, not stored", "seed", rec.Seed, "bot", rec.Bot, "steps", rec.Steps)
		s.writeError(w, r, http.StatusServiceUnavailable, "run canceled before completion")
		return
	}

	id, err := s.store.SaveRun(rec)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	rec.ID = id
	s.logger.Info("run stored", "id", id, "seed", rec.Seed, "bot", rec.Bot, "score", rec.Score)
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("cannot encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	s.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// ListenAndServe serves the API until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP API", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
