// Package server provides the HTTP API for Tomaru.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hyperjump/tomaru/internal/config"
	"github.com/hyperjump/tomaru/internal/metrics"
	"github.com/hyperjump/tomaru/internal/models"
	"github.com/hyperjump/tomaru/internal/search"
	"github.com/hyperjump/tomaru/internal/storage"
)

// CandidateIndex receives candidates created through the API, e.g. the geo index.
type CandidateIndex interface {
	Index(ctx context.Context, c *models.Candidate) error
}

// Server is the HTTP server for the Tomaru API.
type Server struct {
	engine  *search.Engine
	storage storage.Storage
	index   CandidateIndex
	config  *config.Config
	metrics *metrics.Metrics
	logger  *zap.Logger
	server  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics instruments routes and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithIndex mirrors created candidates into idx.
func WithIndex(idx CandidateIndex) Option {
	return func(s *Server) { s.index = idx }
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	storage storage.Storage,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		engine:  engine,
		storage: storage,
		config:  cfg,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	s.route(r, http.MethodGet, "/api/v1/parking/search", s.handleSearchGet)
	s.route(r, http.MethodPost, "/api/v1/parking/search", s.handleSearchPost)
	s.route(r, http.MethodPost, "/api/v1/candidates", s.handleCreateCandidate)
	s.route(r, http.MethodGet, "/api/v1/candidates/{id}", s.handleGetCandidate)
	s.route(r, http.MethodGet, "/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

func (s *Server) route(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, s.metrics.WrapHandler(pattern, h))
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
