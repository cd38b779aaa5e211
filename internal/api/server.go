// Package api provides the HTTP server and handlers for the alert dashboard.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/alertdash/alertdash-server/internal/ratelimit"
	"github.com/alertdash/alertdash-server/internal/report"
)

// Options carries the HTTP limits taken from configuration.
type Options struct {
	// MaxUploadBytes caps the request body of archive uploads.
	MaxUploadBytes int64
	// UploadTimeout replaces the server read/write deadlines on upload routes.
	UploadTimeout time.Duration
	// CORSOrigins enables cross-origin access when non-empty.
	CORSOrigins []string
	// Version is reported in the OpenAPI document.
	Version string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	reports       *report.Service
	uploadLimiter *ratelimit.KeyedRateLimiter
	router        *chi.Mux
	api           huma.API
	opts          Options
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(reports *report.Service, uploadLimiter *ratelimit.KeyedRateLimiter, opts Options, logger *slog.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = DefaultUploadTimeout
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		reports:       reports,
		uploadLimiter: uploadLimiter,
		router:        chi.NewRouter(),
		opts:          opts,
		logger:        logger,
	}

	// chi rejects middleware added after the first route, and humachi
	// registers the OpenAPI routes as soon as it is created.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Alert Dashboard API", opts.Version)
	humaConfig.Info.Description = "Upload alert export archives and query per-variant reports"
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(s.opts.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"Retry-After", "X-Request-ID"},
			MaxAge:         300,
		}))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// JSON API.
	s.registerHealthRoutes()
	s.registerVariantRoutes()
	s.registerReportRoutes()

	// Dashboard and chart images.
	s.router.Get("/", s.handleDashboard)
	s.router.Get("/charts/{variant}/{chart}", s.handleChart)

	// Uploads replace the shared extraction, so they are limited per client.
	s.router.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(s.uploadLimiter, s.logger))
		r.Post("/upload", withExtendedTimeout(s.handleUploadForm, s.opts.UploadTimeout))
		r.Post("/api/v1/archives", withExtendedTimeout(s.handleUploadArchive, s.opts.UploadTimeout))
	})
}
