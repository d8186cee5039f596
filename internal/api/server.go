// Package api provides the HTTP API server and handlers for EventScope.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/eventscope/eventscope-server/internal/ratelimit"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins    []string // default: *
	RateLimitRPS   float64  // per client IP; 0 disables limiting
	RateLimitBurst int
	Store          StorePinger  // optional, for health checks
	Index          IndexCounter // optional, for health checks
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	store    StorePinger
	index    IndexCounter
	router   *chi.Mux
	api      huma.API
	limiter  *ratelimit.KeyedRateLimiter
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		store:    opts.Store,
		index:    opts.Index,
		router:   chi.NewRouter(),
		logger:   logger,
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = ratelimit.New(opts.RateLimitRPS, opts.RateLimitBurst)
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("EventScope API", Version)
	humaConfig.Info.Description = "Event discovery: Ticketmaster search, Spotify artists and saved favorites."
	// Response bodies are fixed shapes; no $schema links.
	humaConfig.CreateHooks = nil
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the underlying huma API (used by tests and the OpenAPI dump).
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources. It does not stop an http.Server
// serving this handler.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	s.router.Use(clientIPMiddleware)
}

// setupRoutes registers every operation.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerEventRoutes()
	s.registerSpotifyRoutes()
	s.registerFavoriteRoutes()
	s.registerLocationRoutes()
}
