package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/me/jarvis/internal/config"
	"github.com/me/jarvis/internal/store"
	"github.com/me/jarvis/internal/ui"
)

// Version is reported by the health and discovery endpoints.
const Version = "0.1.0"

// Server is the Jarvis web console: HTML pages plus a small JSON surface.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	store     store.Store
	clients   *ui.ClientManager
	ui        *ui.UI
}

// New creates a new Server with all routes registered. Tokens of every
// browser client are persisted in st.
func New(cfg config.ServerConfig, st store.Store, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
	}

	s.clients = ui.NewClientManager(st, ui.ClientConfig{
		Backends:      cfg.Backends,
		CheckInterval: cfg.CheckInterval,
		Idle:          cfg.ClientIdle,
		MaxClients:    cfg.MaxClients,
		Secure:        cfg.SecureCookies,
	}, logger)
	s.ui = ui.New(s.clients, logger)

	s.routes()
	return s
}

// StartSweeper removes idle clients and stale storage in a background
// goroutine until ctx is cancelled.
func (s *Server) StartSweeper(ctx context.Context, interval time.Duration) {
	go s.clients.Run(ctx, interval)
}

// Close stops every client's lifecycle controller.
func (s *Server) Close() {
	s.clients.Close()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	// JSON endpoints
	r.Get("/healthz", s.handleHealth)
	r.Get("/api", s.handleDiscovery)

	r.Route("/session", func(r chi.Router) {
		if len(s.config.CORSOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   s.config.CORSOrigins,
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		r.Use(s.ui.AttachClient)
		r.Get("/state", s.handleSessionState)
		r.Post("/focus", s.handleSessionFocus)
	})

	// UI routes (HTML)
	s.ui.RegisterRoutes(r)
}
