// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — it connects handlers, middleware, and
// routes. It is the composition root: every dependency is assembled here, in
// one place, rather than scattered across the codebase.
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go reads config → server.New() creates:
//	    record store (sqlite or jsonfile, both satisfy the repository interfaces)
//	    → AuthService / ApplicationService / AnalyticsService
//	    → AuthHandler / ApplicationHandler / AnalyticsHandler
//	    → routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete store), handlers get services, the router
// gets handlers.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/jobtrack/internal/auth"
	"github.com/sakif/jobtrack/internal/handler"
	"github.com/sakif/jobtrack/internal/middleware"
	"github.com/sakif/jobtrack/internal/repository"
	"github.com/sakif/jobtrack/internal/repository/jsonfile"
	sqliteRepo "github.com/sakif/jobtrack/internal/repository/sqlite"
	"github.com/sakif/jobtrack/internal/service"
)

// Config holds server configuration, loaded from the environment in main.go.
type Config struct {
	Port         int
	Store        string // "sqlite" (default) or "json"
	DBPath       string // sqlite database file
	DataPath     string // jsonfile document path
	JWTSecret    string
	ClientOrigin string // SPA origin, for CORS and OAuth redirects

	// GitHub sign-in is optional: routes are only registered when
	// GitHubClientID is set.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// store is the intersection both record stores satisfy, plus Close. Keeping
// it unexported — nothing outside the wiring needs it.
type store interface {
	repository.UserRepository
	repository.ApplicationRepository
	io.Closer
}

// Server owns the router and the record store. The store is closed during
// graceful shutdown so pending writes are flushed.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  store
}

// New creates a Server: opens the record store, wires the dependency graph,
// and registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  st,
	}

	if err := s.setupRoutes(); err != nil {
		st.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// openStore picks the record store implementation from config.
//
// Both stores implement the same repository interfaces — everything above
// this function is identical regardless of the choice.
func openStore(cfg Config) (store, error) {
	switch cfg.Store {
	case "", "sqlite":
		return sqliteRepo.New(cfg.DBPath)
	case "json":
		return jsonfileStore(cfg.DataPath)
	default:
		return nil, fmt.Errorf("unknown store %q (want sqlite or json)", cfg.Store)
	}
}

// jsonfileStore adapts jsonfile.New to the store interface. The jsonfile
// store has no connection to close, so Close is a no-op wrapper.
func jsonfileStore(path string) (store, error) {
	js, err := jsonfile.New(path)
	if err != nil {
		return nil, err
	}
	return nopCloserStore{js}, nil
}

type nopCloserStore struct{ *jsonfile.Store }

func (nopCloserStore) Close() error { return nil }

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /api/health                → liveness probe (public)
//	POST   /api/auth/register         → create account (public)
//	POST   /api/auth/login            → sign in (public)
//	GET    /api/auth/me               → current user (bearer token)
//	GET    /api/applications          → list (bearer token)
//	POST   /api/applications          → create (bearer token)
//	PUT    /api/applications/{id}     → update (bearer token)
//	DELETE /api/applications/{id}     → delete (bearer token)
//	GET    /api/analytics             → snapshot (bearer token)
//	GET    /auth/github/login         → GitHub sign-in (only if configured)
//	GET    /auth/github/callback      → GitHub callback (only if configured)
//
// MIDDLEWARE ORDER MATTERS — it executes in the order added:
// RequestID → RealIP → Recoverer → Logger → CORS, then per-group RequireAuth.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500
	s.router.Use(middleware.Logger(s.logger))

	// The SPA is served from its own origin, so every browser call here is
	// cross-origin. Authorization must be allowed through or the bearer
	// token never arrives.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{s.config.ClientOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// === Wire the dependency graph ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return err
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.store, tokens, passwords, s.logger)
	appService := service.NewApplicationService(s.store, s.logger)
	analyticsService := service.NewAnalyticsService(s.store, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	appHandler := handler.NewApplicationHandler(appService, s.logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", handler.HandleHealth)
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		// Protected routes — everything in this group sees a verified identity
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/auth/me", authHandler.HandleMe)
			r.Get("/applications", appHandler.HandleList)
			r.Post("/applications", appHandler.HandleCreate)
			r.Put("/applications/{id}", appHandler.HandleUpdate)
			r.Delete("/applications/{id}", appHandler.HandleDelete)
			r.Get("/analytics", analyticsHandler.HandleAnalytics)
		})
	})

	// === Optional GitHub sign-in ===
	if s.config.GitHubClientID != "" {
		github := auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
		oauthHandler := handler.NewOAuthHandler(github, authService, s.config.ClientOrigin, s.logger)

		s.router.Get("/auth/github/login", oauthHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", oauthHandler.HandleGitHubCallback)
	} else {
		s.logger.Info("GitHub sign-in disabled (GITHUB_CLIENT_ID not set)")
	}

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the record store (flushes the sqlite WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("store", storeName(s.config)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func storeName(cfg Config) string {
	if cfg.Store == "json" {
		return "jsonfile:" + cfg.DataPath
	}
	return "sqlite:" + cfg.DBPath
}
