// Package main is the entry point for the job application tracker server.
//
// The main package is kept minimal — its job is to:
// 1. Read configuration from environment variables
// 2. Create the logger
// 3. Hand everything to internal/server and start
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). This separation keeps the app testable and its
// components reusable.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/jobtrack/internal/server"
)

func main() {
	// slog.New creates a structured logger; TextHandler outputs
	// human-readable lines to the terminal. In production you'd raise the
	// level to Info or Warn to reduce noise.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === CONFIGURATION ===
	// Everything comes from env vars with sensible defaults. For an app
	// this size a config library (viper etc.) would be more machinery than
	// configuration.
	port := 4000
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// JWT_SECRET must be a long random string. Use:
	//   JWT_SECRET=$(openssl rand -hex 32)
	// Unlike optional integrations, auth is the core of this API — refuse
	// to start without a secret rather than limp along.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required (try: openssl rand -hex 32)")
		os.Exit(1)
	}

	// STORE selects the record store: "sqlite" (default) or "json" for the
	// single-document JSON file layout.
	cfg := server.Config{
		Port:         port,
		Store:        os.Getenv("STORE"),
		DBPath:       envOr("DB_PATH", "data/jobtrack.db"),
		DataPath:     envOr("DATA_PATH", "data/db.json"),
		JWTSecret:    jwtSecret,
		ClientOrigin: envOr("CLIENT_ORIGIN", "http://localhost:5173"),

		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  os.Getenv("GITHUB_CALLBACK_URL"),
	}
	if cfg.GitHubClientID != "" && cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", port)
	}

	// The sqlite driver won't create missing parent directories.
	if dir := filepath.Dir(cfg.DBPath); cfg.Store == "" || cfg.Store == "sqlite" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create data directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// envOr returns the env var's value, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
