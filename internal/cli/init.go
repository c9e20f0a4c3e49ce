// Package cli provides common CLI initialization utilities shared by
// cmd/ledgerd and cmd/ledgerd-worker.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ledgerd/internal/config"
)

// SetupLogger initializes structured logging with default settings.
// Logs go to stderr; stdout is reserved for the request/response protocol.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}
