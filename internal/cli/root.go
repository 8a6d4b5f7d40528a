// Package cli holds the townkart command tree.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/townkart-backend/internal/config"
	"github.com/georgemunganga/townkart-backend/internal/database"
)

var rootCmd = &cobra.Command{
	Use:   "townkart",
	Short: "TownKart marketplace and car rental API",
	Long: `TownKart serves the marketplace API (users, categories, products,
orders, reports) and the car rental bookings API.

Run "townkart serve" to start the HTTP server. Configuration is read from
the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns a JSON logger in production and a text logger otherwise.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// bootstrap loads configuration, installs the default logger and opens the
// database.
func bootstrap(ctx context.Context) (*config.Config, *slog.Logger, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, logger, db, nil
}
