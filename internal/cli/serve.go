package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/georgemunganga/townkart-backend/internal/config"
	"github.com/georgemunganga/townkart-backend/internal/database"
	"github.com/georgemunganga/townkart-backend/internal/platform/telemetry"
	"github.com/georgemunganga/townkart-backend/internal/server"
)

const serviceName = "townkart-api"

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Apply pending migrations and serve the API until SIGINT or SIGTERM.

Setting REDIS_ADDR enables the category cache and setting
OTEL_EXPORTER_OTLP_ENDPOINT enables trace export.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending migrations on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if !skipMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	rdb := openRedis(ctx, cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	modules := server.NewModules(cfg, db, rdb, logger)
	srv := server.New(cfg.Port, server.NewRouter(cfg, modules), logger)
	logger.Info("configuration loaded", "env", cfg.Env, "port", cfg.Port, "cache", rdb != nil, "tracing", cfg.OTLPEndpoint != "")
	return srv.Run(ctx)
}

// openRedis returns nil when caching is disabled. An unreachable server is
// logged and kept, since the cache falls back to the database per request.
func openRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, category cache will fall back to the database", "addr", cfg.RedisAddr, "error", err)
	}
	return rdb
}
