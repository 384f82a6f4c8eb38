// Package main provides the entry point for the career coach API server and CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/cache"
	"github.com/jonathan/career-coach/internal/config"
	"github.com/jonathan/career-coach/internal/db"
	"github.com/jonathan/career-coach/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	configPath string
	logJSON    bool
	logDebug   bool
)

var rootCmd = &cobra.Command{
	Use:           "career_coach",
	Short:         "Career coach for fractional executives",
	Long:          "Career coach matches fractional and interim executive roles to a user's profile, through a chat API or directly from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "json-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&logDebug, "debug", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the configuration and logger shared by every command
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

// loadApp reads configuration and builds the logger. Flags override
// the logging settings from the environment.
func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logJSON {
		cfg.LogJSON = true
	}
	if logDebug {
		cfg.LogDebug = true
	}

	log, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &app{cfg: cfg, logger: log}, nil
}

// openStore connects to Postgres and, when REDIS_URL is set, wraps stats in
// the Redis cache. A cache that cannot be reached is logged and skipped.
func (rt *app) openStore(ctx context.Context) (*db.DB, func(), error) {
	opts := []db.Option{db.WithLogger(rt.logger)}

	var statsCache *cache.StatsCache
	if rt.cfg.RedisURL != "" {
		c, err := cache.Connect(ctx, rt.cfg.RedisURL, rt.cfg.StatsCacheTTL, rt.logger)
		if err != nil {
			rt.logger.Warn("stats cache disabled", zap.Error(err))
		} else {
			statsCache = c
			opts = append(opts, db.WithStatsCache(c))
		}
	}

	database, err := db.Connect(ctx, rt.cfg.DatabaseURL, opts...)
	if err != nil {
		if statsCache != nil {
			_ = statsCache.Close()
		}
		return nil, nil, err
	}

	closeFn := func() {
		database.Close()
		if statsCache != nil {
			_ = statsCache.Close()
		}
		_ = rt.logger.Sync()
	}
	return database, closeFn, nil
}
