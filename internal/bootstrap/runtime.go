// Package bootstrap wires the process-wide runtime shared by the server and the CLIs.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/observability"
	"yatube/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedGroups upserts the built-in groups after connecting.
	SeedGroups bool
	// RequireRedis fails initialization when Redis is unreachable.
	RequireRedis bool
}

// InitRuntime connects to the database and Redis. Unless opts.RequireRedis is set an
// unreachable Redis yields a nil client and a warning.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rdb, err := cache.Connect(connectCtx, cfg.RedisURL)
	if err != nil {
		if opts.RequireRedis {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		middleware.Logger.Warn("redis unavailable, continuing without page cache",
			slog.String("error", err.Error()),
		)
		rdb = nil
	}

	if opts.SeedGroups {
		if _, err := seed.Groups(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in groups: %w", err)
		}
	}

	return db, rdb, nil
}

// InitTracing starts the tracer provider configured by cfg and returns its shutdown func.
func InitTracing(cfg *config.Config, version string) (func(context.Context) error, error) {
	return observability.InitTracing(observability.TracingConfig{
		ServiceName:    "yatube",
		ServiceVersion: version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
}
