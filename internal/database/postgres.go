package database

import (
	"context"
	"fmt"
	"time"

	"github.com/classmark/gradebook/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewPostgresPool creates and validates a PostgreSQL connection pool.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxDBConns
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Int32("max_conns", cfg.MaxDBConns).
		Msg("PostgreSQL connected")

	return pool, nil
}

// Check pings both backing stores; used by the health endpoint.
func Check(ctx context.Context, pool *pgxpool.Pool, rdb *redis.Client) map[string]string {
	status := map[string]string{"postgres": "ok", "redis": "ok"}
	if err := pool.Ping(ctx); err != nil {
		status["postgres"] = err.Error()
	}
	if rdb == nil {
		status["redis"] = "disabled"
	} else if err := rdb.Ping(ctx).Err(); err != nil {
		status["redis"] = err.Error()
	}
	return status
}
