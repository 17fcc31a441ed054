package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/gemiwell/server/gemiwell/messages"
	"codeberg.org/gemiwell/server/gemiwell/profiles"
	"codeberg.org/gemiwell/server/gemiwell/reports"
	"codeberg.org/gemiwell/server/internal/config"
	"codeberg.org/gemiwell/server/internal/feed"
	"codeberg.org/gemiwell/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// pooler friendly: small pool, no prepared statements
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	services, err := InitializeServices(ctx, cfg)
	if err != nil {
		rdb.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	limit, err := ratelimit.Middleware(rdb, cfg.GenerationRateLimit)
	if err != nil {
		rdb.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		db:          db,
		redis:       rdb,
		config:      cfg,
		profileRepo: profiles.NewRepository(db),
		messageRepo: messages.NewRepository(db),
		reportRepo:  reports.NewRepository(db),
		services:    services,
		hub:         feed.NewHub(),
		publisher:   feed.NewPublisher(rdb),
		limit:       limit,
		router:      router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
