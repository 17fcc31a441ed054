package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/gemiwell/server/internal/config"
	"codeberg.org/gemiwell/server/internal/feed"
	"codeberg.org/gemiwell/server/internal/logger"
	"codeberg.org/gemiwell/server/internal/telemetry"
)

const version = "1.0.0"

// @title GemiWell API
// @version 1.0
// @description AI health companion
// @description
// @description Features:
// @description - Lifestyle advice chat personalised with the user's profile and reports
// @description - Medical report analysis from text, photos and PDFs
// @description - Doctor vs AI reasoning comparison
// @description - Live profile, message and report updates over WebSockets

// @contact.name API Support
// @contact.url https://codeberg.org/gemiwell/server

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authenticated requests. Format: Bearer {token}

func main() {
	logger.Info("starting gemiwell server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	logger.SetOutput(cfg.Environment, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := telemetry.Init(ctx, "gemiwell", version); err != nil {
		logger.Fatal("failed to initialize telemetry", "error", err)
	}

	// create server with all dependencies
	srv, err := NewServer(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     srv.router,
		ReadTimeout: 30 * time.Second,
		// report analysis can take a while
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// start websocket hub and the redis relay feeding it
	go srv.hub.Run()

	relayCtx, relayCancel := context.WithCancel(context.Background())
	go func() {
		if err := feed.Relay(relayCtx, srv.redis, srv.hub); err != nil {
			logger.ErrorErr(err, "feed relay stopped")
		}
	}()

	// wait for interrupt signal for graceful shutdown
	<-ctx.Done()

	logger.Info("shutting down server")

	// notify websocket clients and close connections first
	relayCancel()
	srv.hub.Shutdown()

	// graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	telemetry.Shutdown(shutdownCtx)

	// close Redis connection
	srv.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown

	// close database connection
	srv.db.Close()

	logger.Info("server stopped")
}
