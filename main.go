package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"storefront-cache/internal/cache"
	"storefront-cache/internal/common/logging"
	"storefront-cache/internal/config"
	"storefront-cache/internal/handlers"
	"storefront-cache/internal/redis"
	"storefront-cache/internal/server"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logging
	logger, err := logging.NewZapLogger(logging.LogConfig{
		Level: logging.ParseLevel(cfg.LogLevel),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logging.SetGlobalLogger(logger)
	defer logging.MustSync()

	// Initialize the remote tier only when configured. A missing endpoint or
	// credential disables it for the lifetime of the process; the facade then
	// serves everything from the local tier.
	var remote cache.RemoteClient
	if cfg.IsConfigured() {
		client, err := redis.NewClient(&redis.Config{
			Endpoint:   cfg.Endpoint,
			Credential: cfg.Credential,
			PoolSize:   cfg.PoolSize,
		})
		if err != nil {
			log.Fatalf("Failed to initialize remote cache client: %v", err)
		}
		remote = client
	} else {
		logger.Warn("remote cache tier not configured, serving from local tier only")
	}

	// The single cache facade instance for the process.
	c := cache.New(cfg, remote, cache.WithLogger(logger))
	defer c.Close()

	// Set up routes
	router := mux.NewRouter()
	handlers.New(c, logger).Routes(router)

	srv := server.New(router, cfg.Port)
	srvErr := srv.Start()

	logger.Info("cache service started",
		logging.String("port", cfg.Port),
		logging.Bool("remote_configured", cfg.IsConfigured()),
	)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		logger.Error("server failed", err)
	case sig := <-quit:
		logger.Info("shutting down", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", err)
	}

	logger.Info("cache service exited")
}
