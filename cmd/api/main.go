package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feastly/internal/catalog"
	"feastly/internal/config"
	"feastly/internal/database"
	"feastly/internal/events"
	"feastly/internal/handler"
	"feastly/internal/repository"
	"feastly/internal/router"
	"feastly/internal/service"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting feastly API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Apply schema migrations
	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	paymentRepo := repository.NewPaymentRepository(pool, logger)

	// Initialize catalog accessor with optional Redis read-through cache
	catalogAccessor := catalog.NewAccessor(catalogRepo, logger)

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to reach redis, serving catalog reads from the database only")
		} else {
			ttl := time.Duration(cfg.Redis.TTL) * time.Second
			catalogAccessor = catalog.NewCachedAccessor(catalogAccessor, client, ttl, logger)
			defer client.Close()
		}
	} else {
		logger.Info().Msg("catalog cache disabled, serving reads from the database")
	}

	// Initialize event publisher with a no-op fallback
	var publisher events.Publisher = events.NopPublisher{}

	if cfg.Events.Enabled {
		amqpPublisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to connect to the message broker, order events will not be published")
		} else {
			publisher = amqpPublisher
		}
	} else {
		logger.Info().Msg("event publishing disabled")
	}
	defer publisher.Close()

	// Initialize services
	orderService := service.NewOrderService(orderRepo, userRepo, catalogAccessor, publisher, logger)
	paymentService := service.NewPaymentService(paymentRepo, orderRepo, userRepo, publisher, logger)
	catalogService := service.NewCatalogService(catalogRepo, logger)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)
	methodHandler := handler.NewPaymentMethodHandler(paymentService, logger)
	restaurantHandler := handler.NewRestaurantHandler(catalogService, logger)

	// Initialize router
	mux := router.New(orderHandler, paymentHandler, methodHandler, restaurantHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
