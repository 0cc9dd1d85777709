package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopmile/internal/config"
	"shopmile/internal/database"
	"shopmile/internal/handler"
	"shopmile/internal/promo"
	"shopmile/internal/repository"
	"shopmile/internal/router"
	"shopmile/internal/service"
	"shopmile/internal/sweep"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting shopmile API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	ledgerRepo := repository.NewLedgerRepository(pool, logger)
	shipmentRepo := repository.NewShipmentRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)

	// Initialize promo code validator when enabled
	var validator promo.Validator
	if cfg.Promo.Enabled {
		fileLoader := promo.NewFileLoader(logger)
		var loader promo.Loader = fileLoader

		if cfg.Promo.S3Enabled {
			s3Loader, err := promo.NewS3Loader(ctx, cfg.Promo.S3Bucket, cfg.Promo.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system only")
			} else {
				loader = promo.NewFallbackLoader(s3Loader, fileLoader, cfg.Promo.S3Prefix, true, logger)
			}
		}

		validatorConfig := &promo.ValidatorConfig{
			FilePaths:     cfg.Promo.FilePaths,
			MinMatchCount: cfg.Promo.MinMatchCount,
		}
		validator, err = promo.NewValidator(ctx, validatorConfig, loader, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize promo validator: %w", err)
		}
		defer validator.Close()
	} else {
		logger.Info().Msg("promo codes disabled")
	}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	mileageService := service.NewMileageService(ledgerRepo, logger)
	recorder := service.NewNotificationRecorder(notificationRepo, logger)
	orderService := service.NewOrderService(orderRepo, shipmentRepo, productRepo, mileageService, recorder, validator, cfg.Mileage, logger)
	shipmentService := service.NewShipmentService(shipmentRepo, orderRepo, orderService, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	mileageHandler := handler.NewMileageHandler(mileageService, logger)
	shipmentHandler := handler.NewShipmentHandler(shipmentService, logger)
	notificationHandler := handler.NewNotificationHandler(recorder, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, mileageHandler, shipmentHandler, notificationHandler, cfg.Auth.APIKey, logger)

	// Start the auto-ship sweep
	if cfg.Sweep.Enabled {
		sweeper := sweep.New(shipmentService, cfg.Sweep.Interval, logger)
		go sweeper.Run(ctx)
	} else {
		logger.Info().Msg("auto-ship sweep disabled")
	}

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

		// Stop the sweeper before draining in-flight requests
		cancel()

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
