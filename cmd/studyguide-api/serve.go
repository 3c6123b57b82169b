package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rivermin01/personal-study-guide/internal/config"
	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/middleware"
	"github.com/rivermin01/personal-study-guide/internal/repository"
	"github.com/rivermin01/personal-study-guide/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

// newLogger builds the process logger from the logging section
func newLogger(cfg config.LoggingConfig) logger.Logger {
	return logger.NewSlogLogger(logger.Config{
		Level:      logger.ParseLevel(cfg.Level),
		Format:     cfg.Format,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	log := newLogger(cfg.Logging)
	logger.SetDefault(log)

	log.Info("starting study guide API server",
		logger.String("env", cfg.Server.Env),
		logger.String("store", cfg.Store.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newSessionStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close session store", logger.Err(err))
		}
	}()

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled && cfg.RateLimit.Requests > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, "general")
		defer limiter.Stop()
	}

	// Set Gin mode based on environment
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(routerDeps{
		cfg:         cfg,
		log:         log,
		store:       store,
		idempotency: repository.NewIdempotencyRepository(cfg.Idempotency.Size, cfg.Idempotency.TTL),
		limiter:     limiter,
		clock:       service.SystemClock,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server", logger.Duration("timeout", cfg.Server.ShutdownTimeout))

	// The signal context is already canceled
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	<-errCh

	log.Info("server stopped")
	return nil
}
