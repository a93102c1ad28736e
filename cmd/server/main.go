package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/proconnect/backend/internal/router"
	"github.com/anonto42/proconnect/backend/internal/validators"
	"github.com/anonto42/proconnect/backend/pkg/ai"
	"github.com/anonto42/proconnect/backend/pkg/cache"
	"github.com/anonto42/proconnect/backend/pkg/config"
	"github.com/anonto42/proconnect/backend/pkg/firebase"
	"github.com/anonto42/proconnect/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize databases: %w", err)
	}
	defer db.Close()

	// Redis backs the summary cache and trending topics; both are optional
	redisCache, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Warn("redis unavailable, running without cache", zap.Error(err))
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	deps := router.Dependencies{
		Config: cfg,
		DB:     db,
		Cache:  redisCache,
		AI:     ai.New(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel, cfg.AITimeout, log),
		Logger: log,
	}

	// Initialize Firebase
	verifier, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, log)
	if err != nil {
		log.Warn("firebase unavailable, external login disabled", zap.Error(err))
	} else {
		deps.Identity = verifier
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e, log)
	if err := router.SetupRoutes(ctx, e, deps); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
