package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/saturnino-fabrica-de-software/facegate/internal/api"
	"github.com/saturnino-fabrica-de-software/facegate/internal/blobstore"
	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
	"github.com/saturnino-fabrica-de-software/facegate/internal/database"
	"github.com/saturnino-fabrica-de-software/facegate/internal/face"
	"github.com/saturnino-fabrica-de-software/facegate/internal/gallery"
	"github.com/saturnino-fabrica-de-software/facegate/internal/matcher"
	"github.com/saturnino-fabrica-de-software/facegate/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development reads .env; in containers the variables are
	// injected and the file is absent.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Facegate API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("distance_metric", cfg.DistanceMetric),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database pool
	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.ConnectionURI))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Embedding extractor. "auto" probes InsightFace and falls back to
	// the pixel extractor, so startup still logs which one won.
	extractor, err := face.NewExtractor(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	m, err := matcher.New(cfg.DistanceMetric, cfg.MatchThreshold)
	if err != nil {
		return fmt.Errorf("failed to create matcher: %w", err)
	}

	identityRepo := repository.NewIdentityRepository(pool)
	eventRepo := repository.NewEventRepository(pool)

	// Gallery snapshot cache, warmed before traffic arrives
	galleryCache := gallery.NewCache(identityRepo, cfg.EmbeddingDimension, logger)
	if err := galleryCache.Warm(ctx); err != nil {
		return fmt.Errorf("failed to warm gallery: %w", err)
	}

	blobs, err := blobstore.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create blob store: %w", err)
	}
	if ms, ok := blobs.(*blobstore.MinioStore); ok {
		if err := ms.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure minio bucket: %w", err)
		}
	}

	router := api.NewRouter(logger, &api.Dependencies{
		Config:       cfg,
		IdentityRepo: identityRepo,
		EventRepo:    eventRepo,
		Extractor:    extractor,
		Matcher:      m,
		Gallery:      galleryCache,
		Blobs:        blobs,
		DB:           pool,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	done := make(chan error, 1)
	go func() {
		done <- router.Shutdown()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timed out, exiting anyway")
	}

	logger.Info("server stopped")
	return nil
}
