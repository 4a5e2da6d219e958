package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/facegate/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/facegate/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/facegate/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facegate/internal/audit"
	"github.com/saturnino-fabrica-de-software/facegate/internal/blobstore"
	"github.com/saturnino-fabrica-de-software/facegate/internal/cache"
	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
	"github.com/saturnino-fabrica-de-software/facegate/internal/gallery"
	"github.com/saturnino-fabrica-de-software/facegate/internal/matcher"
	"github.com/saturnino-fabrica-de-software/facegate/internal/notify"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
	"github.com/saturnino-fabrica-de-software/facegate/internal/ratelimit"
	"github.com/saturnino-fabrica-de-software/facegate/internal/repository"
	"github.com/saturnino-fabrica-de-software/facegate/internal/service"
	"github.com/saturnino-fabrica-de-software/facegate/internal/stats"
	"github.com/saturnino-fabrica-de-software/facegate/internal/webhook"
	"github.com/saturnino-fabrica-de-software/facegate/internal/ws"
)

// janitorInterval paces expired cache and rate limit counter sweeps
const janitorInterval = 10 * time.Minute

type Dependencies struct {
	Config       *config.Config
	IdentityRepo *repository.IdentityRepository
	EventRepo    *repository.EventRepository
	Extractor    provider.Extractor
	Matcher      *matcher.Matcher
	Gallery      *gallery.Cache
	// Blobs is nil when no portrait or frame storage is configured
	Blobs blobstore.Store
	DB    *pgxpool.Pool
}

type Router struct {
	app           *fiber.App
	logger        *slog.Logger
	deps          *Dependencies
	wsHub         *ws.Hub
	webhookWorker *webhook.Worker
	fanout        *notify.Fanout
	cancelHub     context.CancelFunc
	cancelWorker  context.CancelFunc
	cancelJanitor context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Facegate API",
		// Multipart frames run up to 10MB plus form overhead
		BodyLimit: 12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// API v1 group with authentication
	v1 := r.app.Group("/api/v1")

	// Only configure authenticated routes if dependencies were provided
	if r.deps != nil {
		cfg := r.deps.Config

		// WebSocket hub for the live event feed
		r.wsHub = ws.NewHub()
		hubCtx, hubCancel := context.WithCancel(context.Background())
		r.cancelHub = hubCancel
		go r.wsHub.Run(hubCtx)

		// Webhook outbox and delivery worker
		webhookService := webhook.NewService(r.deps.DB)
		r.webhookWorker = webhook.NewWorker(r.deps.DB, webhookService, r.logger, cfg.WebhookWorkerInterval, cfg.WebhookMaxAttempts)

		workerCtx, workerCancel := context.WithCancel(context.Background())
		r.cancelWorker = workerCancel
		go r.webhookWorker.Run(workerCtx)

		// Fan-out from the services to the feed and the outbox
		r.fanout = notify.NewFanout(r.wsHub, webhookService, r.logger)

		// Auth middleware
		v1.Use(middleware.Auth(cfg.APIKey))

		// Rate limiting on the pipeline routes (per client IP)
		rateLimiter := ratelimit.NewRateLimiter(r.deps.DB, time.Minute)
		enrollLimit := middleware.RateLimit(rateLimiter, "enroll", cfg.RateLimitRPM, r.logger)
		verifyLimit := middleware.RateLimit(rateLimiter, "verify", cfg.RateLimitRPM, r.logger)

		// Expired counter and cache entry sweeper
		pgCache := cache.NewPGCache(r.deps.DB)
		janitorCtx, janitorCancel := context.WithCancel(context.Background())
		r.cancelJanitor = janitorCancel
		go r.runJanitor(janitorCtx, pgCache, rateLimiter)

		auditLogger := audit.NewSlogLogger(r.logger)

		// Enrollment service and identity routes
		enrollmentService := service.NewEnrollmentService(
			r.deps.IdentityRepo,
			r.deps.Extractor,
			r.deps.Matcher,
			r.deps.Gallery,
			r.deps.Blobs,
			cfg.DuplicateThreshold,
			cfg.MinDetectionConfidence,
			r.logger,
		).WithNotifier(r.fanout).WithAudit(auditLogger)

		identityHandler := handler.NewIdentityHandler(enrollmentService, r.logger)

		v1.Post("/identities", enrollLimit, identityHandler.Enroll)
		v1.Get("/identities", identityHandler.List)
		v1.Get("/identities/:id", identityHandler.Get)
		v1.Put("/identities/:id", identityHandler.Update)
		v1.Post("/identities/:id/embeddings", enrollLimit, identityHandler.AddEmbedding)
		v1.Delete("/identities/:id", identityHandler.Delete)

		// Verification pipeline and the log behind it
		activityService := service.NewActivityService(r.deps.EventRepo, r.logger).
			WithNotifier(r.fanout).WithAudit(auditLogger)

		verificationService := service.NewVerificationService(
			r.deps.Extractor,
			r.deps.Matcher,
			r.deps.Gallery,
			activityService,
			r.logger,
		)
		if cfg.StoreEventSnapshots && r.deps.Blobs != nil {
			verificationService = verificationService.WithFrameStore(r.deps.Blobs)
		}

		verificationHandler := handler.NewVerificationHandler(verificationService, r.logger)
		v1.Post("/verifications", verifyLimit, verificationHandler.Verify)

		eventHandler := handler.NewEventHandler(activityService, r.logger)
		v1.Get("/events", eventHandler.List)

		// Cached statistics over the verification log
		statsService := stats.NewService(
			stats.NewRepository(r.deps.DB),
			stats.NewCacheAdapter(pgCache),
			cfg.StatsCacheTTL,
		)
		statsHandler := handler.NewStatsHandler(statsService, r.logger)

		v1.Get("/stats/summary", statsHandler.Summary)
		v1.Get("/stats/top-identities", statsHandler.TopIdentities)
		v1.Get("/stats/timeline", statsHandler.Timeline)

		// Live event stream; bearer auth already ran in the group middleware
		v1.Get("/events/stream", ws.UpgradeMiddleware(), ws.Handler(r.wsHub))

		// Webhook subscription management
		webhookHandler := handler.NewWebhookHandler(webhookService, r.logger)
		v1.Post("/webhooks", webhookHandler.Create)
		v1.Get("/webhooks", webhookHandler.List)
		v1.Delete("/webhooks/:id", webhookHandler.Delete)
	}
}

// runJanitor sweeps lapsed cache entries and rate limit counters. Both
// tables are unbounded without it.
func (r *Router) runJanitor(ctx context.Context, pgCache *cache.PGCache, limiter *ratelimit.RateLimiter) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := pgCache.CleanupExpired(ctx); err != nil {
				r.logger.Warn("cache cleanup failed", slog.String("error", err.Error()))
			} else if n > 0 {
				r.logger.Debug("cache entries swept", slog.Int64("removed", n))
			}

			if n, err := limiter.CleanupExpired(ctx); err != nil {
				r.logger.Warn("rate limit cleanup failed", slog.String("error", err.Error()))
			} else if n > 0 {
				r.logger.Debug("rate limit counters swept", slog.Int64("removed", n))
			}
		}
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop accepting requests and drain in-flight handlers first; they may
	// still broadcast events and enqueue deliveries.
	err := r.app.Shutdown()

	// Let pending fan-out goroutines reach the outbox before the worker stops
	if r.fanout != nil {
		r.fanout.Wait()
	}

	if r.cancelWorker != nil {
		r.cancelWorker()
	}
	if r.cancelHub != nil {
		r.cancelHub()
	}
	if r.cancelJanitor != nil {
		r.cancelJanitor()
	}

	return err
}
