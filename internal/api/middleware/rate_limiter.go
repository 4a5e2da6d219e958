package middleware

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/ratelimit"
)

// RateLimit counts requests per client IP against the shared Postgres
// counter and rejects the overflow with 429. Scope separates the counters
// of different route groups, so heavy verification traffic cannot starve
// enrollment.
func RateLimit(limiter *ratelimit.RateLimiter, scope string, rpm int, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := limiter.Allow(c.Context(), scope, c.IP(), rpm)
		if err == nil {
			c.Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			return c.Next()
		}

		if errors.Is(err, domain.ErrRateLimitExceeded) {
			c.Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			// Counters roll over after at most one full window
			c.Set("Retry-After", "60")
			return domain.ErrRateLimitExceeded
		}

		// A counter outage must not take the pipeline down with it
		logger.WarnContext(c.Context(), "rate limit check failed, allowing request",
			slog.String("scope", scope),
			slog.String("ip", c.IP()),
			slog.String("error", err.Error()),
		)
		return c.Next()
	}
}
