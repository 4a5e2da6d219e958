package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// Auth creates an authentication middleware checking the static API key.
// Comparison runs over SHA-256 digests in constant time, so neither key
// length nor a shared prefix leaks through response timing.
func Auth(apiKey string) fiber.Handler {
	expected := sha256.Sum256([]byte(apiKey))

	return func(c *fiber.Ctx) error {
		// 1. Extract Bearer token
		token := extractBearerToken(c)
		if token == "" {
			return domain.ErrUnauthorized
		}

		// 2. Compare digests
		got := sha256.Sum256([]byte(token))
		if subtle.ConstantTimeCompare(got[:], expected[:]) != 1 {
			return domain.ErrUnauthorized
		}

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
