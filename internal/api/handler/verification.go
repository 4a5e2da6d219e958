package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// VerifierService interface for the verification service
type VerifierService interface {
	Verify(ctx context.Context, imageBytes []byte, source domain.Source) (*domain.VerificationEvent, error)
}

// VerificationHandler handles verification requests
type VerificationHandler struct {
	service VerifierService
	logger  *slog.Logger
}

// NewVerificationHandler creates a new VerificationHandler instance
func NewVerificationHandler(service VerifierService, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{
		service: service,
		logger:  logger,
	}
}

// MatchedIdentity identifies the matched person in a verification response
type MatchedIdentity struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// VerificationResponse response for the verify endpoint. Score is null when
// no face was extracted or the gallery was empty; Identity is set only on a
// match.
type VerificationResponse struct {
	EventID   string           `json:"event_id"`
	Decision  string           `json:"decision"`
	Score     *float64         `json:"score"`
	Identity  *MatchedIdentity `json:"identity,omitempty"`
	Source    string           `json:"source"`
	CreatedAt string           `json:"created_at"`
}

// Verify POST /api/v1/verifications - verify a face against the gallery
func (h *VerificationHandler) Verify(c *fiber.Ctx) error {
	// 1. Parse optional source field
	source, err := parseSource(c.FormValue("source"))
	if err != nil {
		return err
	}

	// 2. Extract and validate image
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	// 3. Call service; every accepted frame ends in a recorded event
	event, err := h.service.Verify(c.Context(), imageBytes, source)
	if err != nil {
		return err
	}

	// 4. Return response
	resp := VerificationResponse{
		EventID:   event.ID.String(),
		Decision:  string(event.Decision),
		Score:     event.Score,
		Source:    string(event.Source),
		CreatedAt: event.CreatedAt.UTC().Format(time.RFC3339),
	}
	if event.IdentityID != nil {
		resp.Identity = &MatchedIdentity{
			ID:   event.IdentityID.String(),
			Name: event.IdentityName,
		}
	}
	return c.JSON(resp)
}

// parseSource validates the optional source form value. Empty defaults to
// upload inside the service.
func parseSource(raw string) (domain.Source, error) {
	switch domain.Source(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case domain.SourceLive:
		return domain.SourceLive, nil
	case domain.SourceUpload:
		return domain.SourceUpload, nil
	default:
		return "", domain.ErrValidationFailed.WithError(errors.New("source must be live or upload"))
	}
}
