package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/stats"
)

// StatsService interface for cached event aggregates
type StatsService interface {
	Summary(ctx context.Context, hours int) (*stats.Summary, error)
	TopIdentities(ctx context.Context, hours, limit int) ([]stats.TopIdentity, error)
	Timeline(ctx context.Context, hours int) ([]stats.TimelineBucket, error)
}

// StatsHandler handles statistics requests
type StatsHandler struct {
	service StatsService
	logger  *slog.Logger
}

// NewStatsHandler creates a new StatsHandler instance
func NewStatsHandler(service StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger,
	}
}

// TopIdentitiesResponse response for the top identities endpoint
type TopIdentitiesResponse struct {
	Identities []stats.TopIdentity `json:"identities"`
}

// TimelineResponse response for the timeline endpoint
type TimelineResponse struct {
	Buckets []stats.TimelineBucket `json:"buckets"`
}

// Summary GET /api/v1/stats/summary - verification counts over a window
func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context(), c.QueryInt("hours", 0))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// TopIdentities GET /api/v1/stats/top-identities - most matched identities
func (h *StatsHandler) TopIdentities(c *fiber.Ctx) error {
	identities, err := h.service.TopIdentities(c.Context(), c.QueryInt("hours", 0), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(TopIdentitiesResponse{Identities: identities})
}

// Timeline GET /api/v1/stats/timeline - hourly match counts over a window
func (h *StatsHandler) Timeline(c *fiber.Ctx) error {
	buckets, err := h.service.Timeline(c.Context(), c.QueryInt("hours", 0))
	if err != nil {
		return err
	}
	return c.JSON(TimelineResponse{Buckets: buckets})
}
