package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// ActivityService interface for the verification log
type ActivityService interface {
	List(ctx context.Context, filter domain.EventFilter) ([]domain.VerificationEvent, int, error)
}

// EventHandler handles verification log queries
type EventHandler struct {
	service ActivityService
	logger  *slog.Logger
}

// NewEventHandler creates a new EventHandler instance
func NewEventHandler(service ActivityService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

// EventResponse response item for the events endpoint
type EventResponse struct {
	ID           string   `json:"id"`
	IdentityID   string   `json:"identity_id,omitempty"`
	IdentityName string   `json:"identity_name,omitempty"`
	QueryHash    string   `json:"query_hash"`
	Score        *float64 `json:"score"`
	Decision     string   `json:"decision"`
	Source       string   `json:"source"`
	SnapshotKey  string   `json:"snapshot_key,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

// ListEventsResponse response for the events endpoint
type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// List GET /api/v1/events - query the verification log newest-first
func (h *EventHandler) List(c *fiber.Ctx) error {
	filter, err := parseEventFilter(c)
	if err != nil {
		return err
	}

	events, total, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}

	items := make([]EventResponse, 0, len(events))
	for i := range events {
		items = append(items, newEventResponse(&events[i]))
	}

	return c.JSON(ListEventsResponse{
		Events: items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func newEventResponse(event *domain.VerificationEvent) EventResponse {
	resp := EventResponse{
		ID:           event.ID.String(),
		IdentityName: event.IdentityName,
		QueryHash:    event.QueryHash,
		Score:        event.Score,
		Decision:     string(event.Decision),
		Source:       string(event.Source),
		SnapshotKey:  event.SnapshotKey,
		CreatedAt:    event.CreatedAt.UTC().Format(time.RFC3339),
	}
	if event.IdentityID != nil {
		resp.IdentityID = event.IdentityID.String()
	}
	return resp
}

// parseEventFilter builds the log filter from query parameters
func parseEventFilter(c *fiber.Ctx) (domain.EventFilter, error) {
	filter := domain.EventFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, domain.ErrValidationFailed.WithError(fmt.Errorf("since must be RFC3339: %w", err))
		}
		filter.Since = &since
	}

	if raw := strings.TrimSpace(c.Query("until")); raw != "" {
		until, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, domain.ErrValidationFailed.WithError(fmt.Errorf("until must be RFC3339: %w", err))
		}
		filter.Until = &until
	}

	if raw := strings.TrimSpace(c.Query("identity_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, domain.ErrValidationFailed.WithError(errors.New("identity_id must be a UUID"))
		}
		filter.IdentityID = &id
	}

	if raw := strings.TrimSpace(c.Query("decision")); raw != "" {
		decision := domain.Decision(raw)
		if decision != domain.DecisionMatch && decision != domain.DecisionNoMatch {
			return filter, domain.ErrValidationFailed.WithError(errors.New("decision must be match or no_match"))
		}
		filter.Decision = &decision
	}

	return filter, nil
}
