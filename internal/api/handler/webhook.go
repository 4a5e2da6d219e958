package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/webhook"
)

// WebhookService interface for subscription management
type WebhookService interface {
	CreateSubscription(ctx context.Context, sub *webhook.Subscription) error
	ListSubscriptions(ctx context.Context) ([]webhook.Subscription, error)
	DeleteSubscription(ctx context.Context, id uuid.UUID) error
}

// WebhookHandler handles webhook subscription requests
type WebhookHandler struct {
	service WebhookService
	logger  *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler instance
func NewWebhookHandler(service WebhookService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger,
	}
}

// CreateWebhookRequest request body for subscription creation. Secret is
// optional; one is generated when absent.
type CreateWebhookRequest struct {
	URL    string `json:"url"`
	Secret string `json:"secret"`
}

// WebhookResponse response for webhook listings. The signing secret is
// never included.
type WebhookResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

// CreateWebhookResponse response for subscription creation. This is the
// only place the signing secret is ever returned.
type CreateWebhookResponse struct {
	WebhookResponse
	Secret string `json:"secret"`
}

// ListWebhooksResponse response for the list endpoint
type ListWebhooksResponse struct {
	Webhooks []WebhookResponse `json:"webhooks"`
}

func newWebhookResponse(sub *webhook.Subscription) WebhookResponse {
	return WebhookResponse{
		ID:        sub.ID.String(),
		URL:       sub.URL,
		Active:    sub.Active,
		CreatedAt: sub.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create POST /api/v1/webhooks - register a delivery endpoint
func (h *WebhookHandler) Create(c *fiber.Ctx) error {
	var req CreateWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if strings.TrimSpace(req.URL) == "" {
		return domain.ErrValidationFailed.WithError(errors.New("url is required"))
	}

	sub := &webhook.Subscription{
		URL:    strings.TrimSpace(req.URL),
		Secret: req.Secret,
		Active: true,
	}
	if err := h.service.CreateSubscription(c.Context(), sub); err != nil {
		return err
	}

	h.logger.InfoContext(c.Context(), "webhook subscription created",
		slog.String("subscription_id", sub.ID.String()),
		slog.String("url", sub.URL),
	)

	return c.Status(fiber.StatusCreated).JSON(CreateWebhookResponse{
		WebhookResponse: newWebhookResponse(sub),
		Secret:          sub.Secret,
	})
}

// List GET /api/v1/webhooks - list registered endpoints
func (h *WebhookHandler) List(c *fiber.Ctx) error {
	subs, err := h.service.ListSubscriptions(c.Context())
	if err != nil {
		return err
	}

	items := make([]WebhookResponse, 0, len(subs))
	for i := range subs {
		items = append(items, newWebhookResponse(&subs[i]))
	}

	return c.JSON(ListWebhooksResponse{Webhooks: items})
}

// Delete DELETE /api/v1/webhooks/:id - remove an endpoint and its queue
func (h *WebhookHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("id must be a UUID"))
	}

	if err := h.service.DeleteSubscription(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
