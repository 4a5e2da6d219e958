package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// IdentityService interface for the enrollment service
type IdentityService interface {
	Enroll(ctx context.Context, imageBytes []byte, externalID, name string, metadata map[string]interface{}) (*domain.Identity, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	List(ctx context.Context, params domain.ListParams) ([]domain.Identity, int, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, externalID, name string, metadata map[string]interface{}) (*domain.Identity, error)
	AddReferenceImage(ctx context.Context, id uuid.UUID, imageBytes []byte) (*domain.Identity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IdentityHandler handles gallery CRUD requests
type IdentityHandler struct {
	service IdentityService
	logger  *slog.Logger
}

// NewIdentityHandler creates a new IdentityHandler instance
func NewIdentityHandler(service IdentityService, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{
		service: service,
		logger:  logger,
	}
}

// IdentityResponse response for identity endpoints
type IdentityResponse struct {
	ID             string                 `json:"id"`
	ExternalID     string                 `json:"external_id"`
	Name           string                 `json:"name"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	PortraitKey    string                 `json:"portrait_key,omitempty"`
	EmbeddingCount int                    `json:"embedding_count"`
	CreatedAt      string                 `json:"created_at"`
	UpdatedAt      string                 `json:"updated_at"`
}

// ListIdentitiesResponse response for the list endpoint
type ListIdentitiesResponse struct {
	Identities []IdentityResponse `json:"identities"`
	Total      int                `json:"total"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// UpdateIdentityRequest request body for the update endpoint. Empty fields
// keep the stored value; a non-null empty metadata object clears metadata.
type UpdateIdentityRequest struct {
	ExternalID string                 `json:"external_id"`
	Name       string                 `json:"name"`
	Metadata   map[string]interface{} `json:"metadata"`
}

func newIdentityResponse(identity *domain.Identity) IdentityResponse {
	count := identity.EmbeddingCount
	if count == 0 {
		count = len(identity.Embeddings)
	}
	return IdentityResponse{
		ID:             identity.ID.String(),
		ExternalID:     identity.ExternalID,
		Name:           identity.Name,
		Metadata:       identity.Metadata,
		PortraitKey:    identity.PortraitKey,
		EmbeddingCount: count,
		CreatedAt:      identity.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      identity.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Enroll POST /api/v1/identities - enroll a new identity
func (h *IdentityHandler) Enroll(c *fiber.Ctx) error {
	// 1. Extract form fields
	externalID := strings.TrimSpace(c.FormValue("external_id"))
	if externalID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("external_id is required"))
	}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	// 2. Parse optional metadata JSON
	metadata, err := parseMetadata(c.FormValue("metadata"))
	if err != nil {
		return err
	}

	// 3. Extract and validate image
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("enroll identity: %w", err)
	}

	// 4. Call service to enroll
	identity, err := h.service.Enroll(c.Context(), imageBytes, externalID, name, metadata)
	if err != nil {
		return err
	}

	// 5. Return response
	return c.Status(fiber.StatusCreated).JSON(newIdentityResponse(identity))
}

// List GET /api/v1/identities - list enrolled identities
func (h *IdentityHandler) List(c *fiber.Ctx) error {
	params := domain.ListParams{
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if params.Limit <= 0 {
		params.Limit = 50
	}
	if params.Limit > 200 {
		params.Limit = 200
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	identities, total, err := h.service.List(c.Context(), params)
	if err != nil {
		return err
	}

	items := make([]IdentityResponse, 0, len(identities))
	for i := range identities {
		items = append(items, newIdentityResponse(&identities[i]))
	}

	return c.JSON(ListIdentitiesResponse{
		Identities: items,
		Total:      total,
		Limit:      params.Limit,
		Offset:     params.Offset,
	})
}

// Get GET /api/v1/identities/:id - get one identity
func (h *IdentityHandler) Get(c *fiber.Ctx) error {
	id, err := parseIdentityID(c)
	if err != nil {
		return err
	}

	identity, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(newIdentityResponse(identity))
}

// Update PUT /api/v1/identities/:id - update identity fields
func (h *IdentityHandler) Update(c *fiber.Ctx) error {
	id, err := parseIdentityID(c)
	if err != nil {
		return err
	}

	var req UpdateIdentityRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if req.ExternalID == "" && req.Name == "" && req.Metadata == nil {
		return domain.ErrValidationFailed.WithError(errors.New("nothing to update"))
	}

	identity, err := h.service.UpdateMetadata(c.Context(), id, strings.TrimSpace(req.ExternalID), strings.TrimSpace(req.Name), req.Metadata)
	if err != nil {
		return err
	}

	return c.JSON(newIdentityResponse(identity))
}

// AddEmbedding POST /api/v1/identities/:id/embeddings - add a reference image
func (h *IdentityHandler) AddEmbedding(c *fiber.Ctx) error {
	id, err := parseIdentityID(c)
	if err != nil {
		return err
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("add reference image: %w", err)
	}

	identity, err := h.service.AddReferenceImage(c.Context(), id, imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(newIdentityResponse(identity))
}

// Delete DELETE /api/v1/identities/:id - delete identity and its embeddings
func (h *IdentityHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIdentityID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseIdentityID parses the :id path parameter
func parseIdentityID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithError(errors.New("id must be a UUID"))
	}
	return id, nil
}

// parseMetadata decodes the optional metadata form field
func parseMetadata(raw string) (map[string]interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var metadata map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("metadata must be a JSON object: %w", err))
	}
	return metadata, nil
}

// extractAndValidateImage extracts and validates the image from the form
func extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	// 1. Extract file
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(errors.New("image file is required"))
	}

	// 2. Validate size
	if file.Size > maxImageSize {
		return nil, domain.ErrInvalidInput.WithError(fmt.Errorf("image exceeds %d bytes", maxImageSize))
	}

	if file.Size == 0 {
		return nil, domain.ErrInvalidInput.WithError(errors.New("image is empty"))
	}

	// 3. Validate Content-Type
	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidInput.WithError(fmt.Errorf("unsupported content type %q", contentType))
	}

	// 4. Read image bytes
	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidInput.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidInput.WithError(err)
	}

	return imageBytes, nil
}
