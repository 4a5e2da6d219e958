package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is a person enrolled in the gallery. ExternalID is the
// caller-supplied identifier (document number, employee id) and is unique
// across the gallery.
type Identity struct {
	ID          uuid.UUID              `json:"id"`
	ExternalID  string                 `json:"external_id"`
	Name        string                 `json:"name"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	PortraitKey string                 `json:"portrait_key,omitempty"`
	Embeddings  [][]float32            `json:"-"`
	// EmbeddingCount is filled by the repository. On listings the vectors
	// themselves stay in the database.
	EmbeddingCount int       `json:"embedding_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListParams narrows a gallery listing. Search matches against name and
// external_id. A zero Limit falls back to the repository default.
type ListParams struct {
	Search string
	Limit  int
	Offset int
}
