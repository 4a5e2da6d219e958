package insight

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

// Provider implements provider.Extractor against an InsightFace sidecar.
// The sidecar owns the model weights; this side only speaks its HTTP API.
type Provider struct {
	client *Client
}

// NewProvider creates a new InsightFace-backed extractor
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

func (p *Provider) Name() string {
	return "insight"
}

// Extract sends the image to the sidecar and converts its answer into
// observations. Transport failures and exhausted retries surface as
// domain.ErrModelUnavailable so callers can degrade instead of crashing.
func (p *Provider) Extract(ctx context.Context, image []byte) ([]provider.FaceObservation, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidInput
	}

	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Detect(ctx, imageBase64)
	if err != nil {
		if errors.Is(err, ErrSidecarUnavailable) || errors.Is(err, ErrInvalidResponse) {
			return nil, domain.ErrModelUnavailable.WithError(err)
		}
		if isClientError(err) {
			return nil, domain.ErrInvalidInput.WithError(err)
		}
		return nil, domain.ErrModelUnavailable.WithError(err)
	}

	obs := make([]provider.FaceObservation, 0, len(resp.Faces))
	for _, face := range resp.Faces {
		obs = append(obs, provider.FaceObservation{
			Box: provider.BoundingBox{
				X:      face.Box.X,
				Y:      face.Box.Y,
				Width:  face.Box.Width,
				Height: face.Box.Height,
			},
			Embedding:  face.Embedding,
			Confidence: clamp01(face.Confidence),
		})
	}

	provider.SortByConfidence(obs)
	return obs, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
