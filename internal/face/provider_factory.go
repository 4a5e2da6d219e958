package face

import (
	"fmt"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider/insight"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider/pixel"
)

// NewExtractor creates an Extractor instance based on configuration.
//
// Environment variables:
//   - FACE_PROVIDER: "insight", "pixel", "mock" or "auto" (default: "auto")
//   - INSIGHT_URL: InsightFace sidecar URL (default: "http://localhost:18081")
//   - EMBEDDING_DIMENSION: embedding size for pixel/mock extractors
//
// "auto" runs the InsightFace sidecar as primary and degrades to the pixel
// extractor per call while the sidecar is unreachable.
func NewExtractor(cfg *config.Config, logger *slog.Logger) (provider.Extractor, error) {
	switch cfg.FaceProvider {
	case config.ProviderInsight:
		return createInsightExtractor(cfg), nil

	case config.ProviderPixel:
		return pixel.New(cfg.EmbeddingDimension), nil

	case config.ProviderMock:
		return mock.New(cfg.EmbeddingDimension), nil

	case config.ProviderAuto, "":
		return provider.NewFailover(
			createInsightExtractor(cfg),
			pixel.New(cfg.EmbeddingDimension),
			logger,
		), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s, %s)",
			cfg.FaceProvider, config.ProviderInsight, config.ProviderPixel,
			config.ProviderMock, config.ProviderAuto)
	}
}

// createInsightExtractor creates an InsightFace sidecar extractor instance
func createInsightExtractor(cfg *config.Config) *insight.Provider {
	insightConfig := insight.Config{
		BaseURL:    cfg.InsightURL,
		Timeout:    cfg.InsightTimeout,
		RetryCount: cfg.InsightRetryCount,
	}

	// Use defaults for anything not configured (model, timeout)
	if insightConfig.BaseURL == "" {
		insightConfig.BaseURL = insight.DefaultConfig().BaseURL
	}

	return insight.NewProvider(insightConfig)
}
