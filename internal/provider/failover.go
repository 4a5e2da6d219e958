package provider

import (
	"context"
	"errors"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// Failover delegates to a primary extractor and, only when the primary
// reports the model as unavailable, retries the call on the fallback. Other
// failures (invalid input, context cancellation) pass through untouched, so
// degraded mode never hides caller mistakes.
type Failover struct {
	primary  Extractor
	fallback Extractor
	logger   *slog.Logger
}

func NewFailover(primary, fallback Extractor, logger *slog.Logger) *Failover {
	return &Failover{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *Failover) Extract(ctx context.Context, image []byte) ([]FaceObservation, error) {
	obs, err := f.primary.Extract(ctx, image)
	if err == nil {
		return obs, nil
	}

	if !errors.Is(err, domain.ErrModelUnavailable) {
		return nil, err
	}

	f.logger.Warn("primary extractor unavailable, degrading to fallback",
		slog.String("primary", f.primary.Name()),
		slog.String("fallback", f.fallback.Name()),
		slog.Any("error", err),
	)

	return f.fallback.Extract(ctx, image)
}

func (f *Failover) Name() string {
	return f.primary.Name() + "+" + f.fallback.Name()
}
