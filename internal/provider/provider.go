package provider

import (
	"context"
	"sort"
)

// Extractor wraps a face detection/embedding model. Implementations must be
// safe for concurrent use by multiple requests.
type Extractor interface {
	// Extract returns one observation per face found in the image, ordered
	// by detection confidence descending. An empty slice means no face was
	// found and is not an error. An empty or undecodable image yields
	// domain.ErrInvalidInput; an unreachable model domain.ErrModelUnavailable.
	Extract(ctx context.Context, image []byte) ([]FaceObservation, error)

	// Name identifies the extractor variant in logs and audit records.
	Name() string
}

// FaceObservation is a single detected face: where it sits in the frame,
// its embedding and how confident the detector is. Observations are
// transient and never persisted as-is.
type FaceObservation struct {
	Box        BoundingBox `json:"box"`
	Embedding  []float32   `json:"embedding"`
	Confidence float64     `json:"confidence"`
}

// BoundingBox is the face area in pixel coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the box surface in square pixels.
func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}

// SortByConfidence orders observations confidence-descending in place.
// Extractors call it before returning so callers can rely on the order.
func SortByConfidence(obs []FaceObservation) {
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Confidence > obs[j].Confidence
	})
}
