// Package pixel is the fallback extractor used when no face model is
// reachable. It has no model at all: it treats the dominant center region of
// the frame as the single face and derives a coarse embedding from
// downsampled luminance. Accuracy is far below a real model; the point is
// that enrollment and verification keep working, degraded, until the primary
// extractor is back.
package pixel

import (
	"bytes"
	"context"
	"image"
	"math"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

const (
	// minFaceArea is the face area (pixels²) below which detection
	// confidence bottoms out
	minFaceArea = 2500 // 50x50
	// maxFaceArea is used for confidence scaling
	maxFaceArea = 250000 // 500x500
)

// Extractor implements provider.Extractor without any external model.
type Extractor struct {
	dim int
}

// New creates a fallback extractor emitting embeddings of the given
// dimension.
func New(dim int) *Extractor {
	return &Extractor{dim: dim}
}

func (e *Extractor) Name() string {
	return "pixel"
}

// Extract decodes the frame, crops the center square and turns it into a
// normalized luminance vector. A frame with no usable contrast (solid color,
// black frame) yields zero observations.
func (e *Extractor) Extract(ctx context.Context, imageBytes []byte) ([]provider.FaceObservation, error) {
	if len(imageBytes) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, domain.ErrInvalidInput.WithError(err)
	}

	bounds := img.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	if side == 0 {
		return nil, domain.ErrInvalidInput
	}

	crop := imaging.CropCenter(img, side, side)

	embedding, ok := e.embed(crop)
	if !ok {
		return nil, nil
	}

	box := provider.BoundingBox{
		X:      float64(bounds.Dx()-side) / 2,
		Y:      float64(bounds.Dy()-side) / 2,
		Width:  float64(side),
		Height: float64(side),
	}

	return []provider.FaceObservation{
		{
			Box:        box,
			Embedding:  embedding,
			Confidence: confidenceFromArea(box.Area()),
		},
	}, nil
}

// embed downsamples the crop to a rows×cols grid whose cell count equals the
// configured dimension, then mean-centers and L2-normalizes the luminance
// values. ok is false when the frame carries no contrast.
func (e *Extractor) embed(crop image.Image) ([]float32, bool) {
	rows, cols := gridShape(e.dim)

	gray := imaging.Grayscale(imaging.Resize(crop, cols, rows, imaging.Lanczos))

	values := make([]float64, 0, e.dim)
	var sum float64
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			lum := float64(gray.Pix[gray.PixOffset(x, y)]) / 255.0
			values = append(values, lum)
			sum += lum
		}
	}

	mean := sum / float64(len(values))

	embedding := make([]float32, len(values))
	var norm float64
	for i, v := range values {
		centered := v - mean
		embedding[i] = float32(centered)
		norm += centered * centered
	}

	norm = math.Sqrt(norm)
	if norm < 1e-6 {
		return nil, false
	}

	for i := range embedding {
		embedding[i] = float32(float64(embedding[i]) / norm)
	}

	return embedding, true
}

// gridShape splits dim into the factor pair closest to a square so the
// downsampled grid keeps some spatial structure. A prime dim degrades to a
// single row.
func gridShape(dim int) (rows, cols int) {
	rows = 1
	for r := int(math.Sqrt(float64(dim))); r >= 1; r-- {
		if dim%r == 0 {
			rows = r
			break
		}
	}
	return rows, dim / rows
}

// confidenceFromArea estimates detection confidence from the crop size.
// Larger frames give the grid more signal to work with.
func confidenceFromArea(area float64) float64 {
	if area < minFaceArea {
		return 0.5
	}
	normalized := math.Min(1.0, (area-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.7 + (normalized * 0.29)
}
