package pixel

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gradientImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x * 255) / w)
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestExtract_GradientImage(t *testing.T) {
	e := New(512)
	frame := encodePNG(t, gradientImage(200, 160))

	obs, err := e.Extract(context.Background(), frame)
	require.NoError(t, err)
	require.Len(t, obs, 1)

	assert.Len(t, obs[0].Embedding, 512)
	assert.Greater(t, obs[0].Confidence, 0.0)
	assert.LessOrEqual(t, obs[0].Confidence, 1.0)

	// crop is the centered 160x160 square
	assert.Equal(t, 160.0, obs[0].Box.Width)
	assert.Equal(t, 160.0, obs[0].Box.Height)
	assert.Equal(t, 20.0, obs[0].Box.X)
	assert.Equal(t, 0.0, obs[0].Box.Y)

	var norm float64
	for _, v := range obs[0].Embedding {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-4)
}

func TestExtract_SolidImageHasNoFace(t *testing.T) {
	e := New(512)
	frame := encodePNG(t, solidImage(120, 120, color.NRGBA{R: 40, G: 40, B: 40, A: 255}))

	obs, err := e.Extract(context.Background(), frame)
	require.NoError(t, err)
	assert.Empty(t, obs)
}

func TestExtract_Deterministic(t *testing.T) {
	e := New(128)
	frame := encodePNG(t, gradientImage(96, 96))

	first, err := e.Extract(context.Background(), frame)
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), frame)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Embedding, second[0].Embedding)
}

func TestExtract_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		image []byte
	}{
		{
			name:  "empty image",
			image: nil,
		},
		{
			name:  "not an image",
			image: []byte("definitely not pixels"),
		},
	}

	e := New(512)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(context.Background(), tt.image)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	e := New(512)
	frame := encodePNG(t, gradientImage(64, 64))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, frame)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGridShape(t *testing.T) {
	tests := []struct {
		dim      int
		wantRows int
		wantCols int
	}{
		{dim: 512, wantRows: 16, wantCols: 32},
		{dim: 128, wantRows: 8, wantCols: 16},
		{dim: 100, wantRows: 10, wantCols: 10},
		{dim: 7, wantRows: 1, wantCols: 7},
	}

	for _, tt := range tests {
		rows, cols := gridShape(tt.dim)
		assert.Equal(t, tt.wantRows, rows, "dim %d", tt.dim)
		assert.Equal(t, tt.wantCols, cols, "dim %d", tt.dim)
		assert.Equal(t, tt.dim, rows*cols, "dim %d", tt.dim)
	}
}

func TestConfidenceFromArea(t *testing.T) {
	tests := []struct {
		name    string
		area    float64
		wantMin float64
		wantMax float64
	}{
		{
			name:    "tiny crop",
			area:    1000,
			wantMin: 0.49,
			wantMax: 0.51,
		},
		{
			name:    "minimum area",
			area:    minFaceArea,
			wantMin: 0.69,
			wantMax: 0.71,
		},
		{
			name:    "large crop",
			area:    maxFaceArea,
			wantMin: 0.98,
			wantMax: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confidence := confidenceFromArea(tt.area)
			assert.GreaterOrEqual(t, confidence, tt.wantMin)
			assert.LessOrEqual(t, confidence, tt.wantMax)
		})
	}
}
