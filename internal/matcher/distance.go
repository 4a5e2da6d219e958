package matcher

import (
	"fmt"
	"math"

	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
)

// Func calculates the distance between two vectors of the same length.
type Func func(a, b []float32) float64

// Cosine returns the cosine distance (1 - cosine similarity) between a and b.
// Range is [0, 2] for arbitrary vectors. A zero-norm operand yields 1, the
// same as two unrelated vectors.
func Cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// L2 returns the Euclidean distance between a and b.
func L2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Provider returns the distance function for the given metric name.
func Provider(metric string) (Func, error) {
	switch metric {
	case config.MetricCosine:
		return Cosine, nil
	case config.MetricL2:
		return L2, nil
	default:
		return nil, fmt.Errorf("unsupported distance metric: %q", metric)
	}
}
