package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

// minImageBytes é o tamanho mínimo para considerar a imagem válida
const minImageBytes = 1000

// Provider implementa provider.Extractor para testes e desenvolvimento
type Provider struct {
	dim int
}

// New cria um extractor mock que emite embeddings com a dimensão informada
func New(dim int) *Provider {
	return &Provider{dim: dim}
}

func (p *Provider) Name() string {
	return "mock"
}

// Extract simula detecção de uma única face com embedding determinístico
// baseado no hash da imagem
func (p *Provider) Extract(ctx context.Context, image []byte) ([]provider.FaceObservation, error) {
	if len(image) < minImageBytes {
		return nil, domain.ErrInvalidInput
	}

	return []provider.FaceObservation{
		{
			Box: provider.BoundingBox{
				X:      0.1,
				Y:      0.1,
				Width:  0.8,
				Height: 0.8,
			},
			Embedding:  generateEmbedding(image, p.dim),
			Confidence: 0.99,
		},
	}, nil
}

// generateEmbedding expande o hash da imagem até a dimensão desejada e
// normaliza o vetor resultante
func generateEmbedding(image []byte, dim int) []float32 {
	seed := sha256.Sum256(image)

	embedding := make([]float32, dim)
	var block [32]byte
	var counter [8]byte

	for i := 0; i < dim; i++ {
		if i%len(block) == 0 {
			binary.BigEndian.PutUint64(counter[:], uint64(i/len(block)))
			block = sha256.Sum256(append(seed[:], counter[:]...))
		}
		embedding[i] = (float32(block[i%len(block)])/255.0)*2 - 1
	}

	var norm float64
	for _, v := range embedding {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return embedding
	}

	for i := range embedding {
		embedding[i] = float32(float64(embedding[i]) / norm)
	}

	return embedding
}

var _ provider.Extractor = (*Provider)(nil)
