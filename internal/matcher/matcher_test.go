package matcher

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

func entry(externalID, name string, embeddings ...[]float32) Entry {
	return Entry{
		IdentityID: uuid.New(),
		ExternalID: externalID,
		Name:       name,
		Embeddings: embeddings,
	}
}

func TestMatch_NearestIdentityWins(t *testing.T) {
	m, err := New("cosine", 0.5)
	require.NoError(t, err)

	alice := entry("emp-001", "Alice", []float32{1, 0, 0, 0})
	bob := entry("emp-002", "Bob", []float32{0, 1, 0, 0})
	snap := &Snapshot{Entries: []Entry{alice, bob}, Dim: 4}

	result := m.Match([]float32{0.9, 0.1, 0, 0}, snap)

	require.Equal(t, domain.DecisionMatch, result.Decision)
	require.NotNil(t, result.IdentityID)
	assert.Equal(t, alice.IdentityID, *result.IdentityID)
	assert.Equal(t, "emp-001", result.ExternalID)
	assert.Equal(t, "Alice", result.IdentityName)
	assert.Less(t, result.Score, 0.5)
}

func TestMatch_BeyondThresholdIsNoMatch(t *testing.T) {
	m, err := New("cosine", 0.5)
	require.NoError(t, err)

	alice := entry("emp-001", "Alice", []float32{1, 0, 0, 0})
	snap := &Snapshot{Entries: []Entry{alice}, Dim: 4}

	// orthogonal to alice, distance 1.0
	result := m.Match([]float32{0, 0, 1, 0}, snap)

	assert.Equal(t, domain.DecisionNoMatch, result.Decision)
	assert.Nil(t, result.IdentityID)
	assert.Empty(t, result.IdentityName)
	assert.InDelta(t, 1.0, result.Score, 1e-9)
}

func TestMatch_ThresholdIsStrict(t *testing.T) {
	// L2 with exactly representable values so the boundary is exact
	m, err := New("l2", 0.5)
	require.NoError(t, err)

	alice := entry("emp-001", "Alice", []float32{0.5, 0, 0, 0})
	snap := &Snapshot{Entries: []Entry{alice}, Dim: 4}

	// distance to alice is exactly 0.5, which must not match
	result := m.Match([]float32{1, 0, 0, 0}, snap)

	assert.Equal(t, domain.DecisionNoMatch, result.Decision)
	assert.Equal(t, 0.5, result.Score)

	// nudge the threshold and the same query matches
	m2, err := New("l2", 0.51)
	require.NoError(t, err)
	result = m2.Match([]float32{1, 0, 0, 0}, snap)
	assert.Equal(t, domain.DecisionMatch, result.Decision)
}

func TestMatch_EmptyGallery(t *testing.T) {
	m, err := New("cosine", 0.5)
	require.NoError(t, err)

	result := m.Match([]float32{1, 0, 0, 0}, &Snapshot{Dim: 4})

	assert.Equal(t, domain.DecisionNoMatch, result.Decision)
	assert.Nil(t, result.IdentityID)
	assert.True(t, math.IsInf(result.Score, 1))
}

func TestMatch_MinOverReferences(t *testing.T) {
	m, err := New("cosine", 0.5)
	require.NoError(t, err)

	// alice has one far and one near reference; the near one must decide
	alice := entry("emp-001", "Alice",
		[]float32{0, 0, 0, 1},
		[]float32{1, 0, 0, 0},
	)
	snap := &Snapshot{Entries: []Entry{alice}, Dim: 4}

	result := m.Match([]float32{1, 0, 0, 0}, snap)

	require.Equal(t, domain.DecisionMatch, result.Decision)
	assert.InDelta(t, 0.0, result.Score, 1e-9)
}

func TestMatch_DimensionMismatchSkipped(t *testing.T) {
	m, err := New("cosine", 0.5)
	require.NoError(t, err)

	// stale 3-dim reference from an earlier model plus a current 4-dim one
	mixed := entry("emp-001", "Alice",
		[]float32{1, 0, 0},
		[]float32{1, 0, 0, 0},
	)
	onlyStale := entry("emp-002", "Bob", []float32{0, 1, 0})
	snap := &Snapshot{Entries: []Entry{mixed, onlyStale}, Dim: 4}

	result := m.Match([]float32{1, 0, 0, 0}, snap)

	require.Equal(t, domain.DecisionMatch, result.Decision)
	assert.Equal(t, "emp-001", result.ExternalID)

	// a snapshot with nothing comparable behaves like an empty gallery
	staleOnly := &Snapshot{Entries: []Entry{onlyStale}, Dim: 4}
	result = m.Match([]float32{1, 0, 0, 0}, staleOnly)
	assert.Equal(t, domain.DecisionNoMatch, result.Decision)
	assert.True(t, math.IsInf(result.Score, 1))
}

func TestNearest_TieBreaksOnExternalID(t *testing.T) {
	m, err := New("cosine", 0.5)
	require.NoError(t, err)

	// both are exactly orthogonal to the query, distance 1.0
	later := entry("emp-900", "Zed", []float32{0, 1, 0, 0})
	earlier := entry("emp-100", "Ana", []float32{0, 0, 1, 0})

	forward := &Snapshot{Entries: []Entry{later, earlier}, Dim: 4}
	reversed := &Snapshot{Entries: []Entry{earlier, later}, Dim: 4}

	query := []float32{1, 0, 0, 0}

	best, ok := m.Nearest(query, forward, nil)
	require.True(t, ok)
	assert.Equal(t, "emp-100", best.ExternalID)

	// same winner regardless of entry order
	best, ok = m.Nearest(query, reversed, nil)
	require.True(t, ok)
	assert.Equal(t, "emp-100", best.ExternalID)
}

func TestNearest_SkipExcludesIdentity(t *testing.T) {
	m, err := New("cosine", 0.5)
	require.NoError(t, err)

	alice := entry("emp-001", "Alice", []float32{1, 0, 0, 0})
	bob := entry("emp-002", "Bob", []float32{0, 1, 0, 0})
	snap := &Snapshot{Entries: []Entry{alice, bob}, Dim: 4}

	query := []float32{1, 0, 0, 0}

	best, ok := m.Nearest(query, snap, nil)
	require.True(t, ok)
	assert.Equal(t, alice.IdentityID, best.IdentityID)

	best, ok = m.Nearest(query, snap, &alice.IdentityID)
	require.True(t, ok)
	assert.Equal(t, bob.IdentityID, best.IdentityID)

	single := &Snapshot{Entries: []Entry{alice}, Dim: 4}
	_, ok = m.Nearest(query, single, &alice.IdentityID)
	assert.False(t, ok)
}

func TestMatch_Deterministic(t *testing.T) {
	m, err := New("cosine", 0.5)
	require.NoError(t, err)

	entries := []Entry{
		entry("emp-003", "Carol", []float32{0.7, 0.7, 0, 0}),
		entry("emp-001", "Alice", []float32{1, 0, 0, 0}),
		entry("emp-002", "Bob", []float32{0, 1, 0, 0}),
	}
	snap := &Snapshot{Entries: entries, Dim: 4}
	query := []float32{0.9, 0.2, 0, 0}

	first := m.Match(query, snap)
	for i := 0; i < 10; i++ {
		again := m.Match(query, snap)
		assert.Equal(t, first, again)
	}
}

func TestNew_UnknownMetric(t *testing.T) {
	_, err := New("hamming", 0.5)
	require.Error(t, err)
}

func TestMatcher_Accessors(t *testing.T) {
	m, err := New("l2", 0.8)
	require.NoError(t, err)

	assert.Equal(t, "l2", m.Metric())
	assert.Equal(t, 0.8, m.Threshold())
}
