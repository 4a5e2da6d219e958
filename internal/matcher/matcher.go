// Package matcher decides which enrolled identity, if any, a query embedding
// belongs to. It runs a full linear scan over an in-memory snapshot of the
// gallery, which at MVP scale (hundreds of identities, a handful of
// references each) beats any index structure on both latency and simplicity.
package matcher

import (
	"math"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// Entry is one enrolled identity as the matcher sees it: its reference
// embeddings plus just enough identification to report a match.
type Entry struct {
	IdentityID uuid.UUID
	ExternalID string
	Name       string
	Embeddings [][]float32
}

// Snapshot is an immutable view of the gallery taken at one point in time.
// A verification runs against exactly one snapshot, so identities enrolled
// mid-request are invisible to it.
type Snapshot struct {
	Entries []Entry
	Dim     int
}

// Candidate is the nearest identity found by a scan.
type Candidate struct {
	IdentityID uuid.UUID
	ExternalID string
	Name       string
	Distance   float64
}

// Matcher compares query embeddings against gallery snapshots using a fixed
// metric and match threshold. It is stateless and safe for concurrent use.
type Matcher struct {
	metricName string
	distance   Func
	threshold  float64
}

// New creates a Matcher for the given metric name. threshold is the distance
// below which a candidate counts as a match.
func New(metric string, threshold float64) (*Matcher, error) {
	fn, err := Provider(metric)
	if err != nil {
		return nil, err
	}

	return &Matcher{
		metricName: metric,
		distance:   fn,
		threshold:  threshold,
	}, nil
}

// Metric returns the configured metric name.
func (m *Matcher) Metric() string {
	return m.metricName
}

// Threshold returns the configured match threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Nearest scans snap for the identity closest to query. An identity's
// distance is the minimum over its reference embeddings, so one bad
// reference never penalizes an identity with a good one. References whose
// dimension differs from the query are skipped.
//
// Ties on distance resolve to the lexicographically smallest external ID,
// which keeps results stable regardless of enrollment or iteration order.
// skip, when non-nil, excludes that identity from the scan; the enrollment
// duplicate guard uses it so an update never collides with itself.
//
// ok is false when no embedding in snap was comparable to query.
func (m *Matcher) Nearest(query []float32, snap *Snapshot, skip *uuid.UUID) (Candidate, bool) {
	best := Candidate{Distance: math.Inf(1)}
	found := false

	for _, entry := range snap.Entries {
		if skip != nil && entry.IdentityID == *skip {
			continue
		}

		entryDist := math.Inf(1)
		comparable := false
		for _, ref := range entry.Embeddings {
			if len(ref) != len(query) {
				continue
			}
			comparable = true
			if d := m.distance(query, ref); d < entryDist {
				entryDist = d
			}
		}
		if !comparable {
			continue
		}

		if entryDist < best.Distance ||
			(entryDist == best.Distance && found && entry.ExternalID < best.ExternalID) {
			best = Candidate{
				IdentityID: entry.IdentityID,
				ExternalID: entry.ExternalID,
				Name:       entry.Name,
				Distance:   entryDist,
			}
			found = true
		}
	}

	return best, found
}

// Match runs Nearest and applies the match threshold. An empty or
// incomparable snapshot yields a no-match with infinite distance, never an
// error: an empty gallery is a legitimate state.
func (m *Matcher) Match(query []float32, snap *Snapshot) domain.MatchResult {
	best, ok := m.Nearest(query, snap, nil)
	if !ok {
		return domain.MatchResult{
			Score:    math.Inf(1),
			Decision: domain.DecisionNoMatch,
		}
	}

	// Strictly below threshold. A distance exactly at the threshold is a
	// no-match, so tightening the threshold never flips old decisions both
	// ways.
	if best.Distance < m.threshold {
		id := best.IdentityID
		return domain.MatchResult{
			IdentityID:   &id,
			ExternalID:   best.ExternalID,
			IdentityName: best.Name,
			Score:        best.Distance,
			Decision:     domain.DecisionMatch,
		}
	}

	return domain.MatchResult{
		Score:    best.Distance,
		Decision: domain.DecisionNoMatch,
	}
}
