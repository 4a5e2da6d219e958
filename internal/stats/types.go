package stats

import (
	"time"

	"github.com/google/uuid"
)

// Summary aggregates verification activity over a trailing window.
type Summary struct {
	WindowHours      int       `json:"window_hours"`
	Total            int       `json:"total"`
	Matches          int       `json:"matches"`
	NoMatches        int       `json:"no_matches"`
	MatchRate        float64   `json:"match_rate"`
	UniqueIdentities int       `json:"unique_identities"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// TopIdentity is one row of the most-verified ranking. Name is the
// denormalized identity_name captured on the event, so rows survive
// identity deletion.
type TopIdentity struct {
	IdentityID uuid.UUID `json:"identity_id"`
	Name       string    `json:"name"`
	Matches    int       `json:"matches"`
	LastSeen   time.Time `json:"last_seen"`
}

// TimelineBucket counts decisions inside one hour of the timeline.
type TimelineBucket struct {
	Hour      time.Time `json:"hour"`
	Matches   int       `json:"matches"`
	NoMatches int       `json:"no_matches"`
}
