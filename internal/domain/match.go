package domain

import (
	"github.com/google/uuid"
)

// MatchResult is the matcher's answer for one query embedding. Score is a
// distance, not a similarity: lower is closer, and a query against an empty
// gallery carries +Inf. IdentityID is nil on no-match.
type MatchResult struct {
	IdentityID   *uuid.UUID `json:"identity_id,omitempty"`
	ExternalID   string     `json:"external_id,omitempty"`
	IdentityName string     `json:"identity_name,omitempty"`
	Score        float64    `json:"score"`
	Decision     Decision   `json:"decision"`
}

// Matched reports whether the result crossed the threshold.
func (m *MatchResult) Matched() bool {
	return m.Decision == DecisionMatch
}
