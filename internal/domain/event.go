package domain

import (
	"time"

	"github.com/google/uuid"
)

// Decision is the outcome of a verification attempt.
type Decision string

const (
	DecisionMatch   Decision = "match"
	DecisionNoMatch Decision = "no_match"
)

// Source tells where the verified frame came from.
type Source string

const (
	SourceLive   Source = "live"
	SourceUpload Source = "upload"
)

// VerificationEvent is the append-only audit record written once per
// verification attempt. IdentityName is denormalized so the record stays
// meaningful after the matched identity is deleted. QueryHash is a SHA-256
// of the query embedding (or of the raw image when no embedding could be
// extracted); the vector itself is never stored. Score is nil when nothing
// was extracted or the gallery was empty.
type VerificationEvent struct {
	ID           uuid.UUID  `json:"id"`
	IdentityID   *uuid.UUID `json:"identity_id,omitempty"`
	IdentityName string     `json:"identity_name,omitempty"`
	QueryHash    string     `json:"query_hash"`
	Score        *float64   `json:"score,omitempty"`
	Decision     Decision   `json:"decision"`
	Source       Source     `json:"source"`
	SnapshotKey  string     `json:"snapshot_key,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// EventFilter narrows an event query. Nil fields are ignored.
type EventFilter struct {
	Since      *time.Time
	Until      *time.Time
	IdentityID *uuid.UUID
	Decision   *Decision
	Limit      int
	Offset     int
}
