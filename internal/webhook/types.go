package webhook

import (
	"time"

	"github.com/google/uuid"
)

// Event types carried in the X-Facegate-Event header and the payload.
const (
	EventVerificationRecorded = "verification.recorded"
	EventIdentityEnrolled     = "identity.enrolled"
	EventIdentityDeleted      = "identity.deleted"
)

// Delivery statuses. A delivery starts pending and ends delivered or,
// after the retry budget, failed.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Subscription is one registered receiver URL. Secret signs every
// payload sent to it and is never serialized back out.
type Subscription struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Secret    string    `json:"-"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Delivery is one outbox row: a payload owed to one subscription.
type Delivery struct {
	ID             uuid.UUID  `json:"id"`
	SubscriptionID uuid.UUID  `json:"subscription_id"`
	EventType      string     `json:"event_type"`
	Payload        []byte     `json:"payload"`
	Status         string     `json:"status"`
	Attempts       int        `json:"attempts"`
	NextAttemptAt  *time.Time `json:"next_attempt_at,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// EventPayload is the JSON body posted to receivers.
type EventPayload struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
