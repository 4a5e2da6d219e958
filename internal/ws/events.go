package ws

import "time"

type EventType string

// Event types pushed over the stream. Values match the webhook event
// names so a consumer can share handling code between both channels.
const (
	EventVerificationRecorded EventType = "verification.recorded"
	EventIdentityEnrolled     EventType = "identity.enrolled"
	EventIdentityDeleted      EventType = "identity.deleted"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
