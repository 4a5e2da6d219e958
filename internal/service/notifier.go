package service

import (
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// Notifier fans a committed change out to observers (websocket feed, webhook
// outbox). Implementations must not block the request path and must swallow
// their own delivery failures; a verification or enrollment never fails
// because an observer is down.
type Notifier interface {
	VerificationRecorded(event *domain.VerificationEvent)
	IdentityEnrolled(identity *domain.Identity)
	IdentityDeleted(identity *domain.Identity)
}

// NoOpNotifier is the default when no observers are wired.
type NoOpNotifier struct{}

func (NoOpNotifier) VerificationRecorded(*domain.VerificationEvent) {}
func (NoOpNotifier) IdentityEnrolled(*domain.Identity)              {}
func (NoOpNotifier) IdentityDeleted(*domain.Identity)               {}
