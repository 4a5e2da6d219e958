package service

import (
	"context"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/facegate/internal/audit"
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

type EventRepositoryInterface interface {
	Create(ctx context.Context, event *domain.VerificationEvent) error
	List(ctx context.Context, filter domain.EventFilter) ([]domain.VerificationEvent, int, error)
}

// ActivityService owns the append-only verification log. Every verification
// attempt ends in exactly one Record call.
type ActivityService struct {
	events   EventRepositoryInterface
	notifier Notifier
	audit    audit.Logger
	logger   *slog.Logger
}

func NewActivityService(events EventRepositoryInterface, logger *slog.Logger) *ActivityService {
	return &ActivityService{
		events:   events,
		notifier: NoOpNotifier{},
		audit:    &audit.NoOpLogger{},
		logger:   logger,
	}
}

func (s *ActivityService) WithNotifier(notifier Notifier) *ActivityService {
	s.notifier = notifier
	return s
}

func (s *ActivityService) WithAudit(auditLogger audit.Logger) *ActivityService {
	s.audit = auditLogger
	return s
}

// Record persists the event, then fans it out. The log is part of the
// product, not telemetry: an insert failure surfaces to the caller and the
// verification call fails with it. Fan-out failures stay inside the notifier.
func (s *ActivityService) Record(ctx context.Context, event *domain.VerificationEvent) error {
	if err := s.events.Create(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "verification event insert failed",
			slog.String("decision", string(event.Decision)),
			slog.String("error", err.Error()),
		)
		return domain.ErrPersistence.WithError(err)
	}

	auditEvent := audit.Event{
		EventType: audit.EventVerificationDone,
		Decision:  string(event.Decision),
		Success:   true,
	}
	if event.IdentityID != nil {
		auditEvent.IdentityID = event.IdentityID.String()
	}
	_ = s.audit.Log(ctx, auditEvent)

	s.notifier.VerificationRecorded(event)
	return nil
}

// List returns events newest-first under the given filter.
func (s *ActivityService) List(ctx context.Context, filter domain.EventFilter) ([]domain.VerificationEvent, int, error) {
	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, 0, domain.ErrPersistence.WithError(err)
	}
	return events, total, nil
}
