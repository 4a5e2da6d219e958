package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

func TestActivityService_Record(t *testing.T) {
	aliceID := uuid.New()
	score := 0.12

	t.Run("persists and fans out", func(t *testing.T) {
		events := &MockEventRepository{}
		notifier := &MockNotifier{}

		event := &domain.VerificationEvent{
			IdentityID: &aliceID,
			QueryHash:  "abc",
			Score:      &score,
			Decision:   domain.DecisionMatch,
			Source:     domain.SourceLive,
		}
		events.On("Create", mock.Anything, event).Return(nil)
		notifier.On("VerificationRecorded", event).Return()

		svc := NewActivityService(events, config.NewNopLogger()).WithNotifier(notifier)

		err := svc.Record(context.Background(), event)

		require.NoError(t, err)
		events.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("insert failure surfaces and skips fan-out", func(t *testing.T) {
		events := &MockEventRepository{}
		notifier := &MockNotifier{}

		events.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		svc := NewActivityService(events, config.NewNopLogger()).WithNotifier(notifier)

		err := svc.Record(context.Background(), &domain.VerificationEvent{
			QueryHash: "abc",
			Decision:  domain.DecisionNoMatch,
			Source:    domain.SourceUpload,
		})

		assert.ErrorIs(t, err, domain.ErrPersistence)
		notifier.AssertNotCalled(t, "VerificationRecorded", mock.Anything)
	})
}

func TestActivityService_List(t *testing.T) {
	t.Run("passes the filter through", func(t *testing.T) {
		events := &MockEventRepository{}

		since := time.Now().Add(-time.Hour)
		decision := domain.DecisionMatch
		filter := domain.EventFilter{Since: &since, Decision: &decision, Limit: 25}

		stored := []domain.VerificationEvent{
			{ID: uuid.New(), QueryHash: "h1", Decision: domain.DecisionMatch, Source: domain.SourceLive},
		}
		events.On("List", mock.Anything, filter).Return(stored, 1, nil)

		svc := NewActivityService(events, config.NewNopLogger())

		got, total, err := svc.List(context.Background(), filter)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, stored, got)
		events.AssertExpectations(t)
	})

	t.Run("query failure maps to persistence error", func(t *testing.T) {
		events := &MockEventRepository{}
		events.On("List", mock.Anything, mock.Anything).Return(nil, 0, assert.AnError)

		svc := NewActivityService(events, config.NewNopLogger())

		_, _, err := svc.List(context.Background(), domain.EventFilter{})

		assert.ErrorIs(t, err, domain.ErrPersistence)
	})
}
