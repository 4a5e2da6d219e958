package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const deliveryBatchSize = 10

// Worker drains the outbox. Each tick claims a batch of due pending
// deliveries with SKIP LOCKED.
type Worker struct {
	db          DB
	service     *Service
	logger      *slog.Logger
	interval    time.Duration
	maxAttempts int
	stopCh      chan struct{}
}

func NewWorker(db DB, service *Service, logger *slog.Logger, interval time.Duration, maxAttempts int) *Worker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Worker{
		db:          db,
		service:     service,
		logger:      logger,
		interval:    interval,
		maxAttempts: maxAttempts,
		stopCh:      make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("webhook worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("webhook worker stopped")
			return
		case <-w.stopCh:
			w.logger.Info("webhook worker stopped")
			return
		case <-ticker.C:
			if err := w.processOutbox(ctx); err != nil {
				w.logger.Error("failed to process webhook outbox", "error", err)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) processOutbox(ctx context.Context) error {
	query := `
		SELECT id, subscription_id, event_type, payload, attempts
		FROM webhook_deliveries
		WHERE status = 'pending' AND (next_attempt_at IS NULL OR next_attempt_at <= NOW())
		ORDER BY created_at ASC
		FOR UPDATE SKIP LOCKED
		LIMIT 10
	`

	rows, err := w.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("query outbox: %w", err)
	}

	// Drain the cursor before delivering so the batch does not hold a
	// pool connection across HTTP round trips.
	batch := make([]Delivery, 0, deliveryBatchSize)
	for rows.Next() {
		var d Delivery
		err := rows.Scan(&d.ID, &d.SubscriptionID, &d.EventType, &d.Payload, &d.Attempts)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scan delivery: %w", err)
		}
		batch = append(batch, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("outbox rows: %w", err)
	}

	for i := range batch {
		if err := w.processDelivery(ctx, &batch[i]); err != nil {
			w.logger.Error("failed to process delivery",
				"delivery_id", batch[i].ID,
				"subscription_id", batch[i].SubscriptionID,
				"attempts", batch[i].Attempts,
				"error", err,
			)
		}
	}

	return nil
}

func (w *Worker) processDelivery(ctx context.Context, d *Delivery) error {
	sub, err := w.getSubscription(ctx, d.SubscriptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return w.markFailed(ctx, d.ID, d.Attempts, "subscription removed")
		}
		return err
	}

	if !sub.Active {
		return w.markFailed(ctx, d.ID, d.Attempts, "subscription disabled")
	}

	if err := w.service.Send(ctx, sub, d.EventType, d.Payload); err != nil {
		return w.scheduleRetry(ctx, d, err.Error())
	}

	return w.markDelivered(ctx, d.ID, d.Attempts+1)
}

func (w *Worker) getSubscription(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	query := `
		SELECT id, url, secret, active, created_at, updated_at
		FROM webhook_subscriptions
		WHERE id = $1
	`

	var sub Subscription
	err := w.db.QueryRow(ctx, query, id).Scan(
		&sub.ID, &sub.URL, &sub.Secret, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (w *Worker) scheduleRetry(ctx context.Context, d *Delivery, errMsg string) error {
	attempts := d.Attempts + 1
	if attempts >= w.maxAttempts {
		return w.markFailed(ctx, d.ID, attempts, errMsg)
	}

	delay := time.Duration(1<<attempts) * time.Second
	nextAttempt := time.Now().Add(delay)

	query := `
		UPDATE webhook_deliveries
		SET attempts = $1,
		    next_attempt_at = $2,
		    last_error = $3,
		    updated_at = NOW()
		WHERE id = $4
	`

	_, err := w.db.Exec(ctx, query, attempts, nextAttempt, errMsg, d.ID)
	if err != nil {
		return fmt.Errorf("schedule retry: %w", err)
	}

	w.logger.Info("delivery scheduled for retry",
		"delivery_id", d.ID,
		"attempts", attempts,
		"next_attempt", nextAttempt,
	)

	return nil
}

func (w *Worker) markDelivered(ctx context.Context, id uuid.UUID, attempts int) error {
	query := `
		UPDATE webhook_deliveries
		SET status = 'delivered',
		    attempts = $1,
		    updated_at = NOW()
		WHERE id = $2
	`

	_, err := w.db.Exec(ctx, query, attempts, id)
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}

	w.logger.Info("delivery completed", "delivery_id", id, "attempts", attempts)
	return nil
}

func (w *Worker) markFailed(ctx context.Context, id uuid.UUID, attempts int, errMsg string) error {
	query := `
		UPDATE webhook_deliveries
		SET status = 'failed',
		    attempts = $1,
		    last_error = $2,
		    updated_at = NOW()
		WHERE id = $3
	`

	_, err := w.db.Exec(ctx, query, attempts, errMsg, id)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}

	w.logger.Warn("delivery failed permanently", "delivery_id", id, "error", errMsg)
	return nil
}
