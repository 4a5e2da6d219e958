package webhook

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// DB interface for database operations (compatible with pgxpool.Pool and pgxmock)
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// Service owns the subscription registry and the outbox. Events are
// never posted inline with a request; Enqueue writes outbox rows and
// the Worker delivers them.
type Service struct {
	db     DB
	client *http.Client
}

func NewService(db *pgxpool.Pool) *Service {
	return NewServiceWithDB(db)
}

func NewServiceWithDB(db DB) *Service {
	return &Service{
		db: db,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateSubscription registers a receiver URL. When no secret is given
// one is generated; the caller sees it exactly once, in the response.
func (s *Service) CreateSubscription(ctx context.Context, sub *Subscription) error {
	parsed, err := url.Parse(sub.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return domain.ErrValidationFailed.WithError(fmt.Errorf("invalid webhook url %q", sub.URL))
	}

	if sub.Secret == "" {
		secret, err := generateSecret()
		if err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		sub.Secret = secret
	}

	query := `
		INSERT INTO webhook_subscriptions (url, secret, active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRow(ctx, query, sub.URL, sub.Secret, sub.Active).
		Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}

	return nil
}

// ListSubscriptions returns every registered subscription, newest first
func (s *Service) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	query := `
		SELECT id, url, secret, active, created_at, updated_at
		FROM webhook_subscriptions
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []Subscription{}
	for rows.Next() {
		var sub Subscription
		err := rows.Scan(&sub.ID, &sub.URL, &sub.Secret, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// DeleteSubscription removes a subscription and, via FK cascade, its
// outstanding deliveries.
func (s *Service) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM webhook_subscriptions WHERE id = $1`

	result, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWebhookNotFound
	}

	return nil
}

// Enqueue writes one pending delivery per active subscription. A single
// INSERT ... SELECT keeps the fan-out atomic; no subscribers means no
// rows and no error.
func (s *Service) Enqueue(ctx context.Context, eventType string, data interface{}) error {
	payload, err := json.Marshal(EventPayload{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	query := `
		INSERT INTO webhook_deliveries (subscription_id, event_type, payload)
		SELECT id, $1, $2 FROM webhook_subscriptions WHERE active
	`

	_, err = s.db.Exec(ctx, query, eventType, payload)
	if err != nil {
		return fmt.Errorf("enqueue deliveries: %w", err)
	}

	return nil
}

// Send posts one stored payload to its subscription. The signature is
// computed over the outbox bytes, so every retry signs identical
// content. Any status at or above 400 counts as a failed attempt.
func (s *Service) Send(ctx context.Context, sub *Subscription, eventType string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Facegate-Signature", Sign(sub.Secret, payload))
	req.Header.Set("X-Facegate-Event", eventType)
	req.Header.Set("User-Agent", "Facegate-Webhook/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("receiver returned HTTP %d", resp.StatusCode)
	}

	return nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
