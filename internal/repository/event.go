package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

type EventRepository struct {
	pool PgxPool
}

func NewEventRepository(pool PgxPool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Create appends one verification event. The audit log is insert-only;
// nothing ever updates or deletes these rows.
func (r *EventRepository) Create(ctx context.Context, event *domain.VerificationEvent) error {
	query := `
		INSERT INTO events (id, identity_id, identity_name, query_hash, score, decision, source, snapshot_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		event.ID,
		event.IdentityID,
		event.IdentityName,
		event.QueryHash,
		event.Score,
		event.Decision,
		event.Source,
		event.SnapshotKey,
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

// List returns events newest-first, narrowed by the filter, plus the total
// count for the same filter.
func (r *EventRepository) List(ctx context.Context, filter domain.EventFilter) ([]domain.VerificationEvent, int, error) {
	where, args := buildEventFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM events ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT id, identity_id, identity_name, query_hash, score, decision, source, snapshot_key, created_at
		FROM events
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.VerificationEvent, 0, limit)
	for rows.Next() {
		var event domain.VerificationEvent
		if err := rows.Scan(
			&event.ID,
			&event.IdentityID,
			&event.IdentityName,
			&event.QueryHash,
			&event.Score,
			&event.Decision,
			&event.Source,
			&event.SnapshotKey,
			&event.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate events: %w", err)
	}

	return events, total, nil
}

// buildEventFilter turns the nil-able filter fields into a WHERE clause with
// positional args.
func buildEventFilter(filter domain.EventFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.Since != nil {
		add("created_at >= $%d", *filter.Since)
	}
	if filter.Until != nil {
		add("created_at < $%d", *filter.Until)
	}
	if filter.IdentityID != nil {
		add("identity_id = $%d", *filter.IdentityID)
	}
	if filter.Decision != nil {
		add("decision = $%d", *filter.Decision)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
