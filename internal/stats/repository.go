package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// DB is the query surface the stats repository needs. Compatible with
// *pgxpool.Pool and pgxmock.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository computes aggregates over the events table. Nothing here
// writes; the verification pipeline owns inserts.
type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Summarize counts verification outcomes since the given instant.
func (r *Repository) Summarize(ctx context.Context, since time.Time) (*Summary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE decision = $1),
			COUNT(DISTINCT identity_id) FILTER (WHERE decision = $1)
		FROM events
		WHERE created_at >= $2`

	summary := &Summary{}
	err := r.db.QueryRow(ctx, query, domain.DecisionMatch, since).
		Scan(&summary.Total, &summary.Matches, &summary.UniqueIdentities)
	if err != nil {
		return nil, fmt.Errorf("summarize events: %w", err)
	}

	summary.NoMatches = summary.Total - summary.Matches
	if summary.Total > 0 {
		summary.MatchRate = float64(summary.Matches) / float64(summary.Total)
	}
	return summary, nil
}

// TopIdentities ranks matched identities by hit count since the given
// instant. identity_name is grouped through MAX so a rename mid-window
// cannot split a row.
func (r *Repository) TopIdentities(ctx context.Context, since time.Time, limit int) ([]TopIdentity, error) {
	query := `
		SELECT identity_id, MAX(identity_name), COUNT(*), MAX(created_at)
		FROM events
		WHERE decision = $1 AND identity_id IS NOT NULL AND created_at >= $2
		GROUP BY identity_id
		ORDER BY COUNT(*) DESC, MAX(created_at) DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, domain.DecisionMatch, since, limit)
	if err != nil {
		return nil, fmt.Errorf("top identities: %w", err)
	}
	defer rows.Close()

	top := []TopIdentity{}
	for rows.Next() {
		var (
			entry TopIdentity
			id    uuid.UUID
		)
		if err := rows.Scan(&id, &entry.Name, &entry.Matches, &entry.LastSeen); err != nil {
			return nil, fmt.Errorf("scan top identity: %w", err)
		}
		entry.IdentityID = id
		top = append(top, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top identities rows: %w", err)
	}
	return top, nil
}

// Timeline returns per-hour decision counts since the given instant.
// Hours with no events are absent; the service fills the gaps.
func (r *Repository) Timeline(ctx context.Context, since time.Time) ([]TimelineBucket, error) {
	query := `
		SELECT
			date_trunc('hour', created_at) AS bucket,
			COUNT(*) FILTER (WHERE decision = $1),
			COUNT(*) FILTER (WHERE decision = $2)
		FROM events
		WHERE created_at >= $3
		GROUP BY bucket
		ORDER BY bucket`

	rows, err := r.db.Query(ctx, query, domain.DecisionMatch, domain.DecisionNoMatch, since)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	defer rows.Close()

	buckets := []TimelineBucket{}
	for rows.Next() {
		var bucket TimelineBucket
		if err := rows.Scan(&bucket.Hour, &bucket.Matches, &bucket.NoMatches); err != nil {
			return nil, fmt.Errorf("scan timeline bucket: %w", err)
		}
		buckets = append(buckets, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("timeline rows: %w", err)
	}
	return buckets, nil
}
