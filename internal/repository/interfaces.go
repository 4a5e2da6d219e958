package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/matcher"
)

// PgxPool is the subset of *pgxpool.Pool the repositories use. pgxmock
// implements it too, so repository tests run without a database.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// IdentityRepositoryInterface defines operations for identity data access
type IdentityRepositoryInterface interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Identity, error)
	List(ctx context.Context, params domain.ListParams) ([]domain.Identity, int, error)
	Update(ctx context.Context, identity *domain.Identity) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddEmbedding(ctx context.Context, identityID uuid.UUID, embedding []float32) error
	ReplaceEmbeddings(ctx context.Context, identityID uuid.UUID, embeddings [][]float32) error
	ListForMatching(ctx context.Context) ([]matcher.Entry, error)
	Count(ctx context.Context) (int, error)
}

// EventRepositoryInterface defines operations for the verification audit log
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *domain.VerificationEvent) error
	List(ctx context.Context, filter domain.EventFilter) ([]domain.VerificationEvent, int, error)
}
