package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/matcher"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type IdentityRepository struct {
	pool PgxPool
}

func NewIdentityRepository(pool PgxPool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// Create inserts the identity and its reference embeddings in one
// transaction, so a half-enrolled identity is never visible.
func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create identity: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO identities (id, external_id, name, metadata, portrait_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		identity.ID,
		identity.ExternalID,
		identity.Name,
		identity.Metadata,
		identity.PortraitKey,
	).Scan(&identity.CreatedAt, &identity.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("create identity: %w", err)
	}

	if err := insertEmbeddings(ctx, tx, identity.ID, identity.Embeddings); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create identity: %w", err)
	}

	identity.EmbeddingCount = len(identity.Embeddings)
	return nil
}

func (r *IdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	query := `
		SELECT id, external_id, name, metadata, portrait_key, created_at, updated_at
		FROM identities
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *IdentityRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Identity, error) {
	query := `
		SELECT id, external_id, name, metadata, portrait_key, created_at, updated_at
		FROM identities
		WHERE external_id = $1
	`
	return r.getOne(ctx, query, externalID)
}

func (r *IdentityRepository) getOne(ctx context.Context, query string, arg any) (*domain.Identity, error) {
	var identity domain.Identity

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&identity.ID,
		&identity.ExternalID,
		&identity.Name,
		&identity.Metadata,
		&identity.PortraitKey,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	embeddings, err := r.loadEmbeddings(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	identity.Embeddings = embeddings
	identity.EmbeddingCount = len(embeddings)

	return &identity, nil
}

func (r *IdentityRepository) loadEmbeddings(ctx context.Context, identityID uuid.UUID) ([][]float32, error) {
	query := `
		SELECT embedding
		FROM identity_embeddings
		WHERE identity_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	defer rows.Close()

	var embeddings [][]float32
	for rows.Next() {
		var vec pgvector.Vector
		if err := rows.Scan(&vec); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		embeddings = append(embeddings, vec.Slice())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeddings: %w", err)
	}

	return embeddings, nil
}

// List returns a page of identities without their vectors, plus the total
// row count for the same filter.
func (r *IdentityRepository) List(ctx context.Context, params domain.ListParams) ([]domain.Identity, int, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if params.Search != "" {
		where = `WHERE (name ILIKE $1 OR external_id ILIKE $1)`
		args = append(args, "%"+params.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM identities ` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count identities: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, external_id, name, metadata, portrait_key,
			(SELECT COUNT(*) FROM identity_embeddings e WHERE e.identity_id = identities.id) AS embedding_count,
			created_at, updated_at
		FROM identities
		%s
		ORDER BY external_id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	identities := make([]domain.Identity, 0, limit)
	for rows.Next() {
		var identity domain.Identity
		if err := rows.Scan(
			&identity.ID,
			&identity.ExternalID,
			&identity.Name,
			&identity.Metadata,
			&identity.PortraitKey,
			&identity.EmbeddingCount,
			&identity.CreatedAt,
			&identity.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate identities: %w", err)
	}

	return identities, total, nil
}

// Update rewrites the identity's scalar fields. Reference embeddings are
// managed separately through AddEmbedding and ReplaceEmbeddings.
func (r *IdentityRepository) Update(ctx context.Context, identity *domain.Identity) error {
	query := `
		UPDATE identities
		SET external_id = $2, name = $3, metadata = $4, portrait_key = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		identity.ID,
		identity.ExternalID,
		identity.Name,
		identity.Metadata,
		identity.PortraitKey,
	).Scan(&identity.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrIdentityNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("update identity: %w", err)
	}

	return nil
}

// Delete removes the identity. Its embeddings go with it via ON DELETE
// CASCADE; verification events survive on purpose.
func (r *IdentityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM identities
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

// AddEmbedding appends one reference embedding to an enrolled identity.
func (r *IdentityRepository) AddEmbedding(ctx context.Context, identityID uuid.UUID, embedding []float32) error {
	query := `
		INSERT INTO identity_embeddings (id, identity_id, embedding, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := r.pool.Exec(ctx, query, uuid.New(), identityID, pgvector.NewVector(embedding))
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrIdentityNotFound
		}
		return fmt.Errorf("add embedding: %w", err)
	}

	return nil
}

// ReplaceEmbeddings swaps the identity's reference set atomically. Used when
// a re-enrollment supersedes the old captures.
func (r *IdentityRepository) ReplaceEmbeddings(ctx context.Context, identityID uuid.UUID, embeddings [][]float32) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace embeddings: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		DELETE FROM identity_embeddings
		WHERE identity_id = $1
	`
	if _, err := tx.Exec(ctx, query, identityID); err != nil {
		return fmt.Errorf("clear embeddings: %w", err)
	}

	if err := insertEmbeddings(ctx, tx, identityID, embeddings); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace embeddings: %w", err)
	}

	return nil
}

func insertEmbeddings(ctx context.Context, tx pgx.Tx, identityID uuid.UUID, embeddings [][]float32) error {
	query := `
		INSERT INTO identity_embeddings (id, identity_id, embedding, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	for _, embedding := range embeddings {
		if _, err := tx.Exec(ctx, query, uuid.New(), identityID, pgvector.NewVector(embedding)); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrIdentityNotFound
			}
			return fmt.Errorf("insert embedding: %w", err)
		}
	}

	return nil
}

// ListForMatching loads every identity with its embeddings in matcher form.
// Identities without any embedding are left out: nothing can match them.
func (r *IdentityRepository) ListForMatching(ctx context.Context) ([]matcher.Entry, error) {
	query := `
		SELECT i.id, i.external_id, i.name, e.embedding
		FROM identities i
		INNER JOIN identity_embeddings e ON e.identity_id = i.id
		ORDER BY i.external_id, e.created_at, e.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list for matching: %w", err)
	}
	defer rows.Close()

	var entries []matcher.Entry
	for rows.Next() {
		var (
			id         uuid.UUID
			externalID string
			name       string
			vec        pgvector.Vector
		)
		if err := rows.Scan(&id, &externalID, &name, &vec); err != nil {
			return nil, fmt.Errorf("scan matching row: %w", err)
		}

		// rows arrive grouped by identity, so only the last entry can
		// be the same identity
		if n := len(entries); n > 0 && entries[n-1].IdentityID == id {
			entries[n-1].Embeddings = append(entries[n-1].Embeddings, vec.Slice())
			continue
		}

		entries = append(entries, matcher.Entry{
			IdentityID: id,
			ExternalID: externalID,
			Name:       name,
			Embeddings: [][]float32{vec.Slice()},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matching rows: %w", err)
	}

	return entries, nil
}

func (r *IdentityRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM identities`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	return count, nil
}
