package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// IdentityRepository Tests

func TestIdentityRepository_Create(t *testing.T) {
	identityID := uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		identity  *domain.Identity
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful creation with embeddings",
			identity: &domain.Identity{
				ID:         identityID,
				ExternalID: "emp-001",
				Name:       "Alice Souza",
				Metadata:   map[string]interface{}{"team": "platform"},
				Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"created_at", "updated_at"}).
					AddRow(now, now)

				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO identities`).
					WithArgs(
						identityID,
						"emp-001",
						"Alice Souza",
						map[string]interface{}{"team": "platform"},
						"",
					).
					WillReturnRows(rows)
				mock.ExpectExec(`INSERT INTO identity_embeddings`).
					WithArgs(pgxmock.AnyArg(), identityID, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO identity_embeddings`).
					WithArgs(pgxmock.AnyArg(), identityID, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
			wantErr: nil,
		},
		{
			name: "external id already enrolled",
			identity: &domain.Identity{
				ID:         identityID,
				ExternalID: "emp-dup",
				Name:       "Duplicate",
				Embeddings: [][]float32{{0.1}},
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO identities`).
					WithArgs(
						identityID,
						"emp-dup",
						"Duplicate",
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
					).
					WillReturnError(errors.New("duplicate key value violates unique constraint (23505)"))
			},
			wantErr: domain.ErrIdentityExists,
		},
		{
			name: "database error on create",
			identity: &domain.Identity{
				ID:         identityID,
				ExternalID: "emp-err",
				Name:       "Err",
				Embeddings: [][]float32{{0.1}},
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO identities`).
					WithArgs(
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
					).
					WillReturnError(errors.New("disk full"))
			},
			wantErr: errors.New("create identity: disk full"),
		},
		{
			name: "auto-generates missing id",
			identity: &domain.Identity{
				ExternalID: "emp-autoid",
				Name:       "Auto",
				Embeddings: [][]float32{{0.5}},
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"created_at", "updated_at"}).
					AddRow(now, now)

				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO identities`).
					WithArgs(
						pgxmock.AnyArg(),
						"emp-autoid",
						"Auto",
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
					).
					WillReturnRows(rows)
				mock.ExpectExec(`INSERT INTO identity_embeddings`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewIdentityRepository(mock)
			err = repo.Create(context.Background(), tt.identity)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrIdentityExists) {
					assert.ErrorIs(t, err, domain.ErrIdentityExists)
				} else {
					assert.Contains(t, err.Error(), "create identity")
				}
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, tt.identity.ID)
				assert.False(t, tt.identity.CreatedAt.IsZero())
				assert.Equal(t, len(tt.identity.Embeddings), tt.identity.EmbeddingCount)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIdentityRepository_GetByID(t *testing.T) {
	identityID := uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		id        uuid.UUID
		mockSetup func(mock pgxmock.PgxPoolIface)
		want      *domain.Identity
		wantErr   error
	}{
		{
			name: "successful retrieval with embeddings",
			id:   identityID,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				identityRows := pgxmock.NewRows([]string{
					"id", "external_id", "name", "metadata", "portrait_key", "created_at", "updated_at",
				}).AddRow(
					identityID,
					"emp-001",
					"Alice Souza",
					map[string]interface{}{"team": "platform"},
					"portraits/abc.jpg",
					now,
					now,
				)
				mock.ExpectQuery(`SELECT id, external_id, name, metadata, portrait_key, created_at, updated_at FROM identities WHERE id = \$1`).
					WithArgs(identityID).
					WillReturnRows(identityRows)

				embeddingRows := pgxmock.NewRows([]string{"embedding"}).
					AddRow(pgvector.NewVector([]float32{0.1, 0.2, 0.3})).
					AddRow(pgvector.NewVector([]float32{0.4, 0.5, 0.6}))
				mock.ExpectQuery(`SELECT embedding FROM identity_embeddings WHERE identity_id = \$1`).
					WithArgs(identityID).
					WillReturnRows(embeddingRows)
			},
			want: &domain.Identity{
				ID:             identityID,
				ExternalID:     "emp-001",
				Name:           "Alice Souza",
				PortraitKey:    "portraits/abc.jpg",
				EmbeddingCount: 2,
			},
			wantErr: nil,
		},
		{
			name: "identity not found",
			id:   identityID,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, external_id, name, metadata, portrait_key, created_at, updated_at FROM identities WHERE id = \$1`).
					WithArgs(identityID).
					WillReturnError(pgx.ErrNoRows)
			},
			want:    nil,
			wantErr: domain.ErrIdentityNotFound,
		},
		{
			name: "database error",
			id:   identityID,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, external_id, name, metadata, portrait_key, created_at, updated_at FROM identities WHERE id = \$1`).
					WithArgs(identityID).
					WillReturnError(errors.New("database connection error"))
			},
			want:    nil,
			wantErr: errors.New("get identity: database connection error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewIdentityRepository(mock)
			got, err := repo.GetByID(context.Background(), tt.id)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrIdentityNotFound) {
					assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
				} else {
					assert.Contains(t, err.Error(), "get identity")
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.want.ID, got.ID)
				assert.Equal(t, tt.want.ExternalID, got.ExternalID)
				assert.Equal(t, tt.want.Name, got.Name)
				assert.Equal(t, tt.want.PortraitKey, got.PortraitKey)
				assert.Equal(t, tt.want.EmbeddingCount, got.EmbeddingCount)
				assert.Len(t, got.Embeddings, tt.want.EmbeddingCount)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIdentityRepository_GetByExternalID(t *testing.T) {
	identityID := uuid.New()
	now := time.Now()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	identityRows := pgxmock.NewRows([]string{
		"id", "external_id", "name", "metadata", "portrait_key", "created_at", "updated_at",
	}).AddRow(identityID, "emp-001", "Alice Souza", map[string]interface{}{}, "", now, now)
	mock.ExpectQuery(`SELECT id, external_id, name, metadata, portrait_key, created_at, updated_at FROM identities WHERE external_id = \$1`).
		WithArgs("emp-001").
		WillReturnRows(identityRows)
	mock.ExpectQuery(`SELECT embedding FROM identity_embeddings`).
		WithArgs(identityID).
		WillReturnRows(pgxmock.NewRows([]string{"embedding"}).
			AddRow(pgvector.NewVector([]float32{0.1, 0.2})))

	repo := NewIdentityRepository(mock)
	got, err := repo.GetByExternalID(context.Background(), "emp-001")

	require.NoError(t, err)
	assert.Equal(t, identityID, got.ID)
	assert.Equal(t, 1, got.EmbeddingCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityRepository_List(t *testing.T) {
	now := time.Now()

	t.Run("with search filter", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM identities WHERE`).
			WithArgs("%ali%").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

		listRows := pgxmock.NewRows([]string{
			"id", "external_id", "name", "metadata", "portrait_key", "embedding_count", "created_at", "updated_at",
		}).AddRow(uuid.New(), "emp-001", "Alice Souza", map[string]interface{}{}, "", 2, now, now)
		mock.ExpectQuery(`SELECT id, external_id, name, metadata, portrait_key`).
			WithArgs("%ali%", 10, 0).
			WillReturnRows(listRows)

		repo := NewIdentityRepository(mock)
		identities, total, err := repo.List(context.Background(), domain.ListParams{
			Search: "ali",
			Limit:  10,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, identities, 1)
		assert.Equal(t, "Alice Souza", identities[0].Name)
		assert.Equal(t, 2, identities[0].EmbeddingCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without filter applies default limit", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM identities`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT id, external_id, name, metadata, portrait_key`).
			WithArgs(defaultListLimit, 0).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "external_id", "name", "metadata", "portrait_key", "embedding_count", "created_at", "updated_at",
			}))

		repo := NewIdentityRepository(mock)
		identities, total, err := repo.List(context.Background(), domain.ListParams{})

		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, identities)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM identities`).
			WillReturnError(errors.New("database connection error"))

		repo := NewIdentityRepository(mock)
		_, _, err = repo.List(context.Background(), domain.ListParams{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "count identities")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIdentityRepository_Update(t *testing.T) {
	identityID := uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful update",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE identities`).
					WithArgs(identityID, "emp-001", "Alice Renamed", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))
			},
			wantErr: nil,
		},
		{
			name: "identity not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE identities`).
					WithArgs(identityID, "emp-001", "Alice Renamed", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrIdentityNotFound,
		},
		{
			name: "external id taken by another identity",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE identities`).
					WithArgs(identityID, "emp-001", "Alice Renamed", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(errors.New("duplicate key value violates unique constraint (23505)"))
			},
			wantErr: domain.ErrIdentityExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewIdentityRepository(mock)
			err = repo.Update(context.Background(), &domain.Identity{
				ID:         identityID,
				ExternalID: "emp-001",
				Name:       "Alice Renamed",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIdentityRepository_Delete(t *testing.T) {
	identityID := uuid.New()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful deletion",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM identities`).
					WithArgs(identityID).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
			wantErr: nil,
		},
		{
			name: "identity not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM identities`).
					WithArgs(identityID).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantErr: domain.ErrIdentityNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewIdentityRepository(mock)
			err = repo.Delete(context.Background(), identityID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIdentityRepository_AddEmbedding(t *testing.T) {
	identityID := uuid.New()

	t.Run("successful append", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO identity_embeddings`).
			WithArgs(pgxmock.AnyArg(), identityID, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewIdentityRepository(mock)
		err = repo.AddEmbedding(context.Background(), identityID, []float32{0.1, 0.2})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown identity", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO identity_embeddings`).
			WithArgs(pgxmock.AnyArg(), identityID, pgxmock.AnyArg()).
			WillReturnError(errors.New(`insert or update on table "identity_embeddings" violates foreign key constraint (23503)`))

		repo := NewIdentityRepository(mock)
		err = repo.AddEmbedding(context.Background(), identityID, []float32{0.1, 0.2})

		assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIdentityRepository_ReplaceEmbeddings(t *testing.T) {
	identityID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM identity_embeddings`).
		WithArgs(identityID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`INSERT INTO identity_embeddings`).
		WithArgs(pgxmock.AnyArg(), identityID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO identity_embeddings`).
		WithArgs(pgxmock.AnyArg(), identityID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := NewIdentityRepository(mock)
	err = repo.ReplaceEmbeddings(context.Background(), identityID, [][]float32{{0.1}, {0.2}})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityRepository_ListForMatching(t *testing.T) {
	aliceID := uuid.New()
	bobID := uuid.New()

	t.Run("groups embeddings per identity", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "external_id", "name", "embedding"}).
			AddRow(aliceID, "emp-001", "Alice", pgvector.NewVector([]float32{0.1, 0.2})).
			AddRow(aliceID, "emp-001", "Alice", pgvector.NewVector([]float32{0.3, 0.4})).
			AddRow(bobID, "emp-002", "Bob", pgvector.NewVector([]float32{0.5, 0.6}))
		mock.ExpectQuery(`SELECT i.id, i.external_id, i.name, e.embedding FROM identities i INNER JOIN identity_embeddings e`).
			WillReturnRows(rows)

		repo := NewIdentityRepository(mock)
		entries, err := repo.ListForMatching(context.Background())

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, aliceID, entries[0].IdentityID)
		assert.Len(t, entries[0].Embeddings, 2)
		assert.Equal(t, bobID, entries[1].IdentityID)
		assert.Len(t, entries[1].Embeddings, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty gallery", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT i.id, i.external_id, i.name, e.embedding FROM identities i INNER JOIN identity_embeddings e`).
			WillReturnRows(pgxmock.NewRows([]string{"id", "external_id", "name", "embedding"}))

		repo := NewIdentityRepository(mock)
		entries, err := repo.ListForMatching(context.Background())

		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIdentityRepository_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM identities`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	repo := NewIdentityRepository(mock)
	count, err := repo.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// EventRepository Tests

func TestEventRepository_Create(t *testing.T) {
	identityID := uuid.New()
	now := time.Now()
	score := 0.12

	tests := []struct {
		name      string
		event     *domain.VerificationEvent
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   bool
	}{
		{
			name: "match event",
			event: &domain.VerificationEvent{
				IdentityID:   &identityID,
				IdentityName: "Alice Souza",
				QueryHash:    "abc123",
				Score:        &score,
				Decision:     domain.DecisionMatch,
				Source:       domain.SourceLive,
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO events`).
					WithArgs(
						pgxmock.AnyArg(),
						&identityID,
						"Alice Souza",
						"abc123",
						&score,
						domain.DecisionMatch,
						domain.SourceLive,
						"",
					).
					WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
			},
			wantErr: false,
		},
		{
			name: "no-match event without identity",
			event: &domain.VerificationEvent{
				QueryHash: "def456",
				Decision:  domain.DecisionNoMatch,
				Source:    domain.SourceUpload,
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO events`).
					WithArgs(
						pgxmock.AnyArg(),
						(*uuid.UUID)(nil),
						"",
						"def456",
						(*float64)(nil),
						domain.DecisionNoMatch,
						domain.SourceUpload,
						"",
					).
					WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
			},
			wantErr: false,
		},
		{
			name: "database error surfaces",
			event: &domain.VerificationEvent{
				QueryHash: "ghi789",
				Decision:  domain.DecisionNoMatch,
				Source:    domain.SourceUpload,
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO events`).
					WithArgs(
						pgxmock.AnyArg(),
						(*uuid.UUID)(nil),
						"",
						"ghi789",
						(*float64)(nil),
						domain.DecisionNoMatch,
						domain.SourceUpload,
						"",
					).
					WillReturnError(errors.New("disk full"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewEventRepository(mock)
			err = repo.Create(context.Background(), tt.event)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "create event")
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, tt.event.ID)
				assert.False(t, tt.event.CreatedAt.IsZero())
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_List(t *testing.T) {
	identityID := uuid.New()
	now := time.Now()
	score := 0.3

	t.Run("unfiltered", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

		rows := pgxmock.NewRows([]string{
			"id", "identity_id", "identity_name", "query_hash", "score", "decision", "source", "snapshot_key", "created_at",
		}).
			AddRow(uuid.New(), &identityID, "Alice Souza", "hash1", &score, domain.DecisionMatch, domain.SourceLive, "", now).
			AddRow(uuid.New(), nil, "", "hash2", nil, domain.DecisionNoMatch, domain.SourceUpload, "", now.Add(-time.Minute))
		mock.ExpectQuery(`SELECT id, identity_id, identity_name, query_hash, score, decision, source, snapshot_key, created_at FROM events`).
			WithArgs(defaultListLimit, 0).
			WillReturnRows(rows)

		repo := NewEventRepository(mock)
		events, total, err := repo.List(context.Background(), domain.EventFilter{})

		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, events, 2)

		assert.Equal(t, domain.DecisionMatch, events[0].Decision)
		require.NotNil(t, events[0].IdentityID)
		assert.Equal(t, identityID, *events[0].IdentityID)
		require.NotNil(t, events[0].Score)
		assert.Equal(t, score, *events[0].Score)

		assert.Nil(t, events[1].IdentityID)
		assert.Nil(t, events[1].Score)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtered by time window and decision", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		since := now.Add(-time.Hour)
		decision := domain.DecisionMatch

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE created_at >= \$1 AND decision = \$2`).
			WithArgs(since, decision).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

		rows := pgxmock.NewRows([]string{
			"id", "identity_id", "identity_name", "query_hash", "score", "decision", "source", "snapshot_key", "created_at",
		}).AddRow(uuid.New(), &identityID, "Alice Souza", "hash1", &score, decision, domain.SourceLive, "", now)
		mock.ExpectQuery(`SELECT id, identity_id, identity_name, query_hash, score, decision, source, snapshot_key, created_at FROM events WHERE created_at >= \$1 AND decision = \$2`).
			WithArgs(since, decision, 25, 0).
			WillReturnRows(rows)

		repo := NewEventRepository(mock)
		events, total, err := repo.List(context.Background(), domain.EventFilter{
			Since:    &since,
			Decision: &decision,
			Limit:    25,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, events, 1)
		assert.Equal(t, "Alice Souza", events[0].IdentityName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
			WillReturnError(errors.New("database connection error"))

		repo := NewEventRepository(mock)
		_, _, err = repo.List(context.Background(), domain.EventFilter{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "count events")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
