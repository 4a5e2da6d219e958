package service

import (
	"bytes"
	"context"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facegate/internal/audit"
	"github.com/saturnino-fabrica-de-software/facegate/internal/blobstore"
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/matcher"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

type IdentityRepositoryInterface interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Identity, error)
	List(ctx context.Context, params domain.ListParams) ([]domain.Identity, int, error)
	Update(ctx context.Context, identity *domain.Identity) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddEmbedding(ctx context.Context, identityID uuid.UUID, embedding []float32) error
}

// EnrollmentService validates face images and commits identities to the
// gallery. It owns the single-face and duplicate-face constraints; uniqueness
// of external_id is left to the store's constraint.
type EnrollmentService struct {
	identities IdentityRepositoryInterface
	extractor  provider.Extractor
	matcher    *matcher.Matcher
	gallery    GallerySnapshots
	portraits  blobstore.Store
	notifier   Notifier
	audit      audit.Logger
	logger     *slog.Logger

	duplicateThreshold     float64
	minDetectionConfidence float64
}

func NewEnrollmentService(
	identities IdentityRepositoryInterface,
	extractor provider.Extractor,
	m *matcher.Matcher,
	gallery GallerySnapshots,
	portraits blobstore.Store,
	duplicateThreshold float64,
	minDetectionConfidence float64,
	logger *slog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		identities:             identities,
		extractor:              extractor,
		matcher:                m,
		gallery:                gallery,
		portraits:              portraits,
		notifier:               NoOpNotifier{},
		audit:                  &audit.NoOpLogger{},
		logger:                 logger,
		duplicateThreshold:     duplicateThreshold,
		minDetectionConfidence: minDetectionConfidence,
	}
}

func (s *EnrollmentService) WithNotifier(notifier Notifier) *EnrollmentService {
	s.notifier = notifier
	return s
}

func (s *EnrollmentService) WithAudit(auditLogger audit.Logger) *EnrollmentService {
	s.audit = auditLogger
	return s
}

// Enroll extracts exactly one face from the image and commits a new identity
// with it as the first reference embedding.
func (s *EnrollmentService) Enroll(ctx context.Context, imageBytes []byte, externalID, name string, metadata map[string]interface{}) (*domain.Identity, error) {
	observation, err := s.singleFace(ctx, imageBytes)
	if err != nil {
		s.auditEnrollment(ctx, "", externalID, err)
		return nil, err
	}

	if err := s.guardDuplicate(ctx, observation.Embedding, uuid.Nil); err != nil {
		s.auditEnrollment(ctx, "", externalID, err)
		return nil, err
	}

	identity := &domain.Identity{
		ID:         uuid.New(),
		ExternalID: externalID,
		Name:       name,
		Metadata:   metadata,
		Embeddings: [][]float32{observation.Embedding},
	}
	identity.PortraitKey = s.storePortrait(ctx, identity.ID, imageBytes, observation.Box)

	if err := s.identities.Create(ctx, identity); err != nil {
		s.dropPortrait(ctx, identity.PortraitKey)
		s.auditEnrollment(ctx, "", externalID, err)
		return nil, err
	}
	s.gallery.Invalidate()

	s.auditEnrollment(ctx, identity.ID.String(), externalID, nil)
	s.notifier.IdentityEnrolled(identity)
	s.logger.InfoContext(ctx, "identity enrolled",
		slog.String("identity_id", identity.ID.String()),
		slog.String("external_id", externalID),
		slog.String("provider", s.extractor.Name()),
	)

	return identity, nil
}

// UpdateMetadata rewrites the identity's scalar fields. No image is involved,
// so no face validation or duplicate guard runs. Zero-valued inputs keep the
// stored value; a non-nil empty metadata map clears it.
func (s *EnrollmentService) UpdateMetadata(ctx context.Context, id uuid.UUID, externalID, name string, metadata map[string]interface{}) (*domain.Identity, error) {
	identity, err := s.identities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if externalID != "" {
		identity.ExternalID = externalID
	}
	if name != "" {
		identity.Name = name
	}
	if metadata != nil {
		identity.Metadata = metadata
	}

	if err := s.identities.Update(ctx, identity); err != nil {
		return nil, err
	}
	// Name and external_id are denormalized into match entries.
	s.gallery.Invalidate()

	_ = s.audit.Log(ctx, audit.Event{
		EventType:  audit.EventIdentityUpdated,
		IdentityID: identity.ID.String(),
		ExternalID: identity.ExternalID,
		Success:    true,
	})

	return identity, nil
}

// AddReferenceImage appends one more reference embedding to an enrolled
// identity. The duplicate guard runs against every other identity; matching
// the identity being updated is the expected case, not a conflict.
func (s *EnrollmentService) AddReferenceImage(ctx context.Context, id uuid.UUID, imageBytes []byte) (*domain.Identity, error) {
	identity, err := s.identities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	observation, err := s.singleFace(ctx, imageBytes)
	if err != nil {
		return nil, err
	}

	if err := s.guardDuplicate(ctx, observation.Embedding, identity.ID); err != nil {
		return nil, err
	}

	if err := s.identities.AddEmbedding(ctx, identity.ID, observation.Embedding); err != nil {
		return nil, err
	}
	s.gallery.Invalidate()

	identity.Embeddings = append(identity.Embeddings, observation.Embedding)
	identity.EmbeddingCount = len(identity.Embeddings)

	_ = s.audit.Log(ctx, audit.Event{
		EventType:  audit.EventEmbeddingAdded,
		IdentityID: identity.ID.String(),
		ExternalID: identity.ExternalID,
		Provider:   s.extractor.Name(),
		Success:    true,
	})

	return identity, nil
}

// Delete removes the identity, its embeddings and its portrait. Recorded
// verification events stay.
func (s *EnrollmentService) Delete(ctx context.Context, id uuid.UUID) error {
	identity, err := s.identities.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.identities.Delete(ctx, id); err != nil {
		return err
	}
	s.dropPortrait(ctx, identity.PortraitKey)
	s.gallery.Invalidate()

	_ = s.audit.Log(ctx, audit.Event{
		EventType:  audit.EventIdentityDeleted,
		IdentityID: identity.ID.String(),
		ExternalID: identity.ExternalID,
		Success:    true,
	})
	s.notifier.IdentityDeleted(identity)

	return nil
}

func (s *EnrollmentService) Get(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	return s.identities.GetByID(ctx, id)
}

func (s *EnrollmentService) GetByExternalID(ctx context.Context, externalID string) (*domain.Identity, error) {
	return s.identities.GetByExternalID(ctx, externalID)
}

func (s *EnrollmentService) List(ctx context.Context, params domain.ListParams) ([]domain.Identity, int, error) {
	return s.identities.List(ctx, params)
}

// singleFace extracts observations and enforces the enrollment ambiguity
// rule: zero faces and ambiguous multi-face frames are rejected, a single
// clear face wins even when low-confidence noise observations surround it.
func (s *EnrollmentService) singleFace(ctx context.Context, imageBytes []byte) (provider.FaceObservation, error) {
	observations, err := s.extractor.Extract(ctx, imageBytes)
	if err != nil {
		return provider.FaceObservation{}, err
	}

	if len(observations) == 0 {
		return provider.FaceObservation{}, domain.ErrNoFaceDetected
	}

	confident := 0
	for _, o := range observations {
		if o.Confidence >= s.minDetectionConfidence {
			confident++
		}
	}
	if confident > 1 {
		return provider.FaceObservation{}, domain.ErrMultipleFaces
	}

	return observations[0], nil
}

// guardDuplicate rejects embeddings that already match an enrolled identity
// under the duplicate threshold. skip excludes one identity from the scan,
// for updates to an identity's own reference set.
func (s *EnrollmentService) guardDuplicate(ctx context.Context, embedding []float32, skip uuid.UUID) error {
	snapshot, err := s.gallery.Snapshot(ctx)
	if err != nil {
		return domain.ErrPersistence.WithError(err)
	}

	var skipID *uuid.UUID
	if skip != uuid.Nil {
		skipID = &skip
	}

	candidate, ok := s.matcher.Nearest(embedding, snapshot, skipID)
	if ok && candidate.Distance < s.duplicateThreshold {
		s.logger.WarnContext(ctx, "enrollment rejected as duplicate",
			slog.String("matches_external_id", candidate.ExternalID),
			slog.Float64("distance", candidate.Distance),
		)
		return domain.ErrDuplicateIdentity
	}

	return nil
}

func (s *EnrollmentService) storePortrait(ctx context.Context, id uuid.UUID, imageBytes []byte, box provider.BoundingBox) string {
	if s.portraits == nil {
		return ""
	}

	key := "portraits/" + id.String() + ".jpg"
	if err := s.portraits.Put(ctx, key, cropPortrait(imageBytes, box)); err != nil {
		s.logger.WarnContext(ctx, "portrait store failed",
			slog.String("identity_id", id.String()),
			slog.String("error", err.Error()),
		)
		return ""
	}
	return key
}

func (s *EnrollmentService) dropPortrait(ctx context.Context, key string) {
	if s.portraits == nil || key == "" {
		return
	}
	if err := s.portraits.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "portrait delete failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (s *EnrollmentService) auditEnrollment(ctx context.Context, identityID, externalID string, err error) {
	event := audit.Event{
		EventType:  audit.EventIdentityEnrolled,
		IdentityID: identityID,
		ExternalID: externalID,
		Provider:   s.extractor.Name(),
		Success:    err == nil,
	}
	if err != nil {
		event.Error = err.Error()
	}
	_ = s.audit.Log(ctx, event)
}

// cropPortrait cuts the observation box out of the frame and re-encodes it
// as JPEG. Cropping is best-effort: an undecodable frame or degenerate box
// falls back to the full original bytes.
func cropPortrait(imageBytes []byte, box provider.BoundingBox) []byte {
	src, err := imaging.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return imageBytes
	}

	rect := image.Rect(int(box.X), int(box.Y), int(box.X+box.Width), int(box.Y+box.Height))
	cropped := imaging.Crop(src, rect)
	if cropped.Rect.Empty() {
		cropped = imaging.Clone(src)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return imageBytes
	}
	return buf.Bytes()
}
