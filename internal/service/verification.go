package service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facegate/internal/blobstore"
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/matcher"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

// GallerySnapshots hands out immutable gallery snapshots for matching.
type GallerySnapshots interface {
	Snapshot(ctx context.Context) (*matcher.Snapshot, error)
	Invalidate()
}

// ActivityRecorder is the slice of ActivityService the verification path needs.
type ActivityRecorder interface {
	Record(ctx context.Context, event *domain.VerificationEvent) error
}

type VerificationService struct {
	extractor provider.Extractor
	matcher   *matcher.Matcher
	gallery   GallerySnapshots
	activity  ActivityRecorder
	logger    *slog.Logger

	// frames is set when verify images are persisted alongside the event.
	frames blobstore.Store
}

func NewVerificationService(
	extractor provider.Extractor,
	m *matcher.Matcher,
	gallery GallerySnapshots,
	activity ActivityRecorder,
	logger *slog.Logger,
) *VerificationService {
	return &VerificationService{
		extractor: extractor,
		matcher:   m,
		gallery:   gallery,
		activity:  activity,
		logger:    logger,
	}
}

// WithFrameStore persists each verified frame to the blob store and records
// its key on the event.
func (s *VerificationService) WithFrameStore(store blobstore.Store) *VerificationService {
	s.frames = store
	return s
}

// Verify runs one frame through extract, match and record. Every attempt that
// gets past input validation terminates in exactly one recorded event, model
// outages included; only a failed event insert makes the call itself fail.
func (s *VerificationService) Verify(ctx context.Context, imageBytes []byte, source domain.Source) (*domain.VerificationEvent, error) {
	start := time.Now()
	if source == "" {
		source = domain.SourceUpload
	}

	observations, err := s.extractor.Extract(ctx, imageBytes)
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			// The image hash stands in for the embedding hash so the
			// trail records that an attempt happened during the outage.
			s.logger.WarnContext(ctx, "verification with model unavailable",
				slog.String("provider", s.extractor.Name()),
				slog.String("error", err.Error()),
			)
			return s.record(ctx, s.newEvent(ctx, imageHash(imageBytes), domain.MatchResult{
				Score:    math.Inf(1),
				Decision: domain.DecisionNoMatch,
			}, source, imageBytes))
		}
		return nil, err
	}

	if len(observations) == 0 {
		return s.record(ctx, s.newEvent(ctx, imageHash(imageBytes), domain.MatchResult{
			Score:    math.Inf(1),
			Decision: domain.DecisionNoMatch,
		}, source, imageBytes))
	}

	// Highest-confidence face wins; unlike enrollment, a crowded frame is
	// a legitimate verification input.
	query := observations[0].Embedding

	snapshot, err := s.gallery.Snapshot(ctx)
	if err != nil {
		return nil, domain.ErrPersistence.WithError(err)
	}

	result := s.matcher.Match(query, snapshot)
	event, err := s.record(ctx, s.newEvent(ctx, embeddingHash(query), result, source, imageBytes))
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "verification recorded",
		slog.String("decision", string(result.Decision)),
		slog.Float64("score", result.Score),
		slog.String("provider", s.extractor.Name()),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()),
	)
	return event, nil
}

func (s *VerificationService) newEvent(ctx context.Context, queryHash string, result domain.MatchResult, source domain.Source, imageBytes []byte) *domain.VerificationEvent {
	event := &domain.VerificationEvent{
		IdentityID:   result.IdentityID,
		IdentityName: result.IdentityName,
		QueryHash:    queryHash,
		Decision:     result.Decision,
		Source:       source,
	}
	if !math.IsInf(result.Score, 1) {
		score := result.Score
		event.Score = &score
	}
	if s.frames != nil {
		event.SnapshotKey = s.storeFrame(ctx, imageBytes)
	}
	return event
}

func (s *VerificationService) record(ctx context.Context, event *domain.VerificationEvent) (*domain.VerificationEvent, error) {
	if err := s.activity.Record(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *VerificationService) storeFrame(ctx context.Context, imageBytes []byte) string {
	key := "snapshots/" + uuid.NewString() + ".jpg"
	if err := s.frames.Put(ctx, key, imageBytes); err != nil {
		s.logger.Warn("frame store failed", slog.String("error", err.Error()))
		return ""
	}
	return key
}

// embeddingHash is the SHA-256 hex of the vector's canonical big-endian
// float32 bytes. The vector itself never reaches the event log.
func embeddingHash(embedding []float32) string {
	buf := make([]byte, 4*len(embedding))
	for i, v := range embedding {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// imageHash stands in for embeddingHash when no embedding was extracted.
func imageHash(imageBytes []byte) string {
	sum := sha256.Sum256(imageBytes)
	return hex.EncodeToString(sum[:])
}
