package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

const (
	cacheKeySummary  = "stats:summary:%d"
	cacheKeyTop      = "stats:top:%d:%d"
	cacheKeyTimeline = "stats:timeline:%d"

	defaultWindowHours = 24
	maxWindowHours     = 24 * 7
	defaultTopLimit    = 10
	maxTopLimit        = 50
)

// RepositoryInterface defines the aggregate queries the service needs.
type RepositoryInterface interface {
	Summarize(ctx context.Context, since time.Time) (*Summary, error)
	TopIdentities(ctx context.Context, since time.Time, limit int) ([]TopIdentity, error)
	Timeline(ctx context.Context, since time.Time) ([]TimelineBucket, error)
}

// CacheService abstracts the TTL cache in front of the aggregates.
type CacheService interface {
	Get(ctx context.Context, key string, value interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Service serves dashboard aggregates. Every read goes through the
// cache first; a miss recomputes from the events table and stores the
// result for the configured TTL. Cache failures never fail a read.
type Service struct {
	repo  RepositoryInterface
	cache CacheService
	ttl   time.Duration
	now   func() time.Time
}

func NewService(repo RepositoryInterface, cache CacheService, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Summary returns verification totals for the trailing window.
func (s *Service) Summary(ctx context.Context, hours int) (*Summary, error) {
	hours = clampWindow(hours)
	cacheKey := fmt.Sprintf(cacheKeySummary, hours)

	var cached Summary
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	since := s.now().UTC().Add(-time.Duration(hours) * time.Hour)
	summary, err := s.repo.Summarize(ctx, since)
	if err != nil {
		return nil, domain.ErrPersistence.WithError(err)
	}
	summary.WindowHours = hours
	summary.GeneratedAt = s.now().UTC()

	_ = s.cache.Set(ctx, cacheKey, summary, s.ttl)
	return summary, nil
}

// TopIdentities returns the most-matched identities for the trailing
// window.
func (s *Service) TopIdentities(ctx context.Context, hours, limit int) ([]TopIdentity, error) {
	hours = clampWindow(hours)
	limit = clampLimit(limit)
	cacheKey := fmt.Sprintf(cacheKeyTop, hours, limit)

	var cached []TopIdentity
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	since := s.now().UTC().Add(-time.Duration(hours) * time.Hour)
	top, err := s.repo.TopIdentities(ctx, since, limit)
	if err != nil {
		return nil, domain.ErrPersistence.WithError(err)
	}

	_ = s.cache.Set(ctx, cacheKey, top, s.ttl)
	return top, nil
}

// Timeline returns hourly decision counts for the trailing window,
// including zero buckets for quiet hours so charts keep a continuous
// axis.
func (s *Service) Timeline(ctx context.Context, hours int) ([]TimelineBucket, error) {
	hours = clampWindow(hours)
	cacheKey := fmt.Sprintf(cacheKeyTimeline, hours)

	var cached []TimelineBucket
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	now := s.now().UTC()
	since := now.Add(-time.Duration(hours) * time.Hour).Truncate(time.Hour)
	buckets, err := s.repo.Timeline(ctx, since)
	if err != nil {
		return nil, domain.ErrPersistence.WithError(err)
	}
	filled := fillTimeline(buckets, since, now)

	_ = s.cache.Set(ctx, cacheKey, filled, s.ttl)
	return filled, nil
}

func clampWindow(hours int) int {
	if hours <= 0 {
		return defaultWindowHours
	}
	if hours > maxWindowHours {
		return maxWindowHours
	}
	return hours
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultTopLimit
	}
	if limit > maxTopLimit {
		return maxTopLimit
	}
	return limit
}

func fillTimeline(buckets []TimelineBucket, since, until time.Time) []TimelineBucket {
	byHour := make(map[int64]TimelineBucket, len(buckets))
	for _, bucket := range buckets {
		byHour[bucket.Hour.Truncate(time.Hour).Unix()] = bucket
	}

	filled := make([]TimelineBucket, 0, len(buckets))
	for hour := since; !hour.After(until); hour = hour.Add(time.Hour) {
		bucket, ok := byHour[hour.Unix()]
		if !ok {
			bucket = TimelineBucket{}
		}
		bucket.Hour = hour
		filled = append(filled, bucket)
	}
	return filled
}
