// Package gallery keeps the in-memory view of enrolled identities that
// verifications scan against. Reads are lock-free against an immutable
// snapshot; every gallery mutation invalidates the snapshot and the next
// read rebuilds it from the database.
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/saturnino-fabrica-de-software/facegate/internal/matcher"
)

// Loader fetches the matchable form of every enrolled identity.
type Loader interface {
	ListForMatching(ctx context.Context) ([]matcher.Entry, error)
}

// Cache is a copy-on-invalidate snapshot cache over a Loader. A stored
// snapshot is never mutated, so concurrent verifications can scan it without
// coordination while writers only race on the rebuild.
type Cache struct {
	loader Loader
	dim    int
	logger *slog.Logger

	current atomic.Pointer[matcher.Snapshot]
	mu      sync.Mutex // serializes rebuilds only
}

func NewCache(loader Loader, dim int, logger *slog.Logger) *Cache {
	return &Cache{
		loader: loader,
		dim:    dim,
		logger: logger,
	}
}

// Snapshot returns the current gallery snapshot, rebuilding it from the
// database when none is cached. Callers hold the returned snapshot for the
// whole request so one verification always sees one consistent gallery.
func (c *Cache) Snapshot(ctx context.Context) (*matcher.Snapshot, error) {
	if snap := c.current.Load(); snap != nil {
		return snap, nil
	}
	return c.rebuild(ctx)
}

func (c *Cache) rebuild(ctx context.Context) (*matcher.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// another request may have rebuilt while we waited for the lock
	if snap := c.current.Load(); snap != nil {
		return snap, nil
	}

	start := time.Now()
	entries, err := c.loader.ListForMatching(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}

	snap := &matcher.Snapshot{Entries: entries, Dim: c.dim}
	c.current.Store(snap)

	c.logger.Debug("gallery snapshot rebuilt",
		slog.Int("identities", len(entries)),
		slog.Duration("took", time.Since(start)),
	)

	return snap, nil
}

// Invalidate drops the cached snapshot. Writers call it after every enroll,
// update or delete; in-flight verifications keep scanning the snapshot they
// already hold.
func (c *Cache) Invalidate() {
	c.current.Store(nil)
}

// Warm builds the first snapshot eagerly so the first verification after
// startup does not pay for the load.
func (c *Cache) Warm(ctx context.Context) error {
	_, err := c.Snapshot(ctx)
	return err
}
