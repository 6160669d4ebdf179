// Package cache holds the scoring configuration between backend reads.
package cache

import (
	"context"
	"time"

	"recruit-scoring/internal/scoring"
)

// DefaultTTL is how long a fetched configuration is served before the
// backend is asked again.
const DefaultTTL = 5 * time.Minute

// ConfigCache stores at most one scoring configuration.
//
// Every Invalidate advances a generation counter. A reader takes the
// generation before asking the backend and fills the cache with it, so a
// fill that raced with a save is dropped instead of restoring old weights.
type ConfigCache interface {
	// Get returns the cached configuration and whether it was present and
	// fresh.
	Get(ctx context.Context) (*scoring.ScoringConfig, bool, error)
	Generation(ctx context.Context) (int64, error)
	// Fill stores cfg only if the generation is still gen. It reports
	// whether the value was stored.
	Fill(ctx context.Context, cfg scoring.ScoringConfig, gen int64) (bool, error)
	Invalidate(ctx context.Context) error
}
