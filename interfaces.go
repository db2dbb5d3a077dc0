package dlt

import (
	"context"
	"time"
)

// Fetcher retrieves raw draw records from an upstream provider
type Fetcher interface {
	// Fetch performs one request for the given query and returns the records
	// found under the provider's result list
	Fetch(ctx context.Context, q Query) ([]RawRecord, error)
}

// Cache stores fetched batches for a fixed time-to-live
type Cache interface {
	// Get returns the live entry for key, or ErrCacheMiss
	Get(ctx context.Context, key string) (*CachedBatch, error)

	// Set stores batch under key for ttl
	Set(ctx context.Context, key string, batch *CachedBatch, ttl time.Duration) error

	// Close releases the backend
	Close() error
}

// RandomGenerator produces integers for the recommendation sampler
type RandomGenerator interface {
	// GenerateInRange returns an integer in [min, max]
	GenerateInRange(min, max int) (int, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}
