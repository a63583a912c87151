package ports

import (
	"context"
	"time"

	"github.com/aretw0/metron/pkg/domain"
)

// RateProvider fetches exchange rates from a remote source.
type RateProvider interface {
	// Latest returns the rates relative to base.
	// Any failure must be reported as a *domain.RateFetchError.
	Latest(ctx context.Context, base string) (domain.RateTable, error)
}

// RateProviderFunc adapts a function to RateProvider.
type RateProviderFunc func(ctx context.Context, base string) (domain.RateTable, error)

// Latest calls f.
func (f RateProviderFunc) Latest(ctx context.Context, base string) (domain.RateTable, error) {
	return f(ctx, base)
}

// RateCache stores rate tables for a bounded time.
// Expired entries must behave as misses; a cache never serves stale rates.
type RateCache interface {
	// Get returns the cached table for base, and false on a miss.
	Get(ctx context.Context, base string) (domain.RateTable, bool, error)

	// Set stores the table under its base for ttl. A ttl of 0 means no expiration.
	Set(ctx context.Context, table domain.RateTable, ttl time.Duration) error
}
