package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/metron/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRateCacheContract runs a suite of tests to verify that a RateCache implementation
// adheres to the defined interface contract.
func RunRateCacheContract(t *testing.T, cache RateCache) {
	ctx := context.Background()
	base := "USD"

	t.Run("Miss", func(t *testing.T) {
		_, ok, err := cache.Get(ctx, "XXX")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Set and Get", func(t *testing.T) {
		table := domain.RateTable{
			Base:      base,
			Rates:     map[string]float64{"EUR": 0.92, "JPY": 151.3},
			FetchedAt: time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, cache.Set(ctx, table, 0))

		got, ok, err := cache.Get(ctx, base)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, base, got.Base)
		assert.Equal(t, 0.92, got.Rates["EUR"])
		assert.Equal(t, 151.3, got.Rates["JPY"])
		assert.True(t, table.FetchedAt.Equal(got.FetchedAt))
	})

	t.Run("Overwrite", func(t *testing.T) {
		table := domain.RateTable{Base: base, Rates: map[string]float64{"EUR": 0.5}}
		require.NoError(t, cache.Set(ctx, table, 0))

		got, ok, err := cache.Get(ctx, base)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 0.5, got.Rates["EUR"])
		assert.NotContains(t, got.Rates, "JPY")
	})

	t.Run("Isolation", func(t *testing.T) {
		got, ok, err := cache.Get(ctx, base)
		require.NoError(t, err)
		require.True(t, ok)
		got.Rates["EUR"] = 99

		again, _, err := cache.Get(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, 0.5, again.Rates["EUR"])
	})
}
