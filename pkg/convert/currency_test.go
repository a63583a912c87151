package convert_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/metron/pkg/convert"
	"github.com/aretw0/metron/pkg/domain"
	"github.com/aretw0/metron/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Latest(ctx context.Context, base string) (domain.RateTable, error) {
	args := m.Called(ctx, base)
	return args.Get(0).(domain.RateTable), args.Error(1)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]domain.RateTable
	sets int
}

func (c *mapCache) Get(_ context.Context, base string) (domain.RateTable, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.data[base]
	return t, ok, nil
}

func (c *mapCache) Set(_ context.Context, table domain.RateTable, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]domain.RateTable)
	}
	c.data[table.Base] = table
	c.sets++
	return nil
}

func usdTable() domain.RateTable {
	return domain.RateTable{Base: "USD", Rates: map[string]float64{"USD": 1, "EUR": 0.92, "PKR": 278.5}}
}

func TestCurrency_Convert(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Latest", mock.Anything, "USD").Return(usdTable(), nil)

	c := convert.NewCurrency(provider)
	got, err := c.Convert(context.Background(), 10, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 9.2, got)

	got, err = c.Convert(context.Background(), 2.5, "USD", "PKR")
	require.NoError(t, err)
	assert.Equal(t, 696.25, got)

	// No caching by default: one fetch per conversion.
	provider.AssertNumberOfCalls(t, "Latest", 2)
}

func TestCurrency_IdentitySkipsFetch(t *testing.T) {
	provider := new(MockProvider)
	c := convert.NewCurrency(provider)

	got, err := c.Convert(context.Background(), 12.34, "JPY", "JPY")
	require.NoError(t, err)
	assert.Equal(t, 12.34, got)
	provider.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything)
}

func TestCurrency_UnknownCode(t *testing.T) {
	provider := new(MockProvider)
	c := convert.NewCurrency(provider)

	_, err := c.Convert(context.Background(), 1, "XYZ", "USD")
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)
	assert.NotErrorIs(t, err, domain.ErrRatesUnavailable)
	provider.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything)
}

func TestCurrency_Failures(t *testing.T) {
	tests := []struct {
		name     string
		provider ports.RateProvider
		wantKind domain.FetchFailure
	}{
		{
			name: "untyped provider error",
			provider: ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
				return domain.RateTable{}, errors.New("connection refused")
			}),
			wantKind: domain.FailureNetwork,
		},
		{
			name: "typed status error",
			provider: ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
				return domain.RateTable{}, domain.NewRateFetchError(domain.FailureStatus, base, "", errors.New("503"))
			}),
			wantKind: domain.FailureStatus,
		},
		{
			name: "nil rates",
			provider: ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
				return domain.RateTable{Base: base}, nil
			}),
			wantKind: domain.FailurePayload,
		},
		{
			name: "missing target code",
			provider: ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
				return domain.RateTable{Base: base, Rates: map[string]float64{"GBP": 0.8}}, nil
			}),
			wantKind: domain.FailureMissingRate,
		},
		{
			name: "infinite rate",
			provider: ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
				return domain.RateTable{Base: base, Rates: map[string]float64{"EUR": math.Inf(1)}}, nil
			}),
			wantKind: domain.FailurePayload,
		},
		{
			name: "NaN rate",
			provider: ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
				return domain.RateTable{Base: base, Rates: map[string]float64{"EUR": math.NaN()}}, nil
			}),
			wantKind: domain.FailurePayload,
		},
		{
			name: "panic",
			provider: ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
				panic("boom")
			}),
			wantKind: domain.FailureNetwork,
		},
		{
			name:     "no provider",
			provider: nil,
			wantKind: domain.FailureNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := convert.NewCurrency(tt.provider)

			var (
				got float64
				err error
			)
			require.NotPanics(t, func() {
				got, err = c.Convert(context.Background(), 1, "USD", "EUR")
			})
			assert.Zero(t, got)
			require.ErrorIs(t, err, domain.ErrRatesUnavailable)

			var rfe *domain.RateFetchError
			require.ErrorAs(t, err, &rfe)
			assert.Equal(t, tt.wantKind, rfe.Kind)
			assert.Equal(t, "USD", rfe.Base)
			assert.Equal(t, "EUR", rfe.Target)
		})
	}
}

func TestCurrency_NonFiniteValue(t *testing.T) {
	provider := new(MockProvider)
	c := convert.NewCurrency(provider)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var err error
		require.NotPanics(t, func() {
			_, err = c.Convert(context.Background(), v, "USD", "EUR")
		})
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
		assert.NotErrorIs(t, err, domain.ErrRatesUnavailable)
	}
	provider.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything)
}

func TestCurrency_Timeout(t *testing.T) {
	slow := ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
		<-ctx.Done()
		return domain.RateTable{}, ctx.Err()
	})
	c := convert.NewCurrency(slow, convert.WithFetchTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := c.Convert(context.Background(), 1, "USD", "EUR")
	assert.ErrorIs(t, err, domain.ErrRatesUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestCurrency_WithCache(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Latest", mock.Anything, "USD").Return(usdTable(), nil).Once()
	cache := &mapCache{}

	c := convert.NewCurrency(provider, convert.WithRateCache(cache, time.Minute))
	for i := 0; i < 3; i++ {
		got, err := c.Convert(context.Background(), 1, "USD", "EUR")
		require.NoError(t, err)
		assert.Equal(t, 0.92, got)
	}

	provider.AssertNumberOfCalls(t, "Latest", 1)
	assert.Equal(t, 1, cache.sets)
}

type recordingObserver struct {
	mu      sync.Mutex
	fetches []bool
	errs    []error
}

func (o *recordingObserver) ObserveConversion(domain.Domain, error, time.Duration) {}

func (o *recordingObserver) ObserveRateFetch(_ string, cached bool, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fetches = append(o.fetches, cached)
	o.errs = append(o.errs, err)
}

func TestCurrency_ObservesFetches(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Latest", mock.Anything, "USD").Return(usdTable(), nil)
	obs := &recordingObserver{}

	c := convert.NewCurrency(provider,
		convert.WithRateCache(&mapCache{}, time.Minute),
		convert.WithFetchObserver(obs),
	)
	_, err := c.Convert(context.Background(), 1, "USD", "EUR")
	require.NoError(t, err)
	_, err = c.Convert(context.Background(), 1, "USD", "PKR")
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true}, obs.fetches)
	assert.Equal(t, []error{nil, nil}, obs.errs)
}
