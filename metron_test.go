package metron_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/metron"
	"github.com/aretw0/metron/pkg/adapters/exchangerate"
	"github.com/aretw0/metron/pkg/adapters/memory"
	"github.com/aretw0/metron/pkg/domain"
	"github.com/aretw0/metron/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRates(rates map[string]float64) ports.RateProvider {
	return ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
		return domain.RateTable{Base: base, Rates: rates}, nil
	})
}

func failingRates() ports.RateProvider {
	return ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
		return domain.RateTable{}, errors.New("network unreachable")
	})
}

func TestConverter_Scenarios(t *testing.T) {
	conv := metron.New(metron.WithRateProvider(failingRates()))
	ctx := context.Background()

	tests := []struct {
		d        domain.Domain
		value    float64
		from, to string
		want     float64
		exact    bool
	}{
		{domain.Length, 1, "Kilometers", "Meters", 1000, true},
		{domain.Weight, 1, "Kilograms", "Pounds", 2.20462, false},
		{domain.Temperature, 32, "Fahrenheit", "Celsius", 0, true},
		{domain.Volume, 1, "Gallons", "Liters", 3.78541, false},
		{domain.Time, 1, "Hours", "Minutes", 60, true},
		{domain.Speed, 1, "Knots", "Kilometers per Hour", 1.852, false},
		{domain.Current, 2, "Kiloamperes", "Amperes", 2000, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.d), func(t *testing.T) {
			res, err := conv.Convert(ctx, tt.d, tt.value, tt.from, tt.to)
			require.NoError(t, err)
			assert.False(t, res.Unavailable)
			if tt.exact {
				assert.Equal(t, tt.want, res.Value)
			} else {
				assert.InEpsilon(t, tt.want, res.Value, 1e-5)
			}
		})
	}
}

func TestConverter_IdentityEveryUnit(t *testing.T) {
	conv := metron.New(metron.WithRateProvider(failingRates()))
	ctx := context.Background()

	for _, d := range conv.Domains() {
		units, err := conv.Units(d)
		require.NoError(t, err)
		for _, u := range units {
			res, err := conv.Convert(ctx, d, 7.25, u.Name, u.Name)
			require.NoError(t, err, "%s %s", d, u.Name)
			assert.False(t, res.Unavailable, "%s %s", d, u.Name)
			assert.Equal(t, 7.25, res.Value, "%s %s", d, u.Name)
		}
	}
}

func TestConverter_InvalidRequests(t *testing.T) {
	conv := metron.New(metron.WithRateProvider(failingRates()))
	ctx := context.Background()

	_, err := conv.Convert(ctx, "energy", 1, "Joules", "Calories")
	assert.ErrorIs(t, err, domain.ErrUnknownDomain)

	_, err = conv.Convert(ctx, domain.Length, 1, "Meters", "Parsecs")
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)

	_, err = conv.Convert(ctx, domain.Temperature, 1, "Rankine", "Celsius")
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)

	_, err = conv.Convert(ctx, domain.Currency, 1, "USD", "XXX")
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)

	_, err = conv.Convert(ctx, domain.Length, 1, "Met\xffers", "Feet")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := conv.Convert(ctx, domain.Length, 1, "Kilo\x1bmeters", "Meters")
	require.NoError(t, err)
	assert.Equal(t, "Kilometers", res.Request.From)
}

func TestConverter_CurrencyUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	conv := metron.New(metron.WithRateProvider(exchangerate.New(exchangerate.WithBaseURL(srv.URL))))

	var (
		res metron.Result
		err error
	)
	require.NotPanics(t, func() {
		res, err = conv.Convert(context.Background(), domain.Currency, 5, "USD", "EUR")
	})
	require.NoError(t, err)
	assert.True(t, res.Unavailable)
	assert.Zero(t, res.Value)
	assert.ErrorIs(t, res.Cause, domain.ErrRatesUnavailable)
	assert.Equal(t, domain.RatesUnavailableMessage, res.String())
}

func TestConverter_CurrencyWithCache(t *testing.T) {
	var calls int
	var mu sync.Mutex
	provider := ports.RateProviderFunc(func(ctx context.Context, base string) (domain.RateTable, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return domain.RateTable{Base: base, Rates: map[string]float64{"INR": 83.1}}, nil
	})

	conv := metron.New(
		metron.WithRateProvider(provider),
		metron.WithRateCache(memory.NewCache(), time.Hour),
	)

	for i := 0; i < 5; i++ {
		res, err := conv.Convert(context.Background(), domain.Currency, 2, "USD", "INR")
		require.NoError(t, err)
		assert.Equal(t, 166.2, res.Value)
	}
	assert.Equal(t, 1, calls)
}

type countingObserver struct {
	mu          sync.Mutex
	conversions map[domain.Domain]int
	failures    int
}

func (o *countingObserver) ObserveConversion(d domain.Domain, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.conversions == nil {
		o.conversions = make(map[domain.Domain]int)
	}
	o.conversions[d]++
	if err != nil {
		o.failures++
	}
}

func (o *countingObserver) ObserveRateFetch(string, bool, error, time.Duration) {}

func TestConverter_Observer(t *testing.T) {
	obs := &countingObserver{}
	conv := metron.New(metron.WithRateProvider(failingRates()), metron.WithObserver(obs))
	ctx := context.Background()

	_, _ = conv.Convert(ctx, domain.Length, 1, "Meters", "Feet")
	_, _ = conv.Convert(ctx, domain.Length, 1, "Meters", "Cubits")
	_, _ = conv.Convert(ctx, domain.Currency, 1, "USD", "EUR")

	assert.Equal(t, 2, obs.conversions[domain.Length])
	assert.Equal(t, 1, obs.conversions[domain.Currency])
	assert.Equal(t, 2, obs.failures)
}

func TestConverter_Concurrent(t *testing.T) {
	conv := metron.New(metron.WithRateProvider(fixedRates(map[string]float64{"EUR": 0.9})))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := conv.Convert(ctx, domain.Time, 2, "Days", "Hours")
			assert.NoError(t, err)
			assert.Equal(t, 48.0, res.Value)

			res, err = conv.Convert(ctx, domain.Currency, 10, "USD", "EUR")
			assert.NoError(t, err)
			assert.Equal(t, 9.0, res.Value)
		}()
	}
	wg.Wait()
}
