package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/metron/pkg/domain"
	"github.com/aretw0/metron/pkg/ports"
	"github.com/aretw0/metron/pkg/registry"
	"github.com/shopspring/decimal"
)

// DefaultFetchTimeout bounds a single rate fetch.
const DefaultFetchTimeout = 5 * time.Second

var errNoProvider = errors.New("no rate provider configured")

// Currency converts amounts using rates fetched per call from a RateProvider.
type Currency struct {
	provider ports.RateProvider
	registry *registry.Registry
	cache    ports.RateCache
	ttl      time.Duration
	timeout  time.Duration
	observer ports.Observer
	logger   *slog.Logger
}

// CurrencyOption configures a Currency converter.
type CurrencyOption func(*Currency)

// WithCurrencyRegistry restricts the accepted codes. Defaults to registry.Default().
func WithCurrencyRegistry(reg *registry.Registry) CurrencyOption {
	return func(c *Currency) {
		c.registry = reg
	}
}

// WithRateCache enables caching of fetched tables for ttl.
// Without it every conversion performs a fresh fetch.
func WithRateCache(cache ports.RateCache, ttl time.Duration) CurrencyOption {
	return func(c *Currency) {
		c.cache = cache
		c.ttl = ttl
	}
}

// WithFetchTimeout overrides DefaultFetchTimeout. Non-positive values are ignored.
func WithFetchTimeout(d time.Duration) CurrencyOption {
	return func(c *Currency) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithFetchObserver reports each rate lookup.
func WithFetchObserver(o ports.Observer) CurrencyOption {
	return func(c *Currency) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithCurrencyLogger sets the structured logger.
func WithCurrencyLogger(logger *slog.Logger) CurrencyOption {
	return func(c *Currency) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCurrency creates a currency converter backed by provider.
func NewCurrency(provider ports.RateProvider, opts ...CurrencyOption) *Currency {
	c := &Currency{
		provider: provider,
		timeout:  DefaultFetchTimeout,
		observer: ports.NopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		reg, _ := registry.Default().Registry(domain.Currency)
		c.registry = reg
	}
	return c
}

// Convert returns value expressed in the to currency.
// Unknown codes yield a *domain.UnknownUnitError. Any failure to obtain the
// rate yields a *domain.RateFetchError matching domain.ErrRatesUnavailable.
// NaN and infinite values are rejected with domain.ErrInvalidValue before any fetch.
func (c *Currency) Convert(ctx context.Context, value float64, from, to string) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidValue, value)
	}
	if _, err := c.registry.Lookup(from); err != nil {
		return 0, err
	}
	if _, err := c.registry.Lookup(to); err != nil {
		return 0, err
	}
	if from == to {
		return value, nil
	}

	table, err := c.rates(ctx, from, to)
	if err != nil {
		return 0, err
	}

	rate, ok := table.Rate(to)
	if !ok {
		return 0, domain.NewRateFetchError(domain.FailureMissingRate, from, to,
			fmt.Errorf("%s not in rates for %s", to, from))
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, domain.NewRateFetchError(domain.FailurePayload, from, to,
			fmt.Errorf("non-finite rate %v for %s", rate, to))
	}

	product, _ := decimal.NewFromFloat(value).Mul(decimal.NewFromFloat(rate)).Float64()
	return product, nil
}

func (c *Currency) rates(ctx context.Context, base, target string) (domain.RateTable, error) {
	if c.cache != nil {
		start := time.Now()
		table, ok, err := c.cache.Get(ctx, base)
		if err != nil {
			c.logger.Warn("rate cache read failed", "base", base, "error", err)
		} else if ok {
			c.observer.ObserveRateFetch(base, true, nil, time.Since(start))
			return table, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	table, err := c.fetch(fetchCtx, base)
	c.observer.ObserveRateFetch(base, false, err, time.Since(start))
	if err != nil {
		return domain.RateTable{}, withTarget(err, base, target)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, table, c.ttl); err != nil {
			c.logger.Warn("rate cache write failed", "base", base, "error", err)
		}
	}
	return table, nil
}

// fetch shields the caller from provider panics and untyped errors.
func (c *Currency) fetch(ctx context.Context, base string) (table domain.RateTable, err error) {
	if c.provider == nil {
		return domain.RateTable{}, domain.NewRateFetchError(domain.FailureNetwork, base, "", errNoProvider)
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("rate provider panicked", "base", base, "panic", r)
			table = domain.RateTable{}
			err = domain.NewRateFetchError(domain.FailureNetwork, base, "", fmt.Errorf("provider panic: %v", r))
		}
	}()

	table, err = c.provider.Latest(ctx, base)
	if err != nil {
		return domain.RateTable{}, err
	}
	if table.Base == "" {
		table.Base = base
	}
	if table.Rates == nil {
		return domain.RateTable{}, domain.NewRateFetchError(domain.FailurePayload, base, "", errors.New("no rates in response"))
	}
	return table, nil
}

func withTarget(err error, base, target string) error {
	var rfe *domain.RateFetchError
	if !errors.As(err, &rfe) {
		return domain.NewRateFetchError(domain.FailureNetwork, base, target, err)
	}
	cp := *rfe
	if cp.Target == "" {
		cp.Target = target
	}
	return &cp
}
