package metron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/metron/pkg/adapters/exchangerate"
	"github.com/aretw0/metron/pkg/convert"
	"github.com/aretw0/metron/pkg/domain"
	"github.com/aretw0/metron/pkg/ports"
	"github.com/aretw0/metron/pkg/registry"
)

// Result is the outcome of a conversion.
type Result = domain.ConversionResult

// Converter is the high-level entry point for the metron library.
// It owns the unit catalog and the currency path and is safe for concurrent use.
type Converter struct {
	catalog      *registry.Catalog
	provider     ports.RateProvider
	cache        ports.RateCache
	cacheTTL     time.Duration
	fetchTimeout time.Duration
	observer     ports.Observer
	logger       *slog.Logger

	currency *convert.Currency
}

// Option defines a functional option for configuring the Converter.
type Option func(*Converter)

// WithCatalog replaces the built-in unit catalog.
func WithCatalog(c *registry.Catalog) Option {
	return func(cv *Converter) {
		cv.catalog = c
	}
}

// WithRateProvider injects the exchange rate source (default: exchangerate.New()).
func WithRateProvider(p ports.RateProvider) Option {
	return func(cv *Converter) {
		cv.provider = p
	}
}

// WithRateCache enables caching of rate tables for ttl. Disabled by default.
func WithRateCache(cache ports.RateCache, ttl time.Duration) Option {
	return func(cv *Converter) {
		cv.cache = cache
		cv.cacheTTL = ttl
	}
}

// WithFetchTimeout bounds each rate fetch (default convert.DefaultFetchTimeout).
func WithFetchTimeout(d time.Duration) Option {
	return func(cv *Converter) {
		cv.fetchTimeout = d
	}
}

// WithObserver registers a sink for conversion and fetch outcomes.
func WithObserver(o ports.Observer) Option {
	return func(cv *Converter) {
		cv.observer = o
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cv *Converter) {
		cv.logger = logger
	}
}

// New creates a Converter. Registries are built once and shared.
func New(opts ...Option) *Converter {
	cv := &Converter{
		catalog:  registry.Default(),
		observer: ports.NopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(cv)
	}
	if cv.observer == nil {
		cv.observer = ports.NopObserver{}
	}
	if cv.logger == nil {
		cv.logger = slog.Default()
	}
	if cv.provider == nil {
		cv.provider = exchangerate.New(exchangerate.WithLogger(cv.logger))
	}

	currencyOpts := []convert.CurrencyOption{
		convert.WithFetchTimeout(cv.fetchTimeout),
		convert.WithFetchObserver(cv.observer),
		convert.WithCurrencyLogger(cv.logger),
	}
	if reg, err := cv.catalog.Registry(domain.Currency); err == nil {
		currencyOpts = append(currencyOpts, convert.WithCurrencyRegistry(reg))
	}
	if cv.cache != nil {
		currencyOpts = append(currencyOpts, convert.WithRateCache(cv.cache, cv.cacheTTL))
	}
	cv.currency = convert.NewCurrency(cv.provider, currencyOpts...)

	return cv
}

// Domains lists the domains this converter supports.
func (cv *Converter) Domains() []domain.Domain {
	return cv.catalog.Domains()
}

// Units lists the units of d in definition order.
func (cv *Converter) Units(d domain.Domain) ([]domain.Unit, error) {
	reg, err := cv.catalog.Registry(d)
	if err != nil {
		return nil, err
	}
	return reg.Units(), nil
}

// Convert converts value of unit from into unit to within domain d.
//
// Invalid requests (unknown domain or unit, non-finite value, malformed
// unit name) return an error. Control characters are stripped from unit names.
// A currency conversion whose rates cannot be fetched is not an error: the
// result has Unavailable set, Cause holds the *domain.RateFetchError, and no
// value is substituted.
func (cv *Converter) Convert(ctx context.Context, d domain.Domain, value float64, from, to string) (domain.ConversionResult, error) {
	return cv.Do(ctx, domain.ConversionRequest{Domain: d, Value: value, From: from, To: to})
}

// Do is Convert for a prepared request.
func (cv *Converter) Do(ctx context.Context, req domain.ConversionRequest) (res domain.ConversionResult, err error) {
	start := time.Now()
	defer func() {
		observed := err
		if err == nil && res.Unavailable {
			observed = res.Cause
		}
		cv.observer.ObserveConversion(req.Domain, observed, time.Since(start))
	}()

	if req, err = req.Sanitized(); err != nil {
		return domain.ConversionResult{}, err
	}
	if err := req.Validate(); err != nil {
		return domain.ConversionResult{}, err
	}
	reg, err := cv.catalog.Registry(req.Domain)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	var value float64
	switch {
	case req.Domain == domain.Currency:
		value, err = cv.currency.Convert(ctx, req.Value, req.From, req.To)
		if errors.Is(err, domain.ErrRatesUnavailable) {
			cv.logger.Warn("currency conversion unavailable",
				"from", req.From, "to", req.To, "error", err)
			return domain.UnavailableResult(req, err), nil
		}
	case req.Domain == domain.Temperature:
		if _, err = reg.Lookup(req.From); err == nil {
			if _, err = reg.Lookup(req.To); err == nil {
				value, err = convert.Temperature(req.Value, req.From, req.To)
			}
		}
	case req.Domain.IsLinear():
		value, err = convert.Linear(req.Value, req.From, req.To, reg)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrUnknownDomain, req.Domain)
	}
	if err != nil {
		return domain.ConversionResult{}, err
	}

	cv.logger.Debug("converted", "domain", req.Domain, "from", req.From, "to", req.To)
	return domain.ConversionResult{Request: req, Value: value}, nil
}
