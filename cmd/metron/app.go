package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/metron"
	"github.com/aretw0/metron/internal/config"
	"github.com/aretw0/metron/pkg/adapters/exchangerate"
	"github.com/aretw0/metron/pkg/adapters/memory"
	"github.com/aretw0/metron/pkg/adapters/redis"
	"github.com/aretw0/metron/pkg/ports"
)

// app holds the wiring shared by every command.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	converter *metron.Converter
	closers   []func() error
}

// newApp builds the converter described by cfg. observer may be nil.
func newApp(ctx context.Context, cfg *config.Config, observer ports.Observer) (*app, error) {
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	providerOpts := []exchangerate.Option{exchangerate.WithLogger(logger)}
	if cfg.Rates.BaseURL != "" {
		providerOpts = append(providerOpts, exchangerate.WithBaseURL(cfg.Rates.BaseURL))
	}
	if cfg.Rates.RatesPath != "" {
		providerOpts = append(providerOpts, exchangerate.WithRatesPath(cfg.Rates.RatesPath))
	}

	opts := []metron.Option{
		metron.WithLogger(logger),
		metron.WithRateProvider(exchangerate.New(providerOpts...)),
		metron.WithFetchTimeout(cfg.Rates.Timeout),
	}
	if observer != nil {
		opts = append(opts, metron.WithObserver(observer))
	}

	cache, err := a.rateCache(ctx)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		opts = append(opts, metron.WithRateCache(cache, cfg.Rates.Cache.TTL))
	}

	a.converter = metron.New(opts...)
	return a, nil
}

func (a *app) rateCache(ctx context.Context) (ports.RateCache, error) {
	c := a.cfg.Rates.Cache
	switch c.Kind {
	case config.CacheMemory:
		a.logger.Debug("rate cache enabled", "kind", c.Kind, "ttl", c.TTL)
		return memory.NewCache(), nil
	case config.CacheRedis:
		var opts []redis.Option
		if c.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(c.Redis.Prefix))
		}
		cache := redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB, opts...)
		if err := cache.Ping(ctx); err != nil {
			cache.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", c.Redis.Addr, err)
		}
		a.closers = append(a.closers, cache.Close)
		a.logger.Debug("rate cache enabled", "kind", c.Kind, "ttl", c.TTL, "addr", c.Redis.Addr)
		return cache, nil
	default:
		return nil, nil
	}
}

// Close releases the cache connections.
func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}
