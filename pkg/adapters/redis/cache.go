package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/metron/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces rate table keys.
const DefaultPrefix = "metron:rates:"

// Cache implements ports.RateCache using Redis. Expiry is delegated to the server,
// so an expired table is simply absent.
type Cache struct {
	client *backend.Client
	prefix string
}

type Option func(*Cache)

// WithPrefix sets the key prefix for rate tables.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// New creates a new Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Cache) key(base string) string {
	return c.prefix + base
}

// Get retrieves the table for base.
func (c *Cache) Get(ctx context.Context, base string) (domain.RateTable, bool, error) {
	val, err := c.client.Get(ctx, c.key(base)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.RateTable{}, false, nil
		}
		return domain.RateTable{}, false, fmt.Errorf("failed to get from redis: %w", err)
	}

	var table domain.RateTable
	if err := json.Unmarshal(val, &table); err != nil {
		return domain.RateTable{}, false, fmt.Errorf("failed to unmarshal rates: %w", err)
	}
	return table, true, nil
}

// Set persists the table with ttl. Use 0 for no expiration.
func (c *Cache) Set(ctx context.Context, table domain.RateTable, ttl time.Duration) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}

	if err := c.client.Set(ctx, c.key(table.Base), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Ping checks connectivity to the server.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
