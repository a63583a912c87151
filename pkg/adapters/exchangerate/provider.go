// Package exchangerate implements ports.RateProvider over an exchangerate-api style HTTP endpoint.
package exchangerate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/aretw0/metron/pkg/domain"
	json "github.com/goccy/go-json"
)

const (
	// DefaultBaseURL is joined with the base currency code, e.g. ".../latest/USD".
	DefaultBaseURL = "https://api.exchangerate-api.com/v4/latest/"

	// DefaultRatesPath locates the code -> rate object in the response body.
	DefaultRatesPath = "$.rates"

	maxBodyBytes = 1 << 20
)

// Provider fetches rate tables with one GET per call. It keeps no state between calls.
type Provider struct {
	client    *http.Client
	baseURL   string
	ratesPath string
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL sets the endpoint prefix. A trailing slash is added if missing.
func WithBaseURL(u string) Option {
	return func(p *Provider) {
		if u == "" {
			return
		}
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		p.baseURL = u
	}
}

// WithRatesPath sets the JSONPath of the rates object (e.g. "$.conversion_rates").
func WithRatesPath(path string) Option {
	return func(p *Provider) {
		if path != "" {
			p.ratesPath = path
		}
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Provider with DefaultBaseURL and DefaultRatesPath.
func New(opts ...Option) *Provider {
	p := &Provider{
		client:    NewClient(DefaultClientConfig()),
		baseURL:   DefaultBaseURL,
		ratesPath: DefaultRatesPath,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Latest implements ports.RateProvider.
func (p *Provider) Latest(ctx context.Context, base string) (domain.RateTable, error) {
	endpoint := p.baseURL + url.PathEscape(base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.RateTable{}, domain.NewRateFetchError(domain.FailureNetwork, base, "", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("rate request failed", "url", endpoint, "error", err)
		return domain.RateTable{}, domain.NewRateFetchError(domain.FailureNetwork, base, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return domain.RateTable{}, domain.NewRateFetchError(domain.FailureStatus, base, "",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.RateTable{}, domain.NewRateFetchError(domain.FailureNetwork, base, "", err)
	}

	rates, err := p.decode(body)
	if err != nil {
		return domain.RateTable{}, domain.NewRateFetchError(domain.FailurePayload, base, "", err)
	}

	p.logger.Debug("rates fetched", "base", base, "count", len(rates))
	return domain.RateTable{Base: base, Rates: rates, FetchedAt: p.now().UTC()}, nil
}

func (p *Provider) decode(body []byte) (map[string]float64, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	raw, err := jsonpath.Get(p.ratesPath, doc)
	if err != nil {
		return nil, fmt.Errorf("rates at %s: %w", p.ratesPath, err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("rates at %s: expected object, got %T", p.ratesPath, raw)
	}
	if len(obj) == 0 {
		return nil, errors.New("empty rates")
	}

	rates := make(map[string]float64, len(obj))
	for code, v := range obj {
		if f, ok := v.(float64); ok {
			rates[code] = f
		}
	}
	return rates, nil
}
