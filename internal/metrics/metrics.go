// Package metrics exposes conversion and rate fetch outcomes as Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/metron/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements ports.Observer on a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	fetches     *prometheus.CounterVec
	fetchTime   *prometheus.HistogramVec
}

// NewRecorder registers the metron collectors plus the Go and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metron_conversions_total",
				Help: "Total number of conversions by domain and outcome",
			},
			[]string{"domain", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "metron_conversion_duration_seconds",
				Help:    "Duration of conversions",
				Buckets: prometheus.ExponentialBuckets(0.00001, 10, 7),
			},
			[]string{"domain"},
		),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metron_rate_fetches_total",
				Help: "Total number of exchange rate lookups by source and outcome",
			},
			[]string{"base", "cached", "outcome"},
		),
		fetchTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "metron_rate_fetch_duration_seconds",
				Help: "Duration of exchange rate lookups",
			},
			[]string{"cached"},
		),
	}

	r.registry.MustRegister(
		r.conversions,
		r.duration,
		r.fetches,
		r.fetchTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveConversion implements ports.Observer.
func (r *Recorder) ObserveConversion(d domain.Domain, err error, elapsed time.Duration) {
	r.conversions.WithLabelValues(string(d), outcome(err)).Inc()
	r.duration.WithLabelValues(string(d)).Observe(elapsed.Seconds())
}

// ObserveRateFetch implements ports.Observer.
func (r *Recorder) ObserveRateFetch(base string, cached bool, err error, elapsed time.Duration) {
	c := strconv.FormatBool(cached)
	r.fetches.WithLabelValues(base, c, outcome(err)).Inc()
	r.fetchTime.WithLabelValues(c).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry (for tests and custom collectors).
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func outcome(err error) string {
	var rfe *domain.RateFetchError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &rfe):
		return "unavailable_" + rfe.Kind.String()
	case errors.Is(err, domain.ErrUnknownUnit):
		return "unknown_unit"
	case errors.Is(err, domain.ErrUnknownDomain):
		return "unknown_domain"
	case errors.Is(err, domain.ErrInvalidValue), errors.Is(err, domain.ErrInvalidInput):
		return "invalid_value"
	default:
		return "error"
	}
}
