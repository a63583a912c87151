package ports

import (
	"time"

	"github.com/aretw0/metron/pkg/domain"
)

// Observer receives the outcome of conversions and rate fetches.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveConversion(d domain.Domain, err error, elapsed time.Duration)
	ObserveRateFetch(base string, cached bool, err error, elapsed time.Duration)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) ObserveConversion(domain.Domain, error, time.Duration) {}
func (NopObserver) ObserveRateFetch(string, bool, error, time.Duration) {}
