package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownDomain is returned when a domain name is not one of the supported categories.
var ErrUnknownDomain = errors.New("unknown domain")

// ErrUnknownUnit is returned when a unit is not present in its domain's registry.
var ErrUnknownUnit = errors.New("unknown unit")

// ErrInvalidValue is returned for NaN or infinite input values.
var ErrInvalidValue = errors.New("invalid value")

// ErrNotLinear is returned when a factor-based conversion is attempted on a non-linear registry.
var ErrNotLinear = errors.New("domain is not linear")

// ErrRatesUnavailable matches every currency rate lookup failure.
var ErrRatesUnavailable = errors.New("exchange rates unavailable")

// RatesUnavailableMessage is what users see when a currency conversion cannot be completed.
const RatesUnavailableMessage = "Failed to fetch exchange rates. Please try again later."

// UnknownUnitError names the offending unit and the domain it was looked up in.
type UnknownUnitError struct {
	Domain Domain
	Unit   string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown %s unit %q", e.Domain, e.Unit)
}

// Is makes errors.Is(err, ErrUnknownUnit) hold.
func (e *UnknownUnitError) Is(target error) bool {
	return target == ErrUnknownUnit
}

// FetchFailure classifies why a rate lookup failed. It is diagnostic only;
// every kind surfaces to users as RatesUnavailableMessage.
type FetchFailure int

const (
	FailureNetwork FetchFailure = iota
	FailureStatus
	FailurePayload
	FailureMissingRate
)

func (k FetchFailure) String() string {
	switch k {
	case FailureNetwork:
		return "network"
	case FailureStatus:
		return "status"
	case FailurePayload:
		return "payload"
	case FailureMissingRate:
		return "missing_rate"
	default:
		return "unknown"
	}
}

// RateFetchError is the single failure type of the currency path.
type RateFetchError struct {
	Base   string
	Target string
	Kind   FetchFailure
	Err    error
}

func (e *RateFetchError) Error() string {
	msg := fmt.Sprintf("fetch rates %s->%s: %s", e.Base, e.Target, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RateFetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRatesUnavailable) hold for every kind.
func (e *RateFetchError) Is(target error) bool {
	return target == ErrRatesUnavailable
}

// NewRateFetchError builds a RateFetchError. Target may be empty when the
// failure happened before a specific rate was looked up.
func NewRateFetchError(kind FetchFailure, base, target string, err error) *RateFetchError {
	return &RateFetchError{Base: base, Target: target, Kind: kind, Err: err}
}
