package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ConversionRequest is the (domain, value, from, to) tuple submitted by a host.
type ConversionRequest struct {
	Domain Domain  `json:"domain"`
	Value  float64 `json:"value"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

// Validate checks the parts of the request that do not need a registry.
func (r ConversionRequest) Validate() error {
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidValue, r.Value)
	}
	if r.From == "" || r.To == "" {
		return &UnknownUnitError{Domain: r.Domain, Unit: ""}
	}
	return nil
}

// ConversionResult is either a converted value or, for currency only,
// the Unavailable marker with the diagnostic Cause.
type ConversionResult struct {
	Request     ConversionRequest `json:"request"`
	Value       float64           `json:"value"`
	Unavailable bool              `json:"unavailable,omitempty"`
	Cause       error             `json:"-"`
}

// UnavailableResult builds the failure-marker result for req.
func UnavailableResult(req ConversionRequest, cause error) ConversionResult {
	return ConversionResult{Request: req, Unavailable: true, Cause: cause}
}

// Formatted returns the result value with the domain's display precision.
func (r ConversionResult) Formatted() string {
	if r.Unavailable {
		return ""
	}
	return strconv.FormatFloat(r.Value, 'f', r.Request.Domain.Precision(), 64)
}

// String renders "<value> <from> = <result> <to>", or the unavailable message.
func (r ConversionResult) String() string {
	if r.Unavailable {
		return RatesUnavailableMessage
	}
	in := strconv.FormatFloat(r.Request.Value, 'f', -1, 64)
	return fmt.Sprintf("%s %s = %s %s", in, r.Request.From, r.Formatted(), r.Request.To)
}

// RateTable holds exchange rates relative to Base.
type RateTable struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Rate returns the rate for code relative to the table's base.
func (t RateTable) Rate(code string) (float64, bool) {
	if code == t.Base {
		if r, ok := t.Rates[code]; ok {
			return r, true
		}
		return 1, true
	}
	r, ok := t.Rates[code]
	return r, ok
}
