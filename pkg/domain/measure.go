package domain

import (
	"fmt"
	"strings"
)

// Domain identifies a measurement category.
type Domain string

const (
	Length      Domain = "length"
	Weight      Domain = "weight"
	Temperature Domain = "temperature"
	Volume      Domain = "volume"
	Time        Domain = "time"
	Speed       Domain = "speed"
	Current     Domain = "current"
	Currency    Domain = "currency"
)

var allDomains = []Domain{Length, Weight, Temperature, Volume, Time, Speed, Current, Currency}

// AllDomains returns every supported domain in presentation order.
func AllDomains() []Domain {
	out := make([]Domain, len(allDomains))
	copy(out, allDomains)
	return out
}

// ParseDomain resolves a domain name case-insensitively.
func ParseDomain(s string) (Domain, error) {
	want := Domain(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range allDomains {
		if d == want {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
}

// IsLinear reports whether conversions in d are a pure ratio of factors.
func (d Domain) IsLinear() bool {
	switch d {
	case Length, Weight, Volume, Time, Speed, Current:
		return true
	}
	return false
}

// Precision is the number of decimals used when displaying results of d.
func (d Domain) Precision() int {
	switch d {
	case Temperature, Currency:
		return 2
	}
	return 4
}

// Title returns the display name of the domain ("Length", "Currency", ...).
func (d Domain) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Unit is a named unit scoped to exactly one Domain.
type Unit struct {
	Name   string  `json:"name"`
	Domain Domain  `json:"domain"`
	Factor float64 `json:"factor,omitempty"`

	// Currency units only.
	Code        string `json:"code,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Label is the human readable form of the unit ("USD - US Dollar" for currencies).
func (u Unit) Label() string {
	if u.DisplayName != "" {
		return u.Code + " - " + u.DisplayName
	}
	return u.Name
}
