package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/metron/pkg/domain"
	"github.com/muesli/termenv"
)

const (
	successColor = "#3c763d"
	errorColor   = "#a94442"
	accentColor  = "#4a90e2"
)

// FormatResult renders a conversion for the terminal. Currency results carry
// the display names of both currencies.
func FormatResult(p termenv.Profile, res domain.ConversionResult, from, to domain.Unit) string {
	if res.Unavailable {
		return FormatError(p, domain.RatesUnavailableMessage)
	}

	in := strconv.FormatFloat(res.Request.Value, 'f', -1, 64)
	left := in + " " + res.Request.From
	right := res.Formatted() + " " + res.Request.To
	if res.Request.Domain == domain.Currency {
		left += fmt.Sprintf(" (%s)", from.DisplayName)
		right += fmt.Sprintf(" (%s)", to.DisplayName)
	}

	return termenv.String(left+" = "+right).Foreground(p.Color(successColor)).String()
}

// FormatError renders msg as an error line.
func FormatError(p termenv.Profile, msg string) string {
	return termenv.String(msg).Foreground(p.Color(errorColor)).String()
}

// UnitsMarkdown builds the unit listing for one domain.
func UnitsMarkdown(d domain.Domain, units []domain.Unit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", d.Title())

	switch {
	case d == domain.Currency:
		b.WriteString("| Code | Name |\n|---|---|\n")
		for _, u := range units {
			fmt.Fprintf(&b, "| %s | %s |\n", u.Code, u.DisplayName)
		}
		b.WriteString("\nRates are fetched live for every conversion.\n")
	case d.IsLinear():
		base := ""
		if len(units) > 0 {
			base = units[0].Name
		}
		fmt.Fprintf(&b, "| Unit | %s per unit |\n|---|---|\n", base)
		for _, u := range units {
			fmt.Fprintf(&b, "| %s | %s |\n", u.Name, strconv.FormatFloat(u.Factor, 'g', -1, 64))
		}
	default:
		b.WriteString("| Unit |\n|---|\n")
		for _, u := range units {
			fmt.Fprintf(&b, "| %s |\n", u.Name)
		}
		b.WriteString("\nConverted through Celsius.\n")
	}
	return b.String()
}

// DomainsMarkdown lists the supported domains.
func DomainsMarkdown(domains []domain.Domain) string {
	var b strings.Builder
	b.WriteString("# Supported domains\n\n")
	for _, d := range domains {
		fmt.Fprintf(&b, "- **%s** (`%s`)\n", d.Title(), d)
	}
	return b.String()
}

// ServingLine announces the API address, with the accent on the URLs.
func ServingLine(p termenv.Profile, addr string, metrics bool) string {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	line := "Serving on " + Accent(p, "http://"+host) + " (OpenAPI at " + Accent(p, "/openapi.yaml")
	if metrics {
		line += ", metrics at " + Accent(p, "/metrics")
	}
	return line + ")"
}

// Accent highlights s.
func Accent(p termenv.Profile, s string) string {
	return termenv.String(s).Foreground(p.Color(accentColor)).String()
}
