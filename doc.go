/*
Package metron is a unit conversion engine covering eight measurement domains:
length, weight, temperature, volume, time, speed, electrical current and currency.

Linear domains convert through a per-domain base unit, temperature pivots through
Celsius, and currency resolves live exchange rates from a remote provider. The
Converter type dispatches a (domain, value, from, to) request to the right
algorithm, so any host (CLI, HTTP server, MCP agent) can use a single entry point.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/metron"
		"github.com/aretw0/metron/pkg/domain"
	)

	func main() {
		conv := metron.New()

		res, err := conv.Convert(context.Background(), domain.Length, 1, "Kilometers", "Meters")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res) // 1 Kilometers = 1000.0000 Meters
	}

# Currency

Currency conversions fetch rates on every call unless a cache is configured with
WithRateCache. When rates cannot be obtained, Convert does not fail: it returns a
ConversionResult with Unavailable set and the diagnostic in Cause, and the value
is withheld.
*/
package metron
