/*
Package domain contains the core models of the metron conversion engine.

It defines the closed set of measurement domains, the units that live in them,
and the request/result values exchanged between a presentation surface and the
converters. This package is kept pure and free of external dependencies like
I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Domain: One of the eight supported measurement categories (Length, Currency, ...).
  - Unit: A named unit scoped to one Domain, carrying a conversion factor (linear
    domains) or a currency code and display name.
  - ConversionRequest: The (domain, value, from, to) tuple a host submits.
  - ConversionResult: A converted value, or the "unavailable" marker when currency
    rates could not be obtained.
  - RateTable: Exchange rates relative to a base currency, fetched per call.
*/
package domain
