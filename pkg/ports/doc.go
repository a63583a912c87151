/*
Package ports defines the driven ports (interfaces) of the metron conversion engine.

These interfaces decouple the converters from external implementations, allowing
the currency path to work with any rate source and any cache backend.

# Key Interfaces

  - RateProvider: Fetches a fresh RateTable for a base currency (e.g., over HTTP).
  - RateCache: Optional TTL cache for RateTables (memory or Redis).
  - Observer: Receives conversion and fetch outcomes (e.g., Prometheus metrics).
*/
package ports
