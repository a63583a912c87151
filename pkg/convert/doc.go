/*
Package convert implements the conversion algorithms.

Linear domains (length, weight, volume, time, speed, current) normalise through
the registry's base unit, so one factor per unit makes every pair convertible.
Temperature pivots through Celsius because its scales are affine. Currency is the
only converter with I/O: it resolves rates through a ports.RateProvider and
collapses every failure into a *domain.RateFetchError.

Linear and Temperature are pure functions; Currency is safe for concurrent use.
*/
package convert
