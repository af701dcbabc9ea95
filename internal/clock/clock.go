// Package clock provides the wall-clock abstraction the cache engine's
// liveness predicate is built on. Tests inject a Manual clock so expiry
// scenarios are deterministic; production wiring uses System.
package clock

import (
	"github.com/agilira/go-timecache"
)

// Clock reports the current time in seconds since the Unix epoch, as a
// real number, matching the resolution the liveness predicate needs
// (fractional seconds for sub-second exptime arithmetic).
type Clock interface {
	Now() float64
}

// System is the production Clock. It is backed by go-timecache's cached
// time source, which amortizes the cost of repeated Now() calls across
// every connection sharing the cache.
type System struct{}

// Now returns the current wall-clock time in seconds since epoch.
func (System) Now() float64 {
	return float64(timecache.CachedTimeNano()) / 1e9
}

// Manual is a Clock with an explicitly controlled value, for
// deterministic expiry tests.
type Manual struct {
	t float64
}

// NewManual returns a Manual clock initialized to t.
func NewManual(t float64) *Manual {
	return &Manual{t: t}
}

// Now returns the clock's current value.
func (m *Manual) Now() float64 {
	return m.t
}

// Set pins the clock to t.
func (m *Manual) Set(t float64) {
	m.t = t
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d float64) {
	m.t += d
}
