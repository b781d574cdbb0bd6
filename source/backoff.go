package source

import (
	rand "math/rand/v2"
	"time"
)

// jitterBackoff returns the next retry delay using decorrelated jitter with a cap.
//
//	next = min(cap, base + rand(prev*mult - base))
//
// A non-positive prev starts from base, a multiplier below 1 means no growth, and a cap
// below base returns the cap.
func jitterBackoff(prev, base time.Duration, mult float64, capDur time.Duration) time.Duration {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if mult < 1.0 {
		mult = 1.0
	}
	if capDur > 0 && capDur < base {
		return capDur
	}
	if prev <= 0 {
		return base
	}

	spread := time.Duration(float64(prev)*mult) - base
	if spread <= 0 {
		spread = base
	}
	next := base + time.Duration(rand.Int64N(int64(spread))) //nolint:gosec // non-crypto retry jitter
	if capDur > 0 && next > capDur {
		return capDur
	}

	return next
}
