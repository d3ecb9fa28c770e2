// Package backoff computes the per-attempt deadline for ephemeral peer
// exchanges. The caller owns the retry loop; this package only maps its
// attempt counter to a bounded timeout.
package backoff

import "time"

const (
	InitialExchangeTimeout    = 8 * time.Second
	MaxExchangeTimeout        = 48 * time.Second
	ExchangeTimeoutMultiplier = 2
)

// ExchangeTimeout returns the negotiation deadline for the given retry
// attempt: the initial timeout doubled per attempt, saturating at the ceiling.
func ExchangeTimeout(retryAttempt uint32) time.Duration {
	timeout := InitialExchangeTimeout
	for i := uint32(0); i < retryAttempt; i++ {
		timeout *= ExchangeTimeoutMultiplier
		if timeout >= MaxExchangeTimeout {
			return MaxExchangeTimeout
		}
	}
	return timeout
}
