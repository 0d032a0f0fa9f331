package domain

import (
	"math"
	"time"
)

// RetryPolicy configures the retry controller for one call.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt.
	BaseDelay time.Duration

	// Multiplier grows the delay between successive attempts.
	Multiplier float64

	// Jitter is the upper bound of the random delay added to each wait.
	Jitter time.Duration

	// AttemptTimeout bounds every single attempt.
	AttemptTimeout time.Duration
}

// Delay returns the deterministic wait after the given failed attempt
// (1-based): BaseDelay * Multiplier^(attempt-1). Jitter is added by the caller.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.BaseDelay) * math.Pow(mult, float64(attempt-1))
	if d > float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Normalised fills zero fields with usable minimums.
func (p RetryPolicy) Normalised() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Millisecond
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	if p.Jitter < 0 {
		p.Jitter = 0
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = 10 * time.Second
	}
	return p
}
