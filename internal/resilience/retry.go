package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Backoff spaces out retries exponentially with jitter.
type Backoff struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// Initial is the delay before the first retry.
	Initial time.Duration
	// Max caps any single delay.
	Max time.Duration
	// Multiplier grows the delay after each retry.
	Multiplier float64
	// Jitter randomizes each delay by up to this fraction either way.
	Jitter float64
}

// DefaultBackoff suits interactive request paths: three tries, finishing
// well inside a typical upstream timeout.
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts:   3,
		Initial:    300 * time.Millisecond,
		Max:        5 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.25,
	}
}

// NewBackoff builds a Backoff from config values, keeping defaults for
// anything unset.
func NewBackoff(attempts, initialMs, maxMs int, multiplier, jitter float64) Backoff {
	b := DefaultBackoff()
	if attempts > 0 {
		b.Attempts = attempts
	}
	if initialMs > 0 {
		b.Initial = time.Duration(initialMs) * time.Millisecond
	}
	if maxMs > 0 {
		b.Max = time.Duration(maxMs) * time.Millisecond
	}
	if multiplier > 0 {
		b.Multiplier = multiplier
	}
	if jitter >= 0 {
		b.Jitter = jitter
	}
	return b
}

func (b Backoff) normalized() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = 1
	}
	if b.Initial <= 0 {
		b.Initial = 300 * time.Millisecond
	}
	if b.Max <= 0 {
		b.Max = 5 * time.Second
	}
	if b.Multiplier <= 0 {
		b.Multiplier = 2.0
	}
	if b.Jitter < 0 {
		b.Jitter = 0
	}
	return b
}

// Delay returns the wait before retry number n (0-based).
func (b Backoff) Delay(n int) time.Duration {
	b = b.normalized()
	d := float64(b.Initial) * math.Pow(b.Multiplier, float64(n))
	if d > float64(b.Max) {
		d = float64(b.Max)
	}
	if b.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * b.Jitter
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// Retry calls fn until it succeeds, returns an error retryable rejects, the
// attempts run out, or ctx ends. onRetry, if set, runs before each wait.
func Retry[T any](ctx context.Context, b Backoff, retryable func(error) bool, onRetry func(int, error), fn func(context.Context) (T, error)) (T, error) {
	b = b.normalized()
	if retryable == nil {
		retryable = IsTransient
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < b.Attempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) || attempt == b.Attempts-1 {
			break
		}

		if onRetry != nil {
			onRetry(attempt+1, err)
		}

		timer := time.NewTimer(b.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}
