package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/config"
)

// Policy is the call discipline for one upstream: an overall deadline,
// retries for transient failures, and a shared circuit breaker.
type Policy struct {
	Name    string
	Timeout time.Duration
	Backoff Backoff
	Breaker *Breaker
}

// NewPolicy creates a policy with its own breaker.
func NewPolicy(name string, timeout time.Duration, backoff Backoff, breaker BreakerConfig) *Policy {
	return &Policy{
		Name:    name,
		Timeout: timeout,
		Backoff: backoff,
		Breaker: NewBreaker(name, breaker),
	}
}

// PolicyFromConfig builds a policy for one upstream from the shared retry
// and circuit settings.
func PolicyFromConfig(name string, timeout time.Duration, r config.RetryConfig, c config.CircuitConfig) *Policy {
	return NewPolicy(name, timeout,
		NewBackoff(r.MaxAttempts, r.InitialBackoffMs, r.MaxBackoffMs, r.Multiplier, r.JitterFraction),
		BreakerConfig{
			FailureThreshold: c.FailureThreshold,
			CoolDown:         time.Duration(c.ResetTimeoutSecs) * time.Second,
		})
}

// Call runs fn under p. Each attempt must pass the breaker and only
// transient failures count against it. A nil policy calls fn once.
func Call[T any](ctx context.Context, p *Policy, fn func(context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	attempt := func(ctx context.Context) (T, error) {
		if p.Breaker != nil {
			if err := p.Breaker.Allow(); err != nil {
				var zero T
				return zero, err
			}
		}
		v, err := fn(ctx)
		if p.Breaker != nil {
			p.Breaker.Record(err != nil && IsTransient(err))
		}
		return v, err
	}

	onRetry := func(n int, err error) {
		zap.L().Warn("resilience: retrying upstream call",
			zap.String("upstream", p.Name),
			zap.Int("attempt", n),
			zap.Error(err),
		)
	}

	return Retry(ctx, p.Backoff, IsTransient, onRetry, attempt)
}
