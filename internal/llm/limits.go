package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/riskpilot/internal/cost"
)

// Limits bounds every call made through a Generator.
type Limits struct {
	Limiter *rate.Limiter
	Timeout time.Duration
	Costs   *cost.Calculator
}

type limited struct {
	next   Generator
	limits Limits
}

// WithLimits wraps g so each call waits on the rate limiter, runs under the
// timeout, and logs its token cost.
func WithLimits(g Generator, l Limits) Generator {
	return &limited{next: g, limits: l}
}

func (l *limited) Name() string         { return l.next.Name() }
func (l *limited) SupportsSchema() bool { return l.next.SupportsSchema() }

func (l *limited) Generate(ctx context.Context, req Request) (*Response, error) {
	if l.limits.Limiter != nil {
		if err := l.limits.Limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "llm: rate limit wait")
		}
	}
	if l.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.limits.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := l.next.Generate(ctx, req)
	if err != nil {
		zap.L().Warn("llm: generate failed",
			zap.String("provider", l.next.Name()),
			zap.String("phase", req.Phase),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	zap.L().Debug("llm: generated",
		zap.String("provider", resp.Provider),
		zap.String("phase", req.Phase),
		zap.Int("chars", len(resp.Text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	if l.limits.Costs != nil {
		l.limits.Costs.Log(resp.Provider, resp.Model, req.Phase, resp.InputTokens, resp.OutputTokens)
	}
	return resp, nil
}
