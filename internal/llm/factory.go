package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/riskpilot/internal/config"
	"github.com/sells-group/riskpilot/internal/cost"
	"github.com/sells-group/riskpilot/internal/resilience"
	"github.com/sells-group/riskpilot/pkg/anthropic"
	"github.com/sells-group/riskpilot/pkg/gemini"
	"github.com/sells-group/riskpilot/pkg/perplexity"
)

// New builds the named provider's generator from cfg, wrapped with the
// configured rate limit, timeout and cost logging. The limiter is shared by
// every generator built with the same one.
func New(ctx context.Context, provider string, cfg *config.Config, limiter *rate.Limiter, costs *cost.Calculator) (Generator, error) {
	var g Generator
	switch strings.ToLower(provider) {
	case ProviderGemini:
		c, err := gemini.NewClient(ctx, cfg.Gemini.Key, gemini.WithModel(cfg.Gemini.Model))
		if err != nil {
			return nil, eris.Wrap(err, "llm: build gemini")
		}
		g = NewGemini(c, cfg.Gemini.Model)
	case ProviderAnthropic:
		g = NewAnthropic(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	case ProviderPerplexity:
		opts := []perplexity.Option{
			perplexity.WithModel(cfg.Perplexity.Model),
			perplexity.WithPolicy(resilience.PolicyFromConfig(ProviderPerplexity,
				time.Duration(cfg.LLM.TimeoutSecs)*time.Second, cfg.Retry, cfg.Circuit)),
		}
		if cfg.Perplexity.BaseURL != "" {
			opts = append(opts, perplexity.WithBaseURL(cfg.Perplexity.BaseURL))
		}
		g = NewPerplexity(perplexity.NewClient(cfg.Perplexity.Key, opts...), cfg.Perplexity.Model)
	default:
		return nil, ValidateProvider(provider)
	}

	return WithLimits(g, Limits{
		Limiter: limiter,
		Timeout: time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		Costs:   costs,
	}), nil
}

// NewLimiter builds the shared LLM limiter from requests per second.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
