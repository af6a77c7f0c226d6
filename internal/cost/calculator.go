package cost

import "go.uber.org/zap"

// Provider names used in cost attribution.
const (
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderPerplexity = "perplexity"
)

// Rates holds per-provider pricing configuration.
type Rates struct {
	Anthropic  map[string]ModelRate `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini     map[string]ModelRate `yaml:"gemini" mapstructure:"gemini"`
	Perplexity PerplexityRate       `yaml:"perplexity" mapstructure:"perplexity"`
}

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// PerplexityRate holds Perplexity pricing.
type PerplexityRate struct {
	PerQuery float64 `yaml:"per_query" mapstructure:"per_query"`
}

// Overlay returns r with every rate set in o replacing r's.
func (r Rates) Overlay(o Rates) Rates {
	out := Rates{
		Anthropic:  mergeRates(r.Anthropic, o.Anthropic),
		Gemini:     mergeRates(r.Gemini, o.Gemini),
		Perplexity: r.Perplexity,
	}
	if o.Perplexity.PerQuery > 0 {
		out.Perplexity = o.Perplexity
	}
	return out
}

func mergeRates(base, over map[string]ModelRate) map[string]ModelRate {
	out := make(map[string]ModelRate, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Claude computes the cost for a Claude API call.
func (c *Calculator) Claude(model string, input, output int) float64 {
	return tokenCost(c.rates.Anthropic, model, input, output)
}

// Gemini computes the cost for a Gemini API call.
func (c *Calculator) Gemini(model string, input, output int) float64 {
	return tokenCost(c.rates.Gemini, model, input, output)
}

// PerplexityQuery returns the flat cost per Perplexity query.
func (c *Calculator) PerplexityQuery() float64 {
	return c.rates.Perplexity.PerQuery
}

// Call prices one generator call by provider. Unknown providers and models
// cost 0.
func (c *Calculator) Call(provider, model string, input, output int) float64 {
	switch provider {
	case ProviderAnthropic:
		return c.Claude(model, input, output)
	case ProviderGemini:
		return c.Gemini(model, input, output)
	case ProviderPerplexity:
		return c.PerplexityQuery()
	}
	return 0
}

// Log records token usage and estimated cost for one call.
func (c *Calculator) Log(provider, model, phase string, input, output int) {
	zap.L().Info("cost: attribution",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.String("phase", phase),
		zap.Int("input_tokens", input),
		zap.Int("output_tokens", output),
		zap.Float64("estimated_cost_usd", c.Call(provider, model, input, output)),
	)
}

func tokenCost(rates map[string]ModelRate, model string, input, output int) float64 {
	rate, ok := rates[model]
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*rate.Input + (float64(output)/1e6)*rate.Output
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001":  {Input: 1.00, Output: 5.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		},
		Gemini: map[string]ModelRate{
			"gemini-2.0-flash": {Input: 0.10, Output: 0.40},
			"gemini-2.5-flash": {Input: 0.30, Output: 2.50},
			"gemini-2.5-pro":   {Input: 1.25, Output: 10.00},
		},
		Perplexity: PerplexityRate{PerQuery: 0.005},
	}
}
