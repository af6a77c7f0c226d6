// Package llm adapts the Gemini, Anthropic and Perplexity clients to one
// text generation interface used by the estimators and suggestion
// generators.
package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// Provider names accepted by New.
const (
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderPerplexity = "perplexity"
)

// Request is one generation call.
type Request struct {
	// Phase labels the call in cost logs ("estimate", "suggest", ...).
	Phase       string
	System      string
	Prompt      string
	Schema      *Schema
	Temperature *float64
	MaxTokens   int
}

// Response is the raw generated text plus usage.
type Response struct {
	Text         string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	// SupportsSchema reports whether Request.Schema is enforced by the
	// provider rather than only described in the prompt.
	SupportsSchema() bool
	Name() string
}

// ValidateProvider checks a configured provider name.
func ValidateProvider(name string) error {
	switch strings.ToLower(name) {
	case ProviderGemini, ProviderAnthropic, ProviderPerplexity:
		return nil
	}
	return eris.Errorf("llm: unknown provider %q", name)
}
