// Package suggest turns a risk verdict into structured guidance, either
// generated by a model and validated all-or-nothing, or from fixed
// templates.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/llm"
	"github.com/sells-group/riskpilot/internal/model"
)

const defaultMaxAttempts = 2

// validatable is a suggestion bundle that can check its own items.
type validatable interface {
	model.CareerSuggestions | model.InvestorSuggestions
	Validate() error
}

// Generator produces validated suggestion bundles from a text generator.
type Generator struct {
	gen         llm.Generator
	maxAttempts int
}

// New creates a Generator that regenerates up to maxAttempts times before
// giving up.
func New(gen llm.Generator, maxAttempts int) *Generator {
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	return &Generator{gen: gen, maxAttempts: maxAttempts}
}

// GenerateEmployee suggests skills, actions and opportunities for an
// employee at the given layoff risk.
func (g *Generator) GenerateEmployee(ctx context.Context, p model.EmployeeProfile, risk string) model.Validated[model.CareerSuggestions] {
	return generate[model.CareerSuggestions](ctx, g, "suggest_employee", employeePrompt(p, risk), careerSchema, careerKeys)
}

// GenerateInvestor suggests recommendations, alerts and opportunities for
// an investor given the company's features and verdict.
func (g *Generator) GenerateInvestor(ctx context.Context, f model.InvestorFeatures, v model.RiskVerdict) model.Validated[model.InvestorSuggestions] {
	return generate[model.InvestorSuggestions](ctx, g, "suggest_investor", investorPrompt(f, v), investorSchema, investorKeys)
}

// GenerateStudent suggests how a student can improve job readiness.
func (g *Generator) GenerateStudent(ctx context.Context, p model.StudentProfile, s model.StudentScores, v model.RiskVerdict) model.Validated[model.CareerSuggestions] {
	return generate[model.CareerSuggestions](ctx, g, "suggest_student", studentPrompt(p, s, v), careerSchema, careerKeys)
}

func generate[T validatable](ctx context.Context, g *Generator, phase, prompt string, schema *llm.Schema, keys []string) model.Validated[T] {
	temp := 0.7
	req := llm.Request{
		Phase:       phase,
		System:      systemPrompt,
		Prompt:      prompt,
		Schema:      schema,
		Temperature: &temp,
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		resp, err := g.gen.Generate(ctx, req)
		if err != nil {
			lastErr = eris.Wrapf(model.ErrUpstreamUnavailable, "suggest: %s: %v", phase, err)
		} else {
			v, err := Decode[T](resp.Text, keys)
			if err == nil {
				return model.Valid(v)
			}
			lastErr = err
		}

		zap.L().Warn("suggest: rejected generation",
			zap.String("phase", phase),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.maxAttempts),
			zap.Error(lastErr),
		)
		if ctx.Err() != nil {
			break
		}
	}
	return model.Invalid[T](lastErr)
}

// Decode parses generated text into a bundle. Every key must be present
// and hold a JSON array, and every item must carry its required fields;
// otherwise the whole bundle is rejected with
// model.ErrInvalidSuggestionFormat.
func Decode[T validatable](text string, keys []string) (T, error) {
	var zero T
	data := []byte(llm.ExtractJSON(text))

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return zero, eris.Wrapf(model.ErrInvalidSuggestionFormat, "suggest: parse: %v", err)
	}
	for _, k := range keys {
		raw, ok := top[k]
		if !ok {
			return zero, eris.Wrapf(model.ErrInvalidSuggestionFormat, "suggest: missing %q", k)
		}
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			return zero, eris.Wrapf(model.ErrInvalidSuggestionFormat, "suggest: %q is not an array", k)
		}
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, eris.Wrapf(model.ErrInvalidSuggestionFormat, "suggest: decode: %v", err)
	}
	if err := v.Validate(); err != nil {
		return zero, eris.Wrapf(model.ErrInvalidSuggestionFormat, "suggest: %v", err)
	}
	return v, nil
}
