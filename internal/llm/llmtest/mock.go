// Package llmtest provides a testify mock of llm.Generator for packages that
// consume generated text.
package llmtest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/riskpilot/internal/llm"
)

// Generator is a mock llm.Generator. Schema controls SupportsSchema.
type Generator struct {
	mock.Mock
	Schema bool
}

// Generate records the call and returns the configured response.
func (m *Generator) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

// SupportsSchema returns m.Schema.
func (m *Generator) SupportsSchema() bool { return m.Schema }

// Name returns "mock".
func (m *Generator) Name() string { return "mock" }

// Text builds a response carrying text.
func Text(text string) *llm.Response {
	return &llm.Response{Text: text, Provider: "mock", Model: "mock-1"}
}
