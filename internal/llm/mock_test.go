package llm

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/riskpilot/pkg/anthropic"
	"github.com/sells-group/riskpilot/pkg/gemini"
	"github.com/sells-group/riskpilot/pkg/perplexity"
)

type mockGemini struct{ mock.Mock }

func (m *mockGemini) GenerateContent(ctx context.Context, req gemini.ContentRequest) (*gemini.ContentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gemini.ContentResponse), args.Error(1)
}

type mockAnthropic struct{ mock.Mock }

func (m *mockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

type mockPerplexity struct{ mock.Mock }

func (m *mockPerplexity) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*perplexity.ChatCompletionResponse), args.Error(1)
}

type mockGenerator struct{ mock.Mock }

func (m *mockGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}

func (m *mockGenerator) SupportsSchema() bool { return false }
func (m *mockGenerator) Name() string         { return "mock" }
