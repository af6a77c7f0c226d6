package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/riskpilot/pkg/perplexity"
)

type perplexityGenerator struct {
	client perplexity.Client
	model  string
}

// NewPerplexity adapts a Perplexity client. Schemas are sent as a
// json_schema response format.
func NewPerplexity(client perplexity.Client, model string) Generator {
	return &perplexityGenerator{client: client, model: model}
}

func (g *perplexityGenerator) Name() string         { return ProviderPerplexity }
func (g *perplexityGenerator) SupportsSchema() bool { return true }

func (g *perplexityGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	var msgs []perplexity.Message
	if req.System != "" {
		msgs = append(msgs, perplexity.Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, perplexity.Message{Role: "user", Content: req.Prompt})

	creq := perplexity.ChatCompletionRequest{
		Model:       g.model,
		Messages:    msgs,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		n := req.MaxTokens
		creq.MaxTokens = &n
	}
	if req.Schema != nil {
		creq.ResponseFormat = &perplexity.ResponseFormat{
			Type:       "json_schema",
			JSONSchema: &perplexity.JSONSchema{Schema: req.Schema.JSON()},
		}
	}

	resp, err := g.client.ChatCompletion(ctx, creq)
	if err != nil {
		return nil, eris.Wrap(err, "llm: perplexity generate")
	}
	model := resp.Model
	if model == "" {
		model = g.model
	}
	return &Response{
		Text:         resp.Text(),
		Provider:     ProviderPerplexity,
		Model:        model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}
