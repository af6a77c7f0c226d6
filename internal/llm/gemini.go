package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"

	"github.com/sells-group/riskpilot/pkg/gemini"
)

type geminiGenerator struct {
	client gemini.Client
	model  string
}

// NewGemini adapts a Gemini client. Schemas are enforced through
// constrained decoding.
func NewGemini(client gemini.Client, model string) Generator {
	return &geminiGenerator{client: client, model: model}
}

func (g *geminiGenerator) Name() string         { return ProviderGemini }
func (g *geminiGenerator) SupportsSchema() bool { return true }

func (g *geminiGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	creq := gemini.ContentRequest{
		Model:           g.model,
		System:          req.System,
		Prompt:          req.Prompt,
		MaxOutputTokens: int32(req.MaxTokens),
		Schema:          req.Schema.Genai(),
	}
	if req.Temperature != nil {
		creq.Temperature = genai.Ptr(float32(*req.Temperature))
	}

	resp, err := g.client.GenerateContent(ctx, creq)
	if err != nil {
		return nil, eris.Wrap(err, "llm: gemini generate")
	}
	return &Response{
		Text:         resp.Text,
		Provider:     ProviderGemini,
		Model:        g.model,
		InputTokens:  int(resp.InputTokens),
		OutputTokens: int(resp.OutputTokens),
	}, nil
}
