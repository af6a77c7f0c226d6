package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/riskpilot/pkg/anthropic"
)

const defaultAnthropicMaxTokens = 2048

type anthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic adapts an Anthropic client. Schemas are only described in
// the prompt.
func NewAnthropic(client anthropic.Client, model string, maxTokens int64) Generator {
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	return &anthropicGenerator{client: client, model: model, maxTokens: maxTokens}
}

func (g *anthropicGenerator) Name() string         { return ProviderAnthropic }
func (g *anthropicGenerator) SupportsSchema() bool { return false }

func (g *anthropicGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	maxTokens := g.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	mreq := anthropic.MessageRequest{
		Model:       g.model,
		MaxTokens:   maxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: withSchemaHint(req.Prompt, req.Schema)}},
		Temperature: req.Temperature,
	}
	if req.System != "" {
		mreq.System = []anthropic.SystemBlock{{Text: req.System}}
	}

	resp, err := g.client.CreateMessage(ctx, mreq)
	if err != nil {
		return nil, eris.Wrap(err, "llm: anthropic generate")
	}
	return &Response{
		Text:         resp.Text(),
		Provider:     ProviderAnthropic,
		Model:        g.model,
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}, nil
}

// withSchemaHint appends the JSON Schema to a prompt for providers that
// cannot enforce it.
func withSchemaHint(prompt string, s *Schema) string {
	if s == nil {
		return prompt
	}
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nRespond with a single JSON object matching this JSON Schema:\n")
	sb.Write(s.JSON())
	return sb.String()
}
