// Package gemini wraps the Google Gen AI SDK for single-shot content
// generation with optional constrained JSON output.
package gemini

import (
	"context"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Client generates content with a Gemini model.
type Client interface {
	GenerateContent(ctx context.Context, req ContentRequest) (*ContentResponse, error)
}

// ContentRequest is one generation call. When Schema is set the model is
// asked for application/json output conforming to it.
type ContentRequest struct {
	Model           string
	System          string
	Prompt          string
	Temperature     *float32
	MaxOutputTokens int32
	Schema          *genai.Schema
}

// ContentResponse is the generated text plus usage.
type ContentResponse struct {
	Text         string
	Model        string
	FinishReason string
	InputTokens  int32
	OutputTokens int32
}

// Option configures the client.
type Option func(*sdkClient)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *sdkClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *sdkClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the SDK's http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *sdkClient) {
		c.httpClient = hc
	}
}

type sdkClient struct {
	client     *genai.Client
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Gemini client backed by the Gemini API.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (Client, error) {
	c := &sdkClient{model: defaultModel}
	for _, o := range opts {
		o(c)
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(c.baseURL, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	c.client = client
	return c, nil
}

func (c *sdkClient) GenerateContent(ctx context.Context, req ContentRequest) (*ContentResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), buildConfig(req))
	if err != nil {
		return nil, eris.Wrapf(err, "gemini: generate content with %s", model)
	}

	out := fromResponse(resp)
	if out.Model == "" {
		out.Model = model
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, eris.Errorf("gemini: empty response from %s (finish reason %q)", model, out.FinishReason)
	}
	return out, nil
}

func buildConfig(req ContentRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}
	return cfg
}

func fromResponse(resp *genai.GenerateContentResponse) *ContentResponse {
	out := &ContentResponse{}
	if resp == nil {
		return out
	}
	out.Text = resp.Text()
	out.Model = resp.ModelVersion
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if u := resp.UsageMetadata; u != nil {
		out.InputTokens = u.PromptTokenCount
		out.OutputTokens = u.CandidatesTokenCount
	}
	return out
}
