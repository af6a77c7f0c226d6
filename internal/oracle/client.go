// Package oracle calls the external risk-scoring model.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/internal/resilience"
)

const maxErrorBodyLen = 512

// Persona selects the scoring endpoint.
type Persona string

const (
	Employee Persona = "employee"
	Investor Persona = "investor"
	Student  Persona = "student"
)

// Client scores feature vectors.
type Client interface {
	Predict(ctx context.Context, persona Persona, features any) (model.RiskVerdict, error)
}

// prediction is the scoring response. Employee models answer with
// layoff_risk, the others with risk_label.
type prediction struct {
	RiskLabel   string   `json:"risk_label"`
	LayoffRisk  string   `json:"layoff_risk"`
	Probability *float64 `json:"probability"`
}

// Option configures the client.
type Option func(*httpClient)

// WithPath overrides the endpoint path for persona.
func WithPath(persona Persona, path string) Option {
	return func(c *httpClient) {
		if path != "" {
			c.paths[persona] = path
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithPolicy retries transient failures under p.
func WithPolicy(p *resilience.Policy) Option {
	return func(c *httpClient) {
		c.policy = p
	}
}

type httpClient struct {
	baseURL string
	paths   map[Persona]string
	http    *http.Client
	policy  *resilience.Policy
}

// NewClient creates an oracle client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		paths: map[Persona]string{
			Employee: "/predict/employee",
			Investor: "/predict/investor",
			Student:  "/predict/student",
		},
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Predict posts features as flat JSON and returns the normalized verdict.
// Every failure, including an unrecognized label or an out-of-range
// probability, wraps model.ErrOracleUnavailable.
func (c *httpClient) Predict(ctx context.Context, persona Persona, features any) (model.RiskVerdict, error) {
	path, ok := c.paths[persona]
	if !ok {
		return model.RiskVerdict{}, eris.Wrapf(model.ErrOracleUnavailable, "oracle: unknown persona %q", persona)
	}

	body, err := json.Marshal(features)
	if err != nil {
		return model.RiskVerdict{}, eris.Wrapf(model.ErrOracleUnavailable, "oracle: marshal features: %v", err)
	}

	respBody, err := resilience.Call(ctx, c.policy, func(ctx context.Context) ([]byte, error) {
		return c.post(ctx, c.baseURL+path, body)
	})
	if err != nil {
		zap.L().Warn("oracle: prediction failed", zap.String("persona", string(persona)), zap.Error(err))
		return model.RiskVerdict{}, eris.Wrapf(model.ErrOracleUnavailable, "oracle: %v", err)
	}

	v, err := decode(respBody)
	if err != nil {
		zap.L().Warn("oracle: bad prediction", zap.String("persona", string(persona)), zap.Error(err))
		return model.RiskVerdict{}, eris.Wrapf(model.ErrOracleUnavailable, "oracle: %v", err)
	}
	return v, nil
}

func (c *httpClient) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "oracle: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "oracle: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "oracle: read response")
	}
	if resp.StatusCode != http.StatusOK {
		if len(respBody) > maxErrorBodyLen {
			respBody = respBody[:maxErrorBodyLen]
		}
		return nil, &resilience.StatusError{Upstream: "oracle", StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

func decode(body []byte) (model.RiskVerdict, error) {
	var p prediction
	if err := json.Unmarshal(body, &p); err != nil {
		return model.RiskVerdict{}, eris.Wrap(err, "decode response")
	}

	raw := p.RiskLabel
	if raw == "" {
		raw = p.LayoffRisk
	}
	label, ok := model.ParseRiskLabel(raw)
	if !ok {
		return model.RiskVerdict{}, eris.Errorf("unrecognized risk label %q", raw)
	}
	if p.Probability == nil {
		return model.RiskVerdict{}, eris.New("missing probability")
	}
	if *p.Probability < 0 || *p.Probability > 1 {
		return model.RiskVerdict{}, eris.Errorf("probability %v outside [0,1]", *p.Probability)
	}
	return model.RiskVerdict{Label: label, Probability: *p.Probability}, nil
}
