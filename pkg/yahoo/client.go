// Package yahoo is a small client for the Yahoo Finance quoteSummary and
// search endpoints.
package yahoo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/riskpilot/internal/resilience"
)

const (
	defaultBaseURL   = "https://query2.finance.yahoo.com"
	defaultUserAgent = "Mozilla/5.0 (compatible; riskpilot/1.0)"
)

const (
	upstreamName    = "yahoo"
	maxErrorBodyLen = 512
	maxSearchHits   = 5
)

// quoteSummary modules.
const (
	ModulePrice           = "price"
	ModuleSummaryProfile  = "summaryProfile"
	ModuleFinancialData   = "financialData"
	ModuleKeyStatistics   = "defaultKeyStatistics"
	ModuleCashflowHistory = "cashflowStatementHistory"
	ModuleSummaryDetail   = "summaryDetail"
)

// Client fetches fundamentals and resolves company names.
type Client interface {
	QuoteSummary(ctx context.Context, symbol string, modules ...string) (*Summary, error)
	Search(ctx context.Context, query string) ([]SearchQuote, error)
}

// Value is Yahoo's {raw, fmt} number wrapper. Raw is nil when the field is
// empty.
type Value struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt,omitempty"`
}

// FinancialData is the financialData module.
type FinancialData struct {
	CurrentPrice      Value `json:"currentPrice"`
	RevenueGrowth     Value `json:"revenueGrowth"`
	ProfitMargins     Value `json:"profitMargins"`
	DebtToEquity      Value `json:"debtToEquity"`
	FreeCashflow      Value `json:"freeCashflow"`
	OperatingCashflow Value `json:"operatingCashflow"`
}

// KeyStatistics is the defaultKeyStatistics module.
type KeyStatistics struct {
	Beta        Value `json:"beta"`
	TrailingEps Value `json:"trailingEps"`
	ForwardPE   Value `json:"forwardPE"`
}

// SummaryDetail is the summaryDetail module.
type SummaryDetail struct {
	TrailingPE Value `json:"trailingPE"`
	Beta       Value `json:"beta"`
}

// SummaryProfile is the summaryProfile module.
type SummaryProfile struct {
	FullTimeEmployees *int64 `json:"fullTimeEmployees"`
	Industry          string `json:"industry"`
	Sector            string `json:"sector"`
	Country           string `json:"country"`
}

// Price is the price module.
type Price struct {
	LongName     string `json:"longName"`
	ShortName    string `json:"shortName"`
	Currency     string `json:"currency"`
	ExchangeName string `json:"exchangeName"`
}

// CashflowStatement is one annual cash flow statement.
type CashflowStatement struct {
	EndDate                          Value `json:"endDate"`
	TotalCashFromOperatingActivities Value `json:"totalCashFromOperatingActivities"`
	CapitalExpenditures              Value `json:"capitalExpenditures"`
}

// CashflowHistory is the cashflowStatementHistory module.
type CashflowHistory struct {
	Statements []CashflowStatement `json:"cashflowStatements"`
}

// Summary holds whichever modules were requested; absent modules are nil.
type Summary struct {
	FinancialData   *FinancialData   `json:"financialData"`
	KeyStatistics   *KeyStatistics   `json:"defaultKeyStatistics"`
	SummaryDetail   *SummaryDetail   `json:"summaryDetail"`
	SummaryProfile  *SummaryProfile  `json:"summaryProfile"`
	Price           *Price           `json:"price"`
	CashflowHistory *CashflowHistory `json:"cashflowStatementHistory"`
}

// LatestCashflow returns the most recent cash flow statement, if any.
func (s *Summary) LatestCashflow() *CashflowStatement {
	if s == nil || s.CashflowHistory == nil || len(s.CashflowHistory.Statements) == 0 {
		return nil
	}
	return &s.CashflowHistory.Statements[0]
}

// SearchQuote is one search hit.
type SearchQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
	Exchange  string `json:"exchange"`
	QuoteType string `json:"quoteType"`
}

// Name returns the best display name of the hit.
func (q SearchQuote) Name() string {
	if q.LongName != "" {
		return q.LongName
	}
	return q.ShortName
}

type summaryEnvelope struct {
	QuoteSummary struct {
		Result []Summary `json:"result"`
		Error  *apiError `json:"error"`
	} `json:"quoteSummary"`
}

type searchEnvelope struct {
	Quotes []SearchQuote `json:"quotes"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the quoteSummary base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithSearchBaseURL overrides the search base URL.
func WithSearchBaseURL(u string) Option {
	return func(c *httpClient) {
		c.searchURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithPolicy runs every request under p.
func WithPolicy(p *resilience.Policy) Option {
	return func(c *httpClient) {
		c.policy = p
	}
}

// WithLimiter throttles requests.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	baseURL   string
	searchURL string
	http      *http.Client
	policy    *resilience.Policy
	limiter   *rate.Limiter
}

// NewClient creates a Yahoo Finance client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		searchURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) QuoteSummary(ctx context.Context, symbol string, modules ...string) (*Summary, error) {
	if symbol == "" {
		return nil, eris.New("yahoo: empty symbol")
	}
	q := url.Values{}
	q.Set("modules", strings.Join(modules, ","))
	endpoint := c.baseURL + "/v10/finance/quoteSummary/" + url.PathEscape(symbol) + "?" + q.Encode()

	var env summaryEnvelope
	if err := c.getJSON(ctx, endpoint, &env); err != nil {
		return nil, eris.Wrapf(err, "yahoo: quote summary %s", symbol)
	}
	if e := env.QuoteSummary.Error; e != nil {
		return nil, eris.Errorf("yahoo: quote summary %s: %s: %s", symbol, e.Code, e.Description)
	}
	if len(env.QuoteSummary.Result) == 0 {
		return nil, eris.Errorf("yahoo: quote summary %s: empty result", symbol)
	}
	return &env.QuoteSummary.Result[0], nil
}

func (c *httpClient) Search(ctx context.Context, query string) ([]SearchQuote, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("quotesCount", strconv.Itoa(maxSearchHits))
	q.Set("newsCount", "0")
	endpoint := c.searchURL + "/v1/finance/search?" + q.Encode()

	var env searchEnvelope
	if err := c.getJSON(ctx, endpoint, &env); err != nil {
		return nil, eris.Wrapf(err, "yahoo: search %q", query)
	}

	hits := make([]SearchQuote, 0, len(env.Quotes))
	for _, h := range env.Quotes {
		if h.Symbol != "" {
			hits = append(hits, h)
		}
	}
	if len(hits) > maxSearchHits {
		hits = hits[:maxSearchHits]
	}
	return hits, nil
}

func (c *httpClient) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := resilience.Call(ctx, c.policy, func(ctx context.Context) ([]byte, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "rate limit wait")
			}
		}
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

func (c *httpClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if len(msg) > maxErrorBodyLen {
			msg = msg[:maxErrorBodyLen]
		}
		return nil, &resilience.StatusError{Upstream: upstreamName, StatusCode: resp.StatusCode, Body: msg}
	}
	return body, nil
}
