package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/riskpilot/internal/resilience"
)

const tcsSummary = `{
  "quoteSummary": {
    "result": [{
      "financialData": {
        "currentPrice": {"raw": 3890.5, "fmt": "3,890.50"},
        "revenueGrowth": {"raw": 0.054, "fmt": "5.40%"},
        "profitMargins": {"raw": 0.191},
        "debtToEquity": {"raw": 9.4},
        "freeCashflow": {},
        "operatingCashflow": {"raw": 443380000000}
      },
      "defaultKeyStatistics": {
        "beta": {"raw": 0.52},
        "trailingEps": {"raw": 125.1}
      },
      "summaryProfile": {"fullTimeEmployees": 601546, "industry": "Information Technology Services", "country": "India"},
      "price": {"longName": "Tata Consultancy Services Limited", "currency": "INR", "exchangeName": "NSE"},
      "cashflowStatementHistory": {
        "cashflowStatements": [
          {"totalCashFromOperatingActivities": {"raw": 443380000000}, "capitalExpenditures": {"raw": -25870000000}},
          {"totalCashFromOperatingActivities": {"raw": 419650000000}, "capitalExpenditures": {"raw": -31000000000}}
        ]
      }
    }],
    "error": null
  }
}`

func TestQuoteSummary(t *testing.T) {
	var gotPath, gotModules, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotModules = r.URL.Query().Get("modules")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(tcsSummary)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	s, err := c.QuoteSummary(context.Background(), "TCS.NS", ModuleFinancialData, ModuleKeyStatistics, ModulePrice)
	require.NoError(t, err)

	assert.Equal(t, "/v10/finance/quoteSummary/TCS.NS", gotPath)
	assert.Equal(t, "financialData,defaultKeyStatistics,price", gotModules)
	assert.NotEmpty(t, gotUA)

	require.NotNil(t, s.FinancialData)
	require.NotNil(t, s.FinancialData.RevenueGrowth.Raw)
	assert.InDelta(t, 0.054, *s.FinancialData.RevenueGrowth.Raw, 1e-9)
	assert.Nil(t, s.FinancialData.FreeCashflow.Raw)
	require.NotNil(t, s.KeyStatistics)
	assert.InDelta(t, 0.52, *s.KeyStatistics.Beta.Raw, 1e-9)
	require.NotNil(t, s.SummaryProfile.FullTimeEmployees)
	assert.Equal(t, int64(601546), *s.SummaryProfile.FullTimeEmployees)
	assert.Equal(t, "Tata Consultancy Services Limited", s.Price.LongName)
	assert.Nil(t, s.SummaryDetail)

	latest := s.LatestCashflow()
	require.NotNil(t, latest)
	assert.InDelta(t, -25870000000.0, *latest.CapitalExpenditures.Raw, 1)
}

func TestQuoteSummary_EnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for ticker symbol: ZZYX.NS"}}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.QuoteSummary(context.Background(), "ZZYX.NS", ModulePrice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quote not found")
}

func TestQuoteSummary_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[]}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.QuoteSummary(context.Background(), "TCS.NS", ModulePrice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty result")
}

func TestQuoteSummary_EmptySymbol(t *testing.T) {
	c := NewClient()
	_, err := c.QuoteSummary(context.Background(), "")
	require.Error(t, err)
}

func TestQuoteSummary_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, "oops", "unexpected status 500"},
		{"not found", http.StatusNotFound, `{"finance":{"error":"Not Found"}}`, "unexpected status 404"},
		{"bad json", http.StatusOK, "not json", "unmarshal response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))
			defer srv.Close()

			c := NewClient(WithBaseURL(srv.URL))
			_, err := c.QuoteSummary(context.Background(), "TCS.NS", ModulePrice)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQuoteSummary_StatusErrorIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(strings.Repeat("x", 2000))) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.QuoteSummary(context.Background(), "INFY.NS", ModulePrice)
	require.Error(t, err)

	var se *resilience.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "yahoo", se.Upstream)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Len(t, se.Body, maxErrorBodyLen)
	assert.True(t, resilience.IsTransient(err))
}

func TestQuoteSummary_RetriesUnderPolicy(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(tcsSummary)) //nolint:errcheck
	}))
	defer srv.Close()

	policy := resilience.NewPolicy("yahoo", 5*time.Second,
		resilience.Backoff{Attempts: 3, Initial: time.Millisecond, Max: 5 * time.Millisecond, Multiplier: 2},
		resilience.BreakerConfig{FailureThreshold: 5, CoolDown: time.Minute})

	c := NewClient(WithBaseURL(srv.URL), WithPolicy(policy), WithLimiter(rate.NewLimiter(rate.Inf, 1)))
	s, err := c.QuoteSummary(context.Background(), "TCS.NS", ModuleFinancialData)
	require.NoError(t, err)
	require.NotNil(t, s.FinancialData)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, resilience.Closed, policy.Breaker.State())
}

func TestQuoteSummary_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	policy := resilience.NewPolicy("yahoo", 5*time.Second,
		resilience.Backoff{Attempts: 3, Initial: time.Millisecond, Max: 5 * time.Millisecond, Multiplier: 2},
		resilience.BreakerConfig{FailureThreshold: 5, CoolDown: time.Minute})

	c := NewClient(WithBaseURL(srv.URL), WithPolicy(policy))
	_, err := c.QuoteSummary(context.Background(), "TCS.NS", ModulePrice)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearch(t *testing.T) {
	var gotQuery, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"quotes":[
			{"symbol":"INFY","shortname":"Infosys Limited","longname":"Infosys Limited","exchange":"NYQ","quoteType":"EQUITY"},
			{"shortname":"no symbol"},
			{"symbol":"INFY.NS","shortname":"INFOSYS LIMITED","exchange":"NSI","quoteType":"EQUITY"}
		]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(WithSearchBaseURL(srv.URL))
	hits, err := c.Search(context.Background(), "  Infosys ")
	require.NoError(t, err)

	assert.Equal(t, "/v1/finance/search", gotPath)
	assert.Equal(t, "Infosys", gotQuery)
	require.Len(t, hits, 2)
	assert.Equal(t, "INFY", hits[0].Symbol)
	assert.Equal(t, "Infosys Limited", hits[0].Name())
	assert.Equal(t, "INFOSYS LIMITED", hits[1].Name())
}

func TestSearch_CapsHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var b strings.Builder
		b.WriteString(`{"quotes":[`)
		for i := 0; i < 8; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`{"symbol":"S` + string(rune('A'+i)) + `"}`)
		}
		b.WriteString(`]}`)
		w.Write([]byte(b.String())) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(WithSearchBaseURL(srv.URL))
	hits, err := c.Search(context.Background(), "s")
	require.NoError(t, err)
	assert.Len(t, hits, maxSearchHits)
}

func TestSearch_BlankQuery(t *testing.T) {
	c := NewClient(WithSearchBaseURL("http://127.0.0.1:1"))
	hits, err := c.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(WithSearchBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "Wipro")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
}

func TestLatestCashflow_Nil(t *testing.T) {
	var s *Summary
	assert.Nil(t, s.LatestCashflow())
	assert.Nil(t, (&Summary{CashflowHistory: &CashflowHistory{}}).LatestCashflow())
}
