package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/pkg/yahoo"
)

type mockSummaries struct{ mock.Mock }

func (m *mockSummaries) QuoteSummary(ctx context.Context, symbol string, modules ...string) (*yahoo.Summary, error) {
	args := m.Called(ctx, symbol, modules)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*yahoo.Summary), args.Error(1)
}

func (m *mockSummaries) Search(ctx context.Context, query string) ([]yahoo.SearchQuote, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]yahoo.SearchQuote), args.Error(1)
}

type mockQuotes struct{ mock.Mock }

func (m *mockQuotes) Quote(ctx context.Context, symbol string) (*Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Quote), args.Error(1)
}

func (m *mockQuotes) Equity(ctx context.Context, symbol string) (*Equity, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Equity), args.Error(1)
}

func (m *mockQuotes) History(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	args := m.Called(ctx, symbol, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Bar), args.Error(1)
}

func v(f float64) yahoo.Value { return yahoo.Value{Raw: &f} }

func bars(closes ...float64) []Bar {
	out := make([]Bar, len(closes))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = Bar{Time: start.AddDate(0, 0, i), Close: decimal.NewFromFloat(c)}
	}
	return out
}

func TestListedSymbol(t *testing.T) {
	f := NewFetcher(nil, nil)
	assert.Equal(t, "TCS.NS", f.ListedSymbol("tcs"))
	assert.Equal(t, "INFY.BO", f.ListedSymbol("INFY.BO"))
	assert.Equal(t, "WIPRO", NewFetcher(nil, nil, WithExchangeSuffix("")).ListedSymbol("WIPRO"))
}

func TestFetchEmployee(t *testing.T) {
	sums := new(mockSummaries)
	quotes := new(mockQuotes)
	employees := int64(601546)

	quotes.On("Quote", mock.Anything, "TCS.NS").Return(&Quote{
		Symbol: "TCS.NS", Name: "TATA CONSULTANCY SERV LT", Exchange: "NSE", Currency: "INR",
		Price: 3890.5, ChangePercent: -1.25,
	}, nil)
	sums.On("QuoteSummary", mock.Anything, "TCS.NS",
		[]string{yahoo.ModulePrice, yahoo.ModuleSummaryProfile, yahoo.ModuleFinancialData}).
		Return(&yahoo.Summary{
			FinancialData:  &yahoo.FinancialData{RevenueGrowth: v(0.054), ProfitMargins: v(0.191)},
			SummaryProfile: &yahoo.SummaryProfile{FullTimeEmployees: &employees},
			Price:          &yahoo.Price{LongName: "Tata Consultancy Services Limited"},
		}, nil)

	snap := NewFetcher(sums, quotes).FetchEmployee(context.Background(), "TCS")
	assert.False(t, snap.Failed())
	assert.Equal(t, "TCS.NS", snap.Symbol)
	assert.InDelta(t, 0.054, *snap.RevenueGrowth, 1e-9)
	assert.InDelta(t, 0.191, *snap.ProfitMargin, 1e-9)
	assert.InDelta(t, -1.25, *snap.StockPriceChange, 1e-9)
	assert.InDelta(t, 601546, *snap.EmployeeCount, 1e-9)
	assert.Equal(t, "Tata Consultancy Services Limited", snap.CompanyName)
	assert.Nil(t, snap.FreeCashFlow)
	sums.AssertExpectations(t)
	quotes.AssertExpectations(t)
}

func TestFetchEmployee_MissingModules(t *testing.T) {
	sums := new(mockSummaries)
	quotes := new(mockQuotes)
	quotes.On("Quote", mock.Anything, "WIPRO.NS").Return(&Quote{ChangePercent: 0.5}, nil)
	sums.On("QuoteSummary", mock.Anything, "WIPRO.NS", mock.Anything).Return(&yahoo.Summary{
		FinancialData: &yahoo.FinancialData{RevenueGrowth: v(0.02)},
	}, nil)

	snap := NewFetcher(sums, quotes).FetchEmployee(context.Background(), "WIPRO")
	assert.False(t, snap.Failed())
	assert.NotNil(t, snap.RevenueGrowth)
	assert.Nil(t, snap.ProfitMargin)
	assert.Nil(t, snap.EmployeeCount)
	assert.Nil(t, snap.Price)
}

func TestFetchEmployee_SoftFailure(t *testing.T) {
	sums := new(mockSummaries)
	quotes := new(mockQuotes)
	quotes.On("Quote", mock.Anything, "INFY.NS").Return(&Quote{ChangePercent: 1}, nil)
	sums.On("QuoteSummary", mock.Anything, "INFY.NS", mock.Anything).Return(nil, errors.New("yahoo: unexpected status 503"))

	snap := NewFetcher(sums, quotes).FetchEmployee(context.Background(), "INFY")
	require.True(t, snap.Failed())
	assert.Contains(t, *snap.SourceError, "503")
	assert.Nil(t, snap.RevenueGrowth)
	assert.Nil(t, snap.ProfitMargin)
	assert.Nil(t, snap.StockPriceChange)
	assert.Nil(t, snap.EmployeeCount)
	assert.Equal(t, "INFY Limited", snap.CompanyName)
	assert.Equal(t, "NSE", snap.Exchange)
	assert.Equal(t, "INR", snap.Currency)
}

func TestFetchEmployee_Timeout(t *testing.T) {
	sums := new(mockSummaries)
	quotes := new(mockQuotes)
	quotes.On("Quote", mock.Anything, "TCS.NS").Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}).Return(nil, context.DeadlineExceeded)
	sums.On("QuoteSummary", mock.Anything, "TCS.NS", mock.Anything).Return(&yahoo.Summary{}, nil)

	start := time.Now()
	snap := NewFetcher(sums, quotes, WithTimeout(20*time.Millisecond)).FetchEmployee(context.Background(), "TCS")
	assert.True(t, snap.Failed())
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetchInvestor(t *testing.T) {
	sums := new(mockSummaries)
	quotes := new(mockQuotes)
	now := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	sums.On("QuoteSummary", mock.Anything, "INFY", mock.Anything).Return(&yahoo.Summary{
		FinancialData: &yahoo.FinancialData{
			RevenueGrowth: v(0.061), ProfitMargins: v(0.17), DebtToEquity: v(8.9),
			FreeCashflow: v(2.9e9),
		},
		KeyStatistics: &yahoo.KeyStatistics{Beta: v(0.98)},
		Price:         &yahoo.Price{LongName: "Infosys Limited", Currency: "USD"},
	}, nil)
	quotes.On("Equity", mock.Anything, "INFY").Return(&Equity{
		Quote:      Quote{Price: 19.5, ChangePercent: 0.8, Exchange: "NYSE"},
		TrailingPE: 24.3,
	}, nil)
	quotes.On("History", mock.Anything, "INFY", now.AddDate(0, 0, -365), now).Return(bars(100, 102, 99, 110), nil)

	f := NewFetcher(sums, quotes)
	f.now = func() time.Time { return now }
	snap := f.FetchInvestor(context.Background(), "infy")

	require.False(t, snap.Failed())
	assert.InDelta(t, 2.9e9, *snap.FreeCashFlow, 1)
	assert.Equal(t, model.FCFReported, snap.FreeCashFlowBasis)
	assert.InDelta(t, 24.3, *snap.PERatio, 1e-9)
	assert.InDelta(t, 0.98, *snap.Beta, 1e-9)
	assert.InDelta(t, 8.9, *snap.DebtToEquity, 1e-9)
	assert.InDelta(t, 0.8, *snap.StockPriceChange, 1e-9)
	assert.InDelta(t, 10.0, *snap.PriceChange1Y, 1e-9)
	require.NotNil(t, snap.RealizedVolatility)
	assert.Greater(t, *snap.RealizedVolatility, 0.0)
	assert.Equal(t, "Infosys Limited", snap.CompanyName)
	assert.Equal(t, "NYSE", snap.Exchange)
	quotes.AssertExpectations(t)
}

func TestFetchInvestor_HistoryFailureIsSoft(t *testing.T) {
	sums := new(mockSummaries)
	quotes := new(mockQuotes)
	sums.On("QuoteSummary", mock.Anything, "WIPRO.NS", mock.Anything).Return(&yahoo.Summary{}, nil)
	quotes.On("Equity", mock.Anything, "WIPRO.NS").Return(&Equity{}, nil)
	quotes.On("History", mock.Anything, "WIPRO.NS", mock.Anything, mock.Anything).Return(nil, errors.New("chart: no data"))

	snap := NewFetcher(sums, quotes).FetchInvestor(context.Background(), "WIPRO.NS")
	require.True(t, snap.Failed())
	assert.Nil(t, snap.Beta)
	assert.Nil(t, snap.PERatio)
	assert.Equal(t, "WIPRO Limited", snap.CompanyName)
}

func TestFreeCashFlow(t *testing.T) {
	tests := []struct {
		name      string
		sum       *yahoo.Summary
		want      *float64
		wantBasis string
	}{
		{
			name:      "reported",
			sum:       &yahoo.Summary{FinancialData: &yahoo.FinancialData{FreeCashflow: v(5e8)}},
			want:      model.Float(5e8),
			wantBasis: model.FCFReported,
		},
		{
			name: "reported zero falls through to computed",
			sum: &yahoo.Summary{
				FinancialData: &yahoo.FinancialData{FreeCashflow: v(0)},
				CashflowHistory: &yahoo.CashflowHistory{Statements: []yahoo.CashflowStatement{
					{TotalCashFromOperatingActivities: v(4e9), CapitalExpenditures: v(-1e9)},
				}},
			},
			want:      model.Float(3e9),
			wantBasis: model.FCFComputed,
		},
		{
			name: "reported zero without statements",
			sum:  &yahoo.Summary{FinancialData: &yahoo.FinancialData{FreeCashflow: v(0)}},
		},
		{
			name: "computed from latest statement",
			sum: &yahoo.Summary{CashflowHistory: &yahoo.CashflowHistory{Statements: []yahoo.CashflowStatement{
				{TotalCashFromOperatingActivities: v(4e9), CapitalExpenditures: v(-1e9)},
				{TotalCashFromOperatingActivities: v(1), CapitalExpenditures: v(-1)},
			}}},
			want:      model.Float(3e9),
			wantBasis: model.FCFComputed,
		},
		{
			name: "positive capex is still subtracted",
			sum: &yahoo.Summary{CashflowHistory: &yahoo.CashflowHistory{Statements: []yahoo.CashflowStatement{
				{TotalCashFromOperatingActivities: v(4e9), CapitalExpenditures: v(1e9)},
			}}},
			want:      model.Float(3e9),
			wantBasis: model.FCFComputed,
		},
		{
			name: "operating cash flow from financial data",
			sum: &yahoo.Summary{
				FinancialData: &yahoo.FinancialData{OperatingCashflow: v(2e9)},
				CashflowHistory: &yahoo.CashflowHistory{Statements: []yahoo.CashflowStatement{
					{CapitalExpenditures: v(-5e8)},
				}},
			},
			want:      model.Float(1.5e9),
			wantBasis: model.FCFComputed,
		},
		{
			name: "no capex",
			sum:  &yahoo.Summary{FinancialData: &yahoo.FinancialData{OperatingCashflow: v(2e9)}},
		},
		{
			name: "nothing",
			sum:  &yahoo.Summary{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, basis := freeCashFlow(tt.sum)
			assert.Equal(t, tt.wantBasis, basis)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1)
		})
	}
}

func TestPERatio(t *testing.T) {
	price := model.Float(200)
	tests := []struct {
		name  string
		sum   *yahoo.Summary
		eq    *Equity
		price *float64
		want  *float64
	}{
		{"equity trailing", &yahoo.Summary{}, &Equity{TrailingPE: 25}, price, model.Float(25)},
		{"summary trailing", &yahoo.Summary{SummaryDetail: &yahoo.SummaryDetail{TrailingPE: v(30)}}, &Equity{}, price, model.Float(30)},
		{"price over equity eps", &yahoo.Summary{}, &Equity{TrailingEPS: 8}, price, model.Float(25)},
		{"price over key stats eps", &yahoo.Summary{KeyStatistics: &yahoo.KeyStatistics{TrailingEps: v(10)}}, &Equity{}, price, model.Float(20)},
		{"zero eps", &yahoo.Summary{KeyStatistics: &yahoo.KeyStatistics{TrailingEps: v(0)}}, &Equity{}, price, nil},
		{"no price", &yahoo.Summary{}, &Equity{TrailingEPS: 8}, nil, nil},
		{"nothing", &yahoo.Summary{}, nil, price, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := peRatio(tt.sum, tt.eq, tt.price)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestBeta(t *testing.T) {
	assert.InDelta(t, 1.1, *beta(&yahoo.Summary{KeyStatistics: &yahoo.KeyStatistics{Beta: v(1.1)}}), 1e-9)
	assert.InDelta(t, 0.7, *beta(&yahoo.Summary{KeyStatistics: &yahoo.KeyStatistics{}, SummaryDetail: &yahoo.SummaryDetail{Beta: v(0.7)}}), 1e-9)
	assert.Nil(t, beta(&yahoo.Summary{}))
}

func TestHistoryStats(t *testing.T) {
	change, vol := historyStats(bars(100, 110))
	require.NotNil(t, change)
	assert.InDelta(t, 10.0, *change, 1e-9)
	assert.Nil(t, vol)

	change, vol = historyStats(bars(100, 100, 100, 100))
	assert.InDelta(t, 0.0, *change, 1e-9)
	assert.InDelta(t, 0.0, *vol, 1e-9)

	// returns +10%, -10%: mean 0, sample stdev sqrt(0.02)
	_, vol = historyStats(bars(100, 110, 99))
	require.NotNil(t, vol)
	assert.InDelta(t, 0.141421356*15.874507866*100, *vol, 0.01)

	change, vol = historyStats(bars(0, 50))
	assert.Nil(t, change)
	assert.Nil(t, vol)

	change, _ = historyStats(nil)
	assert.Nil(t, change)
}
