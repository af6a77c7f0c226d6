package market

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/pkg/yahoo"
)

const (
	defaultSuffix      = ".NS"
	defaultHistoryDays = 365
	tradingDays        = 252
)

// exchanges maps symbol suffixes to the exchange and currency reported in
// soft-failure diagnostics.
var exchanges = map[string][2]string{
	".NS": {"NSE", "INR"},
	".BO": {"BSE", "INR"},
	".L":  {"LSE", "GBP"},
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithExchangeSuffix sets the suffix appended to employee-flow symbols.
func WithExchangeSuffix(s string) Option {
	return func(f *Fetcher) {
		f.suffix = s
	}
}

// WithTimeout bounds each fetch.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHistoryDays sets the investor history window.
func WithHistoryDays(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.historyDays = n
		}
	}
}

// Fetcher builds market snapshots. It never returns an error: upstream
// failures produce a snapshot with SourceError set and every figure nil.
type Fetcher struct {
	summaries   yahoo.Client
	quotes      QuoteSource
	suffix      string
	timeout     time.Duration
	historyDays int
	now         func() time.Time
}

// NewFetcher creates a Fetcher.
func NewFetcher(summaries yahoo.Client, quotes QuoteSource, opts ...Option) *Fetcher {
	f := &Fetcher{
		summaries:   summaries,
		quotes:      quotes,
		suffix:      defaultSuffix,
		historyDays: defaultHistoryDays,
		now:         time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// ListedSymbol appends the exchange suffix unless symbol already carries
// one.
func (f *Fetcher) ListedSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if f.suffix == "" || strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + f.suffix
}

// FetchEmployee returns revenue growth, profit margin, price change and
// head count for a resolved symbol listed on the configured exchange.
func (f *Fetcher) FetchEmployee(ctx context.Context, symbol string) model.MarketSnapshot {
	listed := f.ListedSymbol(symbol)
	ctx, cancel := f.bound(ctx)
	defer cancel()

	var (
		q   *Quote
		sum *yahoo.Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		q, err = f.quotes.Quote(gctx, listed)
		return err
	})
	g.Go(func() error {
		var err error
		sum, err = f.summaries.QuoteSummary(gctx, listed,
			yahoo.ModulePrice, yahoo.ModuleSummaryProfile, yahoo.ModuleFinancialData)
		return err
	})
	if err := g.Wait(); err != nil {
		return f.failed(listed, eris.Wrap(err, "market: fetch employee"))
	}

	snap := model.MarketSnapshot{
		Symbol:           listed,
		StockPriceChange: model.Float(q.ChangePercent),
		Price:            positive(q.Price),
		CompanyName:      q.Name,
		Exchange:         q.Exchange,
		Currency:         q.Currency,
	}
	if fd := sum.FinancialData; fd != nil {
		snap.RevenueGrowth = fd.RevenueGrowth.Raw
		snap.ProfitMargin = fd.ProfitMargins.Raw
	}
	if p := sum.SummaryProfile; p != nil && p.FullTimeEmployees != nil {
		snap.EmployeeCount = model.Float(float64(*p.FullTimeEmployees))
	}
	fillNames(&snap, sum.Price)
	return snap
}

// FetchInvestor returns fundamentals, valuation and one year of price
// statistics for symbol. Fundamentals, quote and history are requested
// concurrently.
func (f *Fetcher) FetchInvestor(ctx context.Context, symbol string) model.MarketSnapshot {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	ctx, cancel := f.bound(ctx)
	defer cancel()

	var (
		sum  *yahoo.Summary
		eq   *Equity
		bars []Bar
	)
	to := f.now()
	from := to.AddDate(0, 0, -f.historyDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sum, err = f.summaries.QuoteSummary(gctx, symbol,
			yahoo.ModuleFinancialData, yahoo.ModuleKeyStatistics, yahoo.ModuleSummaryDetail,
			yahoo.ModuleCashflowHistory, yahoo.ModulePrice)
		return err
	})
	g.Go(func() error {
		var err error
		eq, err = f.quotes.Equity(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		bars, err = f.quotes.History(gctx, symbol, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return f.failed(symbol, eris.Wrap(err, "market: fetch investor"))
	}

	snap := model.MarketSnapshot{
		Symbol:           symbol,
		StockPriceChange: model.Float(eq.ChangePercent),
		Price:            positive(eq.Price),
		CompanyName:      eq.Name,
		Exchange:         eq.Exchange,
		Currency:         eq.Currency,
	}
	if fd := sum.FinancialData; fd != nil {
		snap.RevenueGrowth = fd.RevenueGrowth.Raw
		snap.ProfitMargin = fd.ProfitMargins.Raw
		snap.DebtToEquity = fd.DebtToEquity.Raw
		if snap.Price == nil {
			snap.Price = fd.CurrentPrice.Raw
		}
	}
	snap.FreeCashFlow, snap.FreeCashFlowBasis = freeCashFlow(sum)
	snap.PERatio = peRatio(sum, eq, snap.Price)
	snap.Beta = beta(sum)
	snap.PriceChange1Y, snap.RealizedVolatility = historyStats(bars)
	fillNames(&snap, sum.Price)
	return snap
}

func (f *Fetcher) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout > 0 {
		return context.WithTimeout(ctx, f.timeout)
	}
	return context.WithCancel(ctx)
}

func (f *Fetcher) failed(symbol string, err error) model.MarketSnapshot {
	zap.L().Warn("market: provider unavailable, returning empty snapshot",
		zap.String("symbol", symbol),
		zap.Error(err),
	)

	base := symbol
	snap := model.MarketSnapshot{Symbol: symbol, SourceError: model.String(err.Error())}
	if i := strings.LastIndex(symbol, "."); i > 0 {
		base = symbol[:i]
		if ex, ok := exchanges[symbol[i:]]; ok {
			snap.Exchange, snap.Currency = ex[0], ex[1]
		}
	}
	snap.CompanyName = base + " Limited"
	return snap
}

func fillNames(snap *model.MarketSnapshot, p *yahoo.Price) {
	if p == nil {
		return
	}
	if p.LongName != "" {
		snap.CompanyName = p.LongName
	} else if snap.CompanyName == "" {
		snap.CompanyName = p.ShortName
	}
	if snap.Currency == "" {
		snap.Currency = p.Currency
	}
	if snap.Exchange == "" {
		snap.Exchange = p.ExchangeName
	}
}

// freeCashFlow prefers the reported figure, then operating cash flow less
// capital expenditure from the latest annual statement. A reported zero is
// treated as missing.
func freeCashFlow(sum *yahoo.Summary) (*float64, string) {
	if fd := sum.FinancialData; fd != nil && fd.FreeCashflow.Raw != nil && *fd.FreeCashflow.Raw != 0 {
		return fd.FreeCashflow.Raw, model.FCFReported
	}

	var ocf, capex *float64
	if st := sum.LatestCashflow(); st != nil {
		ocf = st.TotalCashFromOperatingActivities.Raw
		capex = st.CapitalExpenditures.Raw
	}
	if ocf == nil && sum.FinancialData != nil {
		ocf = sum.FinancialData.OperatingCashflow.Raw
	}
	if ocf == nil || capex == nil {
		return nil, ""
	}
	return model.Float(*ocf - math.Abs(*capex)), model.FCFComputed
}

// peRatio prefers a trailing PE, then price over trailing EPS.
func peRatio(sum *yahoo.Summary, eq *Equity, price *float64) *float64 {
	if eq != nil && eq.TrailingPE > 0 {
		return model.Float(eq.TrailingPE)
	}
	if sd := sum.SummaryDetail; sd != nil && sd.TrailingPE.Raw != nil {
		return sd.TrailingPE.Raw
	}

	var eps *float64
	if eq != nil && eq.TrailingEPS != 0 {
		eps = model.Float(eq.TrailingEPS)
	} else if ks := sum.KeyStatistics; ks != nil {
		eps = ks.TrailingEps.Raw
	}
	if price == nil || eps == nil || *eps == 0 {
		return nil
	}
	return model.Float(*price / *eps)
}

func beta(sum *yahoo.Summary) *float64 {
	if ks := sum.KeyStatistics; ks != nil && ks.Beta.Raw != nil {
		return ks.Beta.Raw
	}
	if sd := sum.SummaryDetail; sd != nil {
		return sd.Beta.Raw
	}
	return nil
}

// historyStats returns the percentage change from the first to the last
// close and the annualized standard deviation of daily returns, in percent.
func historyStats(bars []Bar) (*float64, *float64) {
	closes := make([]decimal.Decimal, 0, len(bars))
	for _, b := range bars {
		if b.Close.IsPositive() {
			closes = append(closes, b.Close)
		}
	}
	if len(closes) < 2 {
		return nil, nil
	}

	hundred := decimal.NewFromInt(100)
	first, last := closes[0], closes[len(closes)-1]
	change := last.Sub(first).Div(first).Mul(hundred).Round(4).InexactFloat64()

	if len(closes) < 3 {
		return &change, nil
	}

	returns := make([]decimal.Decimal, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns = append(returns, closes[i].Sub(closes[i-1]).Div(closes[i-1]))
	}
	n := decimal.NewFromInt(int64(len(returns)))
	mean := decimal.Sum(returns[0], returns[1:]...).Div(n)

	var sq decimal.Decimal
	for _, r := range returns {
		d := r.Sub(mean)
		sq = sq.Add(d.Mul(d))
	}
	variance := sq.Div(n.Sub(decimal.NewFromInt(1)))

	vol := math.Sqrt(variance.InexactFloat64()*tradingDays) * 100
	vol = math.Round(vol*10000) / 10000
	return &change, &vol
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return model.Float(v)
}
