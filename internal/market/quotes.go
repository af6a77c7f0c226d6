// Package market fetches quotes, fundamentals and price history for a
// symbol and condenses them into a MarketSnapshot.
package market

import (
	"context"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/piquette/finance-go/quote"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Quote is the subset of a live quote the fetcher uses.
type Quote struct {
	Symbol        string
	Name          string
	Exchange      string
	Currency      string
	Price         float64
	ChangePercent float64
}

// Equity adds valuation figures to a quote. Zero means absent.
type Equity struct {
	Quote
	TrailingPE  float64
	TrailingEPS float64
}

// Bar is one daily close.
type Bar struct {
	Time  time.Time
	Close decimal.Decimal
}

// QuoteSource provides live quotes and daily history.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Equity(ctx context.Context, symbol string) (*Equity, error)
	History(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error)
}

type financeSource struct {
	limiter *rate.Limiter
}

// NewFinanceSource returns a QuoteSource backed by finance-go. The library
// has no context support, so each call runs in its own goroutine and is
// abandoned when ctx ends.
func NewFinanceSource(limiter *rate.Limiter) QuoteSource {
	return &financeSource{limiter: limiter}
}

func (s *financeSource) Quote(ctx context.Context, symbol string) (*Quote, error) {
	q, err := call(ctx, s.limiter, func() (*finance.Quote, error) { return quote.Get(symbol) })
	if err != nil {
		return nil, eris.Wrapf(err, "market: quote %s", symbol)
	}
	if q == nil {
		return nil, eris.Errorf("market: quote %s: not found", symbol)
	}
	out := fromFinanceQuote(q)
	return &out, nil
}

func (s *financeSource) Equity(ctx context.Context, symbol string) (*Equity, error) {
	e, err := call(ctx, s.limiter, func() (*finance.Equity, error) { return equity.Get(symbol) })
	if err != nil {
		return nil, eris.Wrapf(err, "market: equity %s", symbol)
	}
	if e == nil {
		return nil, eris.Errorf("market: equity %s: not found", symbol)
	}
	out := &Equity{
		Quote:       fromFinanceQuote(&e.Quote),
		TrailingPE:  e.TrailingPE,
		TrailingEPS: e.EpsTrailingTwelveMonths,
	}
	if e.LongName != "" {
		out.Name = e.LongName
	}
	return out, nil
}

func (s *financeSource) History(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	bars, err := call(ctx, s.limiter, func() ([]Bar, error) {
		iter := chart.Get(&chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&from),
			End:      datetime.New(&to),
			Interval: datetime.OneDay,
		})
		var out []Bar
		for iter.Next() {
			b := iter.Bar()
			out = append(out, Bar{Time: time.Unix(int64(b.Timestamp), 0).UTC(), Close: b.Close})
		}
		return out, iter.Err()
	})
	if err != nil {
		return nil, eris.Wrapf(err, "market: history %s", symbol)
	}
	return bars, nil
}

func fromFinanceQuote(q *finance.Quote) Quote {
	return Quote{
		Symbol:        q.Symbol,
		Name:          q.ShortName,
		Exchange:      q.FullExchangeName,
		Currency:      q.CurrencyID,
		Price:         q.RegularMarketPrice,
		ChangePercent: q.RegularMarketChangePercent,
	}
}

func call[T any](ctx context.Context, limiter *rate.Limiter, fn func() (T, error)) (T, error) {
	var zero T
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return zero, eris.Wrap(err, "rate limit wait")
		}
	}

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		return r.v, r.err
	}
}
