package model

// MarketSnapshot holds provider figures for one symbol. Every numeric field
// is nil when the provider had no value. A snapshot is built fresh for each
// request and never cached.
type MarketSnapshot struct {
	Symbol string `json:"symbol"`

	RevenueGrowth     *float64 `json:"revenue_growth"`
	ProfitMargin      *float64 `json:"profit_margin"`
	DebtToEquity      *float64 `json:"debt_to_equity"`
	FreeCashFlow      *float64 `json:"free_cash_flow"`
	FreeCashFlowBasis string   `json:"free_cash_flow_basis,omitempty"`
	PERatio           *float64 `json:"pe_ratio"`
	Beta              *float64 `json:"beta"`
	StockPriceChange  *float64 `json:"stock_price_change"`
	EmployeeCount     *float64 `json:"employee_count"`

	Price              *float64 `json:"price,omitempty"`
	PriceChange1Y      *float64 `json:"price_change_1y,omitempty"`
	RealizedVolatility *float64 `json:"realized_volatility,omitempty"`

	// Diagnostics, populated when the provider could not be reached.
	CompanyName string  `json:"company_name,omitempty"`
	Exchange    string  `json:"exchange,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	SourceError *string `json:"source_error,omitempty"`
}

// Free cash flow bases.
const (
	FCFReported = "reported"
	FCFComputed = "computed"
)

// Failed reports whether the snapshot is a soft-failure placeholder.
func (s MarketSnapshot) Failed() bool {
	return s.SourceError != nil
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}
