// Package assemble merges market figures, qualitative estimates and
// directory fallbacks into the flat feature records the risk model scores.
package assemble

import (
	"math"

	"github.com/sells-group/riskpilot/internal/directory"
	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/internal/waterfall"
)

// Defaults supplies the fallbacks used when a live source is silent.
type Defaults interface {
	Qualitative(tier model.Tier) model.QualitativeFeatures
	FreeCashFlow(tier model.Tier) float64
	Market() directory.MarketDefaults
	Economy(location string) model.EconomicIndicators
}

// Assembler builds feature vectors. It holds no per-request state.
type Assembler struct {
	defaults Defaults
}

// New creates an Assembler.
func New(defaults Defaults) *Assembler {
	return &Assembler{defaults: defaults}
}

// Percent converts a decimal ratio to a percentage rounded to two places:
// 0.1234 becomes 12.34.
func Percent(v float64) float64 {
	return math.Round(v*10000) / 100
}

// AssembleInvestor builds the investor feature vector. Every field is set:
// live values first, then tier or market-neutral defaults.
func (a *Assembler) AssembleInvestor(snap model.MarketSnapshot, est model.QualitativeEstimate, tier model.Tier) (model.InvestorFeatures, model.Provenance) {
	w := waterfall.New()
	mkt := a.defaults.Market()

	f := model.InvestorFeatures{
		Tier: tier,
		RevenueGrowth: w.Field("revenue_growth",
			waterfall.From(model.SourceMarket, snap.RevenueGrowth).Map(Percent),
			waterfall.Fixed(model.SourceMarketDefault, mkt.RevenueGrowth)),
		ProfitMargin: w.Field("profit_margin",
			waterfall.From(model.SourceMarket, snap.ProfitMargin).Map(Percent),
			waterfall.Fixed(model.SourceMarketDefault, mkt.ProfitMargin)),
		DebtToEquity: w.Field("debt_to_equity",
			waterfall.From(model.SourceMarket, snap.DebtToEquity),
			waterfall.Fixed(model.SourceMarketDefault, mkt.DebtToEquity)),
		FreeCashFlow: w.Field("free_cash_flow",
			waterfall.From(model.SourceMarket, snap.FreeCashFlow),
			waterfall.Fixed(model.SourceTierDefault, a.defaults.FreeCashFlow(tier))),
		PERatio: w.Field("pe_ratio",
			waterfall.From(model.SourceMarket, snap.PERatio),
			waterfall.Fixed(model.SourceMarketDefault, mkt.PERatio)),
		Beta: w.Field("beta",
			waterfall.From(model.SourceMarket, snap.Beta),
			waterfall.Fixed(model.SourceMarketDefault, mkt.Beta)),
	}
	f.QualitativeFeatures = a.qualitative(w, est, tier)
	return f, w.Provenance()
}

// AssembleEmployee builds the employee feature vector from the request, the
// market snapshot and the estimate.
func (a *Assembler) AssembleEmployee(p model.EmployeeProfile, snap model.MarketSnapshot, est model.QualitativeEstimate, tier model.Tier) (model.EmployeeFeatures, model.Provenance) {
	w := waterfall.New()
	mkt := a.defaults.Market()
	econ := a.defaults.Economy(p.CompanyLocation)

	f := model.EmployeeFeatures{
		EmployeeProfile: p,
		Tier:            tier,
		RevenueGrowth: w.Field("revenue_growth",
			waterfall.From(model.SourceMarket, snap.RevenueGrowth).Map(Percent),
			waterfall.Fixed(model.SourceMarketDefault, mkt.RevenueGrowth)),
		ProfitMargin: w.Field("profit_margin",
			waterfall.From(model.SourceMarket, snap.ProfitMargin).Map(Percent),
			waterfall.Fixed(model.SourceMarketDefault, mkt.ProfitMargin)),
		StockPriceChange: w.Field("stock_price_change",
			waterfall.From(model.SourceMarket, snap.StockPriceChange),
			waterfall.Fixed(model.SourceMarketDefault, mkt.StockPriceChange)),
		TotalEmployees: w.Field("total_employees",
			waterfall.From(model.SourceMarket, snap.EmployeeCount),
			waterfall.Fixed(model.SourceMarketDefault, mkt.TotalEmployees)),
		EconomicIndicators: model.EconomicIndicators{
			IndustryLayoffRate: w.Field("industry_layoff_rate", waterfall.Fixed(model.SourceEconomy, econ.IndustryLayoffRate)),
			UnemploymentRate:   w.Field("unemployment_rate", waterfall.Fixed(model.SourceEconomy, econ.UnemploymentRate)),
			InflationRate:      w.Field("inflation_rate", waterfall.Fixed(model.SourceEconomy, econ.InflationRate)),
		},
	}
	f.QualitativeFeatures = a.qualitative(w, est, tier)
	return f, w.Provenance()
}

// estimateBounds holds the valid range of each estimated metric. Estimates
// outside it are clamped before they reach the model.
var estimateBounds = map[string][2]float64{
	model.FieldLayoffFrequency:           {0, 10},
	model.FieldEmployeeAttrition:         {0, 100},
	model.FieldClientConcentration:       {0, 100},
	model.FieldGeographicDiversification: {0, 100},
	model.FieldRnDSpending:               {0, math.Inf(1)},
	model.FieldCurrencyRisk:              {0, 10},
	model.FieldGlobalITSpending:          {-100, math.Inf(1)},
	model.FieldDigitalExposure:           {0, 100},
	model.FieldStockVolatility:           {0, 100},
}

// Clamp limits an estimate for field to its valid range. Fields without a
// range pass through.
func Clamp(field string, v float64) float64 {
	b, ok := estimateBounds[field]
	if !ok {
		return v
	}
	return math.Min(math.Max(v, b[0]), b[1])
}

func (a *Assembler) qualitative(w *waterfall.Waterfall, est model.QualitativeEstimate, tier model.Tier) model.QualitativeFeatures {
	row := a.defaults.Qualitative(tier)
	var q model.QualitativeFeatures
	for _, field := range model.QualitativeFields {
		def, _ := row.Get(field)
		clamp := func(v float64) float64 { return Clamp(field, v) }
		q.Set(field, w.Field(field,
			waterfall.From(model.SourceEstimate, est.Get(field)).Map(clamp),
			waterfall.Fixed(model.SourceTierDefault, def)))
	}
	return q
}
