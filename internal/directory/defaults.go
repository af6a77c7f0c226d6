package directory

import (
	"strings"

	"github.com/sells-group/riskpilot/internal/model"
)

// Qualitative returns the fallback row for tier. Tiers outside the table
// get the Unknown row.
func (d *Directory) Qualitative(tier model.Tier) model.QualitativeFeatures {
	if row, ok := d.defaults[tier]; ok {
		return row
	}
	return d.defaults[model.TierUnknown]
}

// FreeCashFlow returns the fallback free cash flow for tier.
func (d *Directory) FreeCashFlow(tier model.Tier) float64 {
	if v, ok := d.fcf[tier]; ok {
		return v
	}
	return d.fcf[model.TierUnknown]
}

// Market returns the neutral market fallbacks.
func (d *Directory) Market() MarketDefaults {
	return d.market
}

// Economy returns the indicators for the first location entry contained in
// location, or the default row.
func (d *Directory) Economy(location string) model.EconomicIndicators {
	loc := fold(location)
	if loc != "" {
		for _, e := range d.economy {
			if e.Match != "" && strings.Contains(loc, e.Match) {
				return e.Indicators
			}
		}
	}
	return d.baseline
}
