// Package directory holds the static company tables: the name-to-symbol
// map, tier membership and the tier-conditioned fallback values. All of it
// is loaded once from a single YAML document and is read-only afterwards.
package directory

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/riskpilot/internal/model"
)

//go:embed directory.yaml
var embedded []byte

// Company is one row of the name-to-symbol table.
type Company struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// MarketDefaults are neutral values for market fields the provider left
// empty.
type MarketDefaults struct {
	RevenueGrowth    float64 `yaml:"revenue_growth"`
	ProfitMargin     float64 `yaml:"profit_margin"`
	DebtToEquity     float64 `yaml:"debt_to_equity"`
	PERatio          float64 `yaml:"pe_ratio"`
	Beta             float64 `yaml:"beta"`
	StockPriceChange float64 `yaml:"stock_price_change"`
	TotalEmployees   float64 `yaml:"total_employees"`
}

type economyEntry struct {
	Match      string                   `yaml:"match"`
	Indicators model.EconomicIndicators `yaml:"indicators"`
}

type document struct {
	Companies      []Company                                `yaml:"companies"`
	Tiers          map[model.Tier][]string                  `yaml:"tiers"`
	TierDefaults   map[model.Tier]model.QualitativeFeatures `yaml:"tier_defaults"`
	FCFDefaults    map[model.Tier]float64                   `yaml:"free_cash_flow_defaults"`
	MarketDefaults MarketDefaults                           `yaml:"market_defaults"`
	Economy        struct {
		Default   model.EconomicIndicators `yaml:"default"`
		Locations []economyEntry           `yaml:"locations"`
	} `yaml:"economy"`
}

// Directory answers symbol, tier and default lookups.
type Directory struct {
	companies []Company
	folded    []string
	tierOf    map[string]model.Tier
	defaults  map[model.Tier]model.QualitativeFeatures
	fcf       map[model.Tier]float64
	market    MarketDefaults
	economy   []economyEntry
	baseline  model.EconomicIndicators
}

// Load reads the directory at path, or the embedded table when path is
// empty.
func Load(path string) (*Directory, error) {
	data := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "directory: read %s", path)
		}
		data = b
	}
	return Parse(data)
}

// Parse builds a Directory from YAML.
func Parse(data []byte) (*Directory, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "directory: parse")
	}

	if len(doc.Companies) == 0 {
		return nil, eris.New("directory: no companies")
	}

	d := &Directory{
		companies: doc.Companies,
		folded:    make([]string, len(doc.Companies)),
		tierOf:    make(map[string]model.Tier),
		defaults:  make(map[model.Tier]model.QualitativeFeatures, len(model.Tiers)),
		fcf:       make(map[model.Tier]float64, len(model.Tiers)),
		market:    doc.MarketDefaults,
		economy:   doc.Economy.Locations,
		baseline:  doc.Economy.Default,
	}

	for i, c := range doc.Companies {
		if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Symbol) == "" {
			return nil, eris.Errorf("directory: company %d has an empty name or symbol", i)
		}
		d.folded[i] = fold(c.Name)
	}

	for tier, names := range doc.Tiers {
		if !tier.Valid() || tier == model.TierUnknown {
			return nil, eris.Errorf("directory: unknown tier %q", tier)
		}
		for _, n := range names {
			d.tierOf[fold(n)] = tier
		}
	}

	for _, tier := range []model.Tier{model.TierOne, model.TierTwo, model.TierThree} {
		row, ok := doc.TierDefaults[tier]
		if !ok {
			return nil, eris.Errorf("directory: missing tier_defaults for %s", tier)
		}
		d.defaults[tier] = row
	}
	if row, ok := doc.TierDefaults[model.TierUnknown]; ok {
		d.defaults[model.TierUnknown] = row
	} else {
		d.defaults[model.TierUnknown] = d.defaults[model.TierOne]
	}

	for _, tier := range model.Tiers {
		v, ok := doc.FCFDefaults[tier]
		if !ok {
			return nil, eris.Errorf("directory: missing free_cash_flow_defaults for %s", tier)
		}
		d.fcf[tier] = v
	}

	for i := range d.economy {
		d.economy[i].Match = fold(d.economy[i].Match)
	}

	return d, nil
}

// Companies returns the name-to-symbol table in order.
func (d *Directory) Companies() []Company {
	out := make([]Company, len(d.companies))
	copy(out, d.companies)
	return out
}

// fold normalizes a name for comparison. A Caser is not safe for
// concurrent use, so each call builds its own.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
