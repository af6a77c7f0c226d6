package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/riskpilot/internal/model"
)

func loadEmbedded(t *testing.T) *Directory {
	t.Helper()
	d, err := Load("")
	require.NoError(t, err)
	return d
}

func TestResolve(t *testing.T) {
	d := loadEmbedded(t)

	tests := []struct {
		name       string
		input      string
		wantSymbol string
		wantMatch  model.MatchKind
	}{
		{"exact", "Infosys", "INFY", model.MatchExact},
		{"exact case-insensitive", "tata consultancy services", "TCS", model.MatchExact},
		{"exact padded", "  WIPRO  ", "WIPRO", model.MatchExact},
		{"input contains key", "Infosys Ltd", "INFY", model.MatchSubstring},
		{"key contains input", "HCL", "HCLTECH", model.MatchSubstring},
		{"first table entry wins", "consultancy", "TCS", model.MatchSubstring},
		{"ampersand", "l&t infotech", "LTI", model.MatchExact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSymbol, res.Symbol)
			assert.Equal(t, tt.wantMatch, res.Match)
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	d := loadEmbedded(t)

	for _, input := range []string{"Zzyxx Corp", "", "   "} {
		res, err := d.Resolve(input)
		require.Error(t, err, input)
		assert.ErrorIs(t, err, model.ErrCompanyNotFound)
		assert.Equal(t, model.MatchNone, res.Match)
		assert.Empty(t, res.Symbol)
	}
}

func TestClassify(t *testing.T) {
	d := loadEmbedded(t)

	assert.Equal(t, model.TierOne, d.Classify("TCS"))
	assert.Equal(t, model.TierOne, d.Classify("infosys"))
	assert.Equal(t, model.TierTwo, d.Classify("Tech Mahindra"))
	assert.Equal(t, model.TierTwo, d.Classify("Oracle Financial Services"))
	assert.Equal(t, model.TierThree, d.Classify("Cyient"))
	// membership is exact, not containment
	assert.Equal(t, model.TierUnknown, d.Classify("Infosys Ltd"))
	assert.Equal(t, model.TierUnknown, d.Classify("Zzyxx Corp"))
}

func TestIdentify(t *testing.T) {
	d := loadEmbedded(t)

	id, err := d.Identify("tata consultancy")
	require.NoError(t, err)
	assert.Equal(t, "TCS", id.Symbol)
	assert.Equal(t, model.MatchSubstring, id.Match)
	assert.Equal(t, "Tata Consultancy Services", id.MatchedName)
	assert.Equal(t, model.TierOne, id.Tier)

	id, err = d.Identify("Zzyxx Corp")
	assert.ErrorIs(t, err, model.ErrCompanyNotFound)
	assert.Equal(t, model.TierUnknown, id.Tier)
	assert.Equal(t, "Zzyxx Corp", id.RawName)
}

func TestQualitativeDefaults(t *testing.T) {
	d := loadEmbedded(t)

	assert.Equal(t, 2.0, d.Qualitative(model.TierOne).LayoffFrequency)
	assert.Equal(t, 4.0, d.Qualitative(model.TierTwo).LayoffFrequency)
	assert.Equal(t, 6.0, d.Qualitative(model.TierThree).LayoffFrequency)

	// Unknown shares the Tier 1 row.
	assert.Equal(t, d.Qualitative(model.TierOne), d.Qualitative(model.TierUnknown))
	assert.Equal(t, d.Qualitative(model.TierUnknown), d.Qualitative(model.Tier("bogus")))

	for _, tier := range model.Tiers {
		row := d.Qualitative(tier)
		for _, f := range model.QualitativeFields {
			v, ok := row.Get(f)
			require.True(t, ok)
			assert.Greater(t, v, 0.0, "%s/%s", tier, f)
		}
	}
}

func TestFreeCashFlowDefaults(t *testing.T) {
	d := loadEmbedded(t)

	assert.Equal(t, 3e9, d.FreeCashFlow(model.TierOne))
	assert.Equal(t, 1e9, d.FreeCashFlow(model.TierTwo))
	assert.Equal(t, 3e8, d.FreeCashFlow(model.TierThree))
	assert.Equal(t, 5e8, d.FreeCashFlow(model.TierUnknown))
	assert.Equal(t, 5e8, d.FreeCashFlow(model.Tier("bogus")))
}

func TestMarketDefaults(t *testing.T) {
	m := loadEmbedded(t).Market()
	assert.Equal(t, 1.0, m.Beta)
	assert.Equal(t, 0.0, m.RevenueGrowth)
	assert.Equal(t, 25000.0, m.TotalEmployees)
}

func TestEconomy(t *testing.T) {
	d := loadEmbedded(t)

	india := d.Economy("Bengaluru, India")
	assert.Equal(t, 7.8, india.UnemploymentRate)

	us := d.Economy("Austin, United States")
	assert.Equal(t, 4.1, us.UnemploymentRate)

	def := d.Economy("")
	assert.Equal(t, 6.0, def.UnemploymentRate)
	assert.Equal(t, def, d.Economy("Atlantis"))
}

func TestCompaniesReturnsCopy(t *testing.T) {
	d := loadEmbedded(t)
	cs := d.Companies()
	require.NotEmpty(t, cs)
	cs[0].Symbol = "MUTATED"
	assert.Equal(t, "TCS", d.Companies()[0].Symbol)
}

func TestLoadFromFile(t *testing.T) {
	doc := `
companies:
  - name: Acme Software
    symbol: ACME
tiers:
  Tier 2: [Acme Software]
tier_defaults:
  Tier 1: {layoff_frequency: 1}
  Tier 2: {layoff_frequency: 3}
  Tier 3: {layoff_frequency: 5}
  Unknown: {layoff_frequency: 9}
free_cash_flow_defaults:
  Tier 1: 10
  Tier 2: 20
  Tier 3: 30
  Unknown: 40
`
	path := filepath.Join(t.TempDir(), "dir.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	d, err := Load(path)
	require.NoError(t, err)

	res, err := d.Resolve("acme")
	require.NoError(t, err)
	assert.Equal(t, "ACME", res.Symbol)
	assert.Equal(t, model.TierTwo, d.Classify("ACME SOFTWARE"))
	assert.Equal(t, 9.0, d.Qualitative(model.TierUnknown).LayoffFrequency)
	assert.Equal(t, 40.0, d.FreeCashFlow(model.TierUnknown))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"bad yaml", "companies: [", "directory: parse"},
		{"no companies", "tiers: {}", "no companies"},
		{"empty symbol", "companies: [{name: A, symbol: ''}]", "empty name or symbol"},
		{
			"unknown tier",
			"companies: [{name: A, symbol: A}]\ntiers: {Tier 9: [A]}",
			"unknown tier",
		},
		{
			"missing defaults",
			"companies: [{name: A, symbol: A}]\ntier_defaults: {Tier 1: {}}",
			"missing tier_defaults",
		},
		{
			"missing fcf",
			"companies: [{name: A, symbol: A}]\ntier_defaults: {Tier 1: {}, Tier 2: {}, Tier 3: {}}\nfree_cash_flow_defaults: {Tier 1: 1}",
			"missing free_cash_flow_defaults",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory: read")
}
