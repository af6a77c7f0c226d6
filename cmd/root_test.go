package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/riskpilot/internal/config"
	"github.com/sells-group/riskpilot/internal/model"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "assess", "resolve", "suggest"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "riskpilot", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestAssessCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range assessCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["employee"])
	assert.True(t, names["investor"])
	assert.True(t, names["student"])

	flag := assessCmd.PersistentFlags().Lookup("input")
	require.NotNil(t, flag)
	assert.Equal(t, "-", flag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestSuggestCommand_Flags(t *testing.T) {
	for _, name := range []string{"job-title", "risk", "performance", "years", "revenue-growth"} {
		assert.NotNil(t, suggestCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "moderate", suggestCmd.Flags().Lookup("risk").DefValue)
}

func TestSuggestCommand_Output(t *testing.T) {
	var out bytes.Buffer
	suggestCmd.SetOut(&out)
	t.Cleanup(func() { suggestCmd.SetOut(nil) })
	suggestFlags.jobTitle = "Software Engineer"
	suggestFlags.risk = "high"
	suggestFlags.performance = 4.5
	suggestFlags.years = 1
	suggestFlags.revenueGrowth = 12

	require.NoError(t, suggestCmd.RunE(suggestCmd, nil))

	var got model.CareerSuggestions
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.NotEmpty(t, got.Skills)
	require.NotEmpty(t, got.Actions)
	require.NotEmpty(t, got.Opportunities)
	assert.True(t, strings.HasPrefix(got.Actions[0].Timeline, "Fast-track: "))
	assert.True(t, strings.HasPrefix(got.Skills[0].How, "Start with basics: "))
	assert.True(t, strings.HasPrefix(got.Opportunities[0].Impact, "High growth potential: "))
}

func TestResolveCommand_Directory(t *testing.T) {
	cfg = &config.Config{Suggest: config.SuggestConfig{MaxAttempts: 2}}
	t.Cleanup(func() { cfg = nil })

	var out bytes.Buffer
	resolveCmd.SetOut(&out)
	t.Cleanup(func() { resolveCmd.SetOut(nil) })

	require.NoError(t, resolveCmd.RunE(resolveCmd, []string{"tata", "consultancy", "services"}))

	var id model.CompanyIdentity
	require.NoError(t, json.Unmarshal(out.Bytes(), &id))
	assert.Equal(t, "TCS", id.Symbol)
	assert.Equal(t, model.TierOne, id.Tier)
	assert.Equal(t, model.MatchExact, id.Match)
}

func TestResolveCommand_NotFound(t *testing.T) {
	cfg = &config.Config{Suggest: config.SuggestConfig{MaxAttempts: 2}}
	t.Cleanup(func() { cfg = nil })

	err := resolveCmd.RunE(resolveCmd, []string{"Zzyxx", "Corp"})
	assert.ErrorIs(t, err, model.ErrCompanyNotFound)
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employee.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"company_name":"Infosys","job_title":"Analyst","years_at_company":2}`), 0o600))

	var p model.EmployeeProfile
	require.NoError(t, readInput(path, nil, &p))
	assert.Equal(t, "Infosys", p.CompanyName)
	assert.Equal(t, 2.0, p.YearsAtCompany)
}

func TestReadInput_Stdin(t *testing.T) {
	var in investorInput
	require.NoError(t, readInput("-", strings.NewReader(`{"company":"Wipro"}`), &in))
	assert.Equal(t, "Wipro", in.Company)
}

func TestReadInput_Errors(t *testing.T) {
	var in investorInput
	assert.Error(t, readInput(filepath.Join(t.TempDir(), "missing.json"), nil, &in))
	assert.Error(t, readInput("-", strings.NewReader(`{"company":`), &in))
	assert.Error(t, readInput("-", strings.NewReader(`{}`), &in))
}

func TestRatesFromConfig(t *testing.T) {
	rates := ratesFromConfig(config.PricingConfig{
		Gemini:     map[string]config.ModelPricing{"gemini-2.0-flash": {Input: 1, Output: 2}},
		Perplexity: config.PerplexityPricing{PerQuery: 0.01},
	})
	assert.Equal(t, 1.0, rates.Gemini["gemini-2.0-flash"].Input)
	assert.Equal(t, 2.0, rates.Gemini["gemini-2.0-flash"].Output)
	assert.Empty(t, rates.Anthropic)
	assert.Equal(t, 0.01, rates.Perplexity.PerQuery)
}

func TestInitPipeline_InvalidConfig(t *testing.T) {
	cfg = &config.Config{Suggest: config.SuggestConfig{Mode: "generative", MaxAttempts: 2}, LLM: config.LLMConfig{EstimateProvider: "gemini", SuggestProvider: "gemini"}}
	t.Cleanup(func() { cfg = nil })

	_, err := initPipeline(t.Context(), "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini.key is required")
}
