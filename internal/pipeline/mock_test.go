package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/internal/oracle"
)

type mockFinder struct{ mock.Mock }

func (m *mockFinder) Find(ctx context.Context, name string) (model.CompanyIdentity, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.CompanyIdentity), args.Error(1)
}

type mockMarket struct{ mock.Mock }

func (m *mockMarket) FetchEmployee(ctx context.Context, symbol string) model.MarketSnapshot {
	return m.Called(ctx, symbol).Get(0).(model.MarketSnapshot)
}

func (m *mockMarket) FetchInvestor(ctx context.Context, symbol string) model.MarketSnapshot {
	return m.Called(ctx, symbol).Get(0).(model.MarketSnapshot)
}

type mockEstimator struct{ mock.Mock }

func (m *mockEstimator) Estimate(ctx context.Context, company, symbol string) model.Defaultable[model.QualitativeEstimate] {
	return m.Called(ctx, company, symbol).Get(0).(model.Defaultable[model.QualitativeEstimate])
}

type mockScorer struct{ mock.Mock }

func (m *mockScorer) Score(ctx context.Context, p model.StudentProfile) model.Validated[model.StudentScores] {
	return m.Called(ctx, p).Get(0).(model.Validated[model.StudentScores])
}

type mockOracle struct{ mock.Mock }

func (m *mockOracle) Predict(ctx context.Context, persona oracle.Persona, features any) (model.RiskVerdict, error) {
	args := m.Called(ctx, persona, features)
	return args.Get(0).(model.RiskVerdict), args.Error(1)
}

type mockSuggester struct{ mock.Mock }

func (m *mockSuggester) GenerateEmployee(ctx context.Context, p model.EmployeeProfile, risk string) model.Validated[model.CareerSuggestions] {
	return m.Called(ctx, p, risk).Get(0).(model.Validated[model.CareerSuggestions])
}

func (m *mockSuggester) GenerateInvestor(ctx context.Context, f model.InvestorFeatures, v model.RiskVerdict) model.Validated[model.InvestorSuggestions] {
	return m.Called(ctx, f, v).Get(0).(model.Validated[model.InvestorSuggestions])
}

func (m *mockSuggester) GenerateStudent(ctx context.Context, p model.StudentProfile, s model.StudentScores, v model.RiskVerdict) model.Validated[model.CareerSuggestions] {
	return m.Called(ctx, p, s, v).Get(0).(model.Validated[model.CareerSuggestions])
}

type mockTemplates struct{ mock.Mock }

func (m *mockTemplates) Generate(p model.EmployeeProfile, riskLevel string, revenueGrowth float64) model.CareerSuggestions {
	return m.Called(p, riskLevel, revenueGrowth).Get(0).(model.CareerSuggestions)
}
