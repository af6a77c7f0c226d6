package pipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/internal/oracle"
)

// Employee assesses layoff risk for an employee. An unresolvable company
// fails before any upstream call. Market and estimate failures degrade to
// defaults; an oracle failure fails the run.
func (p *Pipeline) Employee(ctx context.Context, profile model.EmployeeProfile) (*EmployeeResult, error) {
	res := &EmployeeResult{RunID: uuid.NewString()}
	log := zap.L().With(zap.String("run_id", res.RunID), zap.String("company", profile.CompanyName))
	log.Info("pipeline: starting employee assessment")
	ph := &phases{log: log}

	err := ph.track("resolve", func() (bool, error) {
		id, err := p.d.Resolver.Identify(profile.CompanyName)
		res.Company = id
		return id.Match.LowConfidence(), err
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: employee")
	}

	res.Market, res.Estimate = p.gather(ctx, ph, companyName(res.Company), res.Company.Symbol, p.d.Market.FetchEmployee)

	_ = ph.track("assemble", func() (bool, error) {
		res.Features, res.Provenance = p.d.Assembler.AssembleEmployee(profile, res.Market, res.Estimate.Value, res.Company.Tier)
		return res.Provenance.Fallbacks() > 0, nil
	})

	err = ph.track("predict", func() (bool, error) {
		var err error
		res.Verdict, err = p.d.Oracle.Predict(ctx, oracle.Employee, res.Features)
		return false, err
	})
	res.Phases = ph.results()
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: employee")
	}

	log.Info("pipeline: employee assessment complete",
		zap.String("risk", string(res.Verdict.Label)),
		zap.Float64("probability", res.Verdict.Probability),
		zap.Int("fallbacks", res.Provenance.Fallbacks()),
	)
	return res, nil
}

// EmployeeSuggestions returns guidance for an employee at the given risk,
// generated or from templates depending on the configured mode.
func (p *Pipeline) EmployeeSuggestions(ctx context.Context, profile model.EmployeeProfile, risk string) (model.CareerSuggestions, error) {
	if p.d.SuggestMode == ModeTemplate {
		return p.d.Templates.Generate(profile, risk, 0), nil
	}
	s, err := p.d.Suggester.GenerateEmployee(ctx, profile, risk).Unwrap()
	if err != nil {
		return model.CareerSuggestions{}, eris.Wrap(err, "pipeline: employee suggestions")
	}
	return s, nil
}

// TemplateSuggestions returns offline guidance without any upstream call.
func (p *Pipeline) TemplateSuggestions(profile model.EmployeeProfile, risk string, revenueGrowth float64) model.CareerSuggestions {
	return p.d.Templates.Generate(profile, risk, revenueGrowth)
}

// gather fetches the market snapshot and the qualitative estimate
// concurrently. Neither can fail the other: each records its own outcome.
func (p *Pipeline) gather(
	ctx context.Context,
	ph *phases,
	company, symbol string,
	fetch func(context.Context, string) model.MarketSnapshot,
) (model.MarketSnapshot, model.Defaultable[model.QualitativeEstimate]) {
	var (
		snap model.MarketSnapshot
		est  model.Defaultable[model.QualitativeEstimate]
		g    errgroup.Group
	)
	g.Go(func() error {
		_ = ph.track("market", func() (bool, error) {
			snap = fetch(ctx, symbol)
			return snap.Failed(), nil
		})
		return nil
	})
	g.Go(func() error {
		_ = ph.track("estimate", func() (bool, error) {
			est = p.d.Estimator.Estimate(ctx, company, symbol)
			return est.Degraded, nil
		})
		return nil
	})
	_ = g.Wait()
	return snap, est
}

func companyName(id model.CompanyIdentity) string {
	if id.MatchedName != "" {
		return id.MatchedName
	}
	return strings.TrimSpace(id.RawName)
}
