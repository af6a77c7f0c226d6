package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/oracle"
)

// Investor assesses investment risk for a company and generates investor
// guidance. An unresolvable company fails before any upstream call; oracle
// and suggestion failures fail the run.
func (p *Pipeline) Investor(ctx context.Context, company string) (*InvestorResult, error) {
	res := &InvestorResult{RunID: uuid.NewString()}
	log := zap.L().With(zap.String("run_id", res.RunID), zap.String("company", company))
	log.Info("pipeline: starting investor assessment")
	ph := &phases{log: log}

	err := ph.track("resolve", func() (bool, error) {
		id, err := p.d.Finder.Find(ctx, company)
		res.Company = id
		return id.Match.LowConfidence(), err
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: investor")
	}

	res.Market, res.Estimate = p.gather(ctx, ph, companyName(res.Company), res.Company.Symbol, p.d.Market.FetchInvestor)

	_ = ph.track("assemble", func() (bool, error) {
		res.Features, res.Provenance = p.d.Assembler.AssembleInvestor(res.Market, res.Estimate.Value, res.Company.Tier)
		return res.Provenance.Fallbacks() > 0, nil
	})

	err = ph.track("predict", func() (bool, error) {
		var err error
		res.Verdict, err = p.d.Oracle.Predict(ctx, oracle.Investor, res.Features)
		return false, err
	})
	if err != nil {
		res.Phases = ph.results()
		return nil, eris.Wrap(err, "pipeline: investor")
	}

	err = ph.track("suggest", func() (bool, error) {
		var err error
		res.Suggestions, err = p.d.Suggester.GenerateInvestor(ctx, res.Features, res.Verdict).Unwrap()
		return false, err
	})
	res.Phases = ph.results()
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: investor")
	}

	log.Info("pipeline: investor assessment complete",
		zap.String("symbol", res.Company.Symbol),
		zap.String("risk", string(res.Verdict.Label)),
		zap.Int("fallbacks", res.Provenance.Fallbacks()),
	)
	return res, nil
}
