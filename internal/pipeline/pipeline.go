// Package pipeline runs the employee, investor and student assessment flows:
// resolve the subject, gather market figures and estimates concurrently,
// assemble the feature vector, score it, and generate guidance.
package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/internal/oracle"
)

// Suggest modes.
const (
	ModeGenerative = "generative"
	ModeTemplate   = "template"
)

// Resolver maps employee-entered company names through the directory.
type Resolver interface {
	Identify(name string) (model.CompanyIdentity, error)
}

// Finder maps investor-entered company names through search.
type Finder interface {
	Find(ctx context.Context, name string) (model.CompanyIdentity, error)
}

// MarketFetcher builds market snapshots. Failures are reported inside the
// snapshot, never as errors.
type MarketFetcher interface {
	FetchEmployee(ctx context.Context, symbol string) model.MarketSnapshot
	FetchInvestor(ctx context.Context, symbol string) model.MarketSnapshot
}

// Estimator produces qualitative metrics and always resolves.
type Estimator interface {
	Estimate(ctx context.Context, company, symbol string) model.Defaultable[model.QualitativeEstimate]
}

// Scorer produces student relevance scores.
type Scorer interface {
	Score(ctx context.Context, p model.StudentProfile) model.Validated[model.StudentScores]
}

// Assembler merges inputs into feature vectors.
type Assembler interface {
	AssembleInvestor(snap model.MarketSnapshot, est model.QualitativeEstimate, tier model.Tier) (model.InvestorFeatures, model.Provenance)
	AssembleEmployee(p model.EmployeeProfile, snap model.MarketSnapshot, est model.QualitativeEstimate, tier model.Tier) (model.EmployeeFeatures, model.Provenance)
}

// Suggester generates validated guidance.
type Suggester interface {
	GenerateEmployee(ctx context.Context, p model.EmployeeProfile, risk string) model.Validated[model.CareerSuggestions]
	GenerateInvestor(ctx context.Context, f model.InvestorFeatures, v model.RiskVerdict) model.Validated[model.InvestorSuggestions]
	GenerateStudent(ctx context.Context, p model.StudentProfile, s model.StudentScores, v model.RiskVerdict) model.Validated[model.CareerSuggestions]
}

// Templates builds offline employee guidance.
type Templates interface {
	Generate(p model.EmployeeProfile, riskLevel string, revenueGrowth float64) model.CareerSuggestions
}

// Deps are the pipeline's collaborators. All must be safe for concurrent
// use; none holds per-request state.
type Deps struct {
	Resolver    Resolver
	Finder      Finder
	Market      MarketFetcher
	Estimator   Estimator
	Scorer      Scorer
	Assembler   Assembler
	Oracle      oracle.Client
	Suggester   Suggester
	Templates   Templates
	SuggestMode string
}

// Pipeline runs the persona flows. It is safe for concurrent use.
type Pipeline struct {
	d Deps
}

// New creates a Pipeline.
func New(d Deps) *Pipeline {
	if d.SuggestMode == "" {
		d.SuggestMode = ModeGenerative
	}
	return &Pipeline{d: d}
}

// PhaseStatus is the outcome of one pipeline phase.
type PhaseStatus string

const (
	PhaseComplete PhaseStatus = "complete"
	PhaseDegraded PhaseStatus = "degraded"
	PhaseFailed   PhaseStatus = "failed"
)

// PhaseResult records how a phase went.
type PhaseResult struct {
	Name       string      `json:"name"`
	Status     PhaseStatus `json:"status"`
	DurationMs int64       `json:"duration_ms"`
	Error      string      `json:"error,omitempty"`
}

// phases collects phase results from concurrent goroutines.
type phases struct {
	log  *zap.Logger
	mu   sync.Mutex
	list []PhaseResult
}

// track runs fn and records its outcome. fn reports a degraded outcome by
// returning degraded=true with a nil error.
func (ph *phases) track(name string, fn func() (degraded bool, err error)) error {
	start := time.Now()
	degraded, err := fn()
	r := PhaseResult{Name: name, Status: PhaseComplete, DurationMs: time.Since(start).Milliseconds()}

	switch {
	case err != nil:
		r.Status = PhaseFailed
		r.Error = err.Error()
		ph.log.Error("pipeline: phase failed", zap.String("phase", name), zap.Int64("duration_ms", r.DurationMs), zap.Error(err))
	case degraded:
		r.Status = PhaseDegraded
		ph.log.Warn("pipeline: phase degraded", zap.String("phase", name), zap.Int64("duration_ms", r.DurationMs))
	default:
		ph.log.Info("pipeline: phase complete", zap.String("phase", name), zap.Int64("duration_ms", r.DurationMs))
	}

	ph.mu.Lock()
	ph.list = append(ph.list, r)
	ph.mu.Unlock()
	return err
}

func (ph *phases) results() []PhaseResult {
	ph.mu.Lock()
	defer ph.mu.Unlock()
	out := make([]PhaseResult, len(ph.list))
	copy(out, ph.list)
	return out
}
