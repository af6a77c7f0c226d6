package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/internal/oracle"
)

// Student scores a student profile, asks the oracle for a verdict and
// generates guidance. Scores have no fallback: invalid scores fail the run
// before the oracle is called.
func (p *Pipeline) Student(ctx context.Context, profile model.StudentProfile) (*StudentResult, error) {
	res := &StudentResult{RunID: uuid.NewString()}
	log := zap.L().With(zap.String("run_id", res.RunID), zap.String("role", profile.PreferredJobTitle))
	log.Info("pipeline: starting student assessment")
	ph := &phases{log: log}

	steps := []struct {
		name string
		fn   func() (bool, error)
	}{
		{"score", func() (bool, error) {
			var err error
			res.Scores, err = p.d.Scorer.Score(ctx, profile).Unwrap()
			return false, err
		}},
		{"predict", func() (bool, error) {
			var err error
			features := model.StudentFeatures{StudentProfile: profile, StudentScores: res.Scores}
			res.Verdict, err = p.d.Oracle.Predict(ctx, oracle.Student, features)
			return false, err
		}},
		{"suggest", func() (bool, error) {
			var err error
			res.Suggestions, err = p.d.Suggester.GenerateStudent(ctx, profile, res.Scores, res.Verdict).Unwrap()
			return false, err
		}},
	}
	for _, s := range steps {
		if err := ph.track(s.name, s.fn); err != nil {
			res.Phases = ph.results()
			return nil, eris.Wrap(err, "pipeline: student")
		}
	}
	res.Phases = ph.results()

	log.Info("pipeline: student assessment complete", zap.String("risk", string(res.Verdict.Label)))
	return res, nil
}
