package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/coerce"
	"github.com/sells-group/riskpilot/internal/llm"
	"github.com/sells-group/riskpilot/internal/model"
)

const studentSystem = "You are an analyst assessing how well a student's profile fits current tech hiring trends. Answer with a single JSON object and nothing else."

var studentGuide = map[string]string{
	model.ScoreDegreeRelevance:          "0-100, how aligned the degree is with software roles",
	model.ScoreSkillRelevance:           "0-100, match between skills and current hiring demand",
	model.ScoreCertificationRelevance:   "0-100, weight of certifications such as AWS or GCP",
	model.ScoreProjectStackRelevance:    "0-100, use of modern industry-relevant stacks in projects",
	model.ScoreInternshipStackRelevance: "0-100, practical work in relevant tech environments",
	model.ScoreStackVersatility:         "0-100, breadth across frontend, backend, DevOps and ML",
	model.ScoreStackAlignment:           "0-100, overlap between projects, internships and the preferred role",
	model.ScoreJobDemand:                "0.0-1.0, probability of openings for the preferred role",
	model.ScoreRoleLayoffRate:           "0.0-1.0, layoff probability for the role in the current market",
}

var studentSchema = func() *llm.Schema {
	props := make(map[string]*llm.Schema, len(model.StudentScoreFields))
	for _, f := range model.StudentScoreFields {
		props[f] = llm.Number(studentGuide[f])
	}
	return llm.Object(props, model.StudentScoreFields...)
}()

// StudentScorer asks a generator for a student's relevance scores.
type StudentScorer struct {
	gen llm.Generator
}

// NewStudentScorer creates a StudentScorer over gen.
func NewStudentScorer(gen llm.Generator) *StudentScorer {
	return &StudentScorer{gen: gen}
}

// Score returns all nine scores, range checked, or a failure. There is no
// fallback: a missing or out-of-range score fails the whole result with
// model.ErrInvalidScoreFormat.
func (s *StudentScorer) Score(ctx context.Context, p model.StudentProfile) model.Validated[model.StudentScores] {
	temp := 0.2
	resp, err := s.gen.Generate(ctx, llm.Request{
		Phase:       "student_scores",
		System:      studentSystem,
		Prompt:      studentPrompt(p),
		Schema:      studentSchema,
		Temperature: &temp,
	})
	if err != nil {
		zap.L().Warn("estimate: student scoring failed", zap.Error(err))
		return model.Invalid[model.StudentScores](eris.Wrap(model.ErrUpstreamUnavailable, err.Error()))
	}

	scores, err := ParseStudentScores(resp.Text)
	if err != nil {
		zap.L().Warn("estimate: rejected student scores", zap.Error(err))
		return model.Invalid[model.StudentScores](err)
	}
	return model.Valid(scores)
}

// ParseStudentScores reads and validates the nine scores from generated
// text.
func ParseStudentScores(text string) (model.StudentScores, error) {
	var scores model.StudentScores

	var raw map[string]any
	if err := json.Unmarshal([]byte(llm.ExtractJSON(text)), &raw); err != nil {
		return scores, eris.Wrapf(model.ErrInvalidScoreFormat, "estimate: parse scores: %v", err)
	}

	fields := scoreFields(&scores)
	var missing []string
	for _, f := range model.StudentScoreFields {
		v := coerce.Number(raw[f])
		if v == nil {
			missing = append(missing, f)
			continue
		}
		*fields[f] = *v
	}
	if len(missing) > 0 {
		return model.StudentScores{}, eris.Wrapf(model.ErrInvalidScoreFormat, "estimate: missing %s", strings.Join(missing, ", "))
	}
	if err := scores.Validate(); err != nil {
		return model.StudentScores{}, eris.Wrapf(model.ErrInvalidScoreFormat, "estimate: %v", err)
	}
	return scores, nil
}

func scoreFields(s *model.StudentScores) map[string]*float64 {
	return map[string]*float64{
		model.ScoreDegreeRelevance:          &s.DegreeRelevanceScore,
		model.ScoreSkillRelevance:           &s.SkillRelevanceScore,
		model.ScoreCertificationRelevance:   &s.CertificationRelevanceScore,
		model.ScoreProjectStackRelevance:    &s.ProjectStackRelevanceScore,
		model.ScoreInternshipStackRelevance: &s.InternshipStackRelevanceScore,
		model.ScoreStackVersatility:         &s.StackVersatilityScore,
		model.ScoreStackAlignment:           &s.StackAlignmentScore,
		model.ScoreJobDemand:                &s.JobDemandForRole,
		model.ScoreRoleLayoffRate:           &s.RoleSpecificLayoffRate,
	}
}

func studentPrompt(p model.StudentProfile) string {
	var b strings.Builder
	b.WriteString("Score the following student profile.\n\nInput data:\n")
	fmt.Fprintf(&b, "- CGPA: %g\n", p.CGPA)
	fmt.Fprintf(&b, "- Degree: %s\n", p.Degree)
	fmt.Fprintf(&b, "- College tier: %s\n", p.CollegeTier)
	fmt.Fprintf(&b, "- Years of coding experience: %g\n", p.YearsOfCodingExperience)
	fmt.Fprintf(&b, "- Hackathon participation count: %g\n", p.HackathonParticipation)
	fmt.Fprintf(&b, "- Primary tech stack: %s\n", p.PrimaryTechStack)
	fmt.Fprintf(&b, "- Skills: %s\n", p.Skills)
	fmt.Fprintf(&b, "- Certifications: %s\n", p.Certifications)
	fmt.Fprintf(&b, "- Project tech stacks: %s\n", p.ProjectTechStacks)
	fmt.Fprintf(&b, "- Internship tech stacks: %s\n", p.InternshipTechStacks)
	fmt.Fprintf(&b, "- Preferred job title: %s\n", p.PreferredJobTitle)
	b.WriteString("\nReturn a JSON object with exactly these numeric fields:\n")
	for _, f := range model.StudentScoreFields {
		fmt.Fprintf(&b, "- %s: %s\n", f, studentGuide[f])
	}
	return b.String()
}
