package suggest

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/riskpilot/internal/model"
)

//go:embed templates.yaml
var defaultTemplates []byte

const (
	defaultKey  = "default"
	moderateKey = "moderate"
)

type templateSet struct {
	Skills        map[string][]model.SkillSuggestion   `yaml:"skills"`
	Actions       map[string][]model.ActionPlan        `yaml:"actions"`
	Opportunities map[string][]model.CareerOpportunity `yaml:"opportunities"`
}

// TemplateEngine builds employee suggestions from fixed templates without
// any network access. It is safe for concurrent use.
type TemplateEngine struct {
	t templateSet
}

// NewTemplateEngine loads the embedded templates.
func NewTemplateEngine() (*TemplateEngine, error) {
	var t templateSet
	if err := yaml.Unmarshal(defaultTemplates, &t); err != nil {
		return nil, eris.Wrap(err, "suggest: parse templates")
	}
	if len(t.Skills[defaultKey]) == 0 || len(t.Actions[moderateKey]) == 0 || len(t.Opportunities[defaultKey]) == 0 {
		return nil, eris.New("suggest: templates missing default entries")
	}
	return &TemplateEngine{t: t}, nil
}

// Generate picks skills and opportunities by job title and actions by risk
// level, then adjusts them: performance above 4 earns leadership and
// fast-track wording, under two years of tenure starts with the basics,
// over five years accelerates opportunities, and revenue growth above 10%
// flags high growth potential.
func (e *TemplateEngine) Generate(p model.EmployeeProfile, riskLevel string, revenueGrowth float64) model.CareerSuggestions {
	title := strings.ToLower(strings.TrimSpace(p.JobTitle))
	risk := strings.ToLower(strings.TrimSpace(riskLevel))

	skills := pick(e.t.Skills, title, defaultKey)
	out := model.CareerSuggestions{
		Skills:        make([]model.SkillSuggestion, 0, len(skills)),
		Actions:       []model.ActionPlan{},
		Opportunities: []model.CareerOpportunity{},
	}
	for _, s := range skills {
		if p.PerformanceRating > 4 {
			s.Impact += " with leadership opportunities"
		}
		if p.YearsAtCompany < 2 {
			s.How = "Start with basics: " + s.How
		}
		out.Skills = append(out.Skills, s)
	}

	for _, a := range pick(e.t.Actions, risk, moderateKey) {
		a.Steps = append([]string(nil), a.Steps...)
		if p.PerformanceRating > 4 {
			a.Timeline = "Fast-track: " + a.Timeline
		}
		out.Actions = append(out.Actions, a)
	}

	for _, o := range pick(e.t.Opportunities, title, defaultKey) {
		if p.YearsAtCompany > 5 {
			o.Timeline = "Accelerated: " + o.Timeline
		}
		if revenueGrowth > 10 {
			o.Impact = "High growth potential: " + o.Impact
		}
		out.Opportunities = append(out.Opportunities, o)
	}
	return out
}

func pick[T any](m map[string][]T, key, fallback string) []T {
	if v, ok := m[key]; ok {
		return v
	}
	return m[fallback]
}
