// Package estimate turns generated text into numeric estimates: the nine
// qualitative company metrics and the student relevance scores.
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

const qualitativeSystem = "You are an equity research analyst. Answer with a single JSON object and nothing else."

// qualitativeGuide describes each metric in prompt order.
var qualitativeGuide = map[string]string{
	model.FieldLayoffFrequency:           "scale 0-10",
	model.FieldEmployeeAttrition:         "percentage",
	model.FieldClientConcentration:       "0-100 scale",
	model.FieldGeographicDiversification: "0-100 scale",
	model.FieldRnDSpending:               "approximate annual spend in USD",
	model.FieldCurrencyRisk:              "scale 0-10",
	model.FieldGlobalITSpending:          "growth percentage",
	model.FieldDigitalExposure:           "scale 0-100",
	model.FieldStockVolatility:           "percentage or scale 0-100",
}

var qualitativeSchema = func() *llm.Schema {
	props := make(map[string]*llm.Schema, len(model.QualitativeFields))
	for _, f := range model.QualitativeFields {
		props[f] = llm.NullableNumber(qualitativeGuide[f])
	}
	return llm.Object(props, model.QualitativeFields...)
}()

// Estimator asks a generator for the qualitative metrics of a company.
type Estimator struct {
	gen         llm.Generator
	temperature float64
}

// NewEstimator creates an Estimator over gen.
func NewEstimator(gen llm.Generator) *Estimator {
	return &Estimator{gen: gen, temperature: 0.2}
}

// Estimate returns the nine metrics for company. It never fails: generator
// errors and unparseable output yield an all-nil estimate marked degraded,
// and individual values that cannot be read as numbers are left nil.
func (e *Estimator) Estimate(ctx context.Context, company, symbol string) model.Defaultable[model.QualitativeEstimate] {
	temp := e.temperature
	resp, err := e.gen.Generate(ctx, llm.Request{
		Phase:       "estimate",
		System:      qualitativeSystem,
		Prompt:      qualitativePrompt(company, symbol, !e.gen.SupportsSchema()),
		Schema:      qualitativeSchema,
		Temperature: &temp,
	})
	if err != nil {
		return degrade(company, eris.Wrap(err, "estimate: generate qualitative metrics"))
	}

	est, err := ParseQualitative(resp.Text)
	if err != nil {
		return degrade(company, err)
	}
	if est.Present() == 0 {
		return degrade(company, eris.New("estimate: no usable metrics in response"))
	}

	zap.L().Debug("estimate: qualitative metrics",
		zap.String("company", company),
		zap.Int("present", est.Present()),
	)
	return model.Resolved(est)
}

func degrade(company string, err error) model.Defaultable[model.QualitativeEstimate] {
	zap.L().Warn("estimate: qualitative estimate unavailable, using tier defaults",
		zap.String("company", company),
		zap.Error(err),
	)
	return model.Degrade(model.QualitativeEstimate{}, err)
}

// ParseQualitative reads the metrics out of generated text. Code fences and
// surrounding prose are ignored; values are coerced to numbers.
func ParseQualitative(text string) (model.QualitativeEstimate, error) {
	var est model.QualitativeEstimate

	var raw map[string]any
	if err := json.Unmarshal([]byte(llm.ExtractJSON(text)), &raw); err != nil {
		return est, eris.Wrap(err, "estimate: parse qualitative JSON")
	}
	for _, f := range model.QualitativeFields {
		est.Set(f, coerce.Number(raw[f]))
	}
	return est, nil
}

// qualitativePrompt asks for a fenced JSON block only when the generator
// does not enforce the schema itself.
func qualitativePrompt(company, symbol string, fenced bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on publicly available data, reports, news and typical industry trends, estimate the following attributes for the company %q (symbol: %s).\n\n", company, symbol)
	b.WriteString("Return a JSON object with these numeric fields:\n")
	for _, f := range model.QualitativeFields {
		fmt.Fprintf(&b, "- %s (%s)\n", f, qualitativeGuide[f])
	}
	b.WriteString("\nUse null for anything you cannot estimate.")
	if fenced {
		b.WriteString(" Wrap the JSON in a ```json code block.")
	}
	return b.String()
}
