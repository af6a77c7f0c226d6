// Package waterfall resolves each feature field from an ordered list of
// candidate sources and keeps the audit trail of what was tried.
package waterfall

import (
	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/model"
)

// Candidate is one source's offer for a field. A nil Value means the source
// had nothing for it.
type Candidate struct {
	Source string
	Value  *float64
}

// From offers v from source.
func From(source string, v *float64) Candidate {
	return Candidate{Source: source, Value: v}
}

// Fixed offers a value that is always present, typically the last resort
// of a chain.
func Fixed(source string, v float64) Candidate {
	return Candidate{Source: source, Value: &v}
}

// Map transforms the offered value when present.
func (c Candidate) Map(fn func(float64) float64) Candidate {
	if c.Value == nil {
		return c
	}
	v := fn(*c.Value)
	return Candidate{Source: c.Source, Value: &v}
}

// Waterfall accumulates field resolutions for one feature vector. It is not
// safe for concurrent use.
type Waterfall struct {
	prov model.Provenance
}

// New creates an empty Waterfall.
func New() *Waterfall {
	return &Waterfall{}
}

// Field returns the first present candidate value for key and records the
// resolution. When no candidate is present the field resolves to zero from
// model.SourceConstant, so a field is never left unset.
func (w *Waterfall) Field(key string, candidates ...Candidate) float64 {
	fp := model.FieldProvenance{FieldKey: key}
	for _, c := range candidates {
		fp.Attempts = append(fp.Attempts, model.ProvenanceAttempt{Source: c.Source, Value: c.Value})
		if c.Value == nil {
			continue
		}
		fp.WinnerSource = c.Source
		fp.WinnerValue = *c.Value
		w.prov = append(w.prov, fp)
		return fp.WinnerValue
	}

	zap.L().Warn("waterfall: no candidate for field, using zero", zap.String("field", key))
	fp.WinnerSource = model.SourceConstant
	w.prov = append(w.prov, fp)
	return 0
}

// Provenance returns the resolutions recorded so far, in call order.
func (w *Waterfall) Provenance() model.Provenance {
	out := make(model.Provenance, len(w.prov))
	copy(out, w.prov)
	return out
}
