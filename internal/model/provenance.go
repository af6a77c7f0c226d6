package model

// Provenance sources for assembled fields.
const (
	SourceMarket        = "market"
	SourceEstimate      = "estimate"
	SourceTierDefault   = "tier_default"
	SourceMarketDefault = "market_default"
	SourceEconomy       = "economy"
	SourceConstant      = "constant"
	SourceRequest       = "request"
)

// ProvenanceAttempt records one candidate considered for a field.
type ProvenanceAttempt struct {
	Source string   `json:"source"`
	Value  *float64 `json:"value"`
}

// FieldProvenance is the audit trail for one assembled field: which source
// won and which candidates were tried before it.
type FieldProvenance struct {
	FieldKey     string              `json:"field_key"`
	WinnerSource string              `json:"winner_source"`
	WinnerValue  float64             `json:"winner_value"`
	Attempts     []ProvenanceAttempt `json:"attempts"`
}

// Provenance is the audit trail for a whole feature vector.
type Provenance []FieldProvenance

// Source returns the winning source for field, or "".
func (p Provenance) Source(field string) string {
	for _, fp := range p {
		if fp.FieldKey == field {
			return fp.WinnerSource
		}
	}
	return ""
}

// Fallbacks counts fields that did not come from a live source.
func (p Provenance) Fallbacks() int {
	n := 0
	for _, fp := range p {
		switch fp.WinnerSource {
		case SourceMarket, SourceEstimate, SourceRequest:
		default:
			n++
		}
	}
	return n
}
