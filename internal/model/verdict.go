package model

import "strings"

// RiskLabel is the oracle's categorical risk.
type RiskLabel string

const (
	RiskLow      RiskLabel = "Low"
	RiskModerate RiskLabel = "Moderate"
	RiskHigh     RiskLabel = "High"
)

// ParseRiskLabel normalizes a label case-insensitively. "Medium" and a
// trailing " risk" are accepted.
func ParseRiskLabel(s string) (RiskLabel, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "risk"))
	switch s {
	case "low":
		return RiskLow, true
	case "moderate", "medium":
		return RiskModerate, true
	case "high":
		return RiskHigh, true
	}
	return "", false
}

// RiskVerdict is the oracle's output for one feature vector.
type RiskVerdict struct {
	Label       RiskLabel `json:"label"`
	Probability float64   `json:"probability"`
}
