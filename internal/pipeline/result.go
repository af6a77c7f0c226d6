package pipeline

import "github.com/sells-group/riskpilot/internal/model"

// EmployeeResult is the outcome of an employee assessment.
type EmployeeResult struct {
	RunID      string                                       `json:"run_id"`
	Company    model.CompanyIdentity                        `json:"company"`
	Features   model.EmployeeFeatures                       `json:"data"`
	Market     model.MarketSnapshot                         `json:"market"`
	Estimate   model.Defaultable[model.QualitativeEstimate] `json:"estimate"`
	Verdict    model.RiskVerdict                            `json:"prediction"`
	Provenance model.Provenance                             `json:"provenance"`
	Phases     []PhaseResult                                `json:"phases"`
}

// InvestorResult is the outcome of an investor assessment.
type InvestorResult struct {
	RunID       string                                       `json:"run_id"`
	Company     model.CompanyIdentity                        `json:"company"`
	Features    model.InvestorFeatures                       `json:"data"`
	Market      model.MarketSnapshot                         `json:"market"`
	Estimate    model.Defaultable[model.QualitativeEstimate] `json:"estimate"`
	Verdict     model.RiskVerdict                            `json:"prediction"`
	Suggestions model.InvestorSuggestions                    `json:"suggestions"`
	Provenance  model.Provenance                             `json:"provenance"`
	Phases      []PhaseResult                                `json:"phases"`
}

// StudentResult is the outcome of a student assessment.
type StudentResult struct {
	RunID       string                  `json:"run_id"`
	Scores      model.StudentScores     `json:"scores"`
	Verdict     model.RiskVerdict       `json:"prediction"`
	Suggestions model.CareerSuggestions `json:"suggestions"`
	Phases      []PhaseResult           `json:"phases"`
}
