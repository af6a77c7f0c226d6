package model

import (
	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

var validate = validator.New()

func validateStruct(what string, v any) error {
	if err := validate.Struct(v); err != nil {
		return eris.Wrapf(err, "model: invalid %s", what)
	}
	return nil
}

// SkillSuggestion is a skill worth developing.
type SkillSuggestion struct {
	Name   string `json:"name" validate:"required"`
	Why    string `json:"why" validate:"required"`
	How    string `json:"how" validate:"required"`
	Impact string `json:"impact" validate:"required"`
}

// ActionPlan is a concrete step sequence with a timeline.
type ActionPlan struct {
	Title      string   `json:"title" validate:"required"`
	Timeline   string   `json:"timeline" validate:"required"`
	Steps      []string `json:"steps" validate:"required,dive,required"`
	Indicators string   `json:"indicators" validate:"required"`
}

// CareerOpportunity is a role or path to pursue.
type CareerOpportunity struct {
	Title        string `json:"title" validate:"required"`
	Timeline     string `json:"timeline" validate:"required"`
	Requirements string `json:"requirements" validate:"required"`
	Impact       string `json:"impact" validate:"required"`
}

// CareerSuggestions is the bundle returned to employees and students.
type CareerSuggestions struct {
	Skills        []SkillSuggestion   `json:"skills" validate:"required,dive"`
	Actions       []ActionPlan        `json:"actions" validate:"required,dive"`
	Opportunities []CareerOpportunity `json:"opportunities" validate:"required,dive"`
}

// Validate checks every item carries its required fields.
func (s CareerSuggestions) Validate() error {
	return validateStruct("career suggestions", s)
}

// InvestorRecommendation is a portfolio action.
type InvestorRecommendation struct {
	Action     string   `json:"action" validate:"required"`
	Timeline   string   `json:"timeline" validate:"required"`
	Steps      []string `json:"steps" validate:"required,dive,required"`
	Indicators string   `json:"indicators" validate:"required"`
}

// RiskAlert is a warning with an urgency level.
type RiskAlert struct {
	Alert   string `json:"alert" validate:"required"`
	Urgency string `json:"urgency" validate:"required"`
}

// InvestmentOpportunity is an upside worth watching.
type InvestmentOpportunity struct {
	Opportunity  string `json:"opportunity" validate:"required"`
	Timeline     string `json:"timeline" validate:"required"`
	Requirements string `json:"requirements" validate:"required"`
	Impact       string `json:"impact" validate:"required"`
}

// InvestorSuggestions is the bundle returned to investors.
type InvestorSuggestions struct {
	Recommendations []InvestorRecommendation `json:"recommendations" validate:"required,dive"`
	Alerts          []RiskAlert              `json:"alerts" validate:"required,dive"`
	Opportunities   []InvestmentOpportunity  `json:"opportunities" validate:"required,dive"`
}

// Validate checks every item carries its required fields.
func (s InvestorSuggestions) Validate() error {
	return validateStruct("investor suggestions", s)
}
