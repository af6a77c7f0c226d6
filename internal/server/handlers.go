package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sells-group/riskpilot/internal/coerce"
	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/internal/pipeline"
)

type employeePrediction struct {
	LayoffRisk  model.RiskLabel `json:"layoff_risk"`
	Probability float64         `json:"probability"`
}

type riskPrediction struct {
	RiskLabel   model.RiskLabel `json:"risk_label"`
	Probability float64         `json:"probability"`
}

type employeeResponse struct {
	RunID      string                 `json:"run_id"`
	Company    model.CompanyIdentity  `json:"company"`
	Data       model.EmployeeFeatures `json:"data"`
	Market     model.MarketSnapshot   `json:"market"`
	Prediction employeePrediction     `json:"prediction"`
	Provenance model.Provenance       `json:"provenance"`
	Phases     []pipeline.PhaseResult `json:"phases"`
}

type investorResponse struct {
	RunID       string                    `json:"run_id"`
	Company     model.CompanyIdentity     `json:"company"`
	Data        model.InvestorFeatures    `json:"data"`
	Market      model.MarketSnapshot      `json:"market"`
	Prediction  riskPrediction            `json:"prediction"`
	Suggestions model.InvestorSuggestions `json:"suggestions"`
	Provenance  model.Provenance          `json:"provenance"`
	Phases      []pipeline.PhaseResult    `json:"phases"`
}

type studentResponse struct {
	RunID       string                  `json:"run_id"`
	Scores      model.StudentScores     `json:"scores"`
	Prediction  riskPrediction          `json:"prediction"`
	Suggestions model.CareerSuggestions `json:"suggestions"`
}

func (s *Server) employeePredict(w http.ResponseWriter, r *http.Request) {
	var req model.EmployeeProfile
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.svc.Employee(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employeeResponse{
		RunID:      res.RunID,
		Company:    res.Company,
		Data:       res.Features,
		Market:     res.Market,
		Prediction: employeePrediction{LayoffRisk: res.Verdict.Label, Probability: res.Verdict.Probability},
		Provenance: res.Provenance,
		Phases:     res.Phases,
	})
}

// employeeSuggestionsRequest carries the profile fields the suggestion
// prompt uses. Only the job title is required; the company defaults to
// "Unknown".
type employeeSuggestionsRequest struct {
	CompanyName       string  `json:"company_name"`
	CompanyLocation   string  `json:"company_location"`
	ReportingQuarter  string  `json:"reporting_quarter"`
	JobTitle          string  `json:"job_title" validate:"required"`
	Department        string  `json:"department"`
	RemoteWork        string  `json:"remote_work"`
	YearsAtCompany    float64 `json:"years_at_company" validate:"gte=0,lte=60"`
	SalaryRange       string  `json:"salary_range"`
	PerformanceRating float64 `json:"performance_rating" validate:"gte=0,lte=5"`
	LayoffRisk        string  `json:"layoff_risk"`
}

func (r employeeSuggestionsRequest) profile() model.EmployeeProfile {
	company := strings.TrimSpace(r.CompanyName)
	if company == "" {
		company = "Unknown"
	}
	return model.EmployeeProfile{
		CompanyName:       company,
		CompanyLocation:   r.CompanyLocation,
		ReportingQuarter:  r.ReportingQuarter,
		JobTitle:          r.JobTitle,
		Department:        r.Department,
		RemoteWork:        r.RemoteWork,
		YearsAtCompany:    r.YearsAtCompany,
		SalaryRange:       r.SalaryRange,
		PerformanceRating: r.PerformanceRating,
	}
}

func (s *Server) employeeSuggestions(w http.ResponseWriter, r *http.Request) {
	var req employeeSuggestionsRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	sugg, err := s.svc.EmployeeSuggestions(r.Context(), req.profile(), req.LayoffRisk)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sugg)
}

type investorRequest struct {
	Company string `json:"company" validate:"required"`
}

func (s *Server) investorPredict(w http.ResponseWriter, r *http.Request) {
	var req investorRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Company) == "" {
		writeError(w, &requestError{msg: "invalid or missing fields: company"})
		return
	}

	res, err := s.svc.Investor(r.Context(), req.Company)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, investorResponse{
		RunID:       res.RunID,
		Company:     res.Company,
		Data:        res.Features,
		Market:      res.Market,
		Prediction:  riskPrediction{RiskLabel: res.Verdict.Label, Probability: res.Verdict.Probability},
		Suggestions: res.Suggestions,
		Provenance:  res.Provenance,
		Phases:      res.Phases,
	})
}

func (s *Server) studentPredict(w http.ResponseWriter, r *http.Request) {
	var req model.StudentProfile
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.svc.Student(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, studentResponse{
		RunID:       res.RunID,
		Scores:      res.Scores,
		Prediction:  riskPrediction{RiskLabel: res.Verdict.Label, Probability: res.Verdict.Probability},
		Suggestions: res.Suggestions,
	})
}

// templateRequest is the offline suggestions body. Fields must be present;
// values are coerced leniently, so "4" and 4 are both accepted. A blank or
// null layoff_risk reads as "moderate".
type templateRequest struct {
	EmployeeData *struct {
		JobTitle          any `json:"job_title" validate:"required"`
		PerformanceRating any `json:"performance_rating" validate:"required"`
		YearsAtCompany    any `json:"years_at_company" validate:"required"`
	} `json:"employeeData" validate:"required"`
	PredictionData *struct {
		Prediction *struct {
			LayoffRisk any `json:"layoff_risk"`
		} `json:"prediction" validate:"required"`
		Data *struct {
			RevenueGrowth any `json:"revenue_growth" validate:"required"`
		} `json:"data" validate:"required"`
	} `json:"predictionData" validate:"required"`
}

type templateResponse struct {
	Success     bool                     `json:"success"`
	Suggestions *model.CareerSuggestions `json:"suggestions,omitempty"`
	Message     string                   `json:"message,omitempty"`
}

func (s *Server) templateSuggestions(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := s.decode(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, templateResponse{
			Message: "Invalid or missing data. Required fields: employeeData.job_title, " +
				"employeeData.performance_rating, employeeData.years_at_company, " +
				"predictionData.prediction, predictionData.data.revenue_growth",
		})
		return
	}

	e, p := req.EmployeeData, req.PredictionData
	profile := model.EmployeeProfile{
		JobTitle:          text(e.JobTitle),
		PerformanceRating: coerce.Or(coerce.Number(e.PerformanceRating), 0),
		YearsAtCompany:    coerce.Or(coerce.Number(e.YearsAtCompany), 0),
	}
	risk := strings.TrimSpace(text(p.Prediction.LayoffRisk))
	if risk == "" {
		risk = "moderate"
	}

	sugg := s.svc.TemplateSuggestions(profile, risk, coerce.Or(coerce.Number(p.Data.RevenueGrowth), 0))
	writeJSON(w, http.StatusOK, templateResponse{Success: true, Suggestions: &sugg})
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
