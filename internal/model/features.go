package model

// EmployeeProfile is what an employee tells us about their position.
type EmployeeProfile struct {
	CompanyName       string  `json:"company_name" validate:"required"`
	CompanyLocation   string  `json:"company_location"`
	ReportingQuarter  string  `json:"reporting_quarter"`
	JobTitle          string  `json:"job_title" validate:"required"`
	Department        string  `json:"department"`
	RemoteWork        string  `json:"remote_work"`
	YearsAtCompany    float64 `json:"years_at_company" validate:"gte=0,lte=60"`
	SalaryRange       string  `json:"salary_range"`
	PerformanceRating float64 `json:"performance_rating" validate:"gte=0,lte=5"`
}

// EconomicIndicators are macro rates attached to the employee vector.
type EconomicIndicators struct {
	IndustryLayoffRate float64 `json:"industry_layoff_rate" yaml:"industry_layoff_rate"`
	UnemploymentRate   float64 `json:"unemployment_rate" yaml:"unemployment_rate"`
	InflationRate      float64 `json:"inflation_rate" yaml:"inflation_rate"`
}

// EmployeeFeatures is the flat record sent to the employee risk model.
// No field may be null.
type EmployeeFeatures struct {
	EmployeeProfile
	Tier             Tier    `json:"tier"`
	RevenueGrowth    float64 `json:"revenue_growth"`
	ProfitMargin     float64 `json:"profit_margin"`
	StockPriceChange float64 `json:"stock_price_change"`
	TotalEmployees   float64 `json:"total_employees"`
	EconomicIndicators
	QualitativeFeatures
}

// InvestorFeatures is the flat record sent to the investor risk model.
// No field may be null.
type InvestorFeatures struct {
	Tier          Tier    `json:"tier"`
	RevenueGrowth float64 `json:"revenue_growth"`
	ProfitMargin  float64 `json:"profit_margin"`
	DebtToEquity  float64 `json:"debt_to_equity"`
	FreeCashFlow  float64 `json:"free_cash_flow"`
	PERatio       float64 `json:"pe_ratio"`
	Beta          float64 `json:"beta"`
	QualitativeFeatures
}

// StudentProfile is a student's academic and skills background.
type StudentProfile struct {
	CGPA                    float64 `json:"cgpa" validate:"gte=0,lte=10"`
	Degree                  string  `json:"degree" validate:"required"`
	CollegeTier             string  `json:"college_tier"`
	YearsOfCodingExperience float64 `json:"years_of_coding_experience" validate:"gte=0"`
	HackathonParticipation  float64 `json:"hackathon_participation" validate:"gte=0"`
	PrimaryTechStack        string  `json:"primary_tech_stack"`
	Skills                  string  `json:"skills"`
	Certifications          string  `json:"certifications"`
	ProjectTechStacks       string  `json:"project_tech_stacks"`
	InternshipTechStacks    string  `json:"internship_tech_stacks"`
	PreferredJobTitle       string  `json:"preferred_job_title" validate:"required"`
}

// Student score keys.
const (
	ScoreDegreeRelevance          = "degree_relevance_score"
	ScoreSkillRelevance           = "skill_relevance_score"
	ScoreCertificationRelevance   = "certification_relevance_score"
	ScoreProjectStackRelevance    = "project_stack_relevance_score"
	ScoreInternshipStackRelevance = "internship_stack_relevance_score"
	ScoreStackVersatility         = "stack_versatility_score"
	ScoreStackAlignment           = "stack_alignment_score"
	ScoreJobDemand                = "job_demand_for_role"
	ScoreRoleLayoffRate           = "role_specific_layoff_rate"
)

// StudentScoreFields lists every score the scorer must return.
var StudentScoreFields = []string{
	ScoreDegreeRelevance,
	ScoreSkillRelevance,
	ScoreCertificationRelevance,
	ScoreProjectStackRelevance,
	ScoreInternshipStackRelevance,
	ScoreStackVersatility,
	ScoreStackAlignment,
	ScoreJobDemand,
	ScoreRoleLayoffRate,
}

// StudentScores are model-assessed relevance scores. They are used as is,
// with no tier fallback.
type StudentScores struct {
	DegreeRelevanceScore          float64 `json:"degree_relevance_score" validate:"gte=0,lte=100"`
	SkillRelevanceScore           float64 `json:"skill_relevance_score" validate:"gte=0,lte=100"`
	CertificationRelevanceScore   float64 `json:"certification_relevance_score" validate:"gte=0,lte=100"`
	ProjectStackRelevanceScore    float64 `json:"project_stack_relevance_score" validate:"gte=0,lte=100"`
	InternshipStackRelevanceScore float64 `json:"internship_stack_relevance_score" validate:"gte=0,lte=100"`
	StackVersatilityScore         float64 `json:"stack_versatility_score" validate:"gte=0,lte=100"`
	StackAlignmentScore           float64 `json:"stack_alignment_score" validate:"gte=0,lte=100"`
	JobDemandForRole              float64 `json:"job_demand_for_role" validate:"gte=0,lte=1"`
	RoleSpecificLayoffRate        float64 `json:"role_specific_layoff_rate" validate:"gte=0,lte=1"`
}

// Validate range-checks every score.
func (s StudentScores) Validate() error {
	return validateStruct("student scores", s)
}

// StudentFeatures is the flat record sent to the student risk model.
type StudentFeatures struct {
	StudentProfile
	StudentScores
}
