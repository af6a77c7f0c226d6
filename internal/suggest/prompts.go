package suggest

import (
	"fmt"
	"strings"

	"github.com/sells-group/riskpilot/internal/model"
)

const systemPrompt = "You are a pragmatic career and investment advisor. Answer with a single JSON object in exactly the requested shape and nothing else."

const careerShape = `{
  "skills": [{"name": "...", "why": "...", "how": "...", "impact": "..."}],
  "actions": [{"title": "...", "timeline": "...", "steps": ["..."], "indicators": "..."}],
  "opportunities": [{"title": "...", "timeline": "...", "requirements": "...", "impact": "..."}]
}`

const investorShape = `{
  "recommendations": [{"action": "...", "timeline": "...", "steps": ["..."], "indicators": "..."}],
  "alerts": [{"alert": "...", "urgency": "high|medium|low"}],
  "opportunities": [{"opportunity": "...", "timeline": "...", "requirements": "...", "impact": "..."}]
}`

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func employeePrompt(p model.EmployeeProfile, risk string) string {
	if strings.TrimSpace(risk) == "" {
		risk = "moderate"
	}
	var b strings.Builder
	b.WriteString("An employee has the following profile:\n")
	fmt.Fprintf(&b, "- Job title: %s\n", orUnknown(p.JobTitle))
	fmt.Fprintf(&b, "- Years at company: %g\n", p.YearsAtCompany)
	fmt.Fprintf(&b, "- Performance rating: %g/5\n", p.PerformanceRating)
	fmt.Fprintf(&b, "- Predicted layoff risk: %s (low, moderate or high)\n", risk)
	fmt.Fprintf(&b, "- Company: %s\n", orUnknown(p.CompanyName))
	fmt.Fprintf(&b, "- Location: %s\n", orUnknown(p.CompanyLocation))
	fmt.Fprintf(&b, "- Reporting quarter: %s\n", orUnknown(p.ReportingQuarter))
	fmt.Fprintf(&b, "- Department: %s\n", orUnknown(p.Department))
	fmt.Fprintf(&b, "- Remote work: %s\n", orUnknown(p.RemoteWork))
	fmt.Fprintf(&b, "- Salary range: %s\n", orUnknown(p.SalaryRange))
	b.WriteString("\nSuggest 1-3 skills that improve employability and reduce layoff risk, 1-3 actions that increase stability and visibility, and 1-2 opportunities for growth or alternative roles. Tailor everything to the layoff risk.\n\n")
	b.WriteString("Return JSON in this shape:\n" + careerShape)
	return b.String()
}

func investorPrompt(f model.InvestorFeatures, v model.RiskVerdict) string {
	var b strings.Builder
	b.WriteString("Company data:\n")
	fmt.Fprintf(&b, "- Tier: %s\n", f.Tier)
	fmt.Fprintf(&b, "- Revenue growth: %g%%\n", f.RevenueGrowth)
	fmt.Fprintf(&b, "- Profit margin: %g%%\n", f.ProfitMargin)
	fmt.Fprintf(&b, "- Debt to equity: %g\n", f.DebtToEquity)
	fmt.Fprintf(&b, "- Free cash flow: %.0f\n", f.FreeCashFlow)
	fmt.Fprintf(&b, "- PE ratio: %g\n", f.PERatio)
	fmt.Fprintf(&b, "- Beta: %g\n", f.Beta)
	fmt.Fprintf(&b, "- Layoff frequency: %g (0-10)\n", f.LayoffFrequency)
	fmt.Fprintf(&b, "- Employee attrition: %g%%\n", f.EmployeeAttrition)
	fmt.Fprintf(&b, "- Client concentration: %g (0-100)\n", f.ClientConcentration)
	fmt.Fprintf(&b, "- Geographic diversification: %g (0-100)\n", f.GeographicDiversification)
	fmt.Fprintf(&b, "- R&D spending: %.0f USD\n", f.RnDSpending)
	fmt.Fprintf(&b, "- Currency risk: %g (0-10)\n", f.CurrencyRisk)
	fmt.Fprintf(&b, "- Global IT spending: %g%%\n", f.GlobalITSpending)
	fmt.Fprintf(&b, "- Digital exposure: %g (0-100)\n", f.DigitalExposure)
	fmt.Fprintf(&b, "- Stock volatility: %g (0-100)\n", f.StockVolatility)
	fmt.Fprintf(&b, "\nInvestment risk prediction: %s (probability %.2f)\n", v.Label, v.Probability)
	b.WriteString("\nSuggest 1-3 recommendations, 1-2 alerts and 1-2 opportunities that manage risk and optimize returns for an investor in this company.\n\n")
	b.WriteString("Return JSON in this shape:\n" + investorShape)
	return b.String()
}

func studentPrompt(p model.StudentProfile, s model.StudentScores, v model.RiskVerdict) string {
	var b strings.Builder
	b.WriteString("A student has the following profile:\n")
	fmt.Fprintf(&b, "- CGPA: %g\n", p.CGPA)
	fmt.Fprintf(&b, "- Degree: %s\n", orUnknown(p.Degree))
	fmt.Fprintf(&b, "- College tier: %s\n", orUnknown(p.CollegeTier))
	fmt.Fprintf(&b, "- Years of coding experience: %g\n", p.YearsOfCodingExperience)
	fmt.Fprintf(&b, "- Hackathons: %g\n", p.HackathonParticipation)
	fmt.Fprintf(&b, "- Primary tech stack: %s\n", orUnknown(p.PrimaryTechStack))
	fmt.Fprintf(&b, "- Skills: %s\n", p.Skills)
	fmt.Fprintf(&b, "- Certifications: %s\n", p.Certifications)
	fmt.Fprintf(&b, "- Project tech stacks: %s\n", p.ProjectTechStacks)
	fmt.Fprintf(&b, "- Internship tech stacks: %s\n", p.InternshipTechStacks)
	fmt.Fprintf(&b, "- Preferred job title: %s\n", orUnknown(p.PreferredJobTitle))
	fmt.Fprintf(&b, "\nAssessed skill relevance %g/100, stack alignment %g/100, job demand %.2f, role layoff rate %.2f.\n",
		s.SkillRelevanceScore, s.StackAlignmentScore, s.JobDemandForRole, s.RoleSpecificLayoffRate)
	fmt.Fprintf(&b, "Predicted job market risk: %s (probability %.2f)\n", v.Label, v.Probability)
	b.WriteString("\nSuggest skills that match the preferred job title, actions for the next 1-3 months and opportunities (roles, internships, certifications) for the next 3-6 months.\n\n")
	b.WriteString("Return JSON in this shape:\n" + careerShape)
	return b.String()
}
