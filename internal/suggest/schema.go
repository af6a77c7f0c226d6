package suggest

import "github.com/sells-group/riskpilot/internal/llm"

var (
	careerKeys   = []string{"skills", "actions", "opportunities"}
	investorKeys = []string{"recommendations", "alerts", "opportunities"}
)

var careerSchema = llm.Object(map[string]*llm.Schema{
	"skills": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
		"name":   llm.String("skill name"),
		"why":    llm.String("why this skill matters"),
		"how":    llm.String("how to acquire it"),
		"impact": llm.String("expected benefit"),
	}, "name", "why", "how", "impact")),
	"actions": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
		"title":      llm.String("action name"),
		"timeline":   llm.String("for example 1-3 months"),
		"steps":      llm.ArrayOf(llm.String("")),
		"indicators": llm.String("success metrics"),
	}, "title", "timeline", "steps", "indicators")),
	"opportunities": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
		"title":        llm.String("opportunity name"),
		"timeline":     llm.String("for example 3-6 months"),
		"requirements": llm.String("skills or experience needed"),
		"impact":       llm.String("potential outcome"),
	}, "title", "timeline", "requirements", "impact")),
}, careerKeys...)

var investorSchema = llm.Object(map[string]*llm.Schema{
	"recommendations": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
		"action":     llm.String("action title"),
		"timeline":   llm.String("for example 1-3 months"),
		"steps":      llm.ArrayOf(llm.String("")),
		"indicators": llm.String("success metrics"),
	}, "action", "timeline", "steps", "indicators")),
	"alerts": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
		"alert":   llm.String("alert description"),
		"urgency": llm.String("high, medium or low"),
	}, "alert", "urgency")),
	"opportunities": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
		"opportunity":  llm.String("investment opportunity"),
		"timeline":     llm.String("for example 6-12 months"),
		"requirements": llm.String("criteria for investment"),
		"impact":       llm.String("expected outcome"),
	}, "opportunity", "timeline", "requirements", "impact")),
}, investorKeys...)
