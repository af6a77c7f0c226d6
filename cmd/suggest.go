package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/internal/suggest"
)

var suggestFlags struct {
	jobTitle      string
	risk          string
	performance   float64
	years         float64
	revenueGrowth float64
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print template career suggestions without any network access",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := suggest.NewTemplateEngine()
		if err != nil {
			return err
		}
		p := model.EmployeeProfile{
			JobTitle:          suggestFlags.jobTitle,
			PerformanceRating: suggestFlags.performance,
			YearsAtCompany:    suggestFlags.years,
		}
		return printJSON(cmd.OutOrStdout(), engine.Generate(p, suggestFlags.risk, suggestFlags.revenueGrowth))
	},
}

func init() {
	f := suggestCmd.Flags()
	f.StringVar(&suggestFlags.jobTitle, "job-title", "", "job title, e.g. \"Software Engineer\"")
	f.StringVar(&suggestFlags.risk, "risk", "moderate", "layoff risk: low, moderate or high")
	f.Float64Var(&suggestFlags.performance, "performance", 3, "performance rating (0-5)")
	f.Float64Var(&suggestFlags.years, "years", 0, "years at company")
	f.Float64Var(&suggestFlags.revenueGrowth, "revenue-growth", 0, "company revenue growth in percent")
	rootCmd.AddCommand(suggestCmd)
}
