package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/riskpilot/internal/model"
)

var assessInput string

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run one assessment and print the result as JSON",
}

var assessEmployeeCmd = &cobra.Command{
	Use:   "employee",
	Short: "Assess layoff risk for an employee profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		var p model.EmployeeProfile
		if err := readInput(assessInput, cmd.InOrStdin(), &p); err != nil {
			return err
		}
		env, err := initPipeline(cmd.Context(), "assess")
		if err != nil {
			return err
		}
		res, err := env.Pipeline.Employee(cmd.Context(), p)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

type investorInput struct {
	Company string `json:"company" validate:"required"`
}

var assessInvestorCmd = &cobra.Command{
	Use:   "investor",
	Short: "Assess investment risk for a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in investorInput
		if err := readInput(assessInput, cmd.InOrStdin(), &in); err != nil {
			return err
		}
		env, err := initPipeline(cmd.Context(), "assess")
		if err != nil {
			return err
		}
		res, err := env.Pipeline.Investor(cmd.Context(), in.Company)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var assessStudentCmd = &cobra.Command{
	Use:   "student",
	Short: "Assess career risk for a student profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		var p model.StudentProfile
		if err := readInput(assessInput, cmd.InOrStdin(), &p); err != nil {
			return err
		}
		env, err := initPipeline(cmd.Context(), "assess")
		if err != nil {
			return err
		}
		res, err := env.Pipeline.Student(cmd.Context(), p)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	assessCmd.PersistentFlags().StringVar(&assessInput, "input", "-", "JSON input file (- for stdin)")
	assessCmd.AddCommand(assessEmployeeCmd, assessInvestorCmd, assessStudentCmd)
	rootCmd.AddCommand(assessCmd)
}
