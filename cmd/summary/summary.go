// Package summary handles the dashboard summary command
package summary

import (
	"github.com/spf13/cobra"

	"fjacquet/clarity-ledger/cmd/common"
	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/validation"
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals, spending by category, the monthly trend and budgets",
	Long: `Show the overall income, expenses and balance, the expense breakdown per
category, income and expenses over the last months and the consumption of this
month's budgets.`,
	Args: cobra.NoArgs,
	RunE: summaryFunc,
}

func init() {
	Cmd.Flags().Int("months", 0, "Months in the trend (default from configuration)")
	Cmd.Flags().StringP("format", "f", "text", "Output format: text or json")
	Cmd.Flags().StringP("output", "o", common.StdoutPath, "Write to this file instead of stdout")
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if err := validation.ReportFormat(format); err != nil {
		return err
	}
	months, _ := cmd.Flags().GetInt("months")
	switch {
	case months < 0:
		return &apperror.ValidationError{Field: "months", Reason: "must be a positive integer"}
	case months == 0:
		months = app.GetConfig().Report.TrendMonths
	}

	s, err := app.GetLedger().Summary(cmd.Context(), months)
	if err != nil {
		return err
	}
	data, err := app.GetReportGenerator().RenderSummary(s, format)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return common.WriteOutput(cmd.OutOrStdout(), output, data)
}
