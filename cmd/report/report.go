// Package report handles the date range report command
package report

import (
	"time"

	"github.com/spf13/cobra"

	"fjacquet/clarity-ledger/cmd/common"
	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/dateutils"
	"fjacquet/clarity-ledger/internal/report"
	"fjacquet/clarity-ledger/internal/validation"
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Report totals and category spending over a date range",
	Long: `Report income, expenses and balance between two days, the top expense
categories and the spending per category for every month of the range. The
range defaults to the current month.`,
	Args: cobra.NoArgs,
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().String("from", "", "First day (YYYY-MM-DD)")
	Cmd.Flags().String("to", "", "Last day (YYYY-MM-DD)")
	Cmd.Flags().Int("top", report.DefaultTopCategories, "Number of top expense categories")
	Cmd.Flags().StringP("format", "f", "text", "Output format: text or json")
	Cmd.Flags().StringP("output", "o", common.StdoutPath, "Write to this file instead of stdout")
}

func dayFlag(cmd *cobra.Command, name string, fallback time.Time) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return fallback, nil
	}
	t, err := dateutils.ParseISODate(raw)
	if err != nil {
		return time.Time{}, &apperror.ValidationError{Field: name, Reason: err.Error()}
	}
	return t, nil
}

func reportFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if err := validation.ReportFormat(format); err != nil {
		return err
	}
	top, _ := cmd.Flags().GetInt("top")
	if top < 1 {
		return &apperror.ValidationError{Field: "top", Reason: "must be a positive integer"}
	}

	defaultStart, defaultEnd := report.DefaultReportRange(app.GetLedger().Now())
	start, err := dayFlag(cmd, "from", defaultStart)
	if err != nil {
		return err
	}
	end, err := dayFlag(cmd, "to", defaultEnd)
	if err != nil {
		return err
	}

	r, err := app.GetLedger().RangeReport(cmd.Context(), start, end, top)
	if err != nil {
		return err
	}
	data, err := app.GetReportGenerator().RenderRange(r, format)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return common.WriteOutput(cmd.OutOrStdout(), output, data)
}
