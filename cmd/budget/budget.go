// Package budget handles the monthly budget commands
package budget

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/clarity-ledger/cmd/common"
	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/dateutils"
	"fjacquet/clarity-ledger/internal/models"
)

// Cmd groups the budget subcommands
var Cmd = &cobra.Command{
	Use:     "budget",
	Aliases: []string{"budgets"},
	Short:   "Manage monthly spending targets per category",
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Create a budget for a category and month",
	Long: `Create a spending target for an expense category in a month. Only one
budget may exist per category and month; the month defaults to the current one.`,
	Args: cobra.NoArgs,
	RunE: setFunc,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change an existing budget",
	Args:  cobra.ExactArgs(1),
	RunE:  updateFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a budget",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how much of each budget has been spent",
	Long: `Compare each budget of the month with the expenses recorded in its
category. Budgets at 80% or more are flagged with a warning.`,
	Args: cobra.NoArgs,
	RunE: statusFunc,
}

func init() {
	for _, c := range []*cobra.Command{setCmd, updateCmd} {
		c.Flags().StringP("category", "c", "", "Expense category")
		c.Flags().Float64P("amount", "a", 0, "Target amount for the month")
		c.Flags().StringP("month", "m", "", "Month (YYYY-MM)")
	}
	_ = setCmd.MarkFlagRequired("category")
	_ = setCmd.MarkFlagRequired("amount")

	listCmd.Flags().StringP("month", "m", "", "Only budgets of this month (YYYY-MM)")
	statusCmd.Flags().StringP("month", "m", "", "Month (YYYY-MM, default current)")
	for _, c := range []*cobra.Command{listCmd, statusCmd} {
		c.Flags().Bool("json", false, "Print JSON instead of a table")
	}

	Cmd.AddCommand(setCmd, updateCmd, listCmd, deleteCmd, statusCmd)
}

func currentMonth(month string) string {
	if month != "" {
		return month
	}
	app, err := root.App()
	if err != nil {
		return ""
	}
	return dateutils.MonthYear(app.GetLedger().Now())
}

func setFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	category, _ := cmd.Flags().GetString("category")
	amount, _ := cmd.Flags().GetFloat64("amount")
	month, _ := cmd.Flags().GetString("month")

	b, err := app.GetLedger().AddBudget(cmd.Context(), category, amount, currentMonth(month))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added budget %s\n", b.ID)
	return common.PrintBudgets(cmd.OutOrStdout(), []models.Budget{b}, app.Currency())
}

func updateFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	svc := app.GetLedger()

	budgets, err := svc.ListBudgets(cmd.Context())
	if err != nil {
		return err
	}
	var existing *models.Budget
	for i := range budgets {
		if budgets[i].ID == args[0] {
			existing = &budgets[i]
			break
		}
	}
	if existing == nil {
		return &apperror.NotFoundError{Entity: "budget", ID: args[0]}
	}

	f := cmd.Flags()
	if f.Changed("category") {
		existing.Category, _ = f.GetString("category")
	}
	if f.Changed("amount") {
		existing.TargetAmount, _ = f.GetFloat64("amount")
	}
	if f.Changed("month") {
		existing.MonthYear, _ = f.GetString("month")
	}

	b, err := svc.UpdateBudget(cmd.Context(), *existing)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated budget %s\n", b.ID)
	return common.PrintBudgets(cmd.OutOrStdout(), []models.Budget{b}, app.Currency())
}

func listFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	month, _ := cmd.Flags().GetString("month")

	var budgets []models.Budget
	if month == "" {
		budgets, err = app.GetLedger().ListBudgets(cmd.Context())
	} else {
		budgets, err = app.GetLedger().BudgetsForMonth(cmd.Context(), month)
	}
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return common.PrintJSON(cmd.OutOrStdout(), budgets)
	}
	return common.PrintBudgets(cmd.OutOrStdout(), budgets, app.Currency())
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	if err := app.GetLedger().DeleteBudget(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted budget %s\n", args[0])
	return nil
}

func statusFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	month, _ := cmd.Flags().GetString("month")

	statuses, err := app.GetLedger().BudgetStatuses(cmd.Context(), currentMonth(month))
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return common.PrintJSON(cmd.OutOrStdout(), statuses)
	}
	return common.PrintBudgetStatuses(cmd.OutOrStdout(), statuses, app.Currency())
}
