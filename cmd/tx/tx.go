// Package tx handles the transaction commands
package tx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/clarity-ledger/cmd/common"
	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/dateutils"
	"fjacquet/clarity-ledger/internal/filter"
	"fjacquet/clarity-ledger/internal/models"
)

// Cmd groups the transaction subcommands
var Cmd = &cobra.Command{
	Use:     "tx",
	Aliases: []string{"transaction", "transactions"},
	Short:   "Record, list, update and delete transactions",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new income or expense",
	Long: `Record a new transaction. The amount is always positive; --type tells
whether the money came in (income) or went out (expense). The date defaults
to today.`,
	Args: cobra.NoArgs,
	RunE: addFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	Long:  `List transactions newest first. Every filter given must match.`,
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of an existing transaction",
	Long:  `Change the fields of an existing transaction. Only flags given on the command line are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  updateFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringP("description", "d", "", "What the money was for")
		c.Flags().Float64P("amount", "a", 0, "Positive amount")
		c.Flags().StringP("category", "c", models.CategoryOther, "Category name")
		c.Flags().String("date", "", "Day of the transaction (YYYY-MM-DD)")
		c.Flags().String("tags", "", "Comma separated tags")
	}
	addCmd.Flags().StringP("type", "t", "expense", "income or expense")
	updateCmd.Flags().StringP("type", "t", "", "income or expense")
	_ = addCmd.MarkFlagRequired("description")
	_ = addCmd.MarkFlagRequired("amount")

	lf := listCmd.Flags()
	lf.StringP("keyword", "k", "", "Match description or category")
	lf.StringP("type", "t", "", "income, expense or all")
	lf.String("from", "", "First day (YYYY-MM-DD)")
	lf.String("to", "", "Last day (YYYY-MM-DD)")
	lf.String("min", "", "Minimum amount")
	lf.String("max", "", "Maximum amount")
	lf.String("tag", "", "Only transactions carrying this tag")
	lf.Bool("json", false, "Print JSON instead of a table")

	Cmd.AddCommand(addCmd, listCmd, updateCmd, deleteCmd)
}

func addFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	svc := app.GetLedger()

	f := cmd.Flags()
	description, _ := f.GetString("description")
	amount, _ := f.GetFloat64("amount")
	category, _ := f.GetString("category")
	date, _ := f.GetString("date")
	tags, _ := f.GetString("tags")
	typeFlag, _ := f.GetString("type")

	txType, err := models.ParseTransactionType(typeFlag)
	if err != nil {
		return &apperror.ValidationError{Field: "type", Reason: err.Error()}
	}
	if date == "" {
		date = dateutils.ToISODate(svc.Now())
	}

	saved, err := svc.AddTransaction(cmd.Context(), models.Transaction{
		Description: description,
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Date:        date,
		Tags:        common.ParseTags(tags),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added transaction %s\n", saved.ID)
	return common.PrintTransaction(cmd.OutOrStdout(), saved, app.Currency())
}

func listFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}

	f := cmd.Flags()
	c := filter.Criteria{}
	c.Keyword, _ = f.GetString("keyword")
	c.Type, _ = f.GetString("type")
	c.StartDate, _ = f.GetString("from")
	c.EndDate, _ = f.GetString("to")
	c.Tag, _ = f.GetString("tag")
	if c.MinAmount, err = amountFlag(cmd, "min"); err != nil {
		return err
	}
	if c.MaxAmount, err = amountFlag(cmd, "max"); err != nil {
		return err
	}

	txs, err := app.GetLedger().FilterTransactions(cmd.Context(), c)
	if err != nil {
		return err
	}
	if asJSON, _ := f.GetBool("json"); asJSON {
		return common.PrintJSON(cmd.OutOrStdout(), txs)
	}
	return common.PrintTransactions(cmd.OutOrStdout(), txs, app.Currency())
}

func updateFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	svc := app.GetLedger()

	existing, err := svc.GetTransaction(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("description") {
		existing.Description, _ = f.GetString("description")
	}
	if f.Changed("amount") {
		existing.Amount, _ = f.GetFloat64("amount")
	}
	if f.Changed("category") {
		existing.Category, _ = f.GetString("category")
	}
	if f.Changed("date") {
		existing.Date, _ = f.GetString("date")
	}
	if f.Changed("tags") {
		tags, _ := f.GetString("tags")
		existing.Tags = common.ParseTags(tags)
	}
	if f.Changed("type") {
		typeFlag, _ := f.GetString("type")
		if existing.Type, err = models.ParseTransactionType(typeFlag); err != nil {
			return &apperror.ValidationError{Field: "type", Reason: err.Error()}
		}
	}

	saved, err := svc.UpdateTransaction(cmd.Context(), existing)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %s\n", saved.ID)
	return common.PrintTransaction(cmd.OutOrStdout(), saved, app.Currency())
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	if err := app.GetLedger().DeleteTransaction(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", args[0])
	return nil
}

func amountFlag(cmd *cobra.Command, name string) (*float64, error) {
	raw, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, &apperror.ValidationError{Field: name, Reason: fmt.Sprintf("'%s' is not a number", raw)}
	}
	return &v, nil
}
