// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"fjacquet/clarity-ledger/internal/currencyutils"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/report"
)

// StdoutPath makes WriteOutput print instead of writing a file.
const StdoutPath = "-"

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintTransactions writes txs as an aligned table.
func PrintTransactions(w io.Writer, txs []models.Transaction, currency models.Currency) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, "No transactions found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION\tTAGS")
	for _, tx := range txs {
		amount := currencyutils.FormatAmount(decimal.NewFromFloat(tx.Amount), currency)
		if tx.IsExpense() {
			amount = "-" + amount
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Type, tx.Category, amount, tx.Description, strings.Join(tx.Tags, ","))
	}
	return tw.Flush()
}

// PrintTransaction writes a single transaction.
func PrintTransaction(w io.Writer, tx models.Transaction, currency models.Currency) error {
	return PrintTransactions(w, []models.Transaction{tx}, currency)
}

// PrintBudgets writes budgets as an aligned table.
func PrintBudgets(w io.Writer, budgets []models.Budget, currency models.Currency) error {
	if len(budgets) == 0 {
		_, err := fmt.Fprintln(w, "No budgets found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMONTH\tCATEGORY\tTARGET")
	for _, b := range budgets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.MonthYear, b.Category,
			currencyutils.FormatAmount(decimal.NewFromFloat(b.TargetAmount), currency))
	}
	return tw.Flush()
}

// PrintBudgetStatuses writes the consumption of each budget.
func PrintBudgetStatuses(w io.Writer, statuses []report.BudgetStatus, currency models.Currency) error {
	if len(statuses) == 0 {
		_, err := fmt.Fprintln(w, "No budgets for this month.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tTARGET\tSPENT\tREMAINING\tPROGRESS\tSTATUS")
	for _, s := range statuses {
		remaining := currencyutils.FormatAmount(s.Remaining, currency)
		if s.Overspent {
			remaining = "over by " + currencyutils.FormatAmount(s.Remaining.Neg(), currency)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f%%\t%s\n",
			s.Budget.Category,
			currencyutils.FormatAmount(decimal.NewFromFloat(s.Budget.TargetAmount), currency),
			currencyutils.FormatAmount(s.Spent, currency),
			remaining,
			s.ProgressPercent,
			s.Level)
	}
	return tw.Flush()
}

// WriteOutput writes data to path, or to w when path is StdoutPath.
func WriteOutput(w io.Writer, path string, data []byte) error {
	if path == StdoutPath {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ParseTags splits a comma separated flag value into clean tags.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return models.CleanTags(strings.Split(raw, ","))
}
