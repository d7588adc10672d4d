// Package report derives summaries from transactions and budgets: totals,
// per-category breakdowns, budget consumption and monthly series. Nothing
// here is persisted; every figure is recomputed from the source records.
package report

import (
	"sort"

	"fjacquet/clarity-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Totals is the income, expense and balance over a set of transactions.
type Totals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// CategoryTotal is the expense sum of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

func amountOf(tx models.Transaction) decimal.Decimal {
	return decimal.NewFromFloat(tx.Amount)
}

// ComputeTotals sums income and expenses. Balance is always exactly
// income minus expenses.
func ComputeTotals(txs []models.Transaction) Totals {
	income, expenses := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeIncome:
			income = income.Add(amountOf(tx))
		case models.TransactionTypeExpense:
			expenses = expenses.Add(amountOf(tx))
		}
	}
	return Totals{Income: income, Expenses: expenses, Balance: income.Sub(expenses)}
}

// ExpenseBreakdown groups expenses by category, largest first. Categories
// are compared as raw strings. Equal totals are ordered by name.
func ExpenseBreakdown(txs []models.Transaction) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(amountOf(tx))
	}

	out := make([]CategoryTotal, 0, len(sums))
	for category, total := range sums {
		out = append(out, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopExpenseCategories returns at most n entries of the breakdown.
func TopExpenseCategories(txs []models.Transaction, n int) []CategoryTotal {
	breakdown := ExpenseBreakdown(txs)
	if n >= 0 && len(breakdown) > n {
		return breakdown[:n]
	}
	return breakdown
}
