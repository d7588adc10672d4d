package report

import (
	"sort"
	"time"

	"fjacquet/clarity-ledger/internal/dateutils"
	"fjacquet/clarity-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultTrendMonths is the length of the dashboard trend series.
const DefaultTrendMonths = 6

// MonthlyPoint is one month of the income/expense series.
type MonthlyPoint struct {
	MonthYear string          `json:"monthYear"`
	Income    decimal.Decimal `json:"income"`
	Expenses  decimal.Decimal `json:"expenses"`
}

// MonthlyTrend returns the n most recent months up to and including now's
// month, oldest first. Months without transactions are zero.
func MonthlyTrend(txs []models.Transaction, now time.Time, n int) []MonthlyPoint {
	if n <= 0 {
		n = DefaultTrendMonths
	}
	points := make([]MonthlyPoint, 0, n)
	index := make(map[string]int, n)
	for i := n - 1; i >= 0; i-- {
		key := dateutils.MonthYear(dateutils.AddMonths(now, -i))
		index[key] = len(points)
		points = append(points, MonthlyPoint{MonthYear: key, Income: decimal.Zero, Expenses: decimal.Zero})
	}

	for _, tx := range txs {
		if len(tx.Date) < len(dateutils.MonthLayout) {
			continue
		}
		i, ok := index[tx.Date[:len(dateutils.MonthLayout)]]
		if !ok {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			points[i].Income = points[i].Income.Add(amountOf(tx))
		case models.TransactionTypeExpense:
			points[i].Expenses = points[i].Expenses.Add(amountOf(tx))
		}
	}
	return points
}

// MonthCategorySpending is the expense total per category for one month.
type MonthCategorySpending struct {
	MonthYear  string                     `json:"monthYear"`
	Categories map[string]decimal.Decimal `json:"categories"`
}

// DefaultReportRange is the first and last day of now's month.
func DefaultReportRange(now time.Time) (time.Time, time.Time) {
	return dateutils.StartOfMonth(now), dateutils.EndOfMonth(now)
}

// InRange reports whether tx falls on a day in [start, end]. The end day is
// included in full.
func InRange(tx models.Transaction, start, end time.Time) bool {
	d, err := dateutils.ParseISODate(tx.Date)
	if err != nil {
		return false
	}
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := dateutils.EndOfDay(time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC))
	return !d.Before(startDay) && !d.After(endDay)
}

// SpendingByCategoryPerMonth lists every month touched by [start, end] with
// the expense totals per category, plus the sorted set of categories seen.
func SpendingByCategoryPerMonth(txs []models.Transaction, start, end time.Time) ([]MonthCategorySpending, []string) {
	months := dateutils.MonthsBetween(start, end)
	out := make([]MonthCategorySpending, 0, len(months))
	index := make(map[string]int, len(months))
	for _, m := range months {
		index[m] = len(out)
		out = append(out, MonthCategorySpending{MonthYear: m, Categories: map[string]decimal.Decimal{}})
	}

	seen := make(map[string]struct{})
	for _, tx := range txs {
		if !tx.IsExpense() || !InRange(tx, start, end) {
			continue
		}
		i, ok := index[tx.Date[:len(dateutils.MonthLayout)]]
		if !ok {
			continue
		}
		out[i].Categories[tx.Category] = out[i].Categories[tx.Category].Add(amountOf(tx))
		seen[tx.Category] = struct{}{}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return out, categories
}
