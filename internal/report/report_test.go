package report

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(kind models.TransactionType, category string, amount float64, date string) models.Transaction {
	return models.Transaction{ID: category + date, Type: kind, Category: category, Amount: amount, Date: date}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		tx(models.TransactionTypeIncome, "Salary", 3000, "2024-03-01"),
		tx(models.TransactionTypeExpense, "Food", 0.1, "2024-03-02"),
		tx(models.TransactionTypeExpense, "Food", 0.2, "2024-03-15"),
		tx(models.TransactionTypeExpense, "Housing", 1200, "2024-03-03"),
		tx(models.TransactionTypeExpense, "Transport", 45.5, "2024-02-20"),
		tx(models.TransactionTypeIncome, "Gift", 100, "2024-01-10"),
		tx(models.TransactionTypeExpense, "Food", 80, "2023-12-31"),
	}
}

func TestComputeTotals(t *testing.T) {
	totals := ComputeTotals(sampleTransactions())

	assert.True(t, dec("3100").Equal(totals.Income), "income %s", totals.Income)
	assert.True(t, dec("1325.8").Equal(totals.Expenses), "expenses %s", totals.Expenses)
	assert.True(t, totals.Income.Sub(totals.Expenses).Equal(totals.Balance))
	assert.True(t, dec("1774.2").Equal(totals.Balance))
}

func TestComputeTotals_OrderIndependent(t *testing.T) {
	want := ComputeTotals(sampleTransactions())

	reversed := sampleTransactions()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}

	orders := map[string][]models.Transaction{"reversed": reversed}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		shuffled := sampleTransactions()
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		orders["shuffled-"+string(rune('a'+i))] = shuffled
	}

	for name, txs := range orders {
		t.Run(name, func(t *testing.T) {
			got := ComputeTotals(txs)
			assert.True(t, want.Income.Equal(got.Income), "income %s != %s", got.Income, want.Income)
			assert.True(t, want.Expenses.Equal(got.Expenses), "expenses %s != %s", got.Expenses, want.Expenses)
			assert.True(t, want.Balance.Equal(got.Balance), "balance %s != %s", got.Balance, want.Balance)
		})
	}
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.True(t, totals.Income.IsZero())
	assert.True(t, totals.Expenses.IsZero())
	assert.True(t, totals.Balance.IsZero())
}

func TestExpenseBreakdown(t *testing.T) {
	breakdown := ExpenseBreakdown(sampleTransactions())

	require.Len(t, breakdown, 3)
	assert.Equal(t, "Housing", breakdown[0].Category)
	assert.Equal(t, "Food", breakdown[1].Category)
	assert.True(t, dec("80.3").Equal(breakdown[1].Total))
	assert.Equal(t, "Transport", breakdown[2].Category)
}

func TestExpenseBreakdown_CategoryKeysAreCaseSensitiveAndTiesSortByName(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeExpense, "food", 10, "2024-03-01"),
		tx(models.TransactionTypeExpense, "Food", 10, "2024-03-01"),
	}
	breakdown := ExpenseBreakdown(txs)

	require.Len(t, breakdown, 2)
	assert.Equal(t, "Food", breakdown[0].Category)
	assert.Equal(t, "food", breakdown[1].Category)
}

func TestTopExpenseCategories(t *testing.T) {
	assert.Len(t, TopExpenseCategories(sampleTransactions(), 2), 2)
	assert.Len(t, TopExpenseCategories(sampleTransactions(), 10), 3)
	assert.Empty(t, TopExpenseCategories(sampleTransactions(), 0))
}

func TestEvaluateBudget(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeExpense, "Food", 50, "2024-03-02"),
		tx(models.TransactionTypeExpense, "Food", 35, "2024-03-20"),
		tx(models.TransactionTypeExpense, "Food", 500, "2024-04-01"),
		tx(models.TransactionTypeIncome, "Food", 999, "2024-03-05"),
		tx(models.TransactionTypeExpense, "Groceries", 999, "2024-03-05"),
	}

	tests := []struct {
		name          string
		target        float64
		expectSpent   string
		expectRemain  string
		expectPercent float64
		expectOver    bool
		expectLevel   BudgetLevel
	}{
		{name: "under budget", target: 200, expectSpent: "85", expectRemain: "115", expectPercent: 42.5, expectLevel: BudgetLevelOK},
		{name: "warning band", target: 100, expectSpent: "85", expectRemain: "15", expectPercent: 85, expectLevel: BudgetLevelWarning},
		{name: "exactly reached", target: 85, expectSpent: "85", expectRemain: "0", expectPercent: 100, expectLevel: BudgetLevelOK},
		{name: "overspent caps progress", target: 50, expectSpent: "85", expectRemain: "-35", expectPercent: 100, expectOver: true, expectLevel: BudgetLevelOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := models.Budget{ID: "b1", Category: "Food", TargetAmount: tt.target, MonthYear: "2024-03"}
			status := EvaluateBudget(b, txs)

			assert.True(t, dec(tt.expectSpent).Equal(status.Spent), "spent %s", status.Spent)
			assert.True(t, dec(tt.expectRemain).Equal(status.Remaining), "remaining %s", status.Remaining)
			assert.InDelta(t, tt.expectPercent, status.ProgressPercent, 0.001)
			assert.Equal(t, tt.expectOver, status.Overspent)
			assert.Equal(t, tt.expectLevel, status.Level)
		})
	}
}

func TestEvaluateBudget_ZeroTarget(t *testing.T) {
	status := EvaluateBudget(models.Budget{Category: "Food", MonthYear: "2024-03"}, nil)
	assert.Equal(t, 0.0, status.ProgressPercent)
	assert.False(t, status.Overspent)
	assert.True(t, status.Spent.IsZero())
}

func TestEvaluateBudgets_KeepsOrder(t *testing.T) {
	budgets := []models.Budget{
		{ID: "2", Category: "Transport", TargetAmount: 10, MonthYear: "2024-02"},
		{ID: "1", Category: "Food", TargetAmount: 10, MonthYear: "2024-03"},
	}
	statuses := EvaluateBudgets(budgets, sampleTransactions())

	require.Len(t, statuses, 2)
	assert.Equal(t, "2", statuses[0].Budget.ID)
	assert.Equal(t, BudgetLevelOver, statuses[0].Level)
	assert.Equal(t, "1", statuses[1].Budget.ID)
}

func TestMonthlyTrend(t *testing.T) {
	now := time.Date(2024, time.March, 31, 18, 0, 0, 0, time.UTC)
	trend := MonthlyTrend(sampleTransactions(), now, 6)

	require.Len(t, trend, 6)
	months := make([]string, 0, len(trend))
	for _, p := range trend {
		months = append(months, p.MonthYear)
	}
	assert.Equal(t, []string{"2023-10", "2023-11", "2023-12", "2024-01", "2024-02", "2024-03"}, months)

	assert.True(t, trend[0].Income.IsZero())
	assert.True(t, trend[0].Expenses.IsZero())
	assert.True(t, dec("80").Equal(trend[2].Expenses))
	assert.True(t, dec("100").Equal(trend[3].Income))
	assert.True(t, dec("45.5").Equal(trend[4].Expenses))
	assert.True(t, dec("3000").Equal(trend[5].Income))
	assert.True(t, dec("1200.3").Equal(trend[5].Expenses))
}

func TestMonthlyTrend_DefaultLength(t *testing.T) {
	trend := MonthlyTrend(nil, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 0)
	require.Len(t, trend, DefaultTrendMonths)
	assert.Equal(t, "2023-08", trend[0].MonthYear)
	assert.Equal(t, "2024-01", trend[5].MonthYear)
}

func TestSpendingByCategoryPerMonth(t *testing.T) {
	start := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	byMonth, categories := SpendingByCategoryPerMonth(sampleTransactions(), start, end)

	require.Len(t, byMonth, 2)
	assert.Equal(t, "2024-02", byMonth[0].MonthYear)
	assert.True(t, dec("45.5").Equal(byMonth[0].Categories["Transport"]))
	assert.Equal(t, "2024-03", byMonth[1].MonthYear)
	assert.True(t, dec("0.3").Equal(byMonth[1].Categories["Food"]), "end day is inclusive")
	assert.Equal(t, []string{"Food", "Housing", "Transport"}, categories)
}

func TestDefaultReportRange(t *testing.T) {
	start, end := DefaultReportRange(time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-01", start.Format("2006-01-02"))
	assert.Equal(t, "2024-02-29", end.Format("2006-01-02"))
}

func TestBuildRangeReport(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	r := BuildRangeReport(sampleTransactions(), start, end, DefaultTopCategories)

	assert.Equal(t, "2024-03-01", r.Start)
	assert.Equal(t, "2024-03-31", r.End)
	assert.True(t, dec("3000").Equal(r.Totals.Income))
	assert.True(t, dec("1200.3").Equal(r.Totals.Expenses))
	require.Len(t, r.TopCategories, 2)
	assert.Equal(t, "Housing", r.TopCategories[0].Category)
	assert.Equal(t, []string{"Food", "Housing"}, r.Categories)
}

func TestBuildSummary(t *testing.T) {
	now := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	budgets := []models.Budget{
		{ID: "b1", Category: "Food", TargetAmount: 100, MonthYear: "2024-03"},
		{ID: "b2", Category: "Food", TargetAmount: 100, MonthYear: "2024-02"},
	}

	s := BuildSummary(sampleTransactions(), budgets, now, 3)

	assert.Equal(t, "2024-03", s.GeneratedFor)
	assert.Len(t, s.Trend, 3)
	require.Len(t, s.Budgets, 1)
	assert.Equal(t, "b1", s.Budgets[0].Budget.ID)
}

func TestGenerator_Render(t *testing.T) {
	usd, _ := models.LookupCurrency("USD")
	g := NewGenerator(logging.NewMockLogger(), usd)
	now := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	s := BuildSummary(sampleTransactions(), []models.Budget{{Category: "Food", TargetAmount: 100, MonthYear: "2024-03"}}, now, 2)

	text, err := g.RenderSummary(s, "text")
	require.NoError(t, err)
	assert.Contains(t, string(text), "Summary for 2024-03")
	assert.Contains(t, string(text), "$3,100.00")
	assert.Contains(t, string(text), "Housing")

	raw, err := g.RenderSummary(s, "json")
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "2024-03", decoded["generatedFor"])

	r := BuildRangeReport(sampleTransactions(), now.AddDate(0, -1, 0), now, 5)
	text, err = g.RenderRange(r, "text")
	require.NoError(t, err)
	assert.Contains(t, string(text), "Top categories")

	_, err = g.RenderRange(r, "xml")
	assert.Error(t, err)
	_, err = g.RenderSummary(s, "yaml")
	assert.Error(t, err)
}
