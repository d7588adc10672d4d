package report

import (
	"fjacquet/clarity-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// BudgetLevel is the consumption state shown next to a budget.
type BudgetLevel string

const (
	BudgetLevelOK      BudgetLevel = "ok"
	BudgetLevelWarning BudgetLevel = "warning"
	BudgetLevelOver    BudgetLevel = "over"
)

// WarningThresholdPercent is the progress from which a budget is flagged.
const WarningThresholdPercent = 80

var hundred = decimal.NewFromInt(100)

// BudgetStatus is a budget together with what has been spent against it.
type BudgetStatus struct {
	Budget          models.Budget   `json:"budget"`
	Spent           decimal.Decimal `json:"spent"`
	Remaining       decimal.Decimal `json:"remaining"`
	Overspent       bool            `json:"overspent"`
	ProgressPercent float64         `json:"progressPercent"`
	Level           BudgetLevel     `json:"level"`
}

// SpentForBudget sums the expenses of the budget's category in its month.
func SpentForBudget(b models.Budget, txs []models.Transaction) decimal.Decimal {
	spent := decimal.Zero
	for _, tx := range txs {
		if tx.IsExpense() && tx.Category == b.Category && tx.InMonth(b.MonthYear) {
			spent = spent.Add(amountOf(tx))
		}
	}
	return spent
}

// EvaluateBudget computes spent, remaining and progress for one budget.
// Progress is capped at 100; Remaining goes negative when overspent.
func EvaluateBudget(b models.Budget, txs []models.Transaction) BudgetStatus {
	spent := SpentForBudget(b, txs)
	target := decimal.NewFromFloat(b.TargetAmount)

	progress := decimal.Zero
	if target.IsPositive() {
		progress = decimal.Min(spent.Div(target).Mul(hundred), hundred)
	}
	percent := progress.Round(2).InexactFloat64()
	overspent := spent.GreaterThan(target)

	level := BudgetLevelOK
	switch {
	case overspent:
		level = BudgetLevelOver
	case percent >= WarningThresholdPercent && percent < 100:
		level = BudgetLevelWarning
	}

	return BudgetStatus{
		Budget:          b,
		Spent:           spent,
		Remaining:       target.Sub(spent),
		Overspent:       overspent,
		ProgressPercent: percent,
		Level:           level,
	}
}

// EvaluateBudgets evaluates each budget, keeping the input order.
func EvaluateBudgets(budgets []models.Budget, txs []models.Transaction) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, EvaluateBudget(b, txs))
	}
	return out
}
