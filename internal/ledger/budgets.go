package ledger

import (
	"context"
	"sort"
	"strings"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/report"
	"fjacquet/clarity-ledger/internal/validation"
)

// ListBudgets returns every budget ordered by month (newest first) then
// category.
func (s *Service) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(budgets, func(i, j int) bool {
		if budgets[i].MonthYear != budgets[j].MonthYear {
			return budgets[i].MonthYear > budgets[j].MonthYear
		}
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

// BudgetsForMonth returns the budgets of monthYear.
func (s *Service) BudgetsForMonth(ctx context.Context, monthYear string) ([]models.Budget, error) {
	if err := validation.MonthYear(monthYear); err != nil {
		return nil, err
	}
	budgets, err := s.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Budget{}
	for _, b := range budgets {
		if b.MonthYear == monthYear {
			out = append(out, b)
		}
	}
	return out, nil
}

// BudgetForCategoryAndMonth returns the budget of category in monthYear.
func (s *Service) BudgetForCategoryAndMonth(ctx context.Context, category, monthYear string) (models.Budget, bool, error) {
	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return models.Budget{}, false, err
	}
	for _, b := range budgets {
		if b.MonthYear == monthYear && b.Category == category {
			return b, true, nil
		}
	}
	return models.Budget{}, false, nil
}

// AddBudget validates and stores a new budget. A second budget for the same
// category and month is rejected.
func (s *Service) AddBudget(ctx context.Context, category string, targetAmount float64, monthYear string) (models.Budget, error) {
	category = strings.TrimSpace(category)
	if err := validation.Budget(category, targetAmount, monthYear); err != nil {
		return models.Budget{}, err
	}

	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return models.Budget{}, err
	}
	if conflict(budgets, category, monthYear, "") {
		return models.Budget{}, &apperror.DuplicateBudgetError{Category: category, MonthYear: monthYear}
	}

	b := models.Budget{
		ID:           s.newID(),
		UserID:       s.userID,
		Category:     category,
		TargetAmount: targetAmount,
		MonthYear:    monthYear,
	}
	if err := s.budgets.ReplaceAll(ctx, append(budgets, b)); err != nil {
		return models.Budget{}, err
	}

	s.logger.Info("Added budget",
		logging.F(logging.FieldBudgetID, b.ID),
		logging.F(logging.FieldCategory, b.Category),
		logging.F(logging.FieldMonthYear, b.MonthYear))
	return b, nil
}

// UpdateBudget replaces the budget carrying b.ID.
func (s *Service) UpdateBudget(ctx context.Context, b models.Budget) (models.Budget, error) {
	b.Category = strings.TrimSpace(b.Category)
	if err := validation.Budget(b.Category, b.TargetAmount, b.MonthYear); err != nil {
		return models.Budget{}, err
	}

	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return models.Budget{}, err
	}
	idx := -1
	for i := range budgets {
		if budgets[i].ID == b.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Budget{}, &apperror.NotFoundError{Entity: "budget", ID: b.ID}
	}
	if conflict(budgets, b.Category, b.MonthYear, b.ID) {
		return models.Budget{}, &apperror.DuplicateBudgetError{Category: b.Category, MonthYear: b.MonthYear}
	}

	b.UserID = s.userID
	budgets[idx] = b
	if err := s.budgets.ReplaceAll(ctx, budgets); err != nil {
		return models.Budget{}, err
	}
	s.logger.Info("Updated budget", logging.F(logging.FieldBudgetID, b.ID))
	return b, nil
}

// DeleteBudget removes the budget with id.
func (s *Service) DeleteBudget(ctx context.Context, id string) error {
	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return err
	}
	for i := range budgets {
		if budgets[i].ID == id {
			budgets = append(budgets[:i], budgets[i+1:]...)
			if err := s.budgets.ReplaceAll(ctx, budgets); err != nil {
				return err
			}
			s.logger.Info("Deleted budget", logging.F(logging.FieldBudgetID, id))
			return nil
		}
	}
	return &apperror.NotFoundError{Entity: "budget", ID: id}
}

// BudgetStatuses evaluates the budgets of monthYear against the stored
// transactions.
func (s *Service) BudgetStatuses(ctx context.Context, monthYear string) ([]report.BudgetStatus, error) {
	budgets, err := s.BudgetsForMonth(ctx, monthYear)
	if err != nil {
		return nil, err
	}
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.EvaluateBudgets(budgets, txs), nil
}

func conflict(budgets []models.Budget, category, monthYear, exceptID string) bool {
	for _, b := range budgets {
		if b.ID != exceptID && b.Category == category && b.MonthYear == monthYear {
			return true
		}
	}
	return false
}
