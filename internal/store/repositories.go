package store

import (
	"context"

	"fjacquet/clarity-ledger/internal/models"
)

// TransactionRepository reads and writes one user's transaction list.
type TransactionRepository struct {
	kv  KeyValueStore
	key string
}

func NewTransactionRepository(kv KeyValueStore, userID string) *TransactionRepository {
	return &TransactionRepository{kv: kv, key: TransactionsKey(userID)}
}

func (r *TransactionRepository) List(ctx context.Context) ([]models.Transaction, error) {
	return LoadList[models.Transaction](ctx, r.kv, r.key)
}

// ReplaceAll overwrites the whole list.
func (r *TransactionRepository) ReplaceAll(ctx context.Context, txs []models.Transaction) error {
	return SaveList(ctx, r.kv, r.key, txs)
}

// BudgetRepository reads and writes one user's budget list.
type BudgetRepository struct {
	kv  KeyValueStore
	key string
}

func NewBudgetRepository(kv KeyValueStore, userID string) *BudgetRepository {
	return &BudgetRepository{kv: kv, key: BudgetsKey(userID)}
}

func (r *BudgetRepository) List(ctx context.Context) ([]models.Budget, error) {
	return LoadList[models.Budget](ctx, r.kv, r.key)
}

func (r *BudgetRepository) ReplaceAll(ctx context.Context, budgets []models.Budget) error {
	return SaveList(ctx, r.kv, r.key, budgets)
}

// CategoryRepository stores a user's custom income and expense categories.
type CategoryRepository struct {
	kv     KeyValueStore
	userID string
}

func NewCategoryRepository(kv KeyValueStore, userID string) *CategoryRepository {
	return &CategoryRepository{kv: kv, userID: userID}
}

func (r *CategoryRepository) List(ctx context.Context, kind models.CategoryKind) ([]string, error) {
	return LoadList[string](ctx, r.kv, CustomCategoriesKey(r.userID, kind))
}

func (r *CategoryRepository) ReplaceAll(ctx context.Context, kind models.CategoryKind, names []string) error {
	return SaveList(ctx, r.kv, CustomCategoriesKey(r.userID, kind), names)
}
