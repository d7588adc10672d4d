package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KeyValueStore {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]KeyValueStore{
		BackendMemory: NewMemoryStore(),
		BackendFile:   fs,
		BackendSQLite: sq,
	}
}

func TestKeyValueStore_LoadSave(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := kv.Load(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, kv.Save(ctx, "k1", []byte(`[1,2]`)))
			data, found, err := kv.Load(ctx, "k1")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[1,2]`, string(data))

			require.NoError(t, kv.Save(ctx, "k1", []byte(`[3]`)))
			data, _, err = kv.Load(ctx, "k1")
			require.NoError(t, err)
			assert.Equal(t, `[3]`, string(data))
		})
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "clarityCoinTransactions_u1", TransactionsKey("u1"))
	assert.Equal(t, "clarityCoinBudgets_u1", BudgetsKey("u1"))
	assert.Equal(t, "clarityCoinCustomIncomeCategories_u1", CustomCategoriesKey("u1", models.CategoryKindIncome))
	assert.Equal(t, "clarityCoinCustomExpenseCategories_u1", CustomCategoriesKey("u1", models.CategoryKindExpense))
}

func TestLoadList_MissingKeyIsEmpty(t *testing.T) {
	items, err := LoadList[models.Transaction](context.Background(), NewMemoryStore(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestLoadList_CorruptDocument(t *testing.T) {
	kv := NewMemoryStore()
	require.NoError(t, kv.Save(context.Background(), "bad", []byte("{not json")))
	_, err := LoadList[models.Budget](context.Background(), kv, "bad")
	assert.Error(t, err)
}

func TestSaveList_NilIsEmptyArray(t *testing.T) {
	kv := NewMemoryStore()
	require.NoError(t, SaveList[models.Budget](context.Background(), kv, "b", nil))
	data, found, err := kv.Load(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", string(data))
}

func TestFileStore_SanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, fs.Save(context.Background(), "a/b:c", []byte("x")))

	_, err = os.Stat(filepath.Join(dir, "a_b_c.json"))
	assert.NoError(t, err)
	assert.Equal(t, dir, fs.Dir())
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), "k", []byte("v")))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	data, found, err := reopened.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", string(data))
}

func TestOpen(t *testing.T) {
	logger := logging.NewMockLogger()
	tests := []struct {
		backend string
		wantErr bool
	}{
		{BackendMemory, false},
		{BackendFile, false},
		{"", false},
		{BackendSQLite, false},
		{"redis", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			kv, err := Open(tt.backend, t.TempDir(), logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, kv.Close())
		})
	}
}

func TestRepositories_ScopedByUser(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()

	alice := NewTransactionRepository(kv, "alice")
	bob := NewTransactionRepository(kv, "bob")
	require.NoError(t, alice.ReplaceAll(ctx, []models.Transaction{{ID: "t1", Description: "Coffee", Amount: 3, Type: models.TransactionTypeExpense, Category: "Food", Date: "2024-01-02"}}))

	got, err := alice.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Coffee", got[0].Description)

	other, err := bob.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, other)

	budgets := NewBudgetRepository(kv, "alice")
	require.NoError(t, budgets.ReplaceAll(ctx, []models.Budget{{ID: "b1", Category: "Food", TargetAmount: 100, MonthYear: "2024-01"}}))
	bs, err := budgets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, bs, 1)

	cats := NewCategoryRepository(kv, "alice")
	require.NoError(t, cats.ReplaceAll(ctx, models.CategoryKindExpense, []string{"Pets"}))
	exp, err := cats.List(ctx, models.CategoryKindExpense)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pets"}, exp)
	inc, err := cats.List(ctx, models.CategoryKindIncome)
	require.NoError(t, err)
	assert.Empty(t, inc)
}
