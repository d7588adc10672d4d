package filter

import (
	"testing"

	"fjacquet/clarity-ledger/internal/models"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func fixtures() []models.Transaction {
	return []models.Transaction{
		{ID: "1", Description: "Lunch at Cafe", Category: "Food", Amount: 12.5, Type: models.TransactionTypeExpense, Date: "2024-03-01", Tags: []string{"Work"}},
		{ID: "2", Description: "March salary", Category: "Salary", Amount: 3000, Type: models.TransactionTypeIncome, Date: "2024-03-25"},
		{ID: "3", Description: "Train ticket", Category: "Transport", Amount: 45, Type: models.TransactionTypeExpense, Date: "2024-03-31", Tags: []string{"travel", "work-trip"}},
		{ID: "4", Description: "Groceries", Category: "FOOD", Amount: 80, Type: models.TransactionTypeExpense, Date: "2024-04-01"},
	}
}

func ids(txs []models.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		expected []string
	}{
		{name: "no criteria matches all", criteria: Criteria{}, expected: []string{"1", "2", "3", "4"}},
		{name: "keyword in description", criteria: Criteria{Keyword: "salary"}, expected: []string{"2"}},
		{name: "keyword in category any case", criteria: Criteria{Keyword: "food"}, expected: []string{"1", "4"}},
		{name: "type expense", criteria: Criteria{Type: "EXPENSE"}, expected: []string{"1", "3", "4"}},
		{name: "type all", criteria: Criteria{Type: "all"}, expected: []string{"1", "2", "3", "4"}},
		{name: "end date covers whole day", criteria: Criteria{StartDate: "2024-03-25", EndDate: "2024-03-31"}, expected: []string{"2", "3"}},
		{name: "open ended start", criteria: Criteria{StartDate: "2024-03-31"}, expected: []string{"3", "4"}},
		{name: "amount range inclusive", criteria: Criteria{MinAmount: ptr(12.5), MaxAmount: ptr(80)}, expected: []string{"1", "3", "4"}},
		{name: "tag is whole match ignoring case", criteria: Criteria{Tag: "work"}, expected: []string{"1"}},
		{name: "criteria combine", criteria: Criteria{Keyword: "t", Type: "EXPENSE", MaxAmount: ptr(50)}, expected: []string{"1", "3"}},
		{name: "nothing matches", criteria: Criteria{Keyword: "rent"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Apply(fixtures(), tt.criteria)))
		})
	}
}

func TestCriteria_Validate(t *testing.T) {
	assert.NoError(t, Criteria{}.Validate())
	assert.NoError(t, Criteria{Type: "income", StartDate: "2024-01-01", EndDate: "2024-01-01"}.Validate())
	assert.Error(t, Criteria{Type: "transfer"}.Validate())
	assert.Error(t, Criteria{StartDate: "01/02/2024"}.Validate())
	assert.Error(t, Criteria{StartDate: "2024-02-01", EndDate: "2024-01-01"}.Validate())
	assert.Error(t, Criteria{MinAmount: ptr(10), MaxAmount: ptr(5)}.Validate())
}

func TestCriteria_IsEmpty(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())
	assert.True(t, Criteria{Type: "all", Keyword: "  "}.IsEmpty())
	assert.False(t, Criteria{Tag: "x"}.IsEmpty())
}
