package models

import (
	"fmt"
	"strings"
)

// CategoryKind selects the income or the expense category list.
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// CategoryOther is the catch-all category present in both lists.
const CategoryOther = "Other"

// DefaultExpenseCategories are always available and cannot be deleted.
var DefaultExpenseCategories = []string{
	"Food", "Groceries", "Transport", "Utilities", "Housing", "Entertainment",
	"Health", "Shopping", "Education", "Travel", CategoryOther,
}

// DefaultIncomeCategories are always available and cannot be deleted.
var DefaultIncomeCategories = []string{
	"Salary", "Bonus", "Investment", "Gift", CategoryOther,
}

// ParseCategoryKind accepts "income"/"expense" and the matching transaction
// types.
func ParseCategoryKind(s string) (CategoryKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return CategoryKindIncome, nil
	case "expense":
		return CategoryKindExpense, nil
	}
	return "", fmt.Errorf("unknown category kind '%s': must be income or expense", s)
}

// KindFor maps a transaction type to its category list.
func KindFor(t TransactionType) CategoryKind {
	if t == TransactionTypeIncome {
		return CategoryKindIncome
	}
	return CategoryKindExpense
}

// DefaultCategories returns a copy of the default list for kind.
func DefaultCategories(kind CategoryKind) []string {
	src := DefaultExpenseCategories
	if kind == CategoryKindIncome {
		src = DefaultIncomeCategories
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// IsDefaultCategory reports whether name is a default of kind, ignoring case.
func IsDefaultCategory(kind CategoryKind, name string) bool {
	for _, c := range DefaultCategories(kind) {
		if strings.EqualFold(c, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
