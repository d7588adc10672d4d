// Package models contains the ledger's data types.
package models

import (
	"fmt"
	"strings"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid reports whether t is INCOME or EXPENSE.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// ParseTransactionType accepts INCOME/EXPENSE in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown transaction type '%s': must be INCOME or EXPENSE", s)
	}
	return t, nil
}

// Transaction is a single income or expense entry. Amount is always
// positive; Type carries the direction. Date is a YYYY-MM-DD day.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId,omitempty"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Tags        []string        `json:"tags,omitempty"`
}

// IsIncome reports whether the transaction adds to the balance.
func (t Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsExpense reports whether the transaction is spending.
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// InMonth reports whether the transaction date falls in the YYYY-MM month.
func (t Transaction) InMonth(monthYear string) bool {
	return strings.HasPrefix(t.Date, monthYear)
}

// HasTag reports whether the transaction carries tag, ignoring case.
func (t Transaction) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}
