package models

import (
	"strings"
	"time"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/dateutils"

	"github.com/google/uuid"
)

// TransactionBuilder provides a fluent API for constructing validated
// transactions. The first failing step is remembered and returned by Build.
type TransactionBuilder struct {
	tx  Transaction
	err error
}

// NewTransactionBuilder starts an expense for the default user.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			UserID: DefaultUserID,
			Type:   TransactionTypeExpense,
		},
	}
}

func (b *TransactionBuilder) fail(field, reason string) *TransactionBuilder {
	b.err = &apperror.ValidationError{Field: field, Reason: reason}
	return b
}

// WithID sets the transaction ID. Build generates one when empty.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.ID = strings.TrimSpace(id)
	return b
}

func (b *TransactionBuilder) WithUserID(userID string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if userID != "" {
		b.tx.UserID = userID
	}
	return b
}

func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Description = strings.TrimSpace(description)
	return b
}

// WithAmount sets the amount, which must be strictly positive.
func (b *TransactionBuilder) WithAmount(amount float64) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if amount <= 0 {
		return b.fail("amount", "must be greater than zero")
	}
	b.tx.Amount = amount
	return b
}

// WithType parses INCOME or EXPENSE.
func (b *TransactionBuilder) WithType(transactionType string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	t, err := ParseTransactionType(transactionType)
	if err != nil {
		return b.fail("type", "must be INCOME or EXPENSE")
	}
	b.tx.Type = t
	return b
}

func (b *TransactionBuilder) AsIncome() *TransactionBuilder {
	if b.err == nil {
		b.tx.Type = TransactionTypeIncome
	}
	return b
}

func (b *TransactionBuilder) AsExpense() *TransactionBuilder {
	if b.err == nil {
		b.tx.Type = TransactionTypeExpense
	}
	return b
}

func (b *TransactionBuilder) WithCategory(category string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Category = strings.TrimSpace(category)
	return b
}

// WithDate sets the date from a YYYY-MM-DD string.
func (b *TransactionBuilder) WithDate(dateStr string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	t, err := dateutils.ParseISODate(dateStr)
	if err != nil {
		return b.fail("date", "must be a valid YYYY-MM-DD date")
	}
	b.tx.Date = dateutils.ToISODate(t)
	return b
}

func (b *TransactionBuilder) WithDateFromTime(date time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date.IsZero() {
		return b.fail("date", "must not be empty")
	}
	b.tx.Date = dateutils.ToISODate(date)
	return b
}

// WithTags trims tags and drops empty ones.
func (b *TransactionBuilder) WithTags(tags ...string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Tags = CleanTags(tags)
	return b
}

// Build validates the required fields and returns the transaction.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, b.err
	}
	switch {
	case b.tx.Description == "":
		return Transaction{}, &apperror.ValidationError{Field: "description", Reason: "must not be empty"}
	case b.tx.Amount <= 0:
		return Transaction{}, &apperror.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	case b.tx.Category == "":
		return Transaction{}, &apperror.ValidationError{Field: "category", Reason: "must not be empty"}
	case b.tx.Date == "":
		return Transaction{}, &apperror.ValidationError{Field: "date", Reason: "is required"}
	}
	if b.tx.ID == "" {
		b.tx.ID = uuid.NewString()
	}
	return b.tx, nil
}

// CleanTags trims every tag and drops the empty ones. It returns nil when
// nothing is left.
func CleanTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
