// Package filter implements the transaction search used by the list views.
package filter

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/clarity-ledger/internal/dateutils"
	"fjacquet/clarity-ledger/internal/models"
)

// TypeAll matches both income and expenses.
const TypeAll = "all"

// Criteria narrows a transaction list. Zero-valued fields impose no
// constraint; every supplied field must match.
type Criteria struct {
	// Keyword is matched case-insensitively against description or category.
	Keyword string `form:"keyword" json:"keyword"`
	// Type is "", "all", INCOME or EXPENSE.
	Type string `form:"type" json:"type"`
	// StartDate and EndDate are inclusive YYYY-MM-DD bounds.
	StartDate string   `form:"startDate" json:"startDate"`
	EndDate   string   `form:"endDate" json:"endDate"`
	MinAmount *float64 `form:"minAmount" json:"minAmount"`
	MaxAmount *float64 `form:"maxAmount" json:"maxAmount"`
	// Tag is matched case-insensitively against whole tags.
	Tag string `form:"tag" json:"tag"`
}

// Validate rejects malformed criteria before they are applied.
func (c Criteria) Validate() error {
	if _, err := c.transactionType(); err != nil {
		return err
	}
	start, err := parseBound(c.StartDate, "startDate")
	if err != nil {
		return err
	}
	end, err := parseBound(c.EndDate, "endDate")
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("endDate %s is before startDate %s", c.EndDate, c.StartDate)
	}
	if c.MinAmount != nil && c.MaxAmount != nil && *c.MaxAmount < *c.MinAmount {
		return fmt.Errorf("maxAmount %.2f is below minAmount %.2f", *c.MaxAmount, *c.MinAmount)
	}
	return nil
}

// IsEmpty reports whether the criteria match everything.
func (c Criteria) IsEmpty() bool {
	t, _ := c.transactionType()
	return strings.TrimSpace(c.Keyword) == "" && t == "" && c.StartDate == "" && c.EndDate == "" &&
		c.MinAmount == nil && c.MaxAmount == nil && strings.TrimSpace(c.Tag) == ""
}

// Matches reports whether tx satisfies every supplied criterion. Criteria
// that fail to parse are treated as absent; call Validate first to reject
// them instead.
func (c Criteria) Matches(tx models.Transaction) bool {
	if kw := strings.ToLower(strings.TrimSpace(c.Keyword)); kw != "" {
		if !strings.Contains(strings.ToLower(tx.Description), kw) &&
			!strings.Contains(strings.ToLower(tx.Category), kw) {
			return false
		}
	}

	if t, err := c.transactionType(); err == nil && t != "" && tx.Type != t {
		return false
	}

	if c.StartDate != "" || c.EndDate != "" {
		date, err := dateutils.ParseISODate(tx.Date)
		if err != nil {
			return false
		}
		if start, err := parseBound(c.StartDate, "startDate"); err == nil && !start.IsZero() && date.Before(start) {
			return false
		}
		if end, err := parseBound(c.EndDate, "endDate"); err == nil && !end.IsZero() && date.After(dateutils.EndOfDay(end)) {
			return false
		}
	}

	if c.MinAmount != nil && tx.Amount < *c.MinAmount {
		return false
	}
	if c.MaxAmount != nil && tx.Amount > *c.MaxAmount {
		return false
	}

	if tag := strings.TrimSpace(c.Tag); tag != "" && !tx.HasTag(tag) {
		return false
	}
	return true
}

// Apply returns the transactions matching c, preserving order.
func Apply(txs []models.Transaction, c Criteria) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if c.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func (c Criteria) transactionType() (models.TransactionType, error) {
	raw := strings.TrimSpace(c.Type)
	if raw == "" || strings.EqualFold(raw, TypeAll) {
		return "", nil
	}
	t, err := models.ParseTransactionType(raw)
	if err != nil {
		return "", fmt.Errorf("invalid type filter: %w", err)
	}
	return t, nil
}

func parseBound(value, name string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := dateutils.ParseISODate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return t, nil
}
