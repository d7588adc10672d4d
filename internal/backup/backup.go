// Package backup moves the transaction list in and out of the ledger: an
// indented JSON export, a validated JSON import and a flat CSV export.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/dateutils"
	"fjacquet/clarity-ledger/internal/models"
)

// ExportFileName returns the download name used for a JSON export made on day.
func ExportFileName(day time.Time) string {
	return fmt.Sprintf("claritycoin_backup_%s.json", dateutils.ToISODate(day))
}

type exportRecord struct {
	ID          string                 `json:"id"`
	Description string                 `json:"description"`
	Amount      float64                `json:"amount"`
	Type        models.TransactionType `json:"type"`
	Category    string                 `json:"category"`
	Date        string                 `json:"date"`
	Tags        []string               `json:"tags,omitempty"`
}

// ExportJSON renders txs as an indented JSON array. The owning user id is
// not part of the document.
func ExportJSON(txs []models.Transaction) ([]byte, error) {
	records := make([]exportRecord, 0, len(txs))
	for _, tx := range txs {
		records = append(records, exportRecord{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Category:    tx.Category,
			Date:        tx.Date,
			Tags:        tx.Tags,
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// ParseImport validates a JSON export and converts it into transactions
// owned by userID. Either every record is valid and all of them are
// returned, or an *apperror.ImportError lists every problem found. newID
// supplies ids for records that carry none.
func ParseImport(data []byte, userID string, newID func() string) ([]models.Transaction, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return nil, &apperror.ImportError{Reason: "document must be a JSON array of transactions"}
	}

	var issues []apperror.ImportIssue
	txs := make([]models.Transaction, 0, len(raw))
	for i, item := range raw {
		tx, recordIssues := parseRecord(i, item)
		if len(recordIssues) > 0 {
			issues = append(issues, recordIssues...)
			continue
		}
		tx.UserID = userID
		if tx.ID == "" {
			tx.ID = newID()
		}
		txs = append(txs, tx)
	}
	if len(issues) > 0 {
		return nil, &apperror.ImportError{Issues: issues}
	}
	return txs, nil
}

func parseRecord(index int, item json.RawMessage) (models.Transaction, []apperror.ImportIssue) {
	var fields map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return models.Transaction{}, []apperror.ImportIssue{{Index: index, Field: "record", Reason: "must be an object"}}
	}

	var issues []apperror.ImportIssue
	fail := func(field, reason string) {
		issues = append(issues, apperror.ImportIssue{Index: index, Field: field, Reason: reason})
	}

	var tx models.Transaction

	if id, ok := fields["id"].(string); ok {
		tx.ID = strings.TrimSpace(id)
	}

	if s, ok := fields["description"].(string); !ok || strings.TrimSpace(s) == "" {
		fail("description", "must be a non-empty string")
	} else {
		tx.Description = strings.TrimSpace(s)
	}

	if n, ok := fields["amount"].(json.Number); !ok {
		fail("amount", "must be a number")
	} else if v, err := n.Float64(); err != nil || v <= 0 {
		fail("amount", "must be greater than zero")
	} else {
		tx.Amount = v
	}

	if s, ok := fields["type"].(string); !ok || !models.TransactionType(s).IsValid() {
		fail("type", "must be INCOME or EXPENSE")
	} else {
		tx.Type = models.TransactionType(s)
	}

	if s, ok := fields["category"].(string); !ok || strings.TrimSpace(s) == "" {
		fail("category", "must be a non-empty string")
	} else {
		tx.Category = strings.TrimSpace(s)
	}

	if s, ok := fields["date"].(string); !ok {
		fail("date", "must be a string")
	} else if day, err := dateutils.NormalizeDate(s); err != nil {
		fail("date", "must be a valid date")
	} else {
		tx.Date = day
	}

	if list, ok := fields["tags"].([]interface{}); ok {
		tags := make([]string, 0, len(list))
		for _, tag := range list {
			tags = append(tags, fmt.Sprint(tag))
		}
		tx.Tags = models.CleanTags(tags)
	}

	return tx, issues
}
