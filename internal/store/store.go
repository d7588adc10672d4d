// Package store is the persistence boundary of the ledger. Everything is
// kept as JSON documents under string keys; the backends differ only in
// where those documents live.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"fjacquet/clarity-ledger/internal/models"
)

// KeyValueStore loads and saves opaque documents by key.
type KeyValueStore interface {
	// Load returns the document stored under key. found is false when the
	// key has never been saved.
	Load(ctx context.Context, key string) (data []byte, found bool, err error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const keyPrefix = "clarityCoin"

// TransactionsKey is the key of a user's transaction list.
func TransactionsKey(userID string) string {
	return keyPrefix + "Transactions_" + userID
}

// BudgetsKey is the key of a user's budget list.
func BudgetsKey(userID string) string {
	return keyPrefix + "Budgets_" + userID
}

// CustomCategoriesKey is the key of a user's custom categories of kind.
func CustomCategoriesKey(userID string, kind models.CategoryKind) string {
	if kind == models.CategoryKindIncome {
		return keyPrefix + "CustomIncomeCategories_" + userID
	}
	return keyPrefix + "CustomExpenseCategories_" + userID
}

// LoadList decodes the JSON array under key. A missing key is an empty list.
func LoadList[T any](ctx context.Context, kv KeyValueStore, key string) ([]T, error) {
	data, found, err := kv.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !found || len(data) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveList replaces the document under key with items.
func SaveList[T any](ctx context.Context, kv KeyValueStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Save(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
