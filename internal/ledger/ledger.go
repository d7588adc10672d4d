// Package ledger is the service layer over the stored transactions,
// budgets and custom categories of the local user.
package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/filter"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/report"
	"fjacquet/clarity-ledger/internal/store"

	"github.com/google/uuid"
)

// Service owns every mutation of the user's ledger. Callers are expected to
// serialize writes; the service itself does not lock.
type Service struct {
	userID       string
	transactions *store.TransactionRepository
	budgets      *store.BudgetRepository
	categories   *store.CategoryRepository
	logger       logging.Logger
	now          func() time.Time
	newID        func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a Service storing data for userID in kv.
func NewService(kv store.KeyValueStore, userID string, logger logging.Logger, opts ...Option) *Service {
	if userID == "" {
		userID = models.DefaultUserID
	}
	s := &Service{
		userID:       userID,
		transactions: store.NewTransactionRepository(kv, userID),
		budgets:      store.NewBudgetRepository(kv, userID),
		categories:   store.NewCategoryRepository(kv, userID),
		logger:       logging.OrDiscard(logger).WithField(logging.FieldComponent, "Ledger"),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserID returns the user the service is scoped to.
func (s *Service) UserID() string {
	return s.userID
}

// NewID returns a fresh identifier.
func (s *Service) NewID() string {
	return s.newID()
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// ListTransactions returns every transaction, newest date first.
func (s *Service) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(txs)
	return txs, nil
}

// FilterTransactions lists the transactions matching c, newest first.
func (s *Service) FilterTransactions(ctx context.Context, c filter.Criteria) ([]models.Transaction, error) {
	if err := c.Validate(); err != nil {
		return nil, &apperror.ValidationError{Field: "filter", Reason: err.Error()}
	}
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(txs, c), nil
}

// GetTransaction returns the transaction with id.
func (s *Service) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return models.Transaction{}, &apperror.NotFoundError{Entity: "transaction", ID: id}
}

// AddTransaction validates tx, assigns it an id and stores it.
func (s *Service) AddTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	tx.ID = ""
	built, err := s.build(tx)
	if err != nil {
		return models.Transaction{}, err
	}

	txs, err := s.transactions.List(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	txs = append(txs, built)
	if err := s.transactions.ReplaceAll(ctx, txs); err != nil {
		return models.Transaction{}, err
	}

	s.logger.Info("Added transaction",
		logging.F(logging.FieldTransactionID, built.ID),
		logging.F(logging.FieldCategory, built.Category))
	return built, nil
}

// UpdateTransaction replaces the stored transaction carrying tx.ID.
func (s *Service) UpdateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.ID == "" {
		return models.Transaction{}, &apperror.ValidationError{Field: "id", Reason: "is required"}
	}
	built, err := s.build(tx)
	if err != nil {
		return models.Transaction{}, err
	}

	txs, err := s.transactions.List(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	idx := indexOfTransaction(txs, tx.ID)
	if idx < 0 {
		return models.Transaction{}, &apperror.NotFoundError{Entity: "transaction", ID: tx.ID}
	}
	txs[idx] = built
	if err := s.transactions.ReplaceAll(ctx, txs); err != nil {
		return models.Transaction{}, err
	}

	s.logger.Info("Updated transaction", logging.F(logging.FieldTransactionID, built.ID))
	return built, nil
}

// DeleteTransaction removes the transaction with id.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return err
	}
	idx := indexOfTransaction(txs, id)
	if idx < 0 {
		return &apperror.NotFoundError{Entity: "transaction", ID: id}
	}
	txs = append(txs[:idx], txs[idx+1:]...)
	if err := s.transactions.ReplaceAll(ctx, txs); err != nil {
		return err
	}
	s.logger.Info("Deleted transaction", logging.F(logging.FieldTransactionID, id))
	return nil
}

// ReplaceTransactions overwrites the stored transaction list with txs.
func (s *Service) ReplaceTransactions(ctx context.Context, txs []models.Transaction) error {
	for i := range txs {
		txs[i].UserID = s.userID
	}
	if err := s.transactions.ReplaceAll(ctx, txs); err != nil {
		return err
	}
	s.logger.Info("Replaced transactions", logging.F(logging.FieldCount, len(txs)))
	return nil
}

// Summary aggregates the whole ledger for the current month.
func (s *Service) Summary(ctx context.Context, trendMonths int) (report.Summary, error) {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return report.Summary{}, err
	}
	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return report.Summary{}, err
	}
	return report.BuildSummary(txs, budgets, s.now(), trendMonths), nil
}

// RangeReport aggregates the transactions dated within [start, end].
func (s *Service) RangeReport(ctx context.Context, start, end time.Time, top int) (report.RangeReport, error) {
	if end.Before(start) {
		return report.RangeReport{}, &apperror.ValidationError{Field: "end", Reason: "must not be before start"}
	}
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return report.RangeReport{}, err
	}
	return report.BuildRangeReport(txs, start, end, top), nil
}

func (s *Service) build(tx models.Transaction) (models.Transaction, error) {
	b := models.NewTransactionBuilder().
		WithUserID(s.userID).
		WithDescription(tx.Description).
		WithAmount(tx.Amount).
		WithType(string(tx.Type)).
		WithCategory(tx.Category).
		WithDate(tx.Date).
		WithTags(tx.Tags...)
	if tx.ID != "" {
		b = b.WithID(tx.ID)
	} else {
		b = b.WithID(s.newID())
	}
	return b.Build()
}

func indexOfTransaction(txs []models.Transaction, id string) int {
	for i, tx := range txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func sortNewestFirst(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return strings.Compare(txs[i].Date, txs[j].Date) > 0
	})
}
