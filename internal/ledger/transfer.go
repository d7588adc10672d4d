package ledger

import (
	"context"
	"io"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/backup"
	"fjacquet/clarity-ledger/internal/logging"
)

// ExportJSON renders the whole transaction list as a backup document.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return backup.ExportJSON(txs)
}

// ExportCSV writes the whole transaction list as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, delimiter rune) error {
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return err
	}
	return backup.WriteCSV(w, txs, delimiter)
}

// ImportTransactions validates a backup document and, only if every record
// is valid, replaces the stored transactions with its contents. It returns
// the number of imported transactions.
func (s *Service) ImportTransactions(ctx context.Context, data []byte) (int, error) {
	txs, err := backup.ParseImport(data, s.userID, s.newID)
	if err != nil {
		s.logger.WithError(err).Warn("Rejected import")
		return 0, err
	}
	if err := s.ReplaceTransactions(ctx, txs); err != nil {
		return 0, err
	}
	s.logger.Info("Imported transactions", logging.F(logging.FieldCount, len(txs)))
	return len(txs), nil
}

// ImportCSV reads a CSV export and imports it with the same all-or-nothing
// validation as ImportTransactions.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, delimiter rune) (int, error) {
	txs, err := backup.ReadCSV(r, delimiter)
	if err != nil {
		s.logger.WithError(err).Warn("Rejected import")
		return 0, &apperror.ImportError{Reason: err.Error()}
	}
	data, err := backup.ExportJSON(txs)
	if err != nil {
		return 0, err
	}
	return s.ImportTransactions(ctx, data)
}
