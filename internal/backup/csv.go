package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fjacquet/clarity-ledger/internal/models"

	"github.com/gocarina/gocsv"
)

// TagSeparator joins tags inside the single CSV tags column.
const TagSeparator = "|"

// csvRow is the flat CSV layout of a transaction.
type csvRow struct {
	ID          string `csv:"ID"`
	Date        string `csv:"Date"`
	Type        string `csv:"Type"`
	Category    string `csv:"Category"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Tags        string `csv:"Tags"`
}

// WriteCSV writes txs as CSV with a header row using delimiter.
func WriteCSV(w io.Writer, txs []models.Transaction, delimiter rune) error {
	if txs == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}
	rows := make([]csvRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, csvRow{
			ID:          tx.ID,
			Date:        tx.Date,
			Type:        string(tx.Type),
			Category:    tx.Category,
			Description: tx.Description,
			Amount:      strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			Tags:        strings.Join(tx.Tags, TagSeparator),
		})
	}

	csvWriter := csv.NewWriter(w)
	if delimiter != 0 {
		csvWriter.Comma = delimiter
	}
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// ReadCSV parses a CSV written by WriteCSV back into transactions.
func ReadCSV(r io.Reader, delimiter rune) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	var rows []csvRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	txs := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		amount, err := strconv.ParseFloat(strings.TrimSpace(row.Amount), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q: %w", i+1, row.Amount, err)
		}
		var tags []string
		if row.Tags != "" {
			tags = models.CleanTags(strings.Split(row.Tags, TagSeparator))
		}
		txs = append(txs, models.Transaction{
			ID:          row.ID,
			Date:        row.Date,
			Type:        models.TransactionType(row.Type),
			Category:    row.Category,
			Description: row.Description,
			Amount:      amount,
			Tags:        tags,
		})
	}
	return txs, nil
}
