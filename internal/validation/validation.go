// Package validation checks user input before it reaches the ledger.
// Every failure is an *apperror.ValidationError naming the offending field.
package validation

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/dateutils"
)

// MaxCategoryNameLength bounds custom category names.
const MaxCategoryNameLength = 50

func invalid(field, reason string) error {
	return &apperror.ValidationError{Field: field, Reason: reason}
}

// Budget validates the fields of a budget entry.
func Budget(category string, targetAmount float64, monthYear string) error {
	if strings.TrimSpace(category) == "" {
		return invalid("category", "must not be empty")
	}
	if targetAmount <= 0 {
		return invalid("targetAmount", "must be greater than zero")
	}
	return MonthYear(monthYear)
}

// MonthYear validates a YYYY-MM key.
func MonthYear(monthYear string) error {
	if _, err := dateutils.ParseMonthYear(monthYear); err != nil {
		return invalid("monthYear", "must be a valid YYYY-MM month")
	}
	return nil
}

// CategoryName validates a custom category name.
func CategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "must not be empty")
	}
	if len([]rune(name)) > MaxCategoryNameLength {
		return invalid("name", fmt.Sprintf("must be at most %d characters", MaxCategoryNameLength))
	}
	return nil
}

// InputFile checks that path names an existing regular file.
func InputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return invalid("file", "path must not be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return invalid("file", fmt.Sprintf("path does not exist: %s", path))
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return invalid("file", fmt.Sprintf("%s is not a regular file", path))
	}
	return nil
}

// ExportFormat checks that format is a supported export format.
func ExportFormat(format string) error {
	switch format {
	case "json", "csv":
		return nil
	default:
		return invalid("format", fmt.Sprintf("unsupported export format: %s. Supported formats are 'json', 'csv'", format))
	}
}

// ReportFormat checks that format is a supported report rendering.
func ReportFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	default:
		return invalid("format", fmt.Sprintf("unsupported report format: %s. Supported formats are 'text', 'json'", format))
	}
}
