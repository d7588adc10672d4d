package validation_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var vErr *apperror.ValidationError
	require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
	return vErr.Field
}

func TestBudget(t *testing.T) {
	tests := []struct {
		name          string
		category      string
		target        float64
		monthYear     string
		expectedField string
	}{
		{name: "valid", category: "Food", target: 100, monthYear: "2024-03"},
		{name: "blank category", category: " ", target: 100, monthYear: "2024-03", expectedField: "category"},
		{name: "zero target", category: "Food", target: 0, monthYear: "2024-03", expectedField: "targetAmount"},
		{name: "negative target", category: "Food", target: -5, monthYear: "2024-03", expectedField: "targetAmount"},
		{name: "bad month", category: "Food", target: 100, monthYear: "2024-13", expectedField: "monthYear"},
		{name: "day instead of month", category: "Food", target: 100, monthYear: "2024-03-01", expectedField: "monthYear"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Budget(tt.category, tt.target, tt.monthYear)
			if tt.expectedField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.expectedField, fieldOf(t, err))
		})
	}
}

func TestCategoryName(t *testing.T) {
	assert.NoError(t, validation.CategoryName("Pets"))
	assert.Equal(t, "name", fieldOf(t, validation.CategoryName("   ")))
	assert.Error(t, validation.CategoryName(strings.Repeat("x", validation.MaxCategoryNameLength+1)))
	assert.NoError(t, validation.CategoryName(strings.Repeat("寵", validation.MaxCategoryNameLength)))
}

func TestInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "receipt.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0o600))

	assert.NoError(t, validation.InputFile(file))
	assert.Equal(t, "file", fieldOf(t, validation.InputFile(filepath.Join(dir, "missing.png"))))
	assert.Equal(t, "file", fieldOf(t, validation.InputFile(dir)))
	assert.Equal(t, "file", fieldOf(t, validation.InputFile("")))
}

func TestFormats(t *testing.T) {
	assert.NoError(t, validation.ExportFormat("json"))
	assert.NoError(t, validation.ExportFormat("csv"))
	assert.Error(t, validation.ExportFormat("xml"))

	assert.NoError(t, validation.ReportFormat("text"))
	assert.Error(t, validation.ReportFormat("html"))
}
