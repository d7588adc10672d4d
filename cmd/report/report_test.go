package report_test

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/clarity-ledger/cmd/cmdtest"
	reportcmd "fjacquet/clarity-ledger/cmd/report"
	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/cmd/tx"
	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/container"
	"fjacquet/clarity-ledger/internal/ledger"
	"fjacquet/clarity-ledger/internal/report"
)

func TestMain(m *testing.M) {
	root.Init()
	root.Cmd.AddCommand(reportcmd.Cmd, tx.Cmd)
	os.Exit(m.Run())
}

func seeded(t *testing.T) *cmdtest.Env {
	t.Helper()
	now := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	env := cmdtest.New(t, container.WithLedgerOptions(ledger.WithClock(func() time.Time { return now })))
	for _, args := range [][]string{
		{"tx", "add", "-d", "Salary", "-a", "3000", "-t", "income", "-c", "Salary", "--date", "2024-03-01"},
		{"tx", "add", "-d", "Rent", "-a", "1200", "-c", "Housing", "--date", "2024-03-02"},
		{"tx", "add", "-d", "Cinema", "-a", "25", "-c", "Entertainment", "--date", "2024-03-08"},
		{"tx", "add", "-d", "Market", "-a", "150", "-c", "Groceries", "--date", "2024-02-11"},
		{"tx", "add", "-d", "Old", "-a", "99", "-c", "Shopping", "--date", "2023-12-24"},
	} {
		_, _, err := env.Run(args...)
		require.NoError(t, err)
	}
	return env
}

func TestReportCommand_DefaultsToCurrentMonth(t *testing.T) {
	env := seeded(t)

	out, _, err := env.Run("report", "-f", "json")
	require.NoError(t, err)

	var r report.RangeReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "2024-03-01", r.Start)
	assert.True(t, decimal.NewFromInt(1225).Equal(r.Totals.Expenses))
	require.Len(t, r.TopCategories, 2)
	assert.Equal(t, "Housing", r.TopCategories[0].Category)
}

func TestReportCommand_RangeAndTop(t *testing.T) {
	env := seeded(t)

	out, _, err := env.Run("report", "--from", "2024-01-01", "--to", "2024-03-31", "--top", "1", "-f", "json")
	require.NoError(t, err)

	var r report.RangeReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "2024-01-01", r.Start)
	assert.Equal(t, "2024-03-31", r.End)
	assert.True(t, decimal.NewFromInt(1375).Equal(r.Totals.Expenses))
	require.Len(t, r.TopCategories, 1)
	assert.Len(t, r.ByMonth, 3)
}

func TestReportCommand_Text(t *testing.T) {
	env := seeded(t)
	out, _, err := env.Run("report", "--from", "2024-02-01", "--to", "2024-02-29")
	require.NoError(t, err)
	assert.Contains(t, out, "Report 2024-02-01 to 2024-02-29")
	assert.Contains(t, out, "Groceries")
}

func TestReportCommand_InvalidFlags(t *testing.T) {
	env := seeded(t)
	var vErr *apperror.ValidationError

	tests := [][]string{
		{"report", "--from", "2024-02-30"},
		{"report", "--from", "2024-03-10", "--to", "2024-03-01"},
		{"report", "--top", "0"},
		{"report", "-f", "pdf"},
	}
	for _, args := range tests {
		_, _, err := env.Run(args...)
		assert.ErrorAs(t, err, &vErr, "args %v", args)
	}
}
