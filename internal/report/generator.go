package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"fjacquet/clarity-ledger/internal/currencyutils"
	"fjacquet/clarity-ledger/internal/dateutils"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
)

// DefaultTopCategories is how many categories the range report ranks.
const DefaultTopCategories = 10

// Summary is the dashboard view: totals, breakdown and trend.
type Summary struct {
	GeneratedFor string          `json:"generatedFor"`
	Totals       Totals          `json:"totals"`
	Breakdown    []CategoryTotal `json:"breakdown"`
	Trend        []MonthlyPoint  `json:"trend"`
	Budgets      []BudgetStatus  `json:"budgets,omitempty"`
}

// BuildSummary assembles a Summary for now's month.
func BuildSummary(txs []models.Transaction, budgets []models.Budget, now time.Time, trendMonths int) Summary {
	month := dateutils.MonthYear(now)
	var monthBudgets []models.Budget
	for _, b := range budgets {
		if b.MonthYear == month {
			monthBudgets = append(monthBudgets, b)
		}
	}
	return Summary{
		GeneratedFor: month,
		Totals:       ComputeTotals(txs),
		Breakdown:    ExpenseBreakdown(txs),
		Trend:        MonthlyTrend(txs, now, trendMonths),
		Budgets:      EvaluateBudgets(monthBudgets, txs),
	}
}

// RangeReport is the reports view over an explicit date range.
type RangeReport struct {
	Start         string                  `json:"start"`
	End           string                  `json:"end"`
	Totals        Totals                  `json:"totals"`
	TopCategories []CategoryTotal         `json:"topCategories"`
	ByMonth       []MonthCategorySpending `json:"byMonth"`
	Categories    []string                `json:"categories"`
}

// BuildRangeReport restricts txs to [start, end] and aggregates them.
func BuildRangeReport(txs []models.Transaction, start, end time.Time, top int) RangeReport {
	var inRange []models.Transaction
	for _, tx := range txs {
		if InRange(tx, start, end) {
			inRange = append(inRange, tx)
		}
	}
	byMonth, categories := SpendingByCategoryPerMonth(inRange, start, end)
	return RangeReport{
		Start:         dateutils.ToISODate(start),
		End:           dateutils.ToISODate(end),
		Totals:        ComputeTotals(inRange),
		TopCategories: TopExpenseCategories(inRange, top),
		ByMonth:       byMonth,
		Categories:    categories,
	}
}

// Generator renders summaries as JSON or as aligned text tables.
type Generator struct {
	logger   logging.Logger
	currency models.Currency
}

// NewGenerator creates a Generator formatting amounts in currency.
func NewGenerator(logger logging.Logger, currency models.Currency) *Generator {
	return &Generator{
		logger:   logging.OrDiscard(logger).WithField(logging.FieldComponent, "ReportGenerator"),
		currency: currency,
	}
}

// RenderSummary renders s in format "json" or "text".
func (g *Generator) RenderSummary(s Summary, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.marshal(s)
	case "text", "":
		return g.summaryText(s), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// RenderRange renders r in format "json" or "text".
func (g *Generator) RenderRange(r RangeReport, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.marshal(r)
	case "text", "":
		return g.rangeText(r), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) marshal(v interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *Generator) summaryText(s Summary) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Summary for %s\n\n", s.GeneratedFor)
	fmt.Fprintf(w, "Income\t%s\n", currencyutils.FormatAmount(s.Totals.Income, g.currency))
	fmt.Fprintf(w, "Expenses\t%s\n", currencyutils.FormatAmount(s.Totals.Expenses, g.currency))
	fmt.Fprintf(w, "Balance\t%s\n\n", currencyutils.FormatAmount(s.Totals.Balance, g.currency))

	if len(s.Breakdown) > 0 {
		fmt.Fprintln(w, "Category\tSpent")
		for _, c := range s.Breakdown {
			fmt.Fprintf(w, "%s\t%s\n", c.Category, currencyutils.FormatAmount(c.Total, g.currency))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Month\tIncome\tExpenses")
	for _, p := range s.Trend {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.MonthYear,
			currencyutils.FormatAmount(p.Income, g.currency),
			currencyutils.FormatAmount(p.Expenses, g.currency))
	}

	if len(s.Budgets) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Budget\tSpent\tTarget\tProgress\tStatus")
		for _, b := range s.Budgets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\t%s\n", b.Budget.Category,
				currencyutils.FormatAmount(b.Spent, g.currency),
				currencyutils.FormatFloat(b.Budget.TargetAmount, g.currency.Code),
				b.ProgressPercent, b.Level)
		}
	}
	_ = w.Flush()
	return buf.Bytes()
}

func (g *Generator) rangeText(r RangeReport) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Report %s to %s\n\n", r.Start, r.End)
	fmt.Fprintf(w, "Income\t%s\n", currencyutils.FormatAmount(r.Totals.Income, g.currency))
	fmt.Fprintf(w, "Expenses\t%s\n", currencyutils.FormatAmount(r.Totals.Expenses, g.currency))
	fmt.Fprintf(w, "Balance\t%s\n\n", currencyutils.FormatAmount(r.Totals.Balance, g.currency))

	fmt.Fprintln(w, "Top categories\tSpent")
	for _, c := range r.TopCategories {
		fmt.Fprintf(w, "%s\t%s\n", c.Category, currencyutils.FormatAmount(c.Total, g.currency))
	}

	if len(r.Categories) > 0 {
		fmt.Fprintln(w)
		header := "Month"
		for _, c := range r.Categories {
			header += "\t" + c
		}
		fmt.Fprintln(w, header)
		for _, m := range r.ByMonth {
			row := m.MonthYear
			for _, c := range r.Categories {
				row += "\t" + currencyutils.FormatAmount(m.Categories[c], g.currency)
			}
			fmt.Fprintln(w, row)
		}
	}
	_ = w.Flush()
	return buf.Bytes()
}
