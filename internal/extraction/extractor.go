package extraction

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"fjacquet/clarity-ledger/internal/models"
)

// Extractor applies a Rules table to OCR text. It is safe for concurrent use.
type Extractor struct {
	rules    *Rules
	amountRe *regexp.Regexp
	now      func() time.Time
}

// NewExtractor builds an Extractor. A nil rules table means the built-in one.
func NewExtractor(rules *Rules) *Extractor {
	return NewExtractorWithClock(rules, time.Now)
}

// NewExtractorWithClock is NewExtractor with an explicit clock, which decides
// the century of two-digit years.
func NewExtractorWithClock(rules *Rules, now func() time.Time) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	if now == nil {
		now = time.Now
	}
	return &Extractor{
		rules:    rules,
		amountRe: buildAmountRegex(rules.CurrencySymbols),
		now:      now,
	}
}

// Rules returns the table the extractor runs with.
func (e *Extractor) Rules() *Rules {
	return e.rules
}

// Extract runs every heuristic over text.
func (e *Extractor) Extract(text string) models.ExtractionResult {
	result := models.ExtractionResult{RawText: text}
	if amount, ok := e.ExtractAmount(text); ok {
		result.Amount = &amount
	}
	if date, ok := e.ExtractDate(text); ok {
		result.Date = &date
	}
	if category, ok := e.SuggestCategory(text); ok {
		result.SuggestedCategory = &category
	}
	return result
}

// SuggestCategory returns the first category, in table order, that has a
// keyword contained in the lower-cased text.
func (e *Extractor) SuggestCategory(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, category := range e.rules.Categories {
		for _, keyword := range category.Keywords {
			if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
				return category.Name, true
			}
		}
	}
	return "", false
}

func buildAmountRegex(symbols []string) *regexp.Regexp {
	quoted := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		quoted = append(quoted, regexp.QuoteMeta(sym))
	}
	// longest first so "NT$" is consumed as one symbol
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	sym := `(?:` + strings.Join(quoted, "|") + `)`
	return regexp.MustCompile(
		`(?:` + sym + `\s*)?` +
			`(\d{1,3}(?:[,.]\d{3})*(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?)` +
			`(?:\s*` + sym + `)?`)
}

// leadingNumber mirrors a lenient float parse: "1.234.56" reads as 1.234.
var leadingNumber = regexp.MustCompile(`^\d+(?:\.\d+)?`)

func parseLeadingFloat(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
