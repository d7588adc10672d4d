// Package currencyutils parses user-entered amounts and formats amounts for
// display in the user's preferred currency.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/clarity-ledger/internal/models"

	"github.com/shopspring/decimal"
)

var nonNumeric = regexp.MustCompile(`[^0-9,.\-]`)

// ParseAmount parses amounts like "1,234.56", "1.234,56", "$ 12" or
// "NT$300" into a decimal.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': no digits", amountStr)
	}
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount strips currency symbols and whitespace and rewrites the
// separators so decimal.NewFromString accepts the result.
func StandardizeAmount(amountStr string) string {
	amountStr = nonNumeric.ReplaceAllString(amountStr, "")

	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// 1.234,56
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			amountStr = strings.Replace(amountStr, ",", ".", 1)
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}
	return amountStr
}

// FormatAmount renders amount with the currency symbol, thousands grouping
// and the currency's number of decimals, e.g. "$1,234.50" or "-¥1,235".
func FormatAmount(amount decimal.Decimal, currency models.Currency) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	fixed := amount.Abs().StringFixed(int32(currency.Decimals))

	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")
	grouped := groupThousands(intPart)
	if hasFrac {
		grouped += "." + fracPart
	}
	return sign + currency.Symbol + grouped
}

// FormatFloat formats a stored float amount in the currency with code.
func FormatFloat(amount float64, code string) string {
	return FormatAmount(decimal.NewFromFloat(amount), models.CurrencyOrDefault(code))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
