package models

import "strings"

// Currency is a display currency. Amounts are never converted.
type Currency struct {
	Code   string `json:"code" yaml:"code"`
	Symbol string `json:"symbol" yaml:"symbol"`
	// Decimals is the number of fraction digits shown.
	Decimals int `json:"decimals" yaml:"decimals"`
}

// DefaultCurrencyCode is used when no preference is configured.
const DefaultCurrencyCode = "USD"

// AvailableCurrencies lists the supported display currencies.
var AvailableCurrencies = []Currency{
	{Code: "USD", Symbol: "$", Decimals: 2},
	{Code: "EUR", Symbol: "€", Decimals: 2},
	{Code: "JPY", Symbol: "¥", Decimals: 0},
	{Code: "GBP", Symbol: "£", Decimals: 2},
	{Code: "AUD", Symbol: "A$", Decimals: 2},
	{Code: "CAD", Symbol: "C$", Decimals: 2},
	{Code: "CNY", Symbol: "¥", Decimals: 2},
	{Code: "TWD", Symbol: "NT$", Decimals: 2},
	{Code: "HKD", Symbol: "HK$", Decimals: 2},
}

// LookupCurrency finds a currency by ISO code, ignoring case.
func LookupCurrency(code string) (Currency, bool) {
	for _, c := range AvailableCurrencies {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Currency{}, false
}

// CurrencyOrDefault returns the currency for code, or USD when unknown.
func CurrencyOrDefault(code string) Currency {
	if c, ok := LookupCurrency(code); ok {
		return c
	}
	c, _ := LookupCurrency(DefaultCurrencyCode)
	return c
}
