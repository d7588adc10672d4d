// Package dateutils holds the calendar helpers used by the ledger: ISO day
// and month keys, month arithmetic and month boundaries.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayoutISO is the layout of every stored transaction date.
	DateLayoutISO = "2006-01-02"
	// MonthLayout is the layout of a budget's MonthYear key.
	MonthLayout = "2006-01"
	// DateLayoutFull is accepted on import for timestamps without zone.
	DateLayoutFull = "2006-01-02 15:04:05"
)

// importFormats are the layouts accepted when normalizing an imported date.
var importFormats = []string{
	DateLayoutISO,
	time.RFC3339Nano,
	time.RFC3339,
	DateLayoutISO + "T15:04:05",
	DateLayoutISO + "T15:04:05.000",
	DateLayoutFull,
	"2006/01/02",
}

// ParseISODate parses a YYYY-MM-DD string.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayoutISO, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date '%s': expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// NormalizeDate accepts an ISO day, an RFC 3339 timestamp or one of a few
// common variants and returns the YYYY-MM-DD day it denotes. Timestamps
// keep the calendar day written in the string rather than converting to UTC.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("date is empty")
	}
	for _, layout := range importFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return ToISODate(t), nil
		}
	}
	return "", fmt.Errorf("unable to parse date: %s", s)
}

// ParseMonthYear parses a YYYY-MM key into the first day of that month.
func ParseMonthYear(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse month '%s': expected YYYY-MM", s)
	}
	return t, nil
}

// MonthYear returns the YYYY-MM key of t.
func MonthYear(t time.Time) string {
	return t.Format(MonthLayout)
}

// StartOfMonth returns the first day of the month for a given date.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date.
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// EndOfDay returns the last representable instant of date's day.
func EndOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), date.Location())
}

// AddMonths shifts date's month by n. The arithmetic starts from the first
// of the month so that Jan 31 + 1 is February, not March.
func AddMonths(date time.Time, n int) time.Time {
	return StartOfMonth(date).AddDate(0, n, 0)
}

// ShiftMonthYear moves a YYYY-MM key by offset months.
func ShiftMonthYear(monthYear string, offset int) (string, error) {
	t, err := ParseMonthYear(monthYear)
	if err != nil {
		return "", err
	}
	return MonthYear(AddMonths(t, offset)), nil
}

// MonthsBetween lists every YYYY-MM key touched by [start, end], in order.
// It returns nil when end is before start.
func MonthsBetween(start, end time.Time) []string {
	if end.Before(start) {
		return nil
	}
	var months []string
	last := StartOfMonth(end)
	for m := StartOfMonth(start); !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, MonthYear(m))
	}
	return months
}

// IsValidDay reports whether day exists in month of year, rejecting
// dates like 2023-02-30 that time.Date would silently roll over.
func IsValidDay(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}
