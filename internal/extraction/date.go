package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fjacquet/clarity-ledger/internal/dateutils"
)

type dateOrder int

const (
	orderYMD dateOrder = iota
	orderMDY
	orderDMY
	orderNameDY // month name, day, year
	orderDNameY // day, month name, year
)

type datePattern struct {
	re    *regexp.Regexp
	order dateOrder
}

const monthNames = `(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`

// datePatterns are tried in priority order. M-D-Y precedes D-M-Y, so an
// ambiguous "05/11/23" is read as May 11.
var datePatterns = []datePattern{
	{re: regexp.MustCompile(`(?i)(\d{4})[./\-年](\d{1,2})[./\-月](\d{1,2})日?`), order: orderYMD},
	{re: regexp.MustCompile(`(?i)(\d{1,2})[./\-月](\d{1,2})[./\-年](\d{2,4})日?`), order: orderMDY},
	{re: regexp.MustCompile(`(?i)(\d{1,2})[./\-月](\d{1,2})[./\-年](\d{2,4})日?`), order: orderDMY},
	{re: regexp.MustCompile(`(?i)(\d{4})年(\d{1,2})月(\d{1,2})`), order: orderYMD},
	{re: regexp.MustCompile(`(?i)` + monthNames + `\s+(\d{1,2}),?\s+(\d{4})`), order: orderNameDY},
	{re: regexp.MustCompile(`(?i)(\d{1,2})\s+` + monthNames + `,?\s+(\d{4})`), order: orderDNameY},
}

var monthByName = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ExtractDate returns the first valid date found, as YYYY-MM-DD. Each pattern
// only looks at its first match; a match that fails calendar validation
// hands over to the next pattern.
func (e *Extractor) ExtractDate(text string) (string, bool) {
	currentYear := e.now().Year()
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		year, month, day, ok := p.components(m)
		if !ok {
			continue
		}
		if year < 100 {
			if year > currentYear%100+5 {
				year += 1900
			} else {
				year += 2000
			}
		}
		if month == 2 && day > 29 {
			continue
		}
		if (month == 4 || month == 6 || month == 9 || month == 11) && day > 30 {
			continue
		}
		if !dateutils.IsValidDay(year, month, day) {
			continue
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
	}
	return "", false
}

func (p datePattern) components(m []string) (year, month, day int, ok bool) {
	var y, mo, d string
	switch p.order {
	case orderYMD:
		y, mo, d = m[1], m[2], m[3]
	case orderMDY:
		mo, d, y = m[1], m[2], m[3]
	case orderDMY:
		d, mo, y = m[1], m[2], m[3]
	case orderNameDY:
		mo, d, y = m[1], m[2], m[3]
	case orderDNameY:
		d, mo, y = m[1], m[2], m[3]
	}

	var err error
	if year, err = strconv.Atoi(y); err != nil {
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(d); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(mo); err != nil {
		var found bool
		if month, found = monthByName[strings.ToLower(mo)]; !found {
			return 0, 0, 0, false
		}
	}
	return year, month, day, true
}

func lineMatchesDate(line string) bool {
	for _, p := range datePatterns {
		if p.re.MatchString(line) {
			return true
		}
	}
	return false
}
