package extraction

import (
	"regexp"
	"strings"
)

var (
	commaDecimalTail          = regexp.MustCompile(`,\d\d$`)
	periodDecimalTail         = regexp.MustCompile(`\.\d\d$`)
	periodThousandsCommaDecTl = regexp.MustCompile(`\.\d{3},\d\d$`)
)

type amountCandidate struct {
	value float64
	score int
}

// ExtractAmount picks the most plausible total from text. Every numeric
// substring is scored by the keywords and currency symbols on its line, its
// shape, and whether the line looks like a date; the highest score wins and
// ties go to the larger value.
func (e *Extractor) ExtractAmount(text string) (float64, bool) {
	s := e.rules.Scoring
	var best *amountCandidate

	for _, line := range strings.Split(text, "\n") {
		lineScore := e.keywordScore(line)
		hasCurrency := e.lineHasCurrency(line)
		if hasCurrency {
			lineScore += s.CurrencyBonus
		}

		var looksLikeDate *bool
		for _, match := range e.amountRe.FindAllStringSubmatch(line, -1) {
			amountStr := normalizeSeparators(match[1])
			if amountStr == "" {
				continue
			}
			num, ok := parseLeadingFloat(amountStr)
			if !ok || num <= 0 {
				continue
			}

			score := lineScore
			hasDot := strings.Contains(amountStr, ".")
			if (lineScore > 0 || hasCurrency) && hasDot {
				score += s.DecimalBonus
			}
			if lineScore < s.PenaltyLineScoreCeiling &&
				(len(amountStr) > s.LongNumberLength || (len(amountStr) >= s.ShortNumberLength && !hasDot)) {
				if looksLikeDate == nil {
					v := lineMatchesDate(line)
					looksLikeDate = &v
				}
				if !*looksLikeDate {
					score -= s.LongNumberPenalty
				}
			}

			if num < s.SmallValueCeiling && best != nil &&
				best.value > s.SmallValueRivalFloor && score < best.score-s.SmallValueScoreGap {
				continue
			}

			if best == nil || score > best.score || (score == best.score && num > best.value) {
				best = &amountCandidate{value: num, score: score}
			}
		}
	}

	if best == nil {
		return 0, false
	}
	return best.value, true
}

// keywordScore awards the keyword bonus once per keyword group found in line.
func (e *Extractor) keywordScore(line string) int {
	lower := strings.ToLower(line)
	score := 0
	for _, group := range e.rules.AmountKeywordGroups {
		for _, keyword := range group.Keywords {
			if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
				score += e.rules.Scoring.KeywordBonus
				break
			}
		}
	}
	return score
}

func (e *Extractor) lineHasCurrency(line string) bool {
	for _, sym := range e.rules.CurrencySymbols {
		if strings.Contains(line, sym) {
			return true
		}
	}
	return false
}

// normalizeSeparators rewrites a matched number so '.' is the only decimal
// separator: "1.234,56" and "12,34" use comma decimals, anything else treats
// commas as thousands separators.
func normalizeSeparators(amountStr string) string {
	hasCommaDecimal := commaDecimalTail.MatchString(amountStr) && !periodDecimalTail.MatchString(amountStr)

	switch {
	case periodThousandsCommaDecTl.MatchString(amountStr), hasCommaDecimal && strings.Contains(amountStr, "."):
		return strings.Replace(strings.ReplaceAll(amountStr, ".", ""), ",", ".", 1)
	case hasCommaDecimal:
		return strings.Replace(amountStr, ",", ".", 1)
	default:
		return strings.ReplaceAll(amountStr, ",", "")
	}
}
