// Package extraction pulls an amount, a date and a suggested category out
// of the noisy text produced by OCR on a bill or receipt. Extraction never
// fails: anything it cannot find is reported as absent.
package extraction

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// Scoring holds the weights of the amount heuristic.
type Scoring struct {
	KeywordBonus            int     `yaml:"keyword_bonus"`
	CurrencyBonus           int     `yaml:"currency_bonus"`
	DecimalBonus            int     `yaml:"decimal_bonus"`
	LongNumberPenalty       int     `yaml:"long_number_penalty"`
	PenaltyLineScoreCeiling int     `yaml:"penalty_line_score_ceiling"`
	LongNumberLength        int     `yaml:"long_number_length"`
	ShortNumberLength       int     `yaml:"short_number_length"`
	SmallValueCeiling       float64 `yaml:"small_value_ceiling"`
	SmallValueRivalFloor    float64 `yaml:"small_value_rival_floor"`
	SmallValueScoreGap      int     `yaml:"small_value_score_gap"`
}

// KeywordGroup is a set of amount keywords. A line earns the keyword bonus
// at most once per group.
type KeywordGroup struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoryRule maps keywords to a category name.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Rules is the full configuration of the heuristic.
type Rules struct {
	Scoring             Scoring        `yaml:"scoring"`
	CurrencySymbols     []string       `yaml:"currency_symbols"`
	AmountKeywordGroups []KeywordGroup `yaml:"amount_keyword_groups"`
	Categories          []CategoryRule `yaml:"categories"`
}

// DefaultRules returns a fresh copy of the built-in rules.
func DefaultRules() *Rules {
	rules, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in extraction rules are invalid: %v", err))
	}
	return rules
}

// ParseRules decodes and validates a YAML rules document.
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing extraction rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// LoadRules reads a rules file. An empty path yields the built-in rules.
func LoadRules(path string) (*Rules, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading extraction rules file %s: %w", path, err)
	}
	return ParseRules(data)
}

// Validate rejects rule sets the heuristic cannot run with.
func (r *Rules) Validate() error {
	if len(r.CurrencySymbols) == 0 {
		return fmt.Errorf("extraction rules: at least one currency symbol is required")
	}
	for _, sym := range r.CurrencySymbols {
		if sym == "" {
			return fmt.Errorf("extraction rules: currency symbols must not be empty")
		}
	}
	for _, c := range r.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("extraction rules: category without a name")
		}
	}
	if r.Scoring.LongNumberLength <= 0 || r.Scoring.ShortNumberLength <= 0 {
		return fmt.Errorf("extraction rules: number length thresholds must be positive")
	}
	return nil
}

// CategoryNames lists the category names in evaluation order.
func (r *Rules) CategoryNames() []string {
	names := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		names = append(names, c.Name)
	}
	return names
}
