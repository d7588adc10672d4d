package models

// Budget is a monthly spending target for one category. Spent amounts are
// never stored; they are derived from transactions on demand.
type Budget struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId,omitempty"`
	Category     string  `json:"category"`
	TargetAmount float64 `json:"targetAmount"`
	MonthYear    string  `json:"monthYear"`
}
