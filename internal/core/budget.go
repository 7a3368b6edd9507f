package core

import (
	"math"
	"strings"
)

// Budget is a fixed spending bucket with a monthly limit. The set is static
// configuration for now; it is not user-editable.
type Budget struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Limit float64 `json:"limit"`
}

// DefaultBudgets returns the five configured buckets.
func DefaultBudgets() []Budget {
	return []Budget{
		{ID: "housing", Name: "Housing", Limit: 1000},
		{ID: "food", Name: "Food", Limit: 600},
		{ID: "transport", Name: "Transport", Limit: 300},
		{ID: "fun", Name: "Fun", Limit: 400},
		{ID: "other", Name: "Other", Limit: 500},
	}
}

// budgetRules classify an expense label into a bucket. Rules are evaluated
// in order and the first hit wins, so keyword overlap resolves by priority,
// not by accident of map iteration.
var budgetRules = []struct {
	bucket   string
	keywords []string
}{
	{"housing", []string{"rent", "mortgage"}},
	{"food", []string{"food", "groc", "restaurant", "chipotle"}},
	{"transport", []string{"gas", "uber", "lyft"}},
	{"fun", []string{"club", "party", "bar", "movie"}},
}

// ClassifyExpense maps an expense label to a budget bucket id, falling back
// to "other" when no keyword matches.
func ClassifyExpense(label string) string {
	label = strings.ToLower(label)
	for _, rule := range budgetRules {
		for _, kw := range rule.keywords {
			if strings.Contains(label, kw) {
				return rule.bucket
			}
		}
	}
	return "other"
}

// ComputeBudgetUsage buckets the expense plays by label keywords and sums
// absolute amounts per budget id. Every configured budget appears in the
// result even when unused.
func ComputeBudgetUsage(plays []ManualTransaction, budgets []Budget) map[string]float64 {
	usage := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		usage[b.ID] = 0
	}

	for _, p := range plays {
		if p.Type != PlayExpense {
			continue
		}
		bucket := ClassifyExpense(p.Label)
		usage[bucket] += math.Abs(Coerce(p.Amount))
	}
	return usage
}

// UsagePercent converts used/limit into a display percentage, capped at 160
// so an over-budget bar cannot overflow its container. A zero or negative
// limit renders as 0.
func UsagePercent(used, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Min(used/limit*100, 160)
}

// OverBudget reports whether a bucket has exceeded its limit.
func OverBudget(used, limit float64) bool {
	return used > limit
}
