package core

import "testing"

func TestClassifyExpense(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"Rent March", "housing"},
		{"Mortgage payment", "housing"},
		{"Chipotle run", "food"},
		{"GROCERIES", "food"},
		{"Uber home", "transport"},
		{"gas station", "transport"},
		{"movie night", "fun"},
		{"bar tab", "fun"},
		{"misc stuff", "other"},
		{"", "other"},
	}
	for i, tc := range cases {
		if got := ClassifyExpense(tc.label); got != tc.want {
			t.Fatalf("case %d: ClassifyExpense(%q) = %q, want %q", i, tc.label, got, tc.want)
		}
	}
}

func TestClassifyExpensePriorityOrder(t *testing.T) {
	// "gas" appears in transport and could plausibly match elsewhere;
	// a label hitting two groups takes the earlier one.
	if got := ClassifyExpense("restaurant near the gas station"); got != "food" {
		t.Fatalf("got %q, want food (first matching group wins)", got)
	}
}

func TestComputeBudgetUsage(t *testing.T) {
	budgets := DefaultBudgets()
	plays := []ManualTransaction{
		{Label: "Chipotle run", Amount: -25, Type: PlayExpense},
		{Label: "misc stuff", Amount: 10, Type: PlayExpense},
		{Label: "salary", Amount: 5000, Type: PlayIncome}, // not an expense, ignored
	}
	usage := ComputeBudgetUsage(plays, budgets)

	if usage["food"] != 25 {
		t.Fatalf("food usage = %v, want 25 (absolute value)", usage["food"])
	}
	if usage["other"] != 10 {
		t.Fatalf("other usage = %v, want 10", usage["other"])
	}
	if usage["housing"] != 0 {
		t.Fatalf("housing usage = %v, want 0", usage["housing"])
	}
	if len(usage) != len(budgets) {
		t.Fatalf("usage has %d buckets, want %d", len(usage), len(budgets))
	}
}

func TestUsagePercent(t *testing.T) {
	cases := []struct {
		used, limit float64
		want        float64
	}{
		{300, 600, 50},
		{600, 600, 100},
		{2000, 600, 160}, // capped
		{100, 0, 0},
	}
	for i, tc := range cases {
		if got := UsagePercent(tc.used, tc.limit); got != tc.want {
			t.Fatalf("case %d: UsagePercent(%v, %v) = %v, want %v", i, tc.used, tc.limit, got, tc.want)
		}
	}
}

func TestOverBudget(t *testing.T) {
	if OverBudget(600, 600) {
		t.Fatalf("exactly at limit is not over budget")
	}
	if !OverBudget(600.01, 600) {
		t.Fatalf("past the limit is over budget")
	}
}
