// Package core implements the ledger normalization and derived-aggregate
// engine: merging manual entries with fetched bank transactions into one
// row shape, querying that merged view, and computing the capital, budget
// and trial-balance summaries shown on the dashboard.
package core

import (
	"fmt"
	"math"
)

// FormatMoney renders a value as an absolute dollar string with two
// decimals, e.g. FormatMoney(-5) == "$5.00". The sign is always stripped;
// callers prepend "+" or "-" where they need one. Non-finite values render
// as "$0.00".
func FormatMoney(v float64) string {
	v = Coerce(v)
	return fmt.Sprintf("$%.2f", math.Abs(v))
}
