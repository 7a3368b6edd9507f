package core

import (
	"sort"
	"strings"
)

const (
	SortDateAsc    SortMode = "date-asc"
	SortDateDesc   SortMode = "date-desc"
	SortAmountAsc  SortMode = "amount-asc"
	SortAmountDesc SortMode = "amount-desc"
)

type (
	SortMode string

	// Filters selects and orders unified ledger rows. Zero values mean
	// "all" for the enum filters and "match everything" for Search.
	Filters struct {
		Source Source
		Type   EntryType
		Search string
		Sort   SortMode
	}
)

// Query filters, searches and sorts the given rows. The result is a fresh
// slice; the input is never reordered or mutated, so calling Query twice
// with the same arguments yields identical output. Ties under any sort mode
// keep their pre-sort relative order.
func Query(rows []UnifiedRow, f Filters) []UnifiedRow {
	out := make([]UnifiedRow, 0, len(rows))

	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, r := range rows {
		if f.Source != "" && f.Source != "all" && r.Source != f.Source {
			continue
		}
		if f.Type != "" && f.Type != "all" && r.Type != f.Type {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, r)
	}

	sortRows(out, f.Sort)
	return out
}

// matchesSearch does a case-insensitive substring match against the
// space-joined label, accounts, platform and tags of a row.
func matchesSearch(r UnifiedRow, search string) bool {
	blob := strings.ToLower(strings.Join([]string{
		r.Label, r.FromAccount, r.ToAccount, r.Platform, r.Tags,
	}, " "))
	return strings.Contains(blob, search)
}

func sortRows(rows []UnifiedRow, mode SortMode) {
	switch mode {
	case SortDateAsc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	case SortDateDesc:
		// ISO dates sort lexicographically, so a reversed string compare
		// is enough. Equal dates return false both ways and stay put.
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	case SortAmountAsc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Amount < rows[j].Amount })
	case SortAmountDesc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Amount > rows[j].Amount })
	}
}
