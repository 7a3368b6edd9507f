package core

import (
	"strings"

	"github.com/google/uuid"
)

// The two sources use opposite sign conventions. Manual ledger entries are
// stored with whatever sign the user typed and pass through verbatim; bank
// transactions arrive with positive = outflow and are flipped so that in the
// unified view negative always means money leaving. The two conversions are
// kept as separate functions on purpose: the asymmetry is part of the data
// model, not an accident to be smoothed over.

// Normalize merges manual ledger entries and bank transactions into unified
// rows: all manual rows first in stored order, then bank rows in fetch
// order. Sorting is the query engine's job. The input slices are not
// modified.
func Normalize(entries []LedgerEntry, txs []BankTransaction) []UnifiedRow {
	rows := make([]UnifiedRow, 0, len(entries)+len(txs))
	for _, e := range entries {
		rows = append(rows, manualRow(e))
	}
	for _, tx := range txs {
		rows = append(rows, bankRow(tx))
	}
	return rows
}

func manualRow(e LedgerEntry) UnifiedRow {
	typ := e.Type
	if typ == "" {
		typ = EntryAdjustment
	}
	return UnifiedRow{
		ID:          e.ID,
		Source:      SourceManual,
		Date:        e.Date,
		Label:       e.Label,
		Amount:      Coerce(e.Amount),
		Type:        typ,
		FromAccount: e.FromAccount,
		ToAccount:   e.ToAccount,
		Platform:    e.Platform,
		Tags:        e.Tags,
		Note:        e.Note,
	}
}

func bankRow(tx BankTransaction) UnifiedRow {
	amt := Coerce(tx.Amount)
	isOutflow := amt > 0

	row := UnifiedRow{
		ID:       tx.TransactionID,
		Source:   SourceBank,
		Date:     tx.Date,
		Label:    tx.Name,
		Amount:   -amt, // flip: negative = outflow, positive = inflow
		Type:     EntryIncome,
		Platform: "Bank",
	}
	if isOutflow {
		row.Type = EntryExpense
		row.FromAccount = "Bank"
	} else {
		row.ToAccount = "Bank"
	}
	if row.Amount == 0 {
		row.Amount = 0 // fold -0 so it compares and formats as zero
	}
	if len(tx.Category) > 0 {
		row.Tags = strings.Join(tx.Category, ", ")
	}
	if row.ID == "" {
		row.ID = newBankRowID()
	}
	return row
}

// newBankRowID synthesizes an id for bank rows that arrive without one.
// Uniqueness within a session is all that is required.
func newBankRowID() string {
	return "bank-" + uuid.NewString()[:8]
}
