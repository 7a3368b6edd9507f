package core

import (
	"errors"
	"math"
	"strings"
)

const (
	// Manual dashboard entries ("plays") carry a magnitude plus one of
	// these type tags; the sign is derived at aggregation time.
	PlayAsset     PlayType = "asset"
	PlayLiability PlayType = "liability"
	PlayIncome    PlayType = "income"
	PlayExpense   PlayType = "expense"
)

const (
	EntryIncome     EntryType = "income"
	EntryExpense    EntryType = "expense"
	EntryTransfer   EntryType = "transfer"
	EntryAdjustment EntryType = "adjustment"
)

const (
	SourceManual Source = "manual"
	SourceBank   Source = "bank"
)

type (
	PlayType  string
	EntryType string
	Source    string

	// ManualTransaction is a dashboard "play": a labelled amount tagged
	// asset/liability/income/expense. Amounts are stored non-negative.
	ManualTransaction struct {
		ID     int64    `json:"id"`
		Label  string   `json:"label"`
		Amount float64  `json:"amount"`
		Type   PlayType `json:"type"`
	}

	// LedgerEntry is a manual row on the unified ledger tab. The amount
	// sign is user-supplied and not normalized at entry time.
	LedgerEntry struct {
		ID          string    `json:"id"`
		Date        string    `json:"date"` // YYYY-MM-DD
		Label       string    `json:"label"`
		Amount      float64   `json:"amount"`
		Type        EntryType `json:"type"`
		FromAccount string    `json:"fromAccount"`
		ToAccount   string    `json:"toAccount"`
		Platform    string    `json:"platform"`
		Tags        string    `json:"tags"` // comma-separated
		Note        string    `json:"note"`
		CreatedAt   int64     `json:"createdAt"` // unix millis
	}

	// BankAccount is a read-only snapshot fetched from the aggregator.
	BankAccount struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Type        string  `json:"type"` // credit, loan, depository, ...
		Subtype     string  `json:"subtype"`
		Mask        string  `json:"mask"`
		Balance     float64 `json:"balance"`
		CreditLimit float64 `json:"creditLimit"`
	}

	// BankTransaction is a fetched bank row. Aggregator sign convention:
	// positive = outflow, negative = inflow/refund. This is the inverse of
	// the internal convention and is flipped by Normalize.
	BankTransaction struct {
		TransactionID string   `json:"transactionId"`
		Name          string   `json:"name"`
		Date          string   `json:"date"`
		Amount        float64  `json:"amount"`
		Category      []string `json:"category"`
	}

	// UnifiedRow is the common shape of a ledger row after merging manual
	// entries and bank transactions. Positive amount = inflow, negative =
	// outflow. Rows are rebuilt on every read and never mutated in place.
	UnifiedRow struct {
		ID          string    `json:"id"`
		Source      Source    `json:"source"`
		Date        string    `json:"date"`
		Label       string    `json:"label"`
		Amount      float64   `json:"amount"`
		Type        EntryType `json:"type"`
		FromAccount string    `json:"fromAccount"`
		ToAccount   string    `json:"toAccount"`
		Platform    string    `json:"platform"`
		Tags        string    `json:"tags"`
		Note        string    `json:"note"`
	}
)

var (
	ErrEmptyLabel    = errors.New("empty label")
	ErrInvalidAmount = errors.New("invalid amount")
)

func (t ManualTransaction) Validate() error {
	if strings.TrimSpace(t.Label) == "" {
		return ErrEmptyLabel
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}

func (e LedgerEntry) Validate() error {
	if strings.TrimSpace(e.Label) == "" {
		return ErrEmptyLabel
	}
	if e.Amount == 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}

// isDebtAccount reports whether an account type sits on the liability side.
func isDebtAccount(accountType string) bool {
	return accountType == "credit" || accountType == "loan"
}

// Coerce mirrors the loose numeric handling at the edges of the system:
// anything that is not a finite number counts as zero.
func Coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
