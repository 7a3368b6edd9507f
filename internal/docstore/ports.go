// Package docstore defines the port to the external per-user document
// store. A user owns exactly one document holding their profile and the two
// persisted collections (dashboard plays and manual ledger entries); bank
// snapshots are never stored here.
package docstore

import (
	"context"
	"errors"
	"time"

	"santi/internal/core"
)

// ErrNotFound is returned by Get when no document exists for the uid.
var ErrNotFound = errors.New("user document not found")

type (
	Profile struct {
		UID         string    `json:"uid"`
		Email       string    `json:"email"`
		PhoneNumber string    `json:"phoneNumber"`
		CreatedAt   time.Time `json:"createdAt"`
		LastLoginAt time.Time `json:"lastLoginAt"`
	}

	Manual struct {
		Ledger []core.LedgerEntry `json:"ledger"`
	}

	UserDocument struct {
		Profile      Profile                  `json:"profile"`
		Transactions []core.ManualTransaction `json:"transactions"`
		Manual       Manual                   `json:"manual"`
	}

	// Patch is a partial document write. Nil fields are left untouched
	// when merging; a non-nil empty slice writes an empty collection.
	Patch struct {
		Profile      *Profile
		Transactions *[]core.ManualTransaction
		Ledger       *[]core.LedgerEntry
	}

	// Store is the document store port. Put with merge=true updates only
	// the patched fields; merge=false replaces the whole document. The
	// session layer always merges.
	Store interface {
		Get(ctx context.Context, uid string) (UserDocument, error)
		Put(ctx context.Context, uid string, patch Patch, merge bool) error
	}
)

// Apply folds a patch into a document in place.
func (p Patch) Apply(doc *UserDocument) {
	if p.Profile != nil {
		doc.Profile = *p.Profile
	}
	if p.Transactions != nil {
		doc.Transactions = append([]core.ManualTransaction(nil), (*p.Transactions)...)
	}
	if p.Ledger != nil {
		doc.Manual.Ledger = append([]core.LedgerEntry(nil), (*p.Ledger)...)
	}
}
