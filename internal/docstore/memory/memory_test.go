package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"santi/internal/core"
	"santi/internal/docstore"
)

func TestGetMissingDocument(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutAndGetRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	txs := []core.ManualTransaction{
		{ID: 1, Label: "car", Amount: 8000, Type: core.PlayAsset},
		{ID: 2, Label: "rent", Amount: 900, Type: core.PlayExpense},
	}
	ledger := []core.LedgerEntry{
		{ID: "ldg-1", Date: "2024-03-01", Label: "transfer", Amount: -100, Type: core.EntryTransfer},
	}

	err := s.Put(ctx, "u1", docstore.Patch{Transactions: &txs, Ledger: &ledger}, true)
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	doc, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(doc.Transactions, txs) {
		t.Fatalf("transactions = %+v, want %+v", doc.Transactions, txs)
	}
	if !reflect.DeepEqual(doc.Manual.Ledger, ledger) {
		t.Fatalf("ledger = %+v, want %+v", doc.Manual.Ledger, ledger)
	}
}

func TestMergePreservesUntouchedFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	profile := docstore.Profile{UID: "u1", Email: "a@b.c"}
	txs := []core.ManualTransaction{{ID: 1, Label: "x", Amount: 1, Type: core.PlayAsset}}
	if err := s.Put(ctx, "u1", docstore.Patch{Profile: &profile, Transactions: &txs}, true); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Merge-write only the ledger; profile and transactions must survive.
	ledger := []core.LedgerEntry{{ID: "l1", Label: "y", Amount: 2}}
	if err := s.Put(ctx, "u1", docstore.Patch{Ledger: &ledger}, true); err != nil {
		t.Fatalf("merge put: %v", err)
	}

	doc, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Profile.Email != "a@b.c" {
		t.Fatalf("profile lost on merge: %+v", doc.Profile)
	}
	if len(doc.Transactions) != 1 {
		t.Fatalf("transactions lost on merge: %+v", doc.Transactions)
	}
	if len(doc.Manual.Ledger) != 1 {
		t.Fatalf("ledger not written: %+v", doc.Manual.Ledger)
	}
}

func TestOverwriteReplacesDocument(t *testing.T) {
	s := New()
	ctx := context.Background()

	txs := []core.ManualTransaction{{ID: 1, Label: "x", Amount: 1, Type: core.PlayAsset}}
	if err := s.Put(ctx, "u1", docstore.Patch{Transactions: &txs}, true); err != nil {
		t.Fatalf("put: %v", err)
	}

	empty := []core.ManualTransaction{}
	if err := s.Put(ctx, "u1", docstore.Patch{Transactions: &empty}, false); err != nil {
		t.Fatalf("overwrite put: %v", err)
	}

	doc, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(doc.Transactions) != 0 {
		t.Fatalf("transactions = %+v, want empty", doc.Transactions)
	}
}

func TestGetReturnsDetachedCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	txs := []core.ManualTransaction{{ID: 1, Label: "x", Amount: 1, Type: core.PlayAsset}}
	if err := s.Put(ctx, "u1", docstore.Patch{Transactions: &txs}, true); err != nil {
		t.Fatalf("put: %v", err)
	}

	doc, _ := s.Get(ctx, "u1")
	doc.Transactions[0].Label = "mutated"

	again, _ := s.Get(ctx, "u1")
	if again.Transactions[0].Label != "x" {
		t.Fatalf("store leaked internal state: %+v", again.Transactions[0])
	}
}
