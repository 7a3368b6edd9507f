package firestore

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	firestore "google.golang.org/api/firestore/v1"

	"santi/internal/core"
	"santi/internal/docstore"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	profile := docstore.Profile{
		UID:         "u1",
		Email:       "santi@example.com",
		LastLoginAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	txs := []core.ManualTransaction{
		{ID: 1709300000000, Label: "car", Amount: 8000.5, Type: core.PlayAsset},
	}
	ledger := []core.LedgerEntry{
		{
			ID: "ldg-abc", Date: "2024-03-01", Label: "Transfer", Amount: -100,
			Type: core.EntryTransfer, FromAccount: "Chase", ToAccount: "Savings",
			Platform: "Zelle", Tags: "move, internal", Note: "monthly", CreatedAt: 1709300000123,
		},
	}

	fields, paths := encodePatch(docstore.Patch{
		Profile:      &profile,
		Transactions: &txs,
		Ledger:       &ledger,
	})

	wantPaths := []string{"profile", "transactions", "manual"}
	if !reflect.DeepEqual(paths, wantPaths) {
		t.Fatalf("paths = %v, want %v", paths, wantPaths)
	}

	got := decodeDocument(&firestore.Document{Fields: fields})
	if !reflect.DeepEqual(got.Profile, profile) {
		t.Fatalf("profile = %+v, want %+v", got.Profile, profile)
	}
	if !reflect.DeepEqual(got.Transactions, txs) {
		t.Fatalf("transactions = %+v, want %+v", got.Transactions, txs)
	}
	if !reflect.DeepEqual(got.Manual.Ledger, ledger) {
		t.Fatalf("ledger = %+v, want %+v", got.Manual.Ledger, ledger)
	}
}

// Empty strings and zero numerics must still marshal with an explicit
// value type; an omitempty'd field would leave {} on the wire, which the
// commit API rejects.
func TestEncodedPatchMarshalsExplicitValueTypes(t *testing.T) {
	profile := docstore.Profile{UID: "u1"} // no email, no phone number
	txs := []core.ManualTransaction{
		{ID: 1709300000000, Label: "placeholder", Amount: 0, Type: core.PlayAsset},
	}
	ledger := []core.LedgerEntry{
		// optional strings left empty, the common case for a quick entry
		{ID: "ldg-abc", Date: "2024-03-01", Label: "Coffee", Amount: -4.5,
			Type: core.EntryExpense, CreatedAt: 1709300000123},
	}

	fields, _ := encodePatch(docstore.Patch{
		Profile:      &profile,
		Transactions: &txs,
		Ledger:       &ledger,
	})

	raw, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshal patch: %v", err)
	}
	body := string(raw)

	if strings.Contains(body, "{}") {
		t.Fatalf("payload contains typeless values: %s", body)
	}
	for _, want := range []string{
		`"email":{"stringValue":""}`,
		`"fromAccount":{"stringValue":""}`,
		`"note":{"stringValue":""}`,
		`"amount":{"doubleValue":0}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("payload missing %s: %s", want, body)
		}
	}
}

func TestDecodeToleratesMissingAndForeignFields(t *testing.T) {
	doc := &firestore.Document{Fields: map[string]firestore.Value{
		"transactions": arrayValue([]*firestore.Value{
			// amount stored as an integer by another client
			ptr(mapValue(map[string]firestore.Value{
				"label":  stringValue("legacy"),
				"amount": integerValue(42),
			})),
		}),
		"unrelated": stringValue("ignored"),
	}}

	got := decodeDocument(doc)
	if len(got.Transactions) != 1 {
		t.Fatalf("transactions = %+v", got.Transactions)
	}
	tx := got.Transactions[0]
	if tx.Amount != 42 {
		t.Fatalf("integer amount coerced to %v, want 42", tx.Amount)
	}
	if tx.ID != 0 || tx.Type != "" {
		t.Fatalf("missing fields should decode to zero values: %+v", tx)
	}
	if got.Manual.Ledger != nil {
		t.Fatalf("ledger = %+v, want nil", got.Manual.Ledger)
	}
}

func TestDecodeNilDocument(t *testing.T) {
	got := decodeDocument(nil)
	if !reflect.DeepEqual(got, docstore.UserDocument{}) {
		t.Fatalf("decode(nil) = %+v", got)
	}
}

func TestEncodePatchEmpty(t *testing.T) {
	fields, paths := encodePatch(docstore.Patch{})
	if len(fields) != 0 || len(paths) != 0 {
		t.Fatalf("empty patch produced fields=%v paths=%v", fields, paths)
	}
}
