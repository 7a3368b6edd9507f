package storage

import (
	"context"
	"path/filepath"
	"testing"

	"santi/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestReplaceSnapshotRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	plays := []core.ManualTransaction{
		{ID: 1, Label: "House", Amount: 250000, Type: core.PlayAsset},
		{ID: 2, Label: "Car loan", Amount: 9000, Type: core.PlayLiability},
	}
	ledger := []core.LedgerEntry{
		{ID: "ldg-b", Date: "2026-08-02", Label: "Paycheck", Amount: 2000, Type: core.EntryIncome, CreatedAt: 200},
		{ID: "ldg-a", Date: "2026-08-01", Label: "Rent", Amount: -1200, Type: core.EntryExpense, Tags: "housing", CreatedAt: 100},
	}

	if err := repo.ReplaceSnapshot(ctx, "u1", plays, ledger); err != nil {
		t.Fatalf("ReplaceSnapshot() error = %v", err)
	}

	gotPlays, err := repo.PlaysForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("PlaysForUser() error = %v", err)
	}
	if len(gotPlays) != 2 || gotPlays[0].Label != "House" || gotPlays[1].Type != core.PlayLiability {
		t.Errorf("PlaysForUser() = %+v", gotPlays)
	}

	gotLedger, err := repo.LedgerForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("LedgerForUser() error = %v", err)
	}
	if len(gotLedger) != 2 {
		t.Fatalf("LedgerForUser() returned %d entries, want 2", len(gotLedger))
	}
	if gotLedger[0].ID != "ldg-b" || gotLedger[1].ID != "ldg-a" {
		t.Errorf("ledger order = [%s %s], want newest first", gotLedger[0].ID, gotLedger[1].ID)
	}
	if gotLedger[1].Tags != "housing" || gotLedger[1].Amount != -1200 {
		t.Errorf("ledger entry fields lost in round trip: %+v", gotLedger[1])
	}

	syncedAt, err := repo.LastSyncedAt(ctx, "u1")
	if err != nil {
		t.Fatalf("LastSyncedAt() error = %v", err)
	}
	if syncedAt.IsZero() {
		t.Error("LastSyncedAt() is zero after a snapshot")
	}
}

func TestReplaceSnapshotDropsStaleRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := []core.LedgerEntry{
		{ID: "ldg-1", Date: "2026-01-01", Label: "Old", Amount: 1, Type: core.EntryExpense},
		{ID: "ldg-2", Date: "2026-01-02", Label: "Older", Amount: 2, Type: core.EntryExpense},
	}
	if err := repo.ReplaceSnapshot(ctx, "u1", nil, first); err != nil {
		t.Fatal(err)
	}

	second := []core.LedgerEntry{
		{ID: "ldg-3", Date: "2026-01-03", Label: "Current", Amount: 3, Type: core.EntryIncome},
	}
	if err := repo.ReplaceSnapshot(ctx, "u1", nil, second); err != nil {
		t.Fatal(err)
	}

	got, err := repo.LedgerForUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "ldg-3" {
		t.Errorf("LedgerForUser() = %+v, want only the current snapshot", got)
	}
}

func TestSnapshotsAreScopedByUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceSnapshot(ctx, "u1", []core.ManualTransaction{{ID: 1, Label: "A", Amount: 1, Type: core.PlayAsset}}, nil); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceSnapshot(ctx, "u2", []core.ManualTransaction{{ID: 2, Label: "B", Amount: 2, Type: core.PlayAsset}}, nil); err != nil {
		t.Fatal(err)
	}

	got, err := repo.PlaysForUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Label != "A" {
		t.Errorf("PlaysForUser(u1) = %+v, want only u1's play", got)
	}

	if synced, _ := repo.LastSyncedAt(ctx, "u3"); !synced.IsZero() {
		t.Errorf("LastSyncedAt for an unknown uid = %v, want zero", synced)
	}
}
