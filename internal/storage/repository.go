// Package storage keeps a local SQLite mirror of the persisted user
// collections. The remote document store stays authoritative; the mirror
// is rebuilt per user from change messages and serves offline reads and
// ad-hoc querying.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"santi/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceSnapshot swaps in the full current state of one user's
// collections. The document store write model is whole-collection
// snapshots, so the mirror follows suit: delete and reinsert in one
// transaction rather than diffing.
func (r *SQLiteRepository) ReplaceSnapshot(ctx context.Context, uid string, plays []core.ManualTransaction, ledger []core.LedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM plays WHERE uid = ?`, uid); err != nil {
		return fmt.Errorf("clear plays: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_entries WHERE uid = ?`, uid); err != nil {
		return fmt.Errorf("clear ledger entries: %w", err)
	}

	for _, p := range plays {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO plays (uid, id, label, amount, type) VALUES (?, ?, ?, ?, ?)`,
			uid, p.ID, p.Label, p.Amount, string(p.Type))
		if err != nil {
			return fmt.Errorf("insert play %d: %w", p.ID, err)
		}
	}

	for _, e := range ledger {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_entries
			 (uid, id, entry_date, label, amount, type, from_account, to_account, platform, tags, note, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uid, e.ID, e.Date, e.Label, e.Amount, string(e.Type),
			e.FromAccount, e.ToAccount, e.Platform, e.Tags, e.Note, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert ledger entry %s: %w", e.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO mirror_state (uid, synced_at) VALUES (?, ?)
		 ON CONFLICT (uid) DO UPDATE SET synced_at = excluded.synced_at`,
		uid, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("update mirror state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Mirror snapshot replaced",
		"uid", uid,
		"plays", len(plays),
		"ledger_entries", len(ledger))

	return nil
}

func (r *SQLiteRepository) PlaysForUser(ctx context.Context, uid string) ([]core.ManualTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, amount, type FROM plays WHERE uid = ? ORDER BY id`, uid)
	if err != nil {
		return nil, fmt.Errorf("query plays: %w", err)
	}
	defer rows.Close()

	var plays []core.ManualTransaction
	for rows.Next() {
		var p core.ManualTransaction
		var playType string
		if err := rows.Scan(&p.ID, &p.Label, &p.Amount, &playType); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		p.Type = core.PlayType(playType)
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// LedgerForUser returns the mirrored manual ledger, newest first, matching
// the in-session ordering.
func (r *SQLiteRepository) LedgerForUser(ctx context.Context, uid string) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entry_date, label, amount, type, from_account, to_account, platform, tags, note, created_at
		 FROM ledger_entries WHERE uid = ? ORDER BY created_at DESC, id`, uid)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []core.LedgerEntry
	for rows.Next() {
		var e core.LedgerEntry
		var entryType string
		err := rows.Scan(&e.ID, &e.Date, &e.Label, &e.Amount, &entryType,
			&e.FromAccount, &e.ToAccount, &e.Platform, &e.Tags, &e.Note, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Type = core.EntryType(entryType)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastSyncedAt reports when the user's mirror was last replaced; the zero
// time means never.
func (r *SQLiteRepository) LastSyncedAt(ctx context.Context, uid string) (time.Time, error) {
	var millis int64
	err := r.db.QueryRowContext(ctx,
		`SELECT synced_at FROM mirror_state WHERE uid = ?`, uid).Scan(&millis)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query mirror state: %w", err)
	}
	return time.UnixMilli(millis), nil
}
