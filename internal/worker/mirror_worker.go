package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"santi/internal/amqp"
	"santi/internal/core"
	"santi/internal/docstore"
	"santi/internal/log"
)

// SnapshotSink receives the mirrored collections. Implemented by
// storage.SQLiteRepository.
type SnapshotSink interface {
	ReplaceSnapshot(ctx context.Context, uid string, plays []core.ManualTransaction, ledger []core.LedgerEntry) error
}

// MirrorWorker keeps the local SQLite mirror in step with the remote
// document store by reacting to ledger-change messages.
type MirrorWorker struct {
	store docstore.Store
	sink  SnapshotSink
}

func NewMirrorWorker(store docstore.Store, sink SnapshotSink) *MirrorWorker {
	return &MirrorWorker{
		store: store,
		sink:  sink,
	}
}

// HandleChangeMessage re-fetches the changed user's document and replaces
// the mirror snapshot. Which collection changed does not matter: the
// document store writes whole-collection snapshots, so the mirror is
// rebuilt from the full document either way.
func (w *MirrorWorker) HandleChangeMessage(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		log.FieldUID, msg.UID,
		log.FieldOperation, log.OpMirror,
		"collection", msg.Collection)

	doc, err := w.store.Get(ctx, msg.UID)
	if errors.Is(err, docstore.ErrNotFound) {
		// Deleted or never-bootstrapped document: clear the mirror.
		if err := w.sink.ReplaceSnapshot(ctx, msg.UID, nil, nil); err != nil {
			return fmt.Errorf("clear mirror for %s: %w", msg.UID, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch document for %s: %w", msg.UID, err)
	}

	if err := w.sink.ReplaceSnapshot(ctx, msg.UID, doc.Transactions, doc.Manual.Ledger); err != nil {
		return fmt.Errorf("replace mirror snapshot for %s: %w", msg.UID, err)
	}

	slog.InfoContext(ctx, "Mirror updated",
		log.FieldUID, msg.UID,
		"plays", len(doc.Transactions),
		"ledger_entries", len(doc.Manual.Ledger))

	return nil
}
