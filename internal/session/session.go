// Package session owns the per-user in-memory state: the two persisted
// collections (plays and ledger entries) plus the disposable bank
// snapshots. The in-memory state is the source of truth for a session;
// persistence is best-effort and asynchronous.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"santi/internal/amqp"
	"santi/internal/core"
	"santi/internal/docstore"
	"santi/internal/identity"
)

// Session lifecycle states.
const (
	StateSignedOut State = "signed_out"
	StateLoading   State = "loading"
	StateReady     State = "ready"
)

const persistTimeout = 10 * time.Second

// ErrProviderNotAllowed marks a sign-in method that may not own a profile.
var ErrProviderNotAllowed = errors.New("sign-in provider may not hold a profile")

// ErrNotReady is returned for mutations before the session finished loading.
var ErrNotReady = errors.New("session not ready")

type (
	State string

	// ChangePublisher is the optional change-announcement sink. A nil
	// publisher disables announcements without disabling persistence.
	ChangePublisher interface {
		PublishLedgerChanged(ctx context.Context, uid, collection string) error
	}

	// BankSource delivers the account and transaction snapshots.
	BankSource interface {
		Accounts(ctx context.Context, uid string) ([]core.BankAccount, error)
		Transactions(ctx context.Context, uid string) ([]core.BankTransaction, error)
	}

	// Session holds one signed-in user's state. All methods are safe for
	// concurrent use; the owned collections only ever grow within a
	// session and are cleared as a whole on sign-out.
	Session struct {
		mu    sync.Mutex
		state State
		user  identity.User

		plays  []core.ManualTransaction
		ledger []core.LedgerEntry

		// Disposable caches, replaced wholesale on refresh.
		accounts []core.BankAccount
		bankTxs  []core.BankTransaction

		store     docstore.Store
		publisher ChangePublisher

		writes sync.WaitGroup
	}
)

func New(user identity.User, store docstore.Store, publisher ChangePublisher) *Session {
	return &Session{
		state:     StateSignedOut,
		user:      user,
		store:     store,
		publisher: publisher,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) User() identity.User {
	return s.user
}

// Load moves the session through Loading into Ready: it bootstraps the
// user document on first sign-in, merge-updates the profile otherwise, and
// pulls the persisted collections. A store failure is logged and degrades
// to an empty but usable session, never a dead one.
func (s *Session) Load(ctx context.Context) error {
	if !s.user.Allowed() {
		return ErrProviderNotAllowed
	}

	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	plays, ledger := s.loadCollections(ctx)

	s.mu.Lock()
	s.plays = plays
	s.ledger = ledger
	s.state = StateReady
	s.mu.Unlock()
	return nil
}

func (s *Session) loadCollections(ctx context.Context) ([]core.ManualTransaction, []core.LedgerEntry) {
	uid := s.user.UID
	now := time.Now()

	doc, err := s.store.Get(ctx, uid)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		// First sign-in: write the profile and empty collections back so
		// the document exists for every later merge.
		profile := docstore.Profile{
			UID:         uid,
			Email:       s.user.Email,
			PhoneNumber: s.user.PhoneNumber,
			CreatedAt:   now,
			LastLoginAt: now,
		}
		empty := docstore.Patch{
			Profile:      &profile,
			Transactions: &[]core.ManualTransaction{},
			Ledger:       &[]core.LedgerEntry{},
		}
		if err := s.store.Put(ctx, uid, empty, true); err != nil {
			slog.ErrorContext(ctx, "Failed to bootstrap user document", "uid", uid, "error", err)
		}
		return nil, nil
	case err != nil:
		slog.ErrorContext(ctx, "Failed to load user document, starting empty",
			"uid", uid, "error", err)
		return nil, nil
	}

	// Returning user: merge-update the profile's last login.
	profile := doc.Profile
	profile.UID = uid
	profile.Email = s.user.Email
	profile.PhoneNumber = s.user.PhoneNumber
	profile.LastLoginAt = now
	if err := s.store.Put(ctx, uid, docstore.Patch{Profile: &profile}, true); err != nil {
		slog.WarnContext(ctx, "Failed to update profile on sign-in", "uid", uid, "error", err)
	}

	return doc.Transactions, doc.Manual.Ledger
}

// AddPlay records a manual dashboard transaction and kicks off the
// asynchronous persistence write. No context parameter: the write
// deliberately outlives the request.
func (s *Session) AddPlay(label string, amount float64, playType core.PlayType) (core.ManualTransaction, error) {
	tx := core.ManualTransaction{
		ID:     time.Now().UnixMilli(),
		Label:  strings.TrimSpace(label),
		Amount: amount,
		Type:   playType,
	}
	if err := tx.Validate(); err != nil {
		return core.ManualTransaction{}, err
	}

	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return core.ManualTransaction{}, ErrNotReady
	}
	s.plays = append(s.plays, tx)
	s.mu.Unlock()

	s.persistAsync(amqp.CollectionPlays)
	return tx, nil
}

// AddLedgerEntry records a manual ledger row, prepending it so the newest
// entry comes first, and kicks off the asynchronous persistence write.
// Date defaults to today (UTC) when empty, type to expense.
func (s *Session) AddLedgerEntry(entry core.LedgerEntry) (core.LedgerEntry, error) {
	if entry.Date == "" {
		entry.Date = time.Now().UTC().Format("2006-01-02")
	}
	if entry.Type == "" {
		entry.Type = core.EntryExpense
	}
	entry.ID = "ldg-" + uuid.NewString()[:12]
	entry.Label = strings.TrimSpace(entry.Label)
	entry.CreatedAt = time.Now().UnixMilli()

	if err := entry.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}

	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return core.LedgerEntry{}, ErrNotReady
	}
	s.ledger = append([]core.LedgerEntry{entry}, s.ledger...)
	s.mu.Unlock()

	s.persistAsync(amqp.CollectionLedger)
	return entry, nil
}

// persistAsync writes the full snapshot of both collections, merged into
// the user document, without blocking the caller. A later write carries a
// superset of an earlier one, so ordering between overlapping writes only
// matters if the transport reorders them; that is an accepted weakness.
// Failures are logged, never surfaced, and never roll back memory.
func (s *Session) persistAsync(collection string) {
	s.mu.Lock()
	plays := append([]core.ManualTransaction{}, s.plays...)
	ledger := append([]core.LedgerEntry{}, s.ledger...)
	s.mu.Unlock()

	uid := s.user.UID

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()

		// Detached from the request context: the write outlives the
		// HTTP response on purpose.
		wctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		patch := docstore.Patch{Transactions: &plays, Ledger: &ledger}
		if err := s.store.Put(wctx, uid, patch, true); err != nil {
			slog.ErrorContext(wctx, "Best-effort persistence write failed",
				"uid", uid, "collection", collection, "error", err)
		}

		if s.publisher != nil {
			if err := s.publisher.PublishLedgerChanged(wctx, uid, collection); err != nil {
				slog.WarnContext(wctx, "Failed to publish change message",
					"uid", uid, "collection", collection, "error", err)
			}
		}
	}()
}

// Flush blocks until all in-flight persistence writes finished. Used by
// graceful shutdown and tests.
func (s *Session) Flush() {
	s.writes.Wait()
}

// RefreshBank replaces both bank snapshots from the aggregator. The two
// fetches run concurrently and fail independently: a failed fetch empties
// its snapshot and the other one still lands. The first error is returned
// for logging; the session stays usable either way.
func (s *Session) RefreshBank(ctx context.Context, source BankSource) error {
	uid := s.user.UID

	var (
		accounts []core.BankAccount
		txs      []core.BankTransaction
		g        errgroup.Group
	)

	g.Go(func() error {
		got, err := source.Accounts(ctx, uid)
		if err != nil {
			return fmt.Errorf("refresh accounts: %w", err)
		}
		accounts = got
		return nil
	})
	g.Go(func() error {
		got, err := source.Transactions(ctx, uid)
		if err != nil {
			return fmt.Errorf("refresh transactions: %w", err)
		}
		txs = got
		return nil
	})
	err := g.Wait()

	s.mu.Lock()
	s.accounts = accounts
	s.bankTxs = txs
	s.mu.Unlock()
	return err
}

// SetBankSnapshots installs externally cached snapshots without hitting
// the aggregator.
func (s *Session) SetBankSnapshots(accounts []core.BankAccount, txs []core.BankTransaction) {
	s.mu.Lock()
	s.accounts = accounts
	s.bankTxs = txs
	s.mu.Unlock()
}

// SignOut clears every collection and cache and returns the session to
// SignedOut. Pending persistence writes still drain with their snapshots.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays = nil
	s.ledger = nil
	s.accounts = nil
	s.bankTxs = nil
	s.state = StateSignedOut
}

// Accessors return detached copies so callers can sort and slice freely.

func (s *Session) Plays() []core.ManualTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ManualTransaction{}, s.plays...)
}

func (s *Session) Ledger() []core.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.LedgerEntry{}, s.ledger...)
}

func (s *Session) Accounts() []core.BankAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.BankAccount{}, s.accounts...)
}

func (s *Session) BankTransactions() []core.BankTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.BankTransaction{}, s.bankTxs...)
}

// UnifiedRows builds the merged ledger view fresh from the current state.
func (s *Session) UnifiedRows() []core.UnifiedRow {
	s.mu.Lock()
	ledger := append([]core.LedgerEntry{}, s.ledger...)
	txs := append([]core.BankTransaction{}, s.bankTxs...)
	s.mu.Unlock()
	return core.Normalize(ledger, txs)
}
