// Package memory is the in-process document store used as the default
// backend and in tests.
package memory

import (
	"context"
	"sync"

	"santi/internal/core"
	"santi/internal/docstore"
)

type Store struct {
	mu   sync.Mutex
	docs map[string]docstore.UserDocument
}

var _ docstore.Store = (*Store)(nil)

func New() *Store {
	return &Store{docs: make(map[string]docstore.UserDocument)}
}

func (s *Store) Get(_ context.Context, uid string) (docstore.UserDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uid]
	if !ok {
		return docstore.UserDocument{}, docstore.ErrNotFound
	}
	return copyDoc(doc), nil
}

func (s *Store) Put(_ context.Context, uid string, patch docstore.Patch, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc docstore.UserDocument
	if merge {
		doc = s.docs[uid]
	}
	patch.Apply(&doc)
	s.docs[uid] = copyDoc(doc)
	return nil
}

// copyDoc detaches the slices so callers can't reach into stored state.
func copyDoc(doc docstore.UserDocument) docstore.UserDocument {
	doc.Transactions = append([]core.ManualTransaction(nil), doc.Transactions...)
	doc.Manual.Ledger = append([]core.LedgerEntry(nil), doc.Manual.Ledger...)
	return doc
}
