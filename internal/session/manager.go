package session

import (
	"context"
	"sync"

	"santi/internal/docstore"
	"santi/internal/identity"
)

// Manager tracks at most one live session per uid.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	store     docstore.Store
	publisher ChangePublisher
}

func NewManager(store docstore.Store, publisher ChangePublisher) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		store:     store,
		publisher: publisher,
	}
}

// Ensure returns the user's session, creating and loading one on first
// use. A disallowed provider never gets a session.
func (m *Manager) Ensure(ctx context.Context, user identity.User) (*Session, error) {
	if !user.Allowed() {
		return nil, ErrProviderNotAllowed
	}

	m.mu.Lock()
	s, ok := m.sessions[user.UID]
	if !ok {
		s = New(user, m.store, m.publisher)
		m.sessions[user.UID] = s
	}
	m.mu.Unlock()

	if ok {
		return s, nil
	}
	if err := s.Load(ctx); err != nil {
		m.mu.Lock()
		delete(m.sessions, user.UID)
		m.mu.Unlock()
		return nil, err
	}
	return s, nil
}

// Get returns the live session for uid, or nil when none exists.
func (m *Manager) Get(uid string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[uid]
}

// Remove signs the session out and forgets it.
func (m *Manager) Remove(uid string) {
	m.mu.Lock()
	s := m.sessions[uid]
	delete(m.sessions, uid)
	m.mu.Unlock()
	if s != nil {
		s.SignOut()
	}
}

// Flush waits for every session's pending writes. Called on shutdown.
func (m *Manager) Flush() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()
	for _, s := range all {
		s.Flush()
	}
}
