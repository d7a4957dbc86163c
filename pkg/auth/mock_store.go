package auth

import (
	"sort"
	"sync"
)

// MockStore implements TokenStore in memory for tests
type MockStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	// Error injection
	StoreError    error
	RetrieveError error
	ListError     error
	DeleteError   error
}

func NewMockStore() *MockStore {
	return &MockStore{sessions: make(map[string]*Session)}
}

func (m *MockStore) Store(session *Session) error {
	if m.StoreError != nil {
		return m.StoreError
	}
	if session == nil || session.Account == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *session
	m.sessions[session.Account] = &copied
	return nil
}

func (m *MockStore) Retrieve(account string) (*Session, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}
	if account == "" {
		return nil, ErrInvalidSession
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[account]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *MockStore) List() ([]*Session, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		copied := *s
		sessions = append(sessions, &copied)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Account < sessions[j].Account })
	return sessions, nil
}

func (m *MockStore) Delete(account string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if account == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[account]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, account)
	return nil
}

func (m *MockStore) Exists(account string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.sessions[account]
	return ok
}

// Count returns the number of stored sessions
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
