package session

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/misexecutive/minda-corp/api"
)

// Observer is notified whenever the current session changes. A nil session
// means logged out.
type Observer func(*Session)

// Manager owns the current session: it authenticates through the API facade,
// persists the result, and publishes changes to observers.
type Manager struct {
	api   *api.Client
	store Store

	mu        sync.RWMutex
	current   *Session
	observers []Observer
}

// NewManager builds a Manager and restores any persisted session. A corrupt
// stored session degrades to logged-out.
func NewManager(client *api.Client, store Store) (*Manager, error) {
	current, err := store.Load()
	if err != nil {
		return nil, errors.Wrap(err, "[NewManager] load stored session")
	}
	return &Manager{
		api:     client,
		store:   store,
		current: current,
	}, nil
}

// Current returns the active session, or nil when logged out.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	copied := *m.current
	return &copied
}

func (m *Manager) IsAuthenticated() bool {
	return m.Current().IsAuthenticated()
}

// Subscribe registers an observer for session changes.
func (m *Manager) Subscribe(observer Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, observer)
}

// Login authenticates, persists the new session, and publishes it.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := m.api.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return nil, err
	}

	role, err := ParseRole(resp.Role)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] response role")
	}

	next := &Session{
		Token:    resp.Token,
		Role:     role,
		UserID:   resp.UserID,
		Username: resp.Username,
	}
	if err := m.store.Save(next); err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] persist session")
	}

	m.publish(next)
	copied := *next
	return &copied, nil
}

// Logout clears storage and publishes the absent session. Used both for
// explicit logout and for forced logout on an unauthorized response.
func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return errors.Wrap(err, "[Manager.Logout] clear session store")
	}
	m.publish(nil)
	return nil
}

func (m *Manager) publish(next *Session) {
	m.mu.Lock()
	m.current = next
	observers := make([]Observer, len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, observer := range observers {
		observer(next)
	}
}
