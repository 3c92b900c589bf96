package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound: сессии с таким id нет.
var ErrSessionNotFound = errors.New("session not found")

// ============================================================
// Session Manager
// ============================================================

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Editor // id -> editor
	opts     Options
	store    Store
}

func NewManager(opts Options, store Store) *Manager {
	return &Manager{
		sessions: make(map[string]*Editor),
		opts:     opts,
		store:    store,
	}
}

// Create открывает новую сессию редактора со свежим узором.
func (m *Manager) Create() *Editor {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	e := NewEditor(id, m.opts, m.store)
	m.sessions[id] = e
	return e
}

func (m *Manager) Get(id string) (*Editor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
