package wizard

import (
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("WIZARD_SESSION_NOT_FOUND")

type session struct {
	wizard   *Wizard
	mu       sync.Mutex
	lastSeen time.Time
}

// Manager holds live wizard sessions in memory keyed by session id. Sessions
// idle longer than the TTL are reaped; a reaped session behaves like one that
// never existed.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new wizard session and returns it.
func (m *Manager) Create() *Wizard {
	w := New()
	m.mu.Lock()
	m.sessions[w.ID] = &session{wizard: w, lastSeen: m.now()}
	m.mu.Unlock()
	return w
}

// With runs fn while holding the session's lock, serializing stage posts for
// the same session. The session's idle clock restarts on each call.
func (m *Manager) With(id string, fn func(w *Wizard) error) error {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || m.expired(s) {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = m.now()
	return fn(s.wizard)
}

// Delete drops a session. Deleting an unknown id is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Reap removes idle sessions and returns how many were dropped.
func (m *Manager) Reap() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (m *Manager) expired(s *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.now().Sub(s.lastSeen) > m.ttl
}
