package session

import (
	"errors"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
)

// ErrSessionNotFound is returned when a session code is unknown.
var ErrSessionNotFound = errors.New("session not found")

// Manager manages all active sessions.
type Manager struct {
	sessions map[string]*Session // code -> session
	opts     Options
	rng      *rand.Rand // guarded by mu
	mu       sync.RWMutex
}

// NewManager creates a new session manager. Every session it creates uses opts
// and saves finished runs through one shared background writer. A non-zero
// opts.Seed makes join codes and populations reproducible.
func NewManager(opts Options) *Manager {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts.persister = newPersister(opts.Store)
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// CreateSession creates a new stopped session running cfg and returns it.
func (m *Manager) CreateSession(cfg epidemic.Config) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := newCode(m.rng, m.codeTakenLocked)
	opts := m.opts
	opts.Seed = m.rng.Int63()
	s := NewSession(code, cfg, opts)
	m.sessions[code] = s

	slog.Info("session created", "code", code, "population", cfg.TotalPeople)
	return s
}

func (m *Manager) codeTakenLocked(code string) bool {
	_, ok := m.sessions[code]
	return ok
}

// GetSession returns a session by its code.
func (m *Manager) GetSession(code string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[code]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// RemoveSession stops, persists and forgets a session.
func (m *Manager) RemoveSession(code string) {
	m.mu.Lock()
	s, ok := m.sessions[code]
	delete(m.sessions, code)
	m.mu.Unlock()

	if !ok {
		return
	}
	s.Close()
	slog.Info("session removed", "code", code)
}

// SessionCount returns the number of active sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// FindSessionByClientID finds the session a client is watching.
func (m *Manager) FindSessionByClientID(clientID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.HasClient(clientID) {
			return s
		}
	}
	return nil
}

// List returns a summary of every session ordered by code.
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Code < infos[j].Code })
	return infos
}

// Shutdown closes every session and waits for all pending run saves,
// including those of sessions removed earlier.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.opts.persister.wait()
}
