package assessment

import (
	"sync"
	"time"
)

// Manager owns the open drafts. Each draft is exclusive to its wizard
// session; the manager serializes access so handler mutations and the
// auto-save flusher never observe a half-updated draft.
type Manager struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewManager() *Manager {
	return &Manager{drafts: map[string]*Draft{}}
}

func (m *Manager) Open(draft *Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draft.ID] = draft
}

// Mutate runs fn against the draft under the manager lock. Returns
// ErrDraftNotFound when the id is unknown.
func (m *Manager) Mutate(id string, fn func(*Draft) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	draft, ok := m.drafts[id]
	if !ok {
		return ErrDraftNotFound
	}
	return fn(draft)
}

// Take removes and returns the draft in one step. Submission uses this so a
// double-submitted draft is handed to exactly one caller.
func (m *Manager) Take(id string) (*Draft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	draft, ok := m.drafts[id]
	if ok {
		delete(m.drafts, id)
	}
	return draft, ok
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
}

// SweepIdle evicts drafts with no pending edits whose last activity is older
// than ttl. The draft store copy survives, so an evicted draft can still be
// reopened later.
func (m *Manager) SweepIdle(ttl time.Duration, now time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var evicted []string
	for id, draft := range m.drafts {
		if draft.Touched {
			continue
		}
		lastActivity := draft.CreatedAt
		if draft.LastSavedAt != nil && draft.LastSavedAt.After(lastActivity) {
			lastActivity = *draft.LastSavedAt
		}
		if now.Sub(lastActivity) > ttl {
			delete(m.drafts, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.drafts)
}
