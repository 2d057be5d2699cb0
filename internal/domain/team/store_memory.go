package team

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore implements StoreAPI for tests.
type InMemoryStore struct {
	mu    sync.RWMutex
	teams map[string]*Team
	users map[string]*User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{teams: map[string]*Team{}, users: map[string]*User{}}
}

func (s *InMemoryStore) CreateTeam(_ context.Context, t *Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *t
	s.teams[t.ID] = &stored
	return nil
}

func (s *InMemoryStore) UpdateTeam(_ context.Context, t *Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.teams[t.ID]
	if !ok || existing.TenantID != t.TenantID {
		return ErrNotFound
	}
	stored := *t
	s.teams[t.ID] = &stored
	return nil
}

func (s *InMemoryStore) DeleteTeam(_ context.Context, tenantID, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.teams[teamID]
	if !ok || existing.TenantID != tenantID {
		return ErrNotFound
	}
	delete(s.teams, teamID)
	for _, u := range s.users {
		if u.TenantID != tenantID {
			continue
		}
		var kept []string
		for _, id := range u.TeamIDs {
			if id != teamID {
				kept = append(kept, id)
			}
		}
		u.TeamIDs = kept
	}
	return nil
}

func (s *InMemoryStore) GetTeam(_ context.Context, tenantID, teamID string) (*Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok || t.TenantID != tenantID {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *InMemoryStore) ListTeams(_ context.Context, tenantID string) ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Team
	for _, t := range s.teams {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) CreateUser(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func (s *InMemoryStore) UpdateUser(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok || existing.TenantID != u.TenantID {
		return ErrNotFound
	}
	existing.Name = u.Name
	existing.Email = u.Email
	existing.Department = u.Department
	existing.Status = u.Status
	return nil
}

func (s *InMemoryStore) DeleteUser(_ context.Context, tenantID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[userID]
	if !ok || existing.TenantID != tenantID {
		return ErrNotFound
	}
	delete(s.users, userID)
	return nil
}

func (s *InMemoryStore) GetUser(_ context.Context, tenantID, userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok || u.TenantID != tenantID {
		return nil, ErrNotFound
	}
	out := *u
	out.TeamIDs = append([]string{}, u.TeamIDs...)
	return &out, nil
}

func (s *InMemoryStore) ListUsers(_ context.Context, tenantID string, limit, offset int) ([]User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []User
	for _, u := range s.users {
		if u.TenantID == tenantID {
			matched = append(matched, *u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s *InMemoryStore) SetUserTeams(_ context.Context, tenantID, userID string, teamIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || u.TenantID != tenantID {
		return ErrNotFound
	}
	u.TeamIDs = append([]string{}, teamIDs...)
	return nil
}

func (s *InMemoryStore) TeamsByUser(_ context.Context, tenantID, userID string) ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok || u.TenantID != tenantID {
		return nil, nil
	}
	var out []Team
	for _, teamID := range u.TeamIDs {
		if t, ok := s.teams[teamID]; ok && t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	return out, nil
}
