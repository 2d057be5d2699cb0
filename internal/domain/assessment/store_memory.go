package assessment

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore implements StoreAPI for tests and local development without
// Postgres.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Assessment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: map[string]*Assessment{}}
}

func (s *InMemoryStore) CreateAssessment(_ context.Context, record *Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *record
	s.records[record.ID] = &stored
	return nil
}

func (s *InMemoryStore) ListAssessments(_ context.Context, tenantID string, filter Filter, limit, offset int) ([]Assessment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Assessment
	for _, record := range s.records {
		if record.TenantID != tenantID {
			continue
		}
		if filter.Type != "" && string(record.Type) != filter.Type {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		if filter.Owner != "" && record.OwnerID != filter.Owner {
			continue
		}
		matched = append(matched, *record)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})

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

func (s *InMemoryStore) GetAssessment(_ context.Context, tenantID, id string) (*Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok || record.TenantID != tenantID {
		return nil, ErrNotFound
	}
	out := *record
	return &out, nil
}

func (s *InMemoryStore) DeleteAssessment(_ context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok || record.TenantID != tenantID {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *InMemoryStore) ListActionItems(_ context.Context, tenantID, assessmentID string) ([]ActionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[assessmentID]
	if !ok || record.TenantID != tenantID {
		return nil, ErrNotFound
	}
	return append([]ActionItem{}, record.ActionItems...), nil
}

func (s *InMemoryStore) UpdateActionItemStatus(_ context.Context, tenantID, itemID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.records {
		if record.TenantID != tenantID {
			continue
		}
		for i := range record.ActionItems {
			if record.ActionItems[i].ID == itemID {
				record.ActionItems[i].Status = status
				return nil
			}
		}
	}
	return ErrNotFound
}
