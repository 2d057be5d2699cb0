package assessment

import (
	"context"
	"encoding/json"
	"sync"
)

// InMemoryDraftStore backs tests and redis-less deployments. Drafts are
// stored as JSON copies so later mutations of the live draft don't leak in.
type InMemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewInMemoryDraftStore() *InMemoryDraftStore {
	return &InMemoryDraftStore{drafts: map[string][]byte{}}
}

func (s *InMemoryDraftStore) Save(_ context.Context, draft *Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.drafts[draft.ID]; ok {
		var stored Draft
		if err := json.Unmarshal(existing, &stored); err == nil && stored.Revision > draft.Revision {
			return nil
		}
	}
	s.drafts[draft.ID] = payload
	return nil
}

func (s *InMemoryDraftStore) Get(_ context.Context, id string) (*Draft, error) {
	s.mu.RLock()
	payload, ok := s.drafts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	var draft Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *InMemoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}
