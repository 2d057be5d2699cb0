package dashboard

import (
	"context"
	"time"
)

type Submission struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	OwnerID     string     `json:"ownerId"`
	SubmittedAt *time.Time `json:"submittedAt"`
}

type Summary struct {
	AssessmentsByType   map[string]int `json:"assessmentsByType"`
	AssessmentsByStatus map[string]int `json:"assessmentsByStatus"`
	OpenActionItems     int            `json:"openActionItems"`
	MyOpenActionItems   int            `json:"myOpenActionItems"`
	Users               int            `json:"users"`
	Teams               int            `json:"teams"`
	RecentSubmissions   []Submission   `json:"recentSubmissions"`
}

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Summary aggregates the landing page counters in one call. userID scopes
// the personal action item counter only.
func (s *Service) Summary(ctx context.Context, tenantID, userID string) (*Summary, error) {
	byType, err := s.Store.AssessmentCountsByType(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.Store.AssessmentCountsByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	openItems, err := s.Store.OpenActionItems(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	myItems, err := s.Store.OpenActionItemsForUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	users, err := s.Store.UserCount(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	teams, err := s.Store.TeamCount(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	recent, err := s.Store.RecentSubmissions(ctx, tenantID, 10)
	if err != nil {
		return nil, err
	}
	return &Summary{
		AssessmentsByType:   byType,
		AssessmentsByStatus: byStatus,
		OpenActionItems:     openItems,
		MyOpenActionItems:   myItems,
		Users:               users,
		Teams:               teams,
		RecentSubmissions:   recent,
	}, nil
}
