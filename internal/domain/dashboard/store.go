package dashboard

import (
	"context"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) AssessmentCountsByType(ctx context.Context, tenantID string) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT type, COUNT(1)
    FROM assessments
    WHERE tenant_id = $1
    GROUP BY type
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var atype string
		var count int
		if err := rows.Scan(&atype, &count); err != nil {
			return nil, err
		}
		out[atype] = count
	}
	return out, rows.Err()
}

func (s *Store) AssessmentCountsByStatus(ctx context.Context, tenantID string) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT status, COUNT(1)
    FROM assessments
    WHERE tenant_id = $1
    GROUP BY status
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}

func (s *Store) OpenActionItems(ctx context.Context, tenantID string) (int, error) {
	var openItems int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM action_items ai
    JOIN assessments a ON a.id = ai.assessment_id
    WHERE a.tenant_id = $1 AND ai.status = 'open'
  `, tenantID).Scan(&openItems); err != nil {
		return 0, err
	}
	return openItems, nil
}

func (s *Store) OpenActionItemsForUser(ctx context.Context, tenantID, userID string) (int, error) {
	var openItems int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM action_items ai
    JOIN assessments a ON a.id = ai.assessment_id
    WHERE a.tenant_id = $1 AND ai.assignee_id = $2 AND ai.status = 'open'
  `, tenantID, userID).Scan(&openItems); err != nil {
		return 0, err
	}
	return openItems, nil
}

func (s *Store) RecentSubmissions(ctx context.Context, tenantID string, limit int) ([]Submission, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, type, status, owner_id, submitted_at
    FROM assessments
    WHERE tenant_id = $1 AND submitted_at IS NOT NULL
    ORDER BY submitted_at DESC
    LIMIT $2
  `, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.Type, &sub.Status, &sub.OwnerID, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *Store) UserCount(ctx context.Context, tenantID string) (int, error) {
	var users int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE tenant_id = $1", tenantID).Scan(&users); err != nil {
		return 0, err
	}
	return users, nil
}

func (s *Store) TeamCount(ctx context.Context, tenantID string) (int, error) {
	var teams int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM teams WHERE tenant_id = $1", tenantID).Scan(&teams); err != nil {
		return 0, err
	}
	return teams, nil
}
