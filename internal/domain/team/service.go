package team

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateTeam accepts permissions either as a normalized string list or as
// the legacy mixed object and stores the normalized form.
func (s *Service) CreateTeam(ctx context.Context, tenantID, name, description string, permissions []string) (*Team, error) {
	t := &Team{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Permissions: dedupe(permissions),
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateTeam(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) UpdateTeam(ctx context.Context, tenantID, teamID, name, description string, permissions []string) (*Team, error) {
	t, err := s.store.GetTeam(ctx, tenantID, teamID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		t.Name = strings.TrimSpace(name)
	}
	t.Description = strings.TrimSpace(description)
	if permissions != nil {
		t.Permissions = dedupe(permissions)
	}
	if err := s.store.UpdateTeam(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteTeam(ctx context.Context, tenantID, teamID string) error {
	return s.store.DeleteTeam(ctx, tenantID, teamID)
}

func (s *Service) GetTeam(ctx context.Context, tenantID, teamID string) (*Team, error) {
	return s.store.GetTeam(ctx, tenantID, teamID)
}

func (s *Service) ListTeams(ctx context.Context, tenantID string) ([]Team, error) {
	return s.store.ListTeams(ctx, tenantID)
}

func (s *Service) CreateUser(ctx context.Context, tenantID, name, email, department string, teamIDs []string) (*User, error) {
	u := &User{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Name:       strings.TrimSpace(name),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Department: strings.TrimSpace(department),
		TeamIDs:    dedupe(teamIDs),
		Status:     UserStatusActive,
		CreatedAt:  s.now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, u *User) error {
	return s.store.UpdateUser(ctx, u)
}

func (s *Service) DeleteUser(ctx context.Context, tenantID, userID string) error {
	return s.store.DeleteUser(ctx, tenantID, userID)
}

func (s *Service) GetUser(ctx context.Context, tenantID, userID string) (*User, error) {
	return s.store.GetUser(ctx, tenantID, userID)
}

func (s *Service) ListUsers(ctx context.Context, tenantID string, limit, offset int) ([]User, int, error) {
	return s.store.ListUsers(ctx, tenantID, limit, offset)
}

func (s *Service) SetUserTeams(ctx context.Context, tenantID, userID string, teamIDs []string) error {
	return s.store.SetUserTeams(ctx, tenantID, userID, dedupe(teamIDs))
}

// Effective computes the user's effective permissions from the stored team
// assignments.
func (s *Service) Effective(ctx context.Context, tenantID, userID string) (map[string][]string, error) {
	user, err := s.store.GetUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	teams, err := s.store.TeamsByUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	byID := map[string]Team{}
	for _, t := range teams {
		byID[t.ID] = t
	}
	return EffectivePermissions(*user, func(id string) (Team, bool) {
		t, ok := byID[id]
		return t, ok
	}), nil
}

// HasPermission answers route-guard checks against the user's effective set.
func (s *Service) HasPermission(ctx context.Context, tenantID, userID, permission string) (bool, error) {
	teams, err := s.store.TeamsByUser(ctx, tenantID, userID)
	if err != nil {
		return false, err
	}
	permission = strings.ToLower(strings.TrimSpace(permission))
	for _, t := range teams {
		for _, perm := range t.Permissions {
			if strings.EqualFold(perm, permission) {
				return true, nil
			}
		}
	}
	return false, nil
}

func dedupe(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
