package team

import "context"

type StoreAPI interface {
	CreateTeam(ctx context.Context, t *Team) error
	UpdateTeam(ctx context.Context, t *Team) error
	// DeleteTeam removes the team and, in the same transaction, its id from
	// every user's team list.
	DeleteTeam(ctx context.Context, tenantID, teamID string) error
	GetTeam(ctx context.Context, tenantID, teamID string) (*Team, error)
	ListTeams(ctx context.Context, tenantID string) ([]Team, error)

	CreateUser(ctx context.Context, u *User) error
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, tenantID, userID string) error
	GetUser(ctx context.Context, tenantID, userID string) (*User, error)
	ListUsers(ctx context.Context, tenantID string, limit, offset int) ([]User, int, error)
	SetUserTeams(ctx context.Context, tenantID, userID string, teamIDs []string) error

	TeamsByUser(ctx context.Context, tenantID, userID string) ([]Team, error)
}
