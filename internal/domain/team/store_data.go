package team

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateTeam(ctx context.Context, t *Team) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO teams (id, tenant_id, name, description, permissions, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, t.ID, t.TenantID, t.Name, t.Description, t.Permissions, t.CreatedAt)
	return err
}

func (s *Store) UpdateTeam(ctx context.Context, t *Team) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE teams SET name = $1, description = $2, permissions = $3
    WHERE tenant_id = $4 AND id = $5
  `, t.Name, t.Description, t.Permissions, t.TenantID, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTeam(ctx context.Context, tenantID, teamID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    DELETE FROM user_teams WHERE tenant_id = $1 AND team_id = $2
  `, tenantID, teamID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM teams WHERE tenant_id = $1 AND id = $2", tenantID, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) GetTeam(ctx context.Context, tenantID, teamID string) (*Team, error) {
	var t Team
	err := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, name, description, permissions, created_at
    FROM teams
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, teamID).Scan(&t.ID, &t.TenantID, &t.Name, &t.Description, &t.Permissions, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTeams(ctx context.Context, tenantID string) ([]Team, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, tenant_id, name, description, permissions, created_at
    FROM teams
    WHERE tenant_id = $1
    ORDER BY name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Name, &t.Description, &t.Permissions, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO users (id, tenant_id, name, email, department, status, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, u.ID, u.TenantID, u.Name, u.Email, u.Department, u.Status, u.CreatedAt); err != nil {
		return err
	}
	if err := insertUserTeams(ctx, tx, u.TenantID, u.ID, u.TeamIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) UpdateUser(ctx context.Context, u *User) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET name = $1, email = $2, department = $3, status = $4
    WHERE tenant_id = $5 AND id = $6
  `, u.Name, u.Email, u.Department, u.Status, u.TenantID, u.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, tenantID, userID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    DELETE FROM user_teams WHERE tenant_id = $1 AND user_id = $2
  `, tenantID, userID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM users WHERE tenant_id = $1 AND id = $2", tenantID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) GetUser(ctx context.Context, tenantID, userID string) (*User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, name, email, COALESCE(department, ''), status, created_at
    FROM users
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, userID).Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Department, &u.Status, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	teamIDs, err := s.userTeamIDs(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	u.TeamIDs = teamIDs
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, tenantID string, limit, offset int) ([]User, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE tenant_id = $1", tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, tenant_id, name, email, COALESCE(department, ''), status, created_at
    FROM users
    WHERE tenant_id = $1
    ORDER BY name
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Department, &u.Status, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		teamIDs, err := s.userTeamIDs(ctx, tenantID, out[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out[i].TeamIDs = teamIDs
	}
	return out, total, nil
}

func (s *Store) SetUserTeams(ctx context.Context, tenantID, userID string, teamIDs []string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    DELETE FROM user_teams WHERE tenant_id = $1 AND user_id = $2
  `, tenantID, userID); err != nil {
		return err
	}
	if err := insertUserTeams(ctx, tx, tenantID, userID, teamIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) TeamsByUser(ctx context.Context, tenantID, userID string) ([]Team, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.tenant_id, t.name, t.description, t.permissions, t.created_at
    FROM teams t
    JOIN user_teams ut ON ut.team_id = t.id AND ut.tenant_id = t.tenant_id
    WHERE ut.tenant_id = $1 AND ut.user_id = $2
  `, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Name, &t.Description, &t.Permissions, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) userTeamIDs(ctx context.Context, tenantID, userID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT team_id FROM user_teams WHERE tenant_id = $1 AND user_id = $2 ORDER BY team_id
  `, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func insertUserTeams(ctx context.Context, tx pgx.Tx, tenantID, userID string, teamIDs []string) error {
	for _, teamID := range teamIDs {
		if _, err := tx.Exec(ctx, `
      INSERT INTO user_teams (tenant_id, user_id, team_id)
      VALUES ($1,$2,$3)
      ON CONFLICT DO NOTHING
    `, tenantID, userID, teamID); err != nil {
			return err
		}
	}
	return nil
}
