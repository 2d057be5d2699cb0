package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/auth"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	tenantID, err := ensureTenant(ctx, pool, cfg.SeedTenantName)
	if err != nil {
		return err
	}

	if err := ensureTenantSettings(ctx, pool, tenantID, cfg); err != nil {
		return err
	}

	teamIDs, err := ensureDefaultTeams(ctx, pool, tenantID)
	if err != nil {
		return err
	}

	return ensureAdminUser(ctx, pool, tenantID, teamIDs["Administrators"], cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureTenant(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM tenants WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO tenants (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureTenantSettings(ctx context.Context, pool *pgxpool.Pool, tenantID string, cfg config.Config) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO tenant_settings (tenant_id, email_notifications_enabled, email_from)
    VALUES ($1,$2,$3)
    ON CONFLICT (tenant_id) DO NOTHING
  `, tenantID, cfg.EmailEnabled, cfg.EmailFrom)
	return err
}

func ensureDefaultTeams(ctx context.Context, pool *pgxpool.Pool, tenantID string) (map[string]string, error) {
	teamIDs := map[string]string{}
	for name, perms := range auth.DefaultTeamPermissions {
		var id string
		err := pool.QueryRow(ctx, "SELECT id FROM teams WHERE tenant_id = $1 AND name = $2", tenantID, name).Scan(&id)
		if err == nil {
			teamIDs[name] = id
			continue
		}

		err = pool.QueryRow(ctx, `
      INSERT INTO teams (tenant_id, name, description, permissions)
      VALUES ($1, $2, '', $3)
      RETURNING id
    `, tenantID, name, perms).Scan(&id)
		if err != nil {
			return nil, err
		}
		teamIDs[name] = id
	}
	return teamIDs, nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, tenantID, teamID, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE tenant_id = $1 AND email = $2", tenantID, email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if err := pool.QueryRow(ctx, `
    INSERT INTO users (tenant_id, name, email, password_hash, status)
    VALUES ($1, 'Administrator', $2, $3, 'active')
    RETURNING id
  `, tenantID, email, hash).Scan(&id); err != nil {
		return err
	}

	if teamID == "" {
		return nil
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO user_teams (tenant_id, user_id, team_id)
    VALUES ($1,$2,$3)
    ON CONFLICT DO NOTHING
  `, tenantID, id, teamID)
	return err
}
