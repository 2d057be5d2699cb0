package articles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/querier"
)

var ErrNotFound = errors.New("not found")

// Article is a guidance page shown alongside the assessment wizards.
type Article struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"-"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Service struct {
	DB  querier.Querier
	now func() time.Time
}

func New(db querier.Querier) *Service {
	return &Service{DB: db, now: time.Now}
}

func (s *Service) Upsert(ctx context.Context, tenantID, slug, title, category, body string) (*Article, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, errors.New("slug required")
	}
	art := &Article{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Slug:      slug,
		Title:     strings.TrimSpace(title),
		Category:  strings.TrimSpace(category),
		Body:      body,
		UpdatedAt: s.now(),
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO articles (id, tenant_id, slug, title, category, body, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (tenant_id, slug)
    DO UPDATE SET title = $4, category = $5, body = $6, updated_at = $7
  `, art.ID, art.TenantID, art.Slug, art.Title, art.Category, art.Body, art.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return art, nil
}

func (s *Service) Get(ctx context.Context, tenantID, slug string) (*Article, error) {
	var art Article
	err := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, slug, title, category, body, updated_at
    FROM articles
    WHERE tenant_id = $1 AND slug = $2
  `, tenantID, strings.ToLower(slug)).Scan(&art.ID, &art.TenantID, &art.Slug, &art.Title, &art.Category, &art.Body, &art.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &art, nil
}

func (s *Service) List(ctx context.Context, tenantID, category string) ([]Article, error) {
	query := `
    SELECT id, tenant_id, slug, title, category, body, updated_at
    FROM articles
    WHERE tenant_id = $1
  `
	args := []any{tenantID}
	if category != "" {
		query += " AND category = $2"
		args = append(args, category)
	}
	query += " ORDER BY title"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var art Article
		if err := rows.Scan(&art.ID, &art.TenantID, &art.Slug, &art.Title, &art.Category, &art.Body, &art.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, art)
	}
	return out, rows.Err()
}

func (s *Service) Delete(ctx context.Context, tenantID, slug string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM articles WHERE tenant_id = $1 AND slug = $2", tenantID, strings.ToLower(slug))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
