package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("assessment not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateAssessment(ctx context.Context, record *Assessment) error {
	sectionsJSON, err := json.Marshal(record.Sections)
	if err != nil {
		return err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO assessments (id, tenant_id, type, status, owner_id, sections_json, submitted_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, record.ID, record.TenantID, record.Type, record.Status, record.OwnerID, sectionsJSON, record.SubmittedAt); err != nil {
		return err
	}

	for _, item := range record.ActionItems {
		if _, err := tx.Exec(ctx, `
      INSERT INTO action_items (id, tenant_id, assessment_id, linked_field, stage, title, description, assignee_id, due_date, status, created_at)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    `, item.ID, record.TenantID, record.ID, item.LinkedField, item.Stage, item.Title, item.Description,
			nullable(item.AssigneeID), item.DueDate, item.Status, item.CreatedAt); err != nil {
			return err
		}
	}

	for _, att := range record.Attachments {
		if _, err := tx.Exec(ctx, `
      INSERT INTO documents (id, tenant_id, assessment_id, field, name, content_type, size_bytes, description, file_path, uploaded_at)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, att.ID, record.TenantID, record.ID, att.Field, att.Name, att.ContentType, att.Size, att.Description, att.Path, att.UploadedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) ListAssessments(ctx context.Context, tenantID string, filter Filter, limit, offset int) ([]Assessment, int, error) {
	where := "WHERE tenant_id = $1"
	args := []any{tenantID}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Owner != "" {
		args = append(args, filter.Owner)
		where += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM assessments "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
    SELECT id, tenant_id, type, status, owner_id, sections_json, submitted_at
    FROM assessments %s
    ORDER BY submitted_at DESC
    LIMIT $%d OFFSET $%d
  `, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		record, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *record)
	}
	return out, total, rows.Err()
}

func (s *Store) GetAssessment(ctx context.Context, tenantID, id string) (*Assessment, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, type, status, owner_id, sections_json, submitted_at
    FROM assessments
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id)
	record, err := scanAssessment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.ListActionItems(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	record.ActionItems = items
	return record, nil
}

func (s *Store) DeleteAssessment(ctx context.Context, tenantID, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM assessments WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListActionItems(ctx context.Context, tenantID, assessmentID string) ([]ActionItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, assessment_id, linked_field, stage, title, description, COALESCE(assignee_id, ''), due_date, status, created_at
    FROM action_items
    WHERE tenant_id = $1 AND assessment_id = $2
    ORDER BY created_at
  `, tenantID, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActionItem
	for rows.Next() {
		var item ActionItem
		if err := rows.Scan(&item.ID, &item.LinkedAssessmentID, &item.LinkedField, &item.Stage, &item.Title,
			&item.Description, &item.AssigneeID, &item.DueDate, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) UpdateActionItemStatus(ctx context.Context, tenantID, itemID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE action_items SET status = $1 WHERE tenant_id = $2 AND id = $3
  `, status, tenantID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (*Assessment, error) {
	var record Assessment
	var sectionsJSON []byte
	if err := row.Scan(&record.ID, &record.TenantID, &record.Type, &record.Status, &record.OwnerID,
		&sectionsJSON, &record.SubmittedAt); err != nil {
		return nil, err
	}
	if len(sectionsJSON) > 0 {
		if err := json.Unmarshal(sectionsJSON, &record.Sections); err != nil {
			return nil, err
		}
	}
	return &record, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
