package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotTerminal = errors.New("draft is not at the final stage")

// ValidationError carries the full error set of a failed stage or submit
// validation, keyed by "section.field".
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// Notifier is told about action items so assignees can be alerted. Failures
// are the notifier's problem; draft flow never depends on it.
type Notifier interface {
	ActionItemCreated(ctx context.Context, tenantID string, item ActionItem)
}

// Service orchestrates the wizard: open drafts live in the manager, auto-save
// copies go to the draft store, and submission lands in Postgres.
type Service struct {
	store    StoreAPI
	drafts   DraftStore
	manager  *Manager
	notifier Notifier
	now      func() time.Time
}

func NewService(store StoreAPI, drafts DraftStore, manager *Manager, notifier Notifier) *Service {
	return &Service{
		store:    store,
		drafts:   drafts,
		manager:  manager,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) OpenDraft(ctx context.Context, t Type, tenantID, ownerID string) (*Draft, error) {
	if len(Steps(t)) == 0 {
		return nil, fmt.Errorf("unknown assessment type %q", t)
	}
	draft := NewDraft(t, tenantID, ownerID, s.now())
	s.manager.Open(draft)
	return draft, nil
}

// GetDraft serves from the open set first and falls back to the draft store,
// re-opening an auto-saved draft after a server restart.
func (s *Service) GetDraft(ctx context.Context, tenantID, id string) (*Draft, error) {
	var snapshot *Draft
	err := s.manager.Mutate(id, func(d *Draft) error {
		if d.TenantID != tenantID {
			return ErrDraftNotFound
		}
		snapshot = d.clone()
		return nil
	})
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, ErrDraftNotFound) {
		return nil, err
	}

	recovered, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recovered.TenantID != tenantID {
		return nil, ErrDraftNotFound
	}
	s.manager.Open(recovered)
	return recovered.clone(), nil
}

func (s *Service) SetField(ctx context.Context, tenantID, id, section, field string, value any) (*Draft, error) {
	return s.mutate(tenantID, id, func(d *Draft) error {
		d.SetField(section, field, value)
		return nil
	})
}

// Advance runs the current stage's validation and moves forward on success.
// On failure the returned draft carries the full error set and an unchanged
// stage.
func (s *Service) Advance(ctx context.Context, tenantID, id string) (*Draft, error) {
	return s.mutate(tenantID, id, func(d *Draft) error {
		d.Next()
		return nil
	})
}

func (s *Service) Retreat(ctx context.Context, tenantID, id string) (*Draft, error) {
	return s.mutate(tenantID, id, func(d *Draft) error {
		d.Previous()
		return nil
	})
}

func (s *Service) AddActionItem(ctx context.Context, tenantID, id string, item ActionItem) (*Draft, ActionItem, error) {
	item.ID = uuid.NewString()
	item.CreatedAt = s.now()
	var created ActionItem
	draft, err := s.mutate(tenantID, id, func(d *Draft) error {
		created = d.AddActionItem(item)
		return nil
	})
	if err != nil {
		return nil, ActionItem{}, err
	}
	if s.notifier != nil && created.AssigneeID != "" {
		s.notifier.ActionItemCreated(ctx, tenantID, created)
	}
	return draft, created, nil
}

// AppendAttachments adds an already filtered, already persisted batch to the
// draft's attachment list.
func (s *Service) AppendAttachments(ctx context.Context, tenantID, id string, batch []Attachment) (*Draft, error) {
	return s.mutate(tenantID, id, func(d *Draft) error {
		d.Attachments = append(d.Attachments, batch...)
		if len(batch) > 0 {
			d.Touched = true
			d.Revision++
		}
		return nil
	})
}

func (s *Service) RemoveAttachment(ctx context.Context, tenantID, id, field string, index int) (Attachment, error) {
	var removed Attachment
	_, err := s.mutate(tenantID, id, func(d *Draft) error {
		att, ok := d.RemoveAttachment(field, index)
		if !ok {
			return fmt.Errorf("no attachment at index %d for field %s", index, field)
		}
		removed = att
		return nil
	})
	return removed, err
}

// Submit finalizes the draft from its terminal stage. The draft is taken out
// of the open set first, so only one of two racing submits assembles the
// record; the loser sees ErrDraftNotFound. On a store failure the draft is
// put back untouched for retry.
func (s *Service) Submit(ctx context.Context, tenantID, id, status string) (*Assessment, error) {
	draft, ok := s.manager.Take(id)
	if !ok || draft.TenantID != tenantID {
		if ok {
			s.manager.Open(draft)
		}
		return nil, ErrDraftNotFound
	}

	restore := func() { s.manager.Open(draft) }

	if !draft.AtTerminal() {
		restore()
		return nil, ErrNotTerminal
	}
	if errs := draft.ValidateAll(); len(errs) > 0 {
		for key, msg := range errs {
			draft.Errors[key] = msg
		}
		restore()
		return nil, &ValidationError{Fields: errs}
	}

	if status == "" {
		status = StatusSubmitted
	}
	record := &Assessment{
		ID:          draft.ID,
		TenantID:    draft.TenantID,
		Type:        draft.Type,
		Status:      status,
		OwnerID:     draft.OwnerID,
		Sections:    draft.Sections,
		ActionItems: draft.ActionItems,
		Attachments: draft.Attachments,
		SubmittedAt: s.now(),
	}
	if err := s.store.CreateAssessment(ctx, record); err != nil {
		restore()
		return nil, err
	}

	if err := s.drafts.Delete(ctx, draft.ID); err != nil {
		slog.Warn("submitted draft cleanup failed", "draftId", draft.ID, "err", err)
	}
	return record, nil
}

// CloseDraft discards a draft without submitting. Explicit close resets all
// progress, including the auto-saved copy.
func (s *Service) CloseDraft(ctx context.Context, tenantID, id string) error {
	err := s.manager.Mutate(id, func(d *Draft) error {
		if d.TenantID != tenantID {
			return ErrDraftNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrDraftNotFound) {
		return err
	}
	if err == nil {
		s.manager.Remove(id)
	}
	return s.drafts.Delete(ctx, id)
}

func (s *Service) ListAssessments(ctx context.Context, tenantID string, filter Filter, limit, offset int) ([]Assessment, int, error) {
	return s.store.ListAssessments(ctx, tenantID, filter, limit, offset)
}

func (s *Service) GetAssessment(ctx context.Context, tenantID, id string) (*Assessment, error) {
	return s.store.GetAssessment(ctx, tenantID, id)
}

func (s *Service) DeleteAssessment(ctx context.Context, tenantID, id string) error {
	return s.store.DeleteAssessment(ctx, tenantID, id)
}

func (s *Service) UpdateActionItemStatus(ctx context.Context, tenantID, itemID, status string) error {
	return s.store.UpdateActionItemStatus(ctx, tenantID, itemID, status)
}

func (s *Service) mutate(tenantID, id string, fn func(*Draft) error) (*Draft, error) {
	var snapshot *Draft
	err := s.manager.Mutate(id, func(d *Draft) error {
		if d.TenantID != tenantID {
			return ErrDraftNotFound
		}
		if err := fn(d); err != nil {
			return err
		}
		snapshot = d.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
