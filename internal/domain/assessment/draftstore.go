package assessment

import (
	"context"
	"errors"
)

var ErrDraftNotFound = errors.New("draft not found")

// DraftStore is the auto-save target for open drafts. The draft id is the
// idempotency key: a save for an id the store already holds replaces it only
// when the incoming revision is at least as new, so delayed flushes cannot
// roll a draft back.
type DraftStore interface {
	Save(ctx context.Context, draft *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Delete(ctx context.Context, id string) error
}
