package assessment

import (
	"context"
	"log/slog"
	"time"
)

// DefaultAutosaveInterval matches the console's 5-second auto-save tick.
const DefaultAutosaveInterval = 5 * time.Second

// Flusher periodically writes touched drafts to the draft store. A draft
// with no content since create or reset is skipped, and a failed save only
// logs; editing is never blocked on auto-save.
type Flusher struct {
	manager  *Manager
	store    DraftStore
	interval time.Duration
	saved    func(count int)
}

func NewFlusher(manager *Manager, store DraftStore, interval time.Duration, saved func(count int)) *Flusher {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Flusher{manager: manager, store: store, interval: interval, saved: saved}
}

// Run ticks until the context is cancelled.
func (f *Flusher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.FlushOnce(ctx, time.Now())
		}
	}
}

// FlushOnce saves every touched draft and returns how many were written.
func (f *Flusher) FlushOnce(ctx context.Context, now time.Time) int {
	f.manager.mu.Lock()
	defer f.manager.mu.Unlock()

	count := 0
	for _, draft := range f.manager.drafts {
		if !draft.Touched || !draft.HasContent() {
			continue
		}
		if err := f.store.Save(ctx, draft); err != nil {
			slog.Warn("draft autosave failed", "draftId", draft.ID, "err", err)
			continue
		}
		savedAt := now
		draft.LastSavedAt = &savedAt
		draft.Touched = false
		count++
	}
	if count > 0 && f.saved != nil {
		f.saved(count)
	}
	return count
}
