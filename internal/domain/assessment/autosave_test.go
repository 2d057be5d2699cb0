package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushSkipsUntouchedDrafts(t *testing.T) {
	manager := NewManager()
	store := NewInMemoryDraftStore()
	flusher := NewFlusher(manager, store, 0, nil)

	draft := NewDraft(TypeDPIA, "tenant-1", "user-1", time.Now())
	manager.Open(draft)

	saved := flusher.FlushOnce(context.Background(), time.Now())
	assert.Zero(t, saved)

	_, err := store.Get(context.Background(), draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.Nil(t, draft.LastSavedAt)
}

func TestFlushSavesTouchedDraftOnce(t *testing.T) {
	manager := NewManager()
	store := NewInMemoryDraftStore()
	var counted int
	flusher := NewFlusher(manager, store, 0, func(n int) { counted += n })

	draft := NewDraft(TypeLIA, "tenant-1", "user-1", time.Now())
	manager.Open(draft)
	draft.SetField("purposeTest", "processingPurpose", "Fraud prevention")

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	saved := flusher.FlushOnce(context.Background(), now)
	require.Equal(t, 1, saved)
	require.NotNil(t, draft.LastSavedAt)
	assert.Equal(t, now, *draft.LastSavedAt)
	assert.False(t, draft.Touched)
	assert.Equal(t, 1, counted)

	stored, err := store.Get(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Revision, stored.Revision)

	// second tick with no edits is a no-op
	saved = flusher.FlushOnce(context.Background(), now.Add(5*time.Second))
	assert.Zero(t, saved)
}

func TestFlushSkipsAllDefaultDraft(t *testing.T) {
	manager := NewManager()
	store := NewInMemoryDraftStore()
	flusher := NewFlusher(manager, store, 0, nil)

	draft := NewDraft(TypeTIA, "tenant-1", "user-1", time.Now())
	manager.Open(draft)
	// touched, but still holds no real content
	draft.SetField("transferDetails", "dataImporter", "  ")

	saved := flusher.FlushOnce(context.Background(), time.Now())
	assert.Zero(t, saved)
}

func TestDraftStoreKeepsNewestRevision(t *testing.T) {
	store := NewInMemoryDraftStore()
	ctx := context.Background()

	draft := NewDraft(TypeDPIA, "tenant-1", "user-1", time.Now())
	draft.SetField("projectOverview", "projectName", "v1")
	draft.SetField("projectOverview", "projectName", "v2")
	require.NoError(t, store.Save(ctx, draft))

	stale := draft.clone()
	stale.Revision = 1
	stale.Sections["projectOverview"]["projectName"] = "v1"
	require.NoError(t, store.Save(ctx, stale))

	stored, err := store.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", stored.Sections["projectOverview"]["projectName"])
}
