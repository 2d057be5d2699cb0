package assessment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *InMemoryStore, *InMemoryDraftStore) {
	t.Helper()
	store := NewInMemoryStore()
	drafts := NewInMemoryDraftStore()
	svc := NewService(store, drafts, NewManager(), nil)
	return svc, store, drafts
}

func fillDPIA(t *testing.T, svc *Service, id string) {
	t.Helper()
	ctx := context.Background()
	sections := map[string]map[string]any{
		"projectOverview": {
			"projectName":           "HR records review",
			"naturePurpose":         "Processing employee records",
			"sensitiveDataInvolved": "No",
		},
		"necessityProportionality": {
			"legalBasis":             "Legitimate interest",
			"dataMinimization":       "Only payroll fields retained",
			"retentionJustification": "Statutory retention period",
		},
		"riskAssessment": {
			"identifiedRisks": []string{"unauthorized access"},
			"likelihood":      "low",
			"severity":        "medium",
		},
		"mitigationMeasures": {
			"measures":     []string{"encryption at rest"},
			"residualRisk": "low",
		},
		"signoff": {
			"reviewer": "dpo@example.com",
			"outcome":  "approved",
		},
	}
	for section, fields := range sections {
		for name, value := range fields {
			_, err := svc.SetField(ctx, "tenant-1", id, section, name, value)
			require.NoError(t, err)
		}
	}
	for i := 0; i < 4; i++ {
		draft, err := svc.Advance(ctx, "tenant-1", id)
		require.NoError(t, err)
		require.Empty(t, draft.Errors)
	}
}

func TestSubmitBeforeTerminalStage(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	draft, err := svc.OpenDraft(ctx, TypeDPIA, "tenant-1", "user-1")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "tenant-1", draft.ID, "")
	assert.ErrorIs(t, err, ErrNotTerminal)

	// draft survives the failed submit
	_, err = svc.GetDraft(ctx, "tenant-1", draft.ID)
	assert.NoError(t, err)
}

func TestSubmitPersistsAndDiscardsDraft(t *testing.T) {
	svc, store, drafts := newTestService(t)
	ctx := context.Background()

	draft, err := svc.OpenDraft(ctx, TypeDPIA, "tenant-1", "user-1")
	require.NoError(t, err)
	fillDPIA(t, svc, draft.ID)

	record, err := svc.Submit(ctx, "tenant-1", draft.ID, "")
	require.NoError(t, err)
	assert.Equal(t, draft.ID, record.ID)
	assert.Equal(t, StatusSubmitted, record.Status)

	stored, err := store.GetAssessment(ctx, "tenant-1", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, TypeDPIA, stored.Type)

	_, err = svc.GetDraft(ctx, "tenant-1", draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = drafts.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSubmitLinkAndCompleteSetsStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	draft, err := svc.OpenDraft(ctx, TypeDPIA, "tenant-1", "user-1")
	require.NoError(t, err)
	fillDPIA(t, svc, draft.ID)

	record, err := svc.Submit(ctx, "tenant-1", draft.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, record.Status)
}

func TestDoubleSubmitLosesSecond(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	draft, err := svc.OpenDraft(ctx, TypeDPIA, "tenant-1", "user-1")
	require.NoError(t, err)
	fillDPIA(t, svc, draft.ID)

	_, err = svc.Submit(ctx, "tenant-1", draft.ID, "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "tenant-1", draft.ID, "")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSubmitValidationFailureKeepsDraft(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	draft, err := svc.OpenDraft(ctx, TypeDPIA, "tenant-1", "user-1")
	require.NoError(t, err)

	// jump to the terminal stage without filling anything
	require.NoError(t, svc.manager.Mutate(draft.ID, func(d *Draft) error {
		d.Step = len(Steps(TypeDPIA)) - 1
		return nil
	}))

	_, err = svc.Submit(ctx, "tenant-1", draft.ID, "")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.NotEmpty(t, verr.Fields)

	got, err := svc.GetDraft(ctx, "tenant-1", draft.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Errors)
}

func TestSubmitStoreFailureLeavesDraftIntact(t *testing.T) {
	drafts := NewInMemoryDraftStore()
	svc := NewService(failingStore{}, drafts, NewManager(), nil)
	ctx := context.Background()

	draft, err := svc.OpenDraft(ctx, TypeDPIA, "tenant-1", "user-1")
	require.NoError(t, err)
	fillDPIA(t, svc, draft.ID)

	_, err = svc.Submit(ctx, "tenant-1", draft.ID, "")
	require.Error(t, err)

	got, err := svc.GetDraft(ctx, "tenant-1", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StageNumber())
}

func TestGetDraftRecoversFromStore(t *testing.T) {
	svc, _, drafts := newTestService(t)
	ctx := context.Background()

	draft, err := svc.OpenDraft(ctx, TypeTIA, "tenant-1", "user-1")
	require.NoError(t, err)
	_, err = svc.SetField(ctx, "tenant-1", draft.ID, "transferDetails", "dataImporter", "Acme GmbH")
	require.NoError(t, err)

	// flush, then simulate a restart losing the open set
	flusher := NewFlusher(svc.manager, drafts, 0, nil)
	require.Equal(t, 1, flusher.FlushOnce(ctx, draft.CreatedAt.Add(5*time.Second)))
	svc.manager.Remove(draft.ID)

	recovered, err := svc.GetDraft(ctx, "tenant-1", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme GmbH", recovered.Sections["transferDetails"]["dataImporter"])
}

func TestDraftTenantIsolation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	draft, err := svc.OpenDraft(ctx, TypeDPIA, "tenant-1", "user-1")
	require.NoError(t, err)

	_, err = svc.GetDraft(ctx, "tenant-2", draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = svc.Advance(ctx, "tenant-2", draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

type failingStore struct{}

func (failingStore) CreateAssessment(context.Context, *Assessment) error { return errAlwaysFails }
func (failingStore) ListAssessments(context.Context, string, Filter, int, int) ([]Assessment, int, error) {
	return nil, 0, errAlwaysFails
}
func (failingStore) GetAssessment(context.Context, string, string) (*Assessment, error) {
	return nil, errAlwaysFails
}
func (failingStore) DeleteAssessment(context.Context, string, string) error { return errAlwaysFails }
func (failingStore) ListActionItems(context.Context, string, string) ([]ActionItem, error) {
	return nil, errAlwaysFails
}
func (failingStore) UpdateActionItemStatus(context.Context, string, string, string) error {
	return errAlwaysFails
}

var errAlwaysFails = errors.New("store unavailable")
