package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweepIdle(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	ttl := time.Hour

	saved := base.Add(30 * time.Minute)

	cases := []struct {
		name    string
		prepare func(*Draft)
		evicted bool
	}{
		{
			name:    "fresh never-saved draft past ttl is evicted",
			prepare: func(*Draft) {},
			evicted: true,
		},
		{
			name: "recent save keeps the draft",
			prepare: func(d *Draft) {
				d.LastSavedAt = &saved
			},
			evicted: false,
		},
		{
			name: "saved then idle past ttl is evicted",
			prepare: func(d *Draft) {
				old := base.Add(-2 * time.Hour)
				d.LastSavedAt = &old
			},
			evicted: true,
		},
		{
			name: "touched draft is never evicted",
			prepare: func(d *Draft) {
				d.SetField("purposeTest", "processingPurpose", "Fraud prevention")
			},
			evicted: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			manager := NewManager()
			draft := NewDraft(TypeLIA, "tenant-1", "user-1", base.Add(-90*time.Minute))
			tc.prepare(draft)
			manager.Open(draft)

			evicted := manager.SweepIdle(ttl, base.Add(time.Hour))
			if tc.evicted {
				assert.Equal(t, []string{draft.ID}, evicted)
				assert.Zero(t, manager.Len())
			} else {
				assert.Empty(t, evicted)
				assert.Equal(t, 1, manager.Len())
			}
		})
	}
}

func TestTakeHandsDraftToOneCaller(t *testing.T) {
	manager := NewManager()
	draft := NewDraft(TypeDPIA, "tenant-1", "user-1", time.Now())
	manager.Open(draft)

	first, ok := manager.Take(draft.ID)
	assert.True(t, ok)
	assert.Same(t, draft, first)

	_, ok = manager.Take(draft.ID)
	assert.False(t, ok)
}
