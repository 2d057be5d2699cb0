package team

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTeamAndUsers(t *testing.T) (*Service, *Team, *Team, *User, *User) {
	t.Helper()
	svc := NewService(NewInMemoryStore())
	ctx := context.Background()

	privacy, err := svc.CreateTeam(ctx, "tenant-1", "Privacy Team", "handles RoPA", []string{"ropa.view", "ropa.edit"})
	require.NoError(t, err)
	auditors, err := svc.CreateTeam(ctx, "tenant-1", "Auditors", "", []string{"audit.read", "ropa.view"})
	require.NoError(t, err)

	alice, err := svc.CreateUser(ctx, "tenant-1", "Alice", "alice@example.com", "Legal", []string{privacy.ID, auditors.ID})
	require.NoError(t, err)
	bob, err := svc.CreateUser(ctx, "tenant-1", "Bob", "bob@example.com", "IT", []string{auditors.ID})
	require.NoError(t, err)

	return svc, privacy, auditors, alice, bob
}

func TestEffectiveThroughStore(t *testing.T) {
	svc, _, _, alice, _ := seedTeamAndUsers(t)

	effective, err := svc.Effective(context.Background(), "tenant-1", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ropa.edit", "ropa.view"}, effective["ropa"])
	assert.Equal(t, []string{"audit.read"}, effective["audit"])
}

func TestDeleteTeamCleansUserReferences(t *testing.T) {
	svc, privacy, auditors, alice, bob := seedTeamAndUsers(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteTeam(ctx, "tenant-1", auditors.ID))

	gotAlice, err := svc.GetUser(ctx, "tenant-1", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{privacy.ID}, gotAlice.TeamIDs)

	gotBob, err := svc.GetUser(ctx, "tenant-1", bob.ID)
	require.NoError(t, err)
	assert.Empty(t, gotBob.TeamIDs)

	// permissions only the deleted team granted are gone
	effective, err := svc.Effective(ctx, "tenant-1", alice.ID)
	require.NoError(t, err)
	assert.NotContains(t, effective, "audit")
	assert.Equal(t, []string{"ropa.edit", "ropa.view"}, effective["ropa"])

	effective, err = svc.Effective(ctx, "tenant-1", bob.ID)
	require.NoError(t, err)
	assert.Empty(t, effective)
}

func TestHasPermission(t *testing.T) {
	svc, _, _, alice, bob := seedTeamAndUsers(t)
	ctx := context.Background()

	allowed, err := svc.HasPermission(ctx, "tenant-1", alice.ID, "ropa.edit")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.HasPermission(ctx, "tenant-1", bob.ID, "ropa.edit")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestHasPermissionUnknownUser(t *testing.T) {
	svc, _, _, _, _ := seedTeamAndUsers(t)

	allowed, err := svc.HasPermission(context.Background(), "tenant-1", "ghost", "ropa.view")
	require.NoError(t, err)
	assert.False(t, allowed)
}
