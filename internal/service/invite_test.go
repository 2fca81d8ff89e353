package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workstreamhq/workstream/internal/entity"
)

func TestInviteLifecycle(t *testing.T) {
	svc, clock := newTestService(t)
	owner := asUser("u1")

	ws, err := svc.CreateWorkspace(owner, WorkspaceInput{Name: "Shared"})
	require.NoError(t, err)

	inviteID, err := svc.CreateInvite(owner, InviteInput{
		WorkspaceID: ws.WorkspaceID,
		ProjectID:   ws.ProjectID,
		Email:       "guest@example.com",
		Role:        entity.RoleMember,
	})
	require.NoError(t, err)

	// A second pending invite for the same address is rejected.
	_, err = svc.CreateInvite(owner, InviteInput{
		WorkspaceID: ws.WorkspaceID,
		Email:       "guest@example.com",
		Role:        entity.RoleMember,
	})
	assert.True(t, IsInvariant(err))

	guest := asUser("u2")
	require.NoError(t, svc.AcceptInvite(guest, inviteID))

	overview, err := svc.GetWorkspaceOverview(owner, ws.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, overview.Members, 2)
	joined := overview.Members[1]
	assert.Equal(t, entity.ID("u2"), joined.UserID)
	assert.Equal(t, entity.RoleMember, joined.Role)
	assert.Equal(t, []entity.ID{ws.ProjectID}, joined.Projects)

	require.Len(t, overview.Invites, 1)
	assert.Equal(t, entity.InviteAccepted, overview.Invites[0].Status)
	assert.Equal(t, entity.ID("u2"), overview.Invites[0].UserID)

	// Settled invites cannot be accepted again.
	err = svc.AcceptInvite(guest, inviteID)
	assert.True(t, IsInvariant(err))

	_ = clock
}

func TestAcceptExpiredInviteFailsAndMarksExpired(t *testing.T) {
	svc, clock := newTestService(t)
	owner := asUser("u1")

	ws, err := svc.CreateWorkspace(owner, WorkspaceInput{Name: "Stale"})
	require.NoError(t, err)

	inviteID, err := svc.CreateInvite(owner, InviteInput{
		WorkspaceID: ws.WorkspaceID,
		Email:       "late@example.com",
		Role:        entity.RoleGuest,
	})
	require.NoError(t, err)

	// Eight days later.
	clock.Advance(8 * 24 * 60 * 60 * 1000)

	err = svc.AcceptInvite(asUser("u3"), inviteID)
	assert.True(t, IsInvariant(err))

	overview, err := svc.GetWorkspaceOverview(owner, ws.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, overview.Invites, 1)
	assert.Equal(t, entity.InviteExpired, overview.Invites[0].Status)
	require.Len(t, overview.Members, 1) // no membership granted
}

func TestDeclineInvite(t *testing.T) {
	svc, _ := newTestService(t)
	owner := asUser("u1")

	ws, err := svc.CreateWorkspace(owner, WorkspaceInput{Name: "Declined"})
	require.NoError(t, err)

	inviteID, err := svc.CreateInvite(owner, InviteInput{
		WorkspaceID: ws.WorkspaceID,
		Email:       "no@example.com",
		Role:        entity.RoleMember,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeclineInvite(asUser("u2"), inviteID))

	overview, err := svc.GetWorkspaceOverview(owner, ws.WorkspaceID)
	require.NoError(t, err)
	assert.Equal(t, entity.InviteDeclined, overview.Invites[0].Status)

	assert.True(t, IsInvariant(svc.AcceptInvite(asUser("u2"), inviteID)))
}

func TestCreateInviteValidatesEmail(t *testing.T) {
	svc, _ := newTestService(t)
	owner := asUser("u1")

	_, err := svc.CreateInvite(owner, InviteInput{
		WorkspaceID: "w1",
		Email:       "not-an-email",
		Role:        entity.RoleMember,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#InviteInput")
}
