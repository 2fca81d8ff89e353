package store

import (
	"github.com/workstreamhq/workstream/internal/entity"
)

// GetWorkspace loads one workspace by id.
func (t *Tx) GetWorkspace(id entity.ID) (*entity.Workspace, error) {
	return getDoc[entity.Workspace](t, entity.Workspaces, id)
}

// InsertWorkspace stores a new workspace.
func (t *Tx) InsertWorkspace(w *entity.Workspace) error {
	doc, err := encodeDoc(w)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO workspaces (id, user_id, doc) VALUES (?, ?, ?)
	`, string(w.ID), string(w.UserID), doc)
	if err != nil {
		return wrapInsert(entity.Workspaces, w.ID, err)
	}
	return nil
}

// UpdateWorkspace replaces the stored document for w.ID.
func (t *Tx) UpdateWorkspace(w *entity.Workspace) error {
	doc, err := encodeDoc(w)
	if err != nil {
		return err
	}
	return t.execOne(entity.Workspaces, w.ID, `
		UPDATE workspaces SET user_id = ?, doc = ? WHERE id = ?
	`, string(w.UserID), doc, string(w.ID))
}

// DeleteWorkspace removes one workspace row.
func (t *Tx) DeleteWorkspace(id entity.ID) error {
	return t.execOne(entity.Workspaces, id, `DELETE FROM workspaces WHERE id = ?`, string(id))
}

// GetMember loads one member by id.
func (t *Tx) GetMember(id entity.ID) (*entity.Member, error) {
	return getDoc[entity.Member](t, entity.Members, id)
}

// InsertMember stores a new member row. A second row for the same
// workspace+user pair fails with ErrConflict.
func (t *Tx) InsertMember(m *entity.Member) error {
	doc, err := encodeDoc(m)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO members (id, workspace_id, user_id, doc) VALUES (?, ?, ?, ?)
	`, string(m.ID), string(m.WorkspaceID), string(m.UserID), doc)
	if err != nil {
		return wrapInsert(entity.Members, m.ID, err)
	}
	return nil
}

// UpdateMember replaces the stored document for m.ID.
func (t *Tx) UpdateMember(m *entity.Member) error {
	doc, err := encodeDoc(m)
	if err != nil {
		return err
	}
	return t.execOne(entity.Members, m.ID, `
		UPDATE members SET workspace_id = ?, user_id = ?, doc = ? WHERE id = ?
	`, string(m.WorkspaceID), string(m.UserID), doc, string(m.ID))
}

// DeleteMember removes one member row.
func (t *Tx) DeleteMember(id entity.ID) error {
	return t.execOne(entity.Members, id, `DELETE FROM members WHERE id = ?`, string(id))
}

// MemberByWorkspaceUser finds the member row for a workspace+user pair.
func (t *Tx) MemberByWorkspaceUser(workspaceID, userID entity.ID) (*entity.Member, error) {
	members, err := listDocs[entity.Member](t,
		`SELECT doc FROM members WHERE workspace_id = ? AND user_id = ? LIMIT 1`,
		string(workspaceID), string(userID))
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, notFound(entity.Members, "")
	}
	return members[0], nil
}

// MembersByWorkspace lists a workspace's members in insertion order.
func (t *Tx) MembersByWorkspace(workspaceID entity.ID) ([]*entity.Member, error) {
	return listDocs[entity.Member](t,
		`SELECT doc FROM members WHERE workspace_id = ? ORDER BY rowid`, string(workspaceID))
}

// MembersByUser lists every membership a user holds.
func (t *Tx) MembersByUser(userID entity.ID) ([]*entity.Member, error) {
	return listDocs[entity.Member](t,
		`SELECT doc FROM members WHERE user_id = ? ORDER BY rowid`, string(userID))
}

// DeleteMembersByWorkspace removes every member of a workspace.
// Returns the number of deleted rows.
func (t *Tx) DeleteMembersByWorkspace(workspaceID entity.ID) (int64, error) {
	return t.exec(`DELETE FROM members WHERE workspace_id = ?`, string(workspaceID))
}

// GetInvite loads one invite by id.
func (t *Tx) GetInvite(id entity.ID) (*entity.Invite, error) {
	return getDoc[entity.Invite](t, entity.Invites, id)
}

// InsertInvite stores a new invite.
func (t *Tx) InsertInvite(inv *entity.Invite) error {
	doc, err := encodeDoc(inv)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO invites (id, workspace_id, project_id, email, status, doc)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(inv.ID), string(inv.WorkspaceID), string(inv.ProjectID), inv.Email, string(inv.Status), doc)
	if err != nil {
		return wrapInsert(entity.Invites, inv.ID, err)
	}
	return nil
}

// UpdateInvite replaces the stored document for inv.ID.
func (t *Tx) UpdateInvite(inv *entity.Invite) error {
	doc, err := encodeDoc(inv)
	if err != nil {
		return err
	}
	return t.execOne(entity.Invites, inv.ID, `
		UPDATE invites SET workspace_id = ?, project_id = ?, email = ?, status = ?, doc = ?
		WHERE id = ?
	`, string(inv.WorkspaceID), string(inv.ProjectID), inv.Email, string(inv.Status), doc, string(inv.ID))
}

// DeleteInvite removes one invite row.
func (t *Tx) DeleteInvite(id entity.ID) error {
	return t.execOne(entity.Invites, id, `DELETE FROM invites WHERE id = ?`, string(id))
}

// InvitesByWorkspace lists a workspace's invites in insertion order.
func (t *Tx) InvitesByWorkspace(workspaceID entity.ID) ([]*entity.Invite, error) {
	return listDocs[entity.Invite](t,
		`SELECT doc FROM invites WHERE workspace_id = ? ORDER BY rowid`, string(workspaceID))
}

// InvitesByEmail lists every invite addressed to an email.
func (t *Tx) InvitesByEmail(email string) ([]*entity.Invite, error) {
	return listDocs[entity.Invite](t,
		`SELECT doc FROM invites WHERE email = ? ORDER BY rowid`, email)
}

// DeleteInvitesByProject removes every invite scoped to a project.
// Returns the number of deleted rows.
func (t *Tx) DeleteInvitesByProject(projectID entity.ID) (int64, error) {
	return t.exec(`DELETE FROM invites WHERE project_id = ?`, string(projectID))
}

// DeleteInvitesByWorkspace removes every invite scoped to a workspace.
// Returns the number of deleted rows.
func (t *Tx) DeleteInvitesByWorkspace(workspaceID entity.ID) (int64, error) {
	return t.exec(`DELETE FROM invites WHERE workspace_id = ?`, string(workspaceID))
}
