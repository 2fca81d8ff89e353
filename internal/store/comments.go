package store

import (
	"github.com/workstreamhq/workstream/internal/entity"
)

// GetComment loads one comment by id.
func (t *Tx) GetComment(id entity.ID) (*entity.Comment, error) {
	return getDoc[entity.Comment](t, entity.Comments, id)
}

// InsertComment stores a new comment.
func (t *Tx) InsertComment(c *entity.Comment) error {
	doc, err := encodeDoc(c)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO comments (id, task_id, parent_id, user_id, doc)
		VALUES (?, ?, ?, ?, ?)
	`, string(c.ID), string(c.TaskID), string(c.ParentID), string(c.UserID), doc)
	if err != nil {
		return wrapInsert(entity.Comments, c.ID, err)
	}
	return nil
}

// UpdateComment replaces the stored document for c.ID.
func (t *Tx) UpdateComment(c *entity.Comment) error {
	doc, err := encodeDoc(c)
	if err != nil {
		return err
	}
	return t.execOne(entity.Comments, c.ID, `
		UPDATE comments SET task_id = ?, parent_id = ?, user_id = ?, doc = ? WHERE id = ?
	`, string(c.TaskID), string(c.ParentID), string(c.UserID), doc, string(c.ID))
}

// DeleteComment removes one comment row.
func (t *Tx) DeleteComment(id entity.ID) error {
	return t.execOne(entity.Comments, id, `DELETE FROM comments WHERE id = ?`, string(id))
}

// CommentsByTask lists a task's comments in insertion order.
func (t *Tx) CommentsByTask(taskID entity.ID) ([]*entity.Comment, error) {
	return listDocs[entity.Comment](t,
		`SELECT doc FROM comments WHERE task_id = ? ORDER BY rowid`, string(taskID))
}

// CommentsByParent lists the direct replies to a comment.
func (t *Tx) CommentsByParent(parentID entity.ID) ([]*entity.Comment, error) {
	return listDocs[entity.Comment](t,
		`SELECT doc FROM comments WHERE parent_id = ? ORDER BY rowid`, string(parentID))
}

// GetActivity loads one activity by id.
func (t *Tx) GetActivity(id entity.ID) (*entity.Activity, error) {
	return getDoc[entity.Activity](t, entity.Activities, id)
}

// InsertActivity appends one immutable activity log entry.
// Activities are never updated after insert.
func (t *Tx) InsertActivity(a *entity.Activity) error {
	doc, err := encodeDoc(a)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO activities (id, task_id, project_id, user_id, doc)
		VALUES (?, ?, ?, ?, ?)
	`, string(a.ID), string(a.TaskID), string(a.ProjectID), string(a.UserID), doc)
	if err != nil {
		return wrapInsert(entity.Activities, a.ID, err)
	}
	return nil
}

// DeleteActivity removes one activity row.
func (t *Tx) DeleteActivity(id entity.ID) error {
	return t.execOne(entity.Activities, id, `DELETE FROM activities WHERE id = ?`, string(id))
}

// ActivitiesByTask lists a task's activity log in append order.
func (t *Tx) ActivitiesByTask(taskID entity.ID) ([]*entity.Activity, error) {
	return listDocs[entity.Activity](t,
		`SELECT doc FROM activities WHERE task_id = ? ORDER BY rowid`, string(taskID))
}

// DeleteActivitiesByTask removes a task's entire activity log.
// Returns the number of deleted rows.
func (t *Tx) DeleteActivitiesByTask(taskID entity.ID) (int64, error) {
	return t.exec(`DELETE FROM activities WHERE task_id = ?`, string(taskID))
}

// GetInboxItem loads one inbox item by id.
func (t *Tx) GetInboxItem(id entity.ID) (*entity.InboxItem, error) {
	return getDoc[entity.InboxItem](t, entity.InboxItems, id)
}

// InsertInboxItem stores a new notification row.
func (t *Tx) InsertInboxItem(item *entity.InboxItem) error {
	doc, err := encodeDoc(item)
	if err != nil {
		return err
	}
	boolInt := 0
	if item.IsRead {
		boolInt = 1
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO inbox (id, user_id, project_id, reference_id, is_read, doc)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(item.ID), string(item.UserID), string(item.ProjectID), string(item.ReferenceID), boolInt, doc)
	if err != nil {
		return wrapInsert(entity.InboxItems, item.ID, err)
	}
	return nil
}

// UpdateInboxItem replaces the stored document for item.ID.
func (t *Tx) UpdateInboxItem(item *entity.InboxItem) error {
	doc, err := encodeDoc(item)
	if err != nil {
		return err
	}
	boolInt := 0
	if item.IsRead {
		boolInt = 1
	}
	return t.execOne(entity.InboxItems, item.ID, `
		UPDATE inbox SET user_id = ?, project_id = ?, reference_id = ?, is_read = ?, doc = ?
		WHERE id = ?
	`, string(item.UserID), string(item.ProjectID), string(item.ReferenceID), boolInt, doc, string(item.ID))
}

// DeleteInboxItem removes one inbox row.
func (t *Tx) DeleteInboxItem(id entity.ID) error {
	return t.execOne(entity.InboxItems, id, `DELETE FROM inbox WHERE id = ?`, string(id))
}

// InboxByUserProject lists a user's notifications within a project.
// With unreadOnly set, read rows are filtered out.
func (t *Tx) InboxByUserProject(userID, projectID entity.ID, unreadOnly bool) ([]*entity.InboxItem, error) {
	query := `SELECT doc FROM inbox WHERE user_id = ? AND project_id = ?`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY rowid`
	return listDocs[entity.InboxItem](t, query, string(userID), string(projectID))
}

// InboxByReference lists every notification referencing a task.
func (t *Tx) InboxByReference(referenceID entity.ID) ([]*entity.InboxItem, error) {
	return listDocs[entity.InboxItem](t,
		`SELECT doc FROM inbox WHERE reference_id = ? ORDER BY rowid`, string(referenceID))
}

// DeleteInboxByReference removes every notification referencing a task.
// Returns the number of deleted rows.
func (t *Tx) DeleteInboxByReference(referenceID entity.ID) (int64, error) {
	return t.exec(`DELETE FROM inbox WHERE reference_id = ?`, string(referenceID))
}
