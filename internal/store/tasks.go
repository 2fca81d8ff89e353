package store

import (
	"github.com/workstreamhq/workstream/internal/entity"
)

// GetTask loads one task by id.
func (t *Tx) GetTask(id entity.ID) (*entity.Task, error) {
	return getDoc[entity.Task](t, entity.Tasks, id)
}

// InsertTask stores a new task. The task's ID must already be assigned.
func (t *Tx) InsertTask(task *entity.Task) error {
	doc, err := encodeDoc(task)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO tasks
		(id, project_id, parent_id, status, module, label, cycle, priority, name, position, user_ids, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(task.ID),
		string(task.ProjectID),
		string(task.ParentID),
		task.Status,
		task.Module,
		task.Label,
		task.Cycle,
		string(task.Priority),
		task.Name,
		task.Position,
		encodeIDList(task.UserIDs),
		doc,
	)
	if err != nil {
		return wrapInsert(entity.Tasks, task.ID, err)
	}
	return nil
}

// UpdateTask replaces the stored document for task.ID.
func (t *Tx) UpdateTask(task *entity.Task) error {
	doc, err := encodeDoc(task)
	if err != nil {
		return err
	}
	return t.execOne(entity.Tasks, task.ID, `
		UPDATE tasks
		SET project_id = ?, parent_id = ?, status = ?, module = ?, label = ?,
		    cycle = ?, priority = ?, name = ?, position = ?, user_ids = ?, doc = ?
		WHERE id = ?
	`,
		string(task.ProjectID),
		string(task.ParentID),
		task.Status,
		task.Module,
		task.Label,
		task.Cycle,
		string(task.Priority),
		task.Name,
		task.Position,
		encodeIDList(task.UserIDs),
		doc,
		string(task.ID),
	)
}

// DeleteTask removes one task row.
func (t *Tx) DeleteTask(id entity.ID) error {
	return t.execOne(entity.Tasks, id, `DELETE FROM tasks WHERE id = ?`, string(id))
}

// TasksByProject lists a project's tasks in insertion order.
func (t *Tx) TasksByProject(projectID entity.ID) ([]*entity.Task, error) {
	return listDocs[entity.Task](t,
		`SELECT doc FROM tasks WHERE project_id = ? ORDER BY rowid`, string(projectID))
}

// TasksByParent lists the direct children of a task in insertion order.
func (t *Tx) TasksByParent(parentID entity.ID) ([]*entity.Task, error) {
	return listDocs[entity.Task](t,
		`SELECT doc FROM tasks WHERE parent_id = ? ORDER BY rowid`, string(parentID))
}

// GetRelation loads one relation by id.
func (t *Tx) GetRelation(id entity.ID) (*entity.Relation, error) {
	return getDoc[entity.Relation](t, entity.Relations, id)
}

// InsertRelation stores a new task-to-task edge.
func (t *Tx) InsertRelation(rel *entity.Relation) error {
	doc, err := encodeDoc(rel)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO relations (id, outgoing_id, incoming_id, type, doc)
		VALUES (?, ?, ?, ?, ?)
	`,
		string(rel.ID),
		string(rel.OutgoingID),
		string(rel.IncomingID),
		string(rel.Type),
		doc,
	)
	if err != nil {
		return wrapInsert(entity.Relations, rel.ID, err)
	}
	return nil
}

// DeleteRelation removes one relation row.
func (t *Tx) DeleteRelation(id entity.ID) error {
	return t.execOne(entity.Relations, id, `DELETE FROM relations WHERE id = ?`, string(id))
}

// RelationsByOutgoing lists edges whose outgoing endpoint is taskID.
func (t *Tx) RelationsByOutgoing(taskID entity.ID) ([]*entity.Relation, error) {
	return listDocs[entity.Relation](t,
		`SELECT doc FROM relations WHERE outgoing_id = ? ORDER BY rowid`, string(taskID))
}

// RelationsByIncoming lists edges whose incoming endpoint is taskID.
func (t *Tx) RelationsByIncoming(taskID entity.ID) ([]*entity.Relation, error) {
	return listDocs[entity.Relation](t,
		`SELECT doc FROM relations WHERE incoming_id = ? ORDER BY rowid`, string(taskID))
}

// DeleteRelationsByIncoming removes every edge pointing at taskID.
// Returns the number of deleted rows.
func (t *Tx) DeleteRelationsByIncoming(taskID entity.ID) (int64, error) {
	return t.exec(`DELETE FROM relations WHERE incoming_id = ?`, string(taskID))
}

// DeleteRelationsByOutgoing removes every edge originating at taskID.
// Returns the number of deleted rows.
func (t *Tx) DeleteRelationsByOutgoing(taskID entity.ID) (int64, error) {
	return t.exec(`DELETE FROM relations WHERE outgoing_id = ?`, string(taskID))
}
