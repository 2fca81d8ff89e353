package store

import (
	"github.com/workstreamhq/workstream/internal/entity"
)

// GetProject loads one project by id.
func (t *Tx) GetProject(id entity.ID) (*entity.Project, error) {
	return getDoc[entity.Project](t, entity.Projects, id)
}

// InsertProject stores a new project.
func (t *Tx) InsertProject(p *entity.Project) error {
	doc, err := encodeDoc(p)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO projects (id, workspace_id, doc) VALUES (?, ?, ?)
	`, string(p.ID), string(p.WorkspaceID), doc)
	if err != nil {
		return wrapInsert(entity.Projects, p.ID, err)
	}
	return nil
}

// UpdateProject replaces the stored document for p.ID.
func (t *Tx) UpdateProject(p *entity.Project) error {
	doc, err := encodeDoc(p)
	if err != nil {
		return err
	}
	return t.execOne(entity.Projects, p.ID, `
		UPDATE projects SET workspace_id = ?, doc = ? WHERE id = ?
	`, string(p.WorkspaceID), doc, string(p.ID))
}

// DeleteProject removes one project row.
func (t *Tx) DeleteProject(id entity.ID) error {
	return t.execOne(entity.Projects, id, `DELETE FROM projects WHERE id = ?`, string(id))
}

// ProjectsByWorkspace lists a workspace's projects in insertion order.
func (t *Tx) ProjectsByWorkspace(workspaceID entity.ID) ([]*entity.Project, error) {
	return listDocs[entity.Project](t,
		`SELECT doc FROM projects WHERE workspace_id = ? ORDER BY rowid`, string(workspaceID))
}

// GetView loads one view by id.
func (t *Tx) GetView(id entity.ID) (*entity.View, error) {
	return getDoc[entity.View](t, entity.Views, id)
}

// InsertView stores a new view.
func (t *Tx) InsertView(v *entity.View) error {
	doc, err := encodeDoc(v)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO views (id, project_id, user_id, type, doc) VALUES (?, ?, ?, ?, ?)
	`, string(v.ID), string(v.ProjectID), string(v.UserID), v.Type, doc)
	if err != nil {
		return wrapInsert(entity.Views, v.ID, err)
	}
	return nil
}

// UpdateView replaces the stored document for v.ID.
func (t *Tx) UpdateView(v *entity.View) error {
	doc, err := encodeDoc(v)
	if err != nil {
		return err
	}
	return t.execOne(entity.Views, v.ID, `
		UPDATE views SET project_id = ?, user_id = ?, type = ?, doc = ? WHERE id = ?
	`, string(v.ProjectID), string(v.UserID), v.Type, doc, string(v.ID))
}

// DeleteView removes one view row.
func (t *Tx) DeleteView(id entity.ID) error {
	return t.execOne(entity.Views, id, `DELETE FROM views WHERE id = ?`, string(id))
}

// ViewsByProjectType lists a project's views of the given type.
func (t *Tx) ViewsByProjectType(projectID entity.ID, viewType string) ([]*entity.View, error) {
	return listDocs[entity.View](t,
		`SELECT doc FROM views WHERE project_id = ? AND type = ? ORDER BY rowid`,
		string(projectID), viewType)
}

// ViewByProjectUserType finds a user's private view for a project.
// Returns ErrNotFound when the user has none.
func (t *Tx) ViewByProjectUserType(projectID, userID entity.ID, viewType string) (*entity.View, error) {
	views, err := listDocs[entity.View](t,
		`SELECT doc FROM views WHERE project_id = ? AND user_id = ? AND type = ? ORDER BY rowid LIMIT 1`,
		string(projectID), string(userID), viewType)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, notFound(entity.Views, "")
	}
	return views[0], nil
}

// DeleteViewsByProject removes every view of a project.
// Returns the number of deleted rows.
func (t *Tx) DeleteViewsByProject(projectID entity.ID) (int64, error) {
	return t.exec(`DELETE FROM views WHERE project_id = ?`, string(projectID))
}

// GetFavorite loads one favorite by id.
func (t *Tx) GetFavorite(id entity.ID) (*entity.Favorite, error) {
	return getDoc[entity.Favorite](t, entity.Favorites, id)
}

// InsertFavorite stores a new favorite.
func (t *Tx) InsertFavorite(f *entity.Favorite) error {
	doc, err := encodeDoc(f)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO favorites (id, user_id, project_id, doc) VALUES (?, ?, ?, ?)
	`, string(f.ID), string(f.UserID), string(f.ProjectID), doc)
	if err != nil {
		return wrapInsert(entity.Favorites, f.ID, err)
	}
	return nil
}

// DeleteFavorite removes one favorite row.
func (t *Tx) DeleteFavorite(id entity.ID) error {
	return t.execOne(entity.Favorites, id, `DELETE FROM favorites WHERE id = ?`, string(id))
}

// FavoritesByUserProject lists a user's favorites within a project.
func (t *Tx) FavoritesByUserProject(userID, projectID entity.ID) ([]*entity.Favorite, error) {
	return listDocs[entity.Favorite](t,
		`SELECT doc FROM favorites WHERE user_id = ? AND project_id = ? ORDER BY rowid`,
		string(userID), string(projectID))
}

// FavoritesByProject lists every favorite referencing a project.
func (t *Tx) FavoritesByProject(projectID entity.ID) ([]*entity.Favorite, error) {
	return listDocs[entity.Favorite](t,
		`SELECT doc FROM favorites WHERE project_id = ? ORDER BY rowid`, string(projectID))
}

// DeleteFavoritesByProject removes every favorite referencing a project.
// Returns the number of deleted rows.
func (t *Tx) DeleteFavoritesByProject(projectID entity.ID) (int64, error) {
	return t.exec(`DELETE FROM favorites WHERE project_id = ?`, string(projectID))
}
