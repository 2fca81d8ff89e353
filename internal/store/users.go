package store

import (
	"github.com/workstreamhq/workstream/internal/entity"
)

// GetUser loads one user by id.
func (t *Tx) GetUser(id entity.ID) (*entity.User, error) {
	return getDoc[entity.User](t, entity.Users, id)
}

// InsertUser stores a new user. A second row for the same provider id
// fails with ErrConflict.
func (t *Tx) InsertUser(u *entity.User) error {
	doc, err := encodeDoc(u)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO users (id, provider_id, email, doc) VALUES (?, ?, ?, ?)
	`, string(u.ID), u.ProviderID, u.Email, doc)
	if err != nil {
		return wrapInsert(entity.Users, u.ID, err)
	}
	return nil
}

// UpdateUser replaces the stored document for u.ID.
func (t *Tx) UpdateUser(u *entity.User) error {
	doc, err := encodeDoc(u)
	if err != nil {
		return err
	}
	return t.execOne(entity.Users, u.ID, `
		UPDATE users SET provider_id = ?, email = ?, doc = ? WHERE id = ?
	`, u.ProviderID, u.Email, doc, string(u.ID))
}

// UserByProviderID finds a user by identity-provider id.
func (t *Tx) UserByProviderID(providerID string) (*entity.User, error) {
	users, err := listDocs[entity.User](t,
		`SELECT doc FROM users WHERE provider_id = ? LIMIT 1`, providerID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, notFound(entity.Users, "")
	}
	return users[0], nil
}

// UserByEmail finds a user by email address.
func (t *Tx) UserByEmail(email string) (*entity.User, error) {
	users, err := listDocs[entity.User](t,
		`SELECT doc FROM users WHERE email = ? LIMIT 1`, email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, notFound(entity.Users, "")
	}
	return users[0], nil
}
