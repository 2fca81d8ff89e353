package trigger

import (
	"fmt"

	"github.com/workstreamhq/workstream/internal/entity"
)

// Op is the kind of write a Change records.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes one committed write to a watched collection. Old holds
// the document as it was before the write (nil for inserts), New the
// document as written (nil for deletes). Both point at the concrete entity
// type of the collection.
type Change struct {
	Collection entity.Collection
	Op         Op
	ID         entity.ID
	Old        any
	New        any
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s %s", c.Op, c.Collection, c.ID)
}
