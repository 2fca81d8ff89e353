package trigger

import (
	"fmt"

	"github.com/workstreamhq/workstream/internal/entity"
)

// Reaction receives the changes of one watched collection. Implementations
// write follow-on documents through the same Runtime, which is how cascades
// chain. Old and new documents arrive as the collection's concrete entity
// pointer type.
type Reaction interface {
	OnInsert(rt *Runtime, ch Change) error
	OnUpdate(rt *Runtime, ch Change) error
	OnDelete(rt *Runtime, ch Change) error
}

// Registry maps collections to their reactions. A collection has at most
// one reaction; collections without one are unwatched and their writes
// dispatch nothing.
type Registry struct {
	reactions map[entity.Collection]Reaction
}

func NewRegistry() *Registry {
	return &Registry{reactions: make(map[entity.Collection]Reaction)}
}

// Register binds a reaction to a collection. Registering a collection
// twice is a wiring bug and fails.
func (g *Registry) Register(c entity.Collection, r Reaction) error {
	if _, ok := g.reactions[c]; ok {
		return fmt.Errorf("trigger: collection %q already has a reaction", c)
	}
	g.reactions[c] = r
	return nil
}

// Watched reports whether a collection has a registered reaction.
func (g *Registry) Watched(c entity.Collection) bool {
	_, ok := g.reactions[c]
	return ok
}

func (g *Registry) reaction(c entity.Collection) Reaction {
	return g.reactions[c]
}
