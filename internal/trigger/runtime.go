package trigger

import (
	"log/slog"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/store"
)

// DefaultMaxSteps bounds the number of changes one cascade may dispatch.
const DefaultMaxSteps = 1000

// Runtime is the write surface for one mutation. Writes to watched
// collections (tasks, comments, projects, workspaces) must go through its
// typed methods so their reactions fire; everything else can use Tx()
// directly.
//
// A Runtime is bound to a single transaction and is not safe for
// concurrent use.
type Runtime struct {
	tx  *store.Tx
	reg *Registry
	log *slog.Logger

	queue    []Change
	deleted  map[deleteKey]bool
	draining bool
	steps    int
	maxSteps int
}

type deleteKey struct {
	collection entity.Collection
	id         entity.ID
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithMaxSteps overrides the cascade step quota.
func WithMaxSteps(n int) Option {
	return func(r *Runtime) { r.maxSteps = n }
}

// WithLogger sets the logger used for per-change debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.log = l }
}

// NewRuntime wires a runtime over one open transaction.
func NewRuntime(tx *store.Tx, reg *Registry, opts ...Option) *Runtime {
	r := &Runtime{
		tx:       tx,
		reg:      reg,
		log:      slog.Default(),
		deleted:  make(map[deleteKey]bool),
		maxSteps: DefaultMaxSteps,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Tx exposes the underlying transaction for reads and for writes to
// unwatched collections.
func (r *Runtime) Tx() *store.Tx { return r.tx }

// dispatch queues one change and, unless a drain is already in progress
// further up the call chain, drains the queue to empty. Reactions calling
// back into the runtime only enqueue; the outermost write runs the loop,
// so cascades proceed in breadth-first order.
func (r *Runtime) dispatch(ch Change) error {
	r.queue = append(r.queue, ch)
	if r.draining {
		return nil
	}
	r.draining = true
	defer func() { r.draining = false }()

	for len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]

		r.steps++
		if r.steps > r.maxSteps {
			return quotaError(next, r.steps)
		}

		reaction := r.reg.reaction(next.Collection)
		if reaction == nil {
			continue
		}

		r.log.Debug("dispatch change",
			"op", string(next.Op),
			"collection", string(next.Collection),
			"id", string(next.ID),
			"step", r.steps)

		var err error
		switch next.Op {
		case OpInsert:
			err = reaction.OnInsert(r, next)
		case OpUpdate:
			err = reaction.OnUpdate(r, next)
		case OpDelete:
			err = reaction.OnDelete(r, next)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// markDeleted records a delete for the cycle guard. Deleting the same
// document twice within one runtime can only happen when reactions chase
// each other, so the second attempt fails instead of dispatching.
//
// Updates and inserts are deliberately not guarded this way: a cascade
// may legitimately update one document several times (a project's task
// counter, say), and the step quota still bounds genuine update loops.
func (r *Runtime) markDeleted(c entity.Collection, id entity.ID) error {
	key := deleteKey{collection: c, id: id}
	if r.deleted[key] {
		return cycleError(Change{Collection: c, Op: OpDelete, ID: id}, r.steps)
	}
	r.deleted[key] = true
	return nil
}

// InsertTask writes a task and dispatches its insert change.
func (r *Runtime) InsertTask(t *entity.Task) error {
	if err := r.tx.InsertTask(t); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Tasks, Op: OpInsert, ID: t.ID, New: t})
}

// UpdateTask replaces a task and dispatches an update change carrying the
// previous document.
func (r *Runtime) UpdateTask(t *entity.Task) error {
	old, err := r.tx.GetTask(t.ID)
	if err != nil {
		return err
	}
	if err := r.tx.UpdateTask(t); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Tasks, Op: OpUpdate, ID: t.ID, Old: old, New: t})
}

// DeleteTask removes a task and dispatches its delete change.
func (r *Runtime) DeleteTask(id entity.ID) error {
	if err := r.markDeleted(entity.Tasks, id); err != nil {
		return err
	}
	old, err := r.tx.GetTask(id)
	if err != nil {
		return err
	}
	if err := r.tx.DeleteTask(id); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Tasks, Op: OpDelete, ID: id, Old: old})
}

// InsertComment writes a comment and dispatches its insert change.
func (r *Runtime) InsertComment(c *entity.Comment) error {
	if err := r.tx.InsertComment(c); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Comments, Op: OpInsert, ID: c.ID, New: c})
}

// UpdateComment replaces a comment and dispatches its update change.
func (r *Runtime) UpdateComment(c *entity.Comment) error {
	old, err := r.tx.GetComment(c.ID)
	if err != nil {
		return err
	}
	if err := r.tx.UpdateComment(c); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Comments, Op: OpUpdate, ID: c.ID, Old: old, New: c})
}

// DeleteComment removes a comment and dispatches its delete change.
func (r *Runtime) DeleteComment(id entity.ID) error {
	if err := r.markDeleted(entity.Comments, id); err != nil {
		return err
	}
	old, err := r.tx.GetComment(id)
	if err != nil {
		return err
	}
	if err := r.tx.DeleteComment(id); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Comments, Op: OpDelete, ID: id, Old: old})
}

// InsertProject writes a project and dispatches its insert change.
func (r *Runtime) InsertProject(p *entity.Project) error {
	if err := r.tx.InsertProject(p); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Projects, Op: OpInsert, ID: p.ID, New: p})
}

// UpdateProject replaces a project and dispatches its update change.
func (r *Runtime) UpdateProject(p *entity.Project) error {
	old, err := r.tx.GetProject(p.ID)
	if err != nil {
		return err
	}
	if err := r.tx.UpdateProject(p); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Projects, Op: OpUpdate, ID: p.ID, Old: old, New: p})
}

// DeleteProject removes a project and dispatches its delete change.
func (r *Runtime) DeleteProject(id entity.ID) error {
	if err := r.markDeleted(entity.Projects, id); err != nil {
		return err
	}
	old, err := r.tx.GetProject(id)
	if err != nil {
		return err
	}
	if err := r.tx.DeleteProject(id); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Projects, Op: OpDelete, ID: id, Old: old})
}

// InsertWorkspace writes a workspace and dispatches its insert change.
func (r *Runtime) InsertWorkspace(w *entity.Workspace) error {
	if err := r.tx.InsertWorkspace(w); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Workspaces, Op: OpInsert, ID: w.ID, New: w})
}

// UpdateWorkspace replaces a workspace and dispatches its update change.
func (r *Runtime) UpdateWorkspace(w *entity.Workspace) error {
	old, err := r.tx.GetWorkspace(w.ID)
	if err != nil {
		return err
	}
	if err := r.tx.UpdateWorkspace(w); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Workspaces, Op: OpUpdate, ID: w.ID, Old: old, New: w})
}

// DeleteWorkspace removes a workspace and dispatches its delete change.
func (r *Runtime) DeleteWorkspace(id entity.ID) error {
	if err := r.markDeleted(entity.Workspaces, id); err != nil {
		return err
	}
	old, err := r.tx.GetWorkspace(id)
	if err != nil {
		return err
	}
	if err := r.tx.DeleteWorkspace(id); err != nil {
		return err
	}
	return r.dispatch(Change{Collection: entity.Workspaces, Op: OpDelete, ID: id, Old: old})
}
