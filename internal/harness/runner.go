package harness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/schema"
	"github.com/workstreamhq/workstream/internal/service"
	"github.com/workstreamhq/workstream/internal/store"
)

// Runner executes scenarios against one service instance. Ids returned
// by steps are saved under the step's Save name and referenced from
// later steps as "$name".
type Runner struct {
	svc  *service.Service
	st   *store.Store
	vars map[string]string
}

// NewRunner wires a runner over a service and its store.
func NewRunner(svc *service.Service, st *store.Store) *Runner {
	return &Runner{svc: svc, st: st, vars: make(map[string]string)}
}

// Var returns a saved id by name.
func (r *Runner) Var(name string) (string, bool) {
	v, ok := r.vars[name]
	return v, ok
}

// Run executes every step, then checks the assertions.
func (r *Runner) Run(ctx context.Context, sc *Scenario) error {
	for i, step := range sc.Steps {
		if err := r.runStep(ctx, sc, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}
	for i, a := range sc.Assertions {
		if err := r.check(ctx, a); err != nil {
			return fmt.Errorf("assertion %d (%s %s): %w", i, a.Type, a.Collection, err)
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, sc *Scenario, step Step) error {
	actor := step.As
	if actor == "" {
		actor = sc.Actor
	}
	resolvedActor, err := r.resolve(actor)
	if err != nil {
		return err
	}
	stepCtx := service.WithPrincipal(ctx, entity.ID(resolvedActor))

	id, err := r.invoke(stepCtx, step)

	if step.ExpectError != "" {
		if err == nil {
			return fmt.Errorf("expected %s error, got none", step.ExpectError)
		}
		if !matchesErrorClass(err, step.ExpectError) {
			return fmt.Errorf("expected %s error, got: %v", step.ExpectError, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if step.Save != "" {
		r.vars[step.Save] = string(id)
	}
	return nil
}

func matchesErrorClass(err error, class string) bool {
	switch class {
	case "invariant":
		return service.IsInvariant(err)
	case "not_found":
		return service.IsNotFound(err)
	case "unauthorized":
		return errors.Is(err, service.ErrUnauthorized)
	case "validation":
		var verr *schema.ValidationError
		return errors.As(err, &verr)
	}
	return false
}

// invoke dispatches one mutation by name. Ops that create a document
// return its id; the rest return "".
func (r *Runner) invoke(ctx context.Context, step Step) (entity.ID, error) {
	args := step.Args
	switch step.Op {
	case "user.upsert":
		return r.svc.UpsertUser(ctx, service.UserUpsert{
			ProviderID: r.strArg(args, "providerId"),
			Email:      r.strArg(args, "email"),
			Name:       r.strArg(args, "name"),
		})

	case "workspace.create":
		result, err := r.svc.CreateWorkspace(ctx, service.WorkspaceInput{
			Name:        r.strArg(args, "name"),
			Description: r.strArg(args, "description"),
		})
		if err != nil {
			return "", err
		}
		// The bootstrap produces three documents; expose all of them.
		if step.Save != "" {
			r.vars[step.Save+".project"] = string(result.ProjectID)
			r.vars[step.Save+".member"] = string(result.MemberID)
		}
		return result.WorkspaceID, nil

	case "workspace.remove":
		return "", r.svc.RemoveWorkspace(ctx, r.idArg(args, "id"))

	case "project.create":
		return r.svc.CreateProject(ctx, service.ProjectInput{
			WorkspaceID: r.idArg(args, "workspaceId"),
			Name:        r.strArg(args, "name"),
			Alias:       r.strArg(args, "alias"),
		})

	case "project.remove":
		return "", r.svc.RemoveProject(ctx, r.idArg(args, "id"))

	case "task.create":
		return r.svc.CreateTask(ctx, service.TaskInput{
			ProjectID:   r.idArg(args, "projectId"),
			Name:        r.strArg(args, "name"),
			Description: r.strArg(args, "description"),
			ParentID:    r.idArg(args, "parentId"),
			Status:      r.strArg(args, "status"),
			Priority:    entity.Priority(r.strArg(args, "priority")),
			UserIDs:     r.idListArg(args, "userIds"),
		})

	case "task.update":
		return "", r.svc.UpdateTask(ctx, r.idArg(args, "id"), r.taskPatch(args))

	case "task.remove":
		return "", r.svc.RemoveTask(ctx, r.idArg(args, "id"))

	case "comment.create":
		return r.svc.CreateComment(ctx, service.CommentInput{
			TaskID:   r.idArg(args, "taskId"),
			Content:  r.strArg(args, "content"),
			ParentID: r.idArg(args, "parentId"),
		})

	case "comment.remove":
		return "", r.svc.RemoveComment(ctx, r.idArg(args, "id"))

	case "relation.create":
		return r.svc.CreateRelation(ctx,
			r.idArg(args, "outgoingId"),
			r.idArg(args, "incomingId"),
			entity.RelationType(r.strArg(args, "type")))

	case "invite.create":
		return r.svc.CreateInvite(ctx, service.InviteInput{
			WorkspaceID: r.idArg(args, "workspaceId"),
			ProjectID:   r.idArg(args, "projectId"),
			Email:       r.strArg(args, "email"),
			Role:        entity.Role(r.strArg(args, "role")),
		})

	case "invite.accept":
		return "", r.svc.AcceptInvite(ctx, r.idArg(args, "id"))

	case "invite.decline":
		return "", r.svc.DeclineInvite(ctx, r.idArg(args, "id"))

	case "inbox.markAllAsRead":
		return "", r.svc.MarkAllInboxRead(ctx, r.idArg(args, "projectId"))

	case "favorite.add":
		return r.svc.AddFavorite(ctx,
			r.idArg(args, "projectId"),
			r.strArg(args, "referenceId"),
			r.strArg(args, "type"))

	case "favorite.toggle":
		return r.svc.ToggleFavorite(ctx,
			r.idArg(args, "projectId"),
			r.strArg(args, "referenceId"),
			r.strArg(args, "type"))

	default:
		return "", fmt.Errorf("unknown op %q", step.Op)
	}
}

func (r *Runner) taskPatch(args map[string]any) service.TaskPatch {
	var patch service.TaskPatch
	if v, ok := args["name"]; ok {
		s := r.mustResolve(str(v))
		patch.Name = &s
	}
	if v, ok := args["description"]; ok {
		s := r.mustResolve(str(v))
		patch.Description = &s
	}
	if v, ok := args["status"]; ok {
		s := r.mustResolve(str(v))
		patch.Status = &s
	}
	if v, ok := args["label"]; ok {
		s := r.mustResolve(str(v))
		patch.Label = &s
	}
	if v, ok := args["priority"]; ok {
		p := entity.Priority(r.mustResolve(str(v)))
		patch.Priority = &p
	}
	if v, ok := args["userIds"]; ok {
		ids := r.toIDList(v)
		patch.UserIDs = &ids
	}
	return patch
}

// resolve substitutes a "$name" reference with its saved id.
func (r *Runner) resolve(value string) (string, error) {
	if !strings.HasPrefix(value, "$") {
		return value, nil
	}
	name := strings.TrimPrefix(value, "$")
	v, ok := r.vars[name]
	if !ok {
		return "", fmt.Errorf("unknown reference $%s", name)
	}
	return v, nil
}

// mustResolve is resolve for contexts that already validated the
// reference exists; unknown refs resolve to themselves.
func (r *Runner) mustResolve(value string) string {
	v, err := r.resolve(value)
	if err != nil {
		return value
	}
	return v
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func (r *Runner) strArg(args map[string]any, key string) string {
	return r.mustResolve(str(args[key]))
}

func (r *Runner) idArg(args map[string]any, key string) entity.ID {
	return entity.ID(r.strArg(args, key))
}

func (r *Runner) toIDList(v any) []entity.ID {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	ids := make([]entity.ID, 0, len(list))
	for _, item := range list {
		ids = append(ids, entity.ID(r.mustResolve(str(item))))
	}
	return ids
}

func (r *Runner) idListArg(args map[string]any, key string) []entity.ID {
	v, ok := args[key]
	if !ok {
		return nil
	}
	return r.toIDList(v)
}
