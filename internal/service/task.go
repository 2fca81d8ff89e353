package service

import (
	"context"
	"fmt"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/schema"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// TaskInput is the argument document of CreateTask. JSON field names
// match the schema definitions in internal/schema.
type TaskInput struct {
	ProjectID   entity.ID           `json:"projectId"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	ParentID    entity.ID           `json:"parentId,omitempty"`
	Status      string              `json:"status,omitempty"`
	Module      string              `json:"module,omitempty"`
	Label       string              `json:"label,omitempty"`
	Cycle       string              `json:"cycle,omitempty"`
	Priority    entity.Priority     `json:"priority,omitempty"`
	Position    int                 `json:"position,omitempty"`
	UserIDs     []entity.ID         `json:"userIds,omitempty"`
	Attachments []entity.Attachment `json:"attachments,omitempty"`
	Links       []entity.Link       `json:"links,omitempty"`
	DateRange   *entity.DateRange   `json:"dateRange,omitempty"`
}

// TaskPatch lists the updatable task fields. Nil fields are untouched.
type TaskPatch struct {
	Name        *string
	Description *string
	ParentID    *entity.ID
	Status      *string
	Module      *string
	Label       *string
	Cycle       *string
	Priority    *entity.Priority
	Position    *int
	UserIDs     *[]entity.ID
	Attachments *[]entity.Attachment
	Links       *[]entity.Link
	DateRange   *entity.DateRange
}

// CreateTask validates the input, mints the task's alias from the owning
// project's counter, and inserts the task through the trigger runtime, so
// the created activity and assignee fanout happen in the same
// transaction. Returns the new task id.
func (s *Service) CreateTask(ctx context.Context, in TaskInput) (entity.ID, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return "", err
	}
	if err := schema.Validate(schema.TaskInput, in); err != nil {
		return "", err
	}

	var id entity.ID
	err = s.mutate(ctx, "task.create", func(rt *trigger.Runtime) error {
		task, err := s.createTask(rt, actor, in)
		if err != nil {
			return err
		}
		id = task.ID
		return nil
	})
	return id, err
}

// createTask is the shared create path, also used to seed a new project's
// default tasks. The alias counter increment and the task insert share
// the caller's transaction, which is what keeps alias numbers unique: the
// store serializes whole transactions.
func (s *Service) createTask(rt *trigger.Runtime, actor entity.ID, in TaskInput) (*entity.Task, error) {
	project, err := rt.Tx().GetProject(in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("task.create: %w", err)
	}

	project.AliasCount++
	project.UpdatedAt = s.clock.Now()
	if err := rt.UpdateProject(project); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityNone
	}

	now := s.clock.Now()
	task := &entity.Task{
		ID:          s.ids.NewID(),
		ProjectID:   in.ProjectID,
		ParentID:    in.ParentID,
		Name:        in.Name,
		Description: in.Description,
		AliasID:     fmt.Sprintf("%s-%d", taskAlias(project), project.AliasCount),
		Status:      in.Status,
		Module:      in.Module,
		Label:       in.Label,
		Cycle:       in.Cycle,
		Priority:    priority,
		Position:    in.Position,
		UserIDs:     in.UserIDs,
		Mentions:    ParseMentions(in.Description),
		Attachments: in.Attachments,
		Links:       in.Links,
		CreatedAt:   now,
		UpdatedAt:   now,
		UpdatedBy:   actor,
	}
	if in.DateRange != nil {
		task.DateRange = *in.DateRange
	}
	if err := rt.InsertTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a patch to a task through the trigger runtime, so
// the field diff cascade logs activities and notifies assignees. A
// patched description re-derives the mentions list.
func (s *Service) UpdateTask(ctx context.Context, id entity.ID, patch TaskPatch) error {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return err
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return invariant("unknown priority %q", *patch.Priority)
	}

	return s.mutate(ctx, "task.update", func(rt *trigger.Runtime) error {
		task, err := rt.Tx().GetTask(id)
		if err != nil {
			return err
		}
		applyTaskPatch(task, patch)
		task.UpdatedAt = s.clock.Now()
		task.UpdatedBy = actor
		return rt.UpdateTask(task)
	})
}

func applyTaskPatch(task *entity.Task, patch TaskPatch) {
	if patch.Name != nil {
		task.Name = *patch.Name
	}
	if patch.Description != nil {
		task.Description = *patch.Description
		task.Mentions = ParseMentions(*patch.Description)
	}
	if patch.ParentID != nil {
		task.ParentID = *patch.ParentID
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Module != nil {
		task.Module = *patch.Module
	}
	if patch.Label != nil {
		task.Label = *patch.Label
	}
	if patch.Cycle != nil {
		task.Cycle = *patch.Cycle
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Position != nil {
		task.Position = *patch.Position
	}
	if patch.UserIDs != nil {
		task.UserIDs = *patch.UserIDs
	}
	if patch.Attachments != nil {
		task.Attachments = *patch.Attachments
	}
	if patch.Links != nil {
		task.Links = *patch.Links
	}
	if patch.DateRange != nil {
		task.DateRange = *patch.DateRange
	}
}

// RemoveTask deletes a task; the delete cascade purges its activities,
// comments, inbox rows and relations, and orphans its children.
func (s *Service) RemoveTask(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "task.remove", func(rt *trigger.Runtime) error {
		return rt.DeleteTask(id)
	})
}

// CreateRelation links two tasks with a directed, typed edge.
func (s *Service) CreateRelation(ctx context.Context, outgoing, incoming entity.ID, relType entity.RelationType) (entity.ID, error) {
	if _, err := PrincipalFrom(ctx); err != nil {
		return "", err
	}
	if !relType.Valid() {
		return "", invariant("unknown relation type %q", relType)
	}
	if outgoing == incoming {
		return "", invariant("a task cannot relate to itself")
	}

	var id entity.ID
	err := s.mutate(ctx, "relation.create", func(rt *trigger.Runtime) error {
		// Both endpoints must exist when the edge is created.
		if _, err := rt.Tx().GetTask(outgoing); err != nil {
			return err
		}
		if _, err := rt.Tx().GetTask(incoming); err != nil {
			return err
		}
		rel := &entity.Relation{
			ID:         s.ids.NewID(),
			OutgoingID: outgoing,
			IncomingID: incoming,
			Type:       relType,
			CreatedAt:  s.clock.Now(),
		}
		id = rel.ID
		return rt.Tx().InsertRelation(rel)
	})
	return id, err
}

// RemoveRelation deletes one relation edge.
func (s *Service) RemoveRelation(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "relation.remove", func(rt *trigger.Runtime) error {
		return rt.Tx().DeleteRelation(id)
	})
}
