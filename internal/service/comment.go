package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/schema"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// CommentInput is the argument document of CreateComment.
type CommentInput struct {
	TaskID      entity.ID           `json:"taskId"`
	Content     string              `json:"content"`
	ParentID    entity.ID           `json:"parentId,omitempty"`
	Attachments []entity.Attachment `json:"attachments,omitempty"`
}

// CreateComment validates and inserts a comment through the trigger
// runtime, logging a comment-added activity on the owning task. Mentions
// are parsed from the rich-text content.
func (s *Service) CreateComment(ctx context.Context, in CommentInput) (entity.ID, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return "", err
	}
	if err := schema.Validate(schema.CommentInput, in); err != nil {
		return "", err
	}

	var id entity.ID
	err = s.mutate(ctx, "comment.create", func(rt *trigger.Runtime) error {
		// The owning task must exist for a primary mutation.
		if _, err := rt.Tx().GetTask(in.TaskID); err != nil {
			return err
		}
		now := s.clock.Now()
		comment := &entity.Comment{
			ID:          s.ids.NewID(),
			TaskID:      in.TaskID,
			ParentID:    in.ParentID,
			UserID:      actor,
			Content:     in.Content,
			Mentions:    ParseMentions(in.Content),
			Attachments: in.Attachments,
			CreatedAt:   now,
		}
		id = comment.ID
		return rt.InsertComment(comment)
	})
	return id, err
}

// UpdateComment replaces a comment's content. Only the author's edit flag
// and mentions change alongside; comment edits do not cascade.
func (s *Service) UpdateComment(ctx context.Context, id entity.ID, content string) error {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "comment.update", func(rt *trigger.Runtime) error {
		comment, err := rt.Tx().GetComment(id)
		if err != nil {
			return err
		}
		comment.Content = content
		comment.Mentions = ParseMentions(content)
		comment.IsEdited = true
		comment.EditedBy = actor
		comment.UpdatedAt = s.clock.Now()
		return rt.UpdateComment(comment)
	})
}

// RemoveComment deletes a comment. Its replies are orphaned to the thread
// root, never deleted, and a comment-removed activity lands on the task.
func (s *Service) RemoveComment(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "comment.remove", func(rt *trigger.Runtime) error {
		return rt.DeleteComment(id)
	})
}
