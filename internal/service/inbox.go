package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// Inbox mutations are direct patches. The inbox collection is unwatched:
// nothing cascades off a notification changing state.

// ToggleInboxRead flips a notification's read flag.
func (s *Service) ToggleInboxRead(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "inbox.toggleRead", func(rt *trigger.Runtime) error {
		item, err := rt.Tx().GetInboxItem(id)
		if err != nil {
			return err
		}
		item.IsRead = !item.IsRead
		item.UpdatedAt = s.clock.Now()
		return rt.Tx().UpdateInboxItem(item)
	})
}

// ArchiveInboxItem marks a notification archived (and read).
func (s *Service) ArchiveInboxItem(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "inbox.archive", func(rt *trigger.Runtime) error {
		item, err := rt.Tx().GetInboxItem(id)
		if err != nil {
			return err
		}
		item.Archive = true
		item.IsRead = true
		item.UpdatedAt = s.clock.Now()
		return rt.Tx().UpdateInboxItem(item)
	})
}

// UnarchiveInboxItem moves a notification back to the inbox.
func (s *Service) UnarchiveInboxItem(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "inbox.unarchive", func(rt *trigger.Runtime) error {
		item, err := rt.Tx().GetInboxItem(id)
		if err != nil {
			return err
		}
		item.Archive = false
		item.UpdatedAt = s.clock.Now()
		return rt.Tx().UpdateInboxItem(item)
	})
}

// SnoozeInboxItem hides a notification until the given Unix-ms time.
func (s *Service) SnoozeInboxItem(ctx context.Context, id entity.ID, until int64) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	if until <= s.clock.Now() {
		return invariant("snooze time must be in the future")
	}
	return s.mutate(ctx, "inbox.snooze", func(rt *trigger.Runtime) error {
		item, err := rt.Tx().GetInboxItem(id)
		if err != nil {
			return err
		}
		item.Snooze = until
		item.UpdatedAt = s.clock.Now()
		return rt.Tx().UpdateInboxItem(item)
	})
}

// MarkAllInboxRead marks every unread notification of the caller within a
// project as read.
func (s *Service) MarkAllInboxRead(ctx context.Context, projectID entity.ID) error {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "inbox.markAllAsRead", func(rt *trigger.Runtime) error {
		items, err := rt.Tx().InboxByUserProject(actor, projectID, true)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		for _, item := range items {
			item.IsRead = true
			item.UpdatedAt = now
			if err := rt.Tx().UpdateInboxItem(item); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveInboxItem deletes one notification.
func (s *Service) RemoveInboxItem(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "inbox.remove", func(rt *trigger.Runtime) error {
		return rt.Tx().DeleteInboxItem(id)
	})
}
