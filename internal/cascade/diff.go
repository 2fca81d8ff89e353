package cascade

import (
	"slices"
	"strings"

	"github.com/workstreamhq/workstream/internal/entity"
)

// fieldChange is the outcome of diffing one task field: zero or more
// activity payloads, plus whether the change notifies assignees.
// Recipients defaults to the new document's assignee list when nil.
type fieldChange struct {
	payloads []entity.ActivityPayload
	notify   bool
}

// fieldDescriptor binds a property name to its equality discipline. Each
// tracked field carries its own diff func, so adding a field means adding
// a table entry rather than extending a generic comparison loop.
type fieldDescriptor struct {
	prop string
	diff func(old, new *entity.Task) fieldChange
}

// taskFields is the complete set of update-tracked task properties.
var taskFields = []fieldDescriptor{
	scalarField("name", func(t *entity.Task) any { return t.Name }),
	scalarField("status", func(t *entity.Task) any { return t.Status }),
	scalarField("module", func(t *entity.Task) any { return t.Module }),
	scalarField("label", func(t *entity.Task) any { return t.Label }),
	scalarField("priority", func(t *entity.Task) any { return string(t.Priority) }),
	scalarField("cycle", func(t *entity.Task) any { return t.Cycle }),
	{prop: "dateRange", diff: diffDateRange},
	{prop: "userIds", diff: diffAssignees},
	{prop: "attachments", diff: diffAttachments},
	{prop: "links", diff: diffLinks},
	{prop: "description", diff: diffDescription},
}

// scalarField compares by plain equality and records the new value.
func scalarField(prop string, get func(*entity.Task) any) fieldDescriptor {
	return fieldDescriptor{
		prop: prop,
		diff: func(old, new *entity.Task) fieldChange {
			if get(old) == get(new) {
				return fieldChange{}
			}
			return fieldChange{
				payloads: []entity.ActivityPayload{
					{Prop: prop, Type: "updated", Value: get(new)},
				},
				notify: true,
			}
		},
	}
}

// diffDateRange compares structurally, not by reference.
func diffDateRange(old, new *entity.Task) fieldChange {
	if old.DateRange == new.DateRange {
		return fieldChange{}
	}
	return fieldChange{
		payloads: []entity.ActivityPayload{
			{Prop: "dateRange", Type: "updated", Value: new.DateRange},
		},
		notify: true,
	}
}

// diffAssignees computes the set difference both ways. One payload per
// added and per removed id. Only additions notify: a removed assignee has
// nothing actionable to read.
func diffAssignees(old, new *entity.Task) fieldChange {
	added := idSetDiff(new.UserIDs, old.UserIDs)
	removed := idSetDiff(old.UserIDs, new.UserIDs)

	var ch fieldChange
	for _, id := range added {
		ch.payloads = append(ch.payloads, entity.ActivityPayload{
			Prop: "userIds", Type: "added", Value: string(id),
		})
	}
	for _, id := range removed {
		ch.payloads = append(ch.payloads, entity.ActivityPayload{
			Prop: "userIds", Type: "removed", Value: string(id),
		})
	}
	ch.notify = len(added) > 0
	return ch
}

// diffAttachments logs activities for additions and removals, diffed by
// stable sub-document id. Values carry the display name, never the
// content. Notification is broader than the activity log: any difference
// in the list, including an in-place edit of an existing entry, notifies
// the assignees.
func diffAttachments(old, new *entity.Task) fieldChange {
	oldByID := make(map[string]entity.Attachment, len(old.Attachments))
	for _, a := range old.Attachments {
		oldByID[a.ID] = a
	}
	newByID := make(map[string]entity.Attachment, len(new.Attachments))
	for _, a := range new.Attachments {
		newByID[a.ID] = a
	}

	var ch fieldChange
	for _, a := range new.Attachments {
		if _, ok := oldByID[a.ID]; !ok {
			ch.payloads = append(ch.payloads, entity.ActivityPayload{
				Prop: "attachments", Type: "added", Value: a.DisplayName(),
			})
		}
	}
	for _, a := range old.Attachments {
		if _, ok := newByID[a.ID]; !ok {
			ch.payloads = append(ch.payloads, entity.ActivityPayload{
				Prop: "attachments", Type: "removed", Value: a.DisplayName(),
			})
		}
	}
	ch.notify = !slices.Equal(old.Attachments, new.Attachments)
	return ch
}

// diffLinks mirrors diffAttachments for the links list.
func diffLinks(old, new *entity.Task) fieldChange {
	oldByID := make(map[string]entity.Link, len(old.Links))
	for _, l := range old.Links {
		oldByID[l.ID] = l
	}
	newByID := make(map[string]entity.Link, len(new.Links))
	for _, l := range new.Links {
		newByID[l.ID] = l
	}

	var ch fieldChange
	for _, l := range new.Links {
		if _, ok := oldByID[l.ID]; !ok {
			ch.payloads = append(ch.payloads, entity.ActivityPayload{
				Prop: "links", Type: "added", Value: l.DisplayName(),
			})
		}
	}
	for _, l := range old.Links {
		if _, ok := newByID[l.ID]; !ok {
			ch.payloads = append(ch.payloads, entity.ActivityPayload{
				Prop: "links", Type: "removed", Value: l.DisplayName(),
			})
		}
	}
	ch.notify = !slices.Equal(old.Links, new.Links)
	return ch
}

// diffDescription never stores the text. It only classifies the change:
// added when going from blank to non-blank, removed for the reverse,
// updated otherwise.
func diffDescription(old, new *entity.Task) fieldChange {
	if old.Description == new.Description {
		return fieldChange{}
	}
	oldBlank := strings.TrimSpace(old.Description) == ""
	newBlank := strings.TrimSpace(new.Description) == ""

	changeType := "updated"
	switch {
	case oldBlank && !newBlank:
		changeType = "added"
	case !oldBlank && newBlank:
		changeType = "removed"
	}
	return fieldChange{
		payloads: []entity.ActivityPayload{
			{Prop: "description", Type: changeType},
		},
		notify: true,
	}
}

// idSetDiff returns the ids in a that are not in b, preserving a's order.
func idSetDiff(a, b []entity.ID) []entity.ID {
	inB := make(map[entity.ID]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}
	var out []entity.ID
	for _, id := range a {
		if !inB[id] {
			out = append(out, id)
		}
	}
	return out
}
