package entity

// Priority is the task priority enum.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is one of the known priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Role is the workspace member role enum.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember || r == RoleGuest
}

// InviteStatus is the invite lifecycle enum.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteExpired  InviteStatus = "expired"
)

// RelationType tags a directed task-to-task edge.
type RelationType string

const (
	RelationDoc       RelationType = "doc"
	RelationSubtask   RelationType = "subtask"
	RelationWaitingOn RelationType = "waitingOn"
	RelationBlocking  RelationType = "blocking"
)

// Valid reports whether t is one of the known relation types.
func (t RelationType) Valid() bool {
	switch t {
	case RelationDoc, RelationSubtask, RelationWaitingOn, RelationBlocking:
		return true
	}
	return false
}

// StatusGroup buckets project statuses for board ordering.
type StatusGroup string

const (
	GroupBacklog    StatusGroup = "backlog"
	GroupTodo       StatusGroup = "todo"
	GroupInProgress StatusGroup = "inProgress"
	GroupDone       StatusGroup = "done"
	GroupCancelled  StatusGroup = "cancelled"
)

// User is an authenticated account synced from the identity provider.
type User struct {
	ID              ID     `json:"id"`
	ProviderID      string `json:"providerId"`
	Email           string `json:"email,omitempty"`
	Name            string `json:"name,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
	Language        string `json:"language,omitempty"`
	LastProjectID   ID     `json:"lastProjectId,omitempty"`
	LastWorkspaceID ID     `json:"lastWorkspaceId,omitempty"`
	CreatedAt       int64  `json:"createdAt"`
	UpdatedAt       int64  `json:"updatedAt"`
}

// Workspace is the top-level container. Deleting it cascades to its
// projects, members and invites.
type Workspace struct {
	ID               ID     `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	UserID           ID     `json:"userId"`
	Plan             string `json:"plan,omitempty"`
	PlanMembers      int    `json:"planMembers,omitempty"`
	PlanSeats        int    `json:"planSeats,omitempty"`
	PlanBillingCycle string `json:"planBillingCycle,omitempty"`
	CreatedAt        int64  `json:"createdAt"`
	UpdatedAt        int64  `json:"updatedAt"`
}

// ProjectStatus is a status catalog entry. Entries are soft-deleted
// (Deleted flag) because tasks reference them by ID.
type ProjectStatus struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Color   string      `json:"color,omitempty"`
	Group   StatusGroup `json:"group,omitempty"`
	Deleted bool        `json:"deleted"`
}

// ProjectLabel is a label catalog entry (soft-deleted).
type ProjectLabel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	Deleted     bool   `json:"deleted"`
}

// ProjectModule is a module catalog entry (soft-deleted).
type ProjectModule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	Deleted     bool   `json:"deleted"`
}

// ProjectCycle is a cycle (sprint) catalog entry (soft-deleted).
type ProjectCycle struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Leader    string `json:"leader,omitempty"`
	Deleted   bool   `json:"deleted"`
}

// Project belongs to exactly one workspace and embeds the mutable feature
// catalogs its tasks reference. AliasCount is a monotonic counter used to
// mint human-readable task aliases ("{Alias}-{n}").
type Project struct {
	ID          ID              `json:"id"`
	WorkspaceID ID              `json:"workspaceId"`
	Name        string          `json:"name"`
	Alias       string          `json:"alias,omitempty"`
	AliasCount  int             `json:"aliasCount"`
	Icon        string          `json:"icon,omitempty"`
	Color       string          `json:"color,omitempty"`
	Description string          `json:"description,omitempty"`
	Status      []ProjectStatus `json:"status,omitempty"`
	Label       []ProjectLabel  `json:"label,omitempty"`
	Module      []ProjectModule `json:"module,omitempty"`
	Cycle       []ProjectCycle  `json:"cycle,omitempty"`
	StoryPoints []int           `json:"storyPoints,omitempty"`
	CreatedAt   int64           `json:"createdAt"`
	UpdatedAt   int64           `json:"updatedAt"`
}

// DateRange is an inclusive ISO-date range on a task.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// IsZero reports whether both endpoints are unset.
func (r DateRange) IsZero() bool { return r.Start == "" && r.End == "" }

// Reaction is an emoji reaction on a task or comment.
type Reaction struct {
	UserID ID     `json:"userId"`
	Emoji  string `json:"emoji"`
}

// Attachment is an uploaded file referenced from a task or comment.
// The ID is stable so update diffs can tell added from removed items.
type Attachment struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
	Type string `json:"type,omitempty"`
}

// DisplayName returns the attachment name, falling back to its URL.
func (a Attachment) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.URL
}

// Link is an external URL attached to a task.
type Link struct {
	ID   string `json:"id"`
	URL  string `json:"url,omitempty"`
	Name string `json:"name,omitempty"`
}

// DisplayName returns the link name, falling back to its URL.
func (l Link) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.URL
}

// Task is the unit of work. Status/Module/Label/Cycle are weak references
// into the owning project's catalogs. ParentID is a self-reference;
// non-cyclic by convention, not structurally enforced.
type Task struct {
	ID          ID           `json:"id"`
	ProjectID   ID           `json:"projectId"`
	ParentID    ID           `json:"parentId,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	AliasID     string       `json:"aliasId,omitempty"`
	Status      string       `json:"status,omitempty"`
	Module      string       `json:"module,omitempty"`
	Label       string       `json:"label,omitempty"`
	Cycle       string       `json:"cycle,omitempty"`
	Priority    Priority     `json:"priority,omitempty"`
	Position    int          `json:"position,omitempty"`
	UserIDs     []ID         `json:"userIds,omitempty"`
	Mentions    []ID         `json:"mentions,omitempty"`
	Related     []string     `json:"related,omitempty"`
	Reactions   []Reaction   `json:"reactions,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Links       []Link       `json:"links,omitempty"`
	DateRange   DateRange    `json:"dateRange"`
	CreatedAt   int64        `json:"createdAt"`
	UpdatedAt   int64        `json:"updatedAt"`
	UpdatedBy   ID           `json:"updatedBy,omitempty"`
}

// Comment is a threaded note on a task. Deleting a parent comment orphans
// its children (ParentID cleared), it never deletes them.
type Comment struct {
	ID          ID           `json:"id"`
	TaskID      ID           `json:"taskId"`
	ParentID    ID           `json:"parentId,omitempty"`
	UserID      ID           `json:"userId"`
	Content     string       `json:"content,omitempty"`
	Mentions    []ID         `json:"mentions,omitempty"`
	Reactions   []Reaction   `json:"reactions,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	IsEdited    bool         `json:"isEdited,omitempty"`
	EditedBy    ID           `json:"editedBy,omitempty"`
	CreatedAt   int64        `json:"createdAt"`
	UpdatedAt   int64        `json:"updatedAt,omitempty"`
}

// ActivityPayload describes the field-level change behind an activity.
// Value is nil for redacted fields (description) and structural events.
type ActivityPayload struct {
	Prop  string `json:"prop,omitempty"`
	Type  string `json:"type,omitempty"` // "updated" | "added" | "removed"
	Value any    `json:"value,omitempty"`
}

// Activity is an immutable append-only log entry describing one
// field-level change or structural event on a task. Never mutated after
// insert; deleted only when its task is deleted.
type Activity struct {
	ID        ID              `json:"id"`
	UserID    ID              `json:"userId"`
	TaskID    ID              `json:"taskId"`
	ProjectID ID              `json:"projectId"`
	Action    string          `json:"action"` // "created" | "updated" | "deleted"
	Payload   ActivityPayload `json:"payload"`
	CreatedAt int64           `json:"createdAt"`
}

// InboxItem is a per-user notification referencing a task.
// Created by cascade reactions, mutated only by explicit inbox mutations.
type InboxItem struct {
	ID            ID     `json:"id"`
	UserID        ID     `json:"userId"`
	ReferenceID   ID     `json:"referenceId"`
	ReferenceType string `json:"referenceType"` // currently always "task"
	ProjectID     ID     `json:"projectId"`
	Action        string `json:"action,omitempty"`
	Feature       string `json:"feature,omitempty"`
	Message       string `json:"message,omitempty"`
	IsRead        bool   `json:"isRead"`
	Archive       bool   `json:"archive"`
	Snooze        int64  `json:"snooze,omitempty"`
	Unsubscribe   bool   `json:"unsubscribe"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
}

// Member links a user to a workspace. Projects lists the project IDs the
// member can access; admins see every project regardless. Removed is a
// soft-delete flag so the row survives for history.
type Member struct {
	ID          ID    `json:"id"`
	WorkspaceID ID    `json:"workspaceId"`
	UserID      ID    `json:"userId"`
	Role        Role  `json:"role"`
	Projects    []ID  `json:"projects,omitempty"`
	Removed     bool  `json:"removed,omitempty"`
	CreatedAt   int64 `json:"createdAt"`
	UpdatedAt   int64 `json:"updatedAt"`
}

// HasProject reports whether the member's access list contains id.
func (m *Member) HasProject(id ID) bool {
	for _, p := range m.Projects {
		if p == id {
			return true
		}
	}
	return false
}

// Invite is a pending email invitation scoped to one workspace+project+role.
// Expires seven days after creation.
type Invite struct {
	ID          ID           `json:"id"`
	WorkspaceID ID           `json:"workspaceId"`
	ProjectID   ID           `json:"projectId"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	InvitedBy   ID           `json:"invitedBy,omitempty"`
	Status      InviteStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	UserID      ID           `json:"userId,omitempty"`
	CreatedAt   int64        `json:"createdAt"`
	ExpiresAt   int64        `json:"expiresAt"`
	AcceptedAt  int64        `json:"acceptedAt,omitempty"`
}

// Relation is a directed edge between two tasks. Deleting either endpoint
// deletes the relation.
type Relation struct {
	ID         ID           `json:"id"`
	OutgoingID ID           `json:"outgoingId"`
	IncomingID ID           `json:"incomingId"`
	Type       RelationType `json:"type"`
	CreatedAt  int64        `json:"createdAt"`
	UpdatedAt  int64        `json:"updatedAt,omitempty"`
}

// Favorite is a user-scoped bookmark inside a project. No cascade logic of
// its own, but deleted when its project is deleted.
type Favorite struct {
	ID          ID     `json:"id"`
	UserID      ID     `json:"userId"`
	ProjectID   ID     `json:"projectId"`
	ReferenceID string `json:"referenceId,omitempty"`
	Type        string `json:"type,omitempty"` // "view" | "module" | "cycle"
	CreatedAt   int64  `json:"createdAt"`
}

// ViewContent is the saved display configuration of a view. The structure
// is owned by the client; the core stores it verbatim.
type ViewContent struct {
	Display  map[string]any   `json:"display,omitempty"`
	Filter   map[string]any   `json:"filter,omitempty"`
	Filters  []map[string]any `json:"filters,omitempty"`
	Settings map[string]any   `json:"settings,omitempty"`
}

// View is a saved display configuration for a project. Type "user" views
// are private per user; type "view" entries are shared.
type View struct {
	ID          ID          `json:"id"`
	ProjectID   ID          `json:"projectId"`
	UserID      ID          `json:"userId,omitempty"`
	Type        string      `json:"type"` // "view" | "user"
	Shared      bool        `json:"shared,omitempty"`
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Content     ViewContent `json:"content"`
	CreatedAt   int64       `json:"createdAt"`
	UpdatedAt   int64       `json:"updatedAt"`
}
