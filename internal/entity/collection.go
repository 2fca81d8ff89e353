package entity

// Collection tags one of the document collections.
// Used as the dispatch key for trigger registration and as the table name
// in the store.
type Collection string

const (
	Users      Collection = "users"
	Workspaces Collection = "workspaces"
	Projects   Collection = "projects"
	Tasks      Collection = "tasks"
	Comments   Collection = "comments"
	Activities Collection = "activities"
	InboxItems Collection = "inbox"
	Members    Collection = "members"
	Invites    Collection = "invites"
	Relations  Collection = "relations"
	Favorites  Collection = "favorites"
	Views      Collection = "views"
)

// AllCollections lists every collection in schema order.
var AllCollections = []Collection{
	Users, Workspaces, Projects, Tasks, Comments, Activities,
	InboxItems, Members, Invites, Relations, Favorites, Views,
}
