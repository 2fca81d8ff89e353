// Package entity defines the document types stored by workstream.
//
// Twelve collections make up the entity graph:
//
//	users → workspaces → projects → tasks → comments
//	                              ↘ views
//	members, invites, favorites (workspace/project scoped)
//	activities, inbox, relations (task scoped)
//
// All cross-references are opaque IDs, never embedded copies. References
// into a project's feature catalogs (status, label, module, cycle) are weak:
// catalog entries are soft-deleted so task references never dangle, but
// nothing enforces that a referenced entry exists.
//
// Documents are plain structs serialized as JSON by the store. Timestamps
// are Unix milliseconds stamped from a Clock so tests stay deterministic.
package entity
