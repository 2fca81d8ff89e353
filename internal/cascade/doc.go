// Package cascade holds the reactions behind every watched collection:
// the activity log and inbox fanout for task writes, the comment-thread
// bookkeeping, and the cascading deletes that keep the entity graph
// referentially consistent without foreign keys.
//
// Reactions run inside the originating mutation's transaction, via the
// trigger runtime. They follow one error policy: a missing optional parent
// (a task that is mid-delete, say) is a silent skip, while any failed
// write aborts the whole mutation.
package cascade
