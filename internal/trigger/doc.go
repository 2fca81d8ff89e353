// Package trigger dispatches reactions to document writes.
//
// Mutations never react to their own writes directly. Instead, every write
// to a watched collection goes through a Runtime, which records a Change
// and hands it to the collection's registered Reaction once the current
// reaction (or the originating write) has finished. Changes drain from a
// FIFO work list, so a cascade touching many documents runs breadth-first
// within one transaction rather than recursing.
//
// The Runtime bounds cascades two ways: a deleted (collection, id) pair is
// remembered for the life of the runtime, so a reaction that re-deletes a
// document it already removed fails with a cycle error instead of looping;
// and a step quota caps the total number of dispatched changes, so an
// update loop between reactions surfaces as an error rather than running
// away inside the transaction.
package trigger
