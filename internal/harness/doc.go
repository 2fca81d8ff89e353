// Package harness runs declarative YAML scenarios against the mutation
// API. A scenario is a sequence of mutation steps with saved-id
// references between them, followed by assertions over the final state.
// Scenarios back the conformance tests and the demo CLI command; combined
// with the deterministic id generator and clock from internal/testutil,
// a run's full state snapshot is stable enough for golden-file
// comparison.
package harness
