package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares a state snapshot against the scenario's golden
// file in testdata/golden. Regenerate with:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, snapshot []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)
}
