package testutil

import (
	"fmt"
	"sync"

	"github.com/workstreamhq/workstream/internal/entity"
)

// SeqIDGenerator mints sequential ids ("id-0001", "id-0002", ...) so test
// output and golden files stay stable across runs.
type SeqIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSeqIDGenerator creates a generator with the given id prefix.
// An empty prefix defaults to "id".
func NewSeqIDGenerator(prefix string) *SeqIDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &SeqIDGenerator{prefix: prefix}
}

// NewID returns the next sequential id.
func (g *SeqIDGenerator) NewID() entity.ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return entity.ID(fmt.Sprintf("%s-%04d", g.prefix, g.seq))
}

// Reset restarts the sequence. The next NewID returns "<prefix>-0001".
func (g *SeqIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
