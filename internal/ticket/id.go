package ticket

import (
	"fmt"
	"sync"
)

const (
	// IDPrefix is the fixed textual prefix for ticket identifiers.
	IDPrefix = "INC"
	// idStart seeds the counter so the first identifier is INC-1001.
	idStart = 1000
)

// IDGenerator hands out INC-prefixed, strictly increasing ticket
// identifiers. Safe for concurrent use.
type IDGenerator struct {
	mu      sync.Mutex
	counter int
}

// NewIDGenerator creates a generator starting after the default seed.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{counter: idStart}
}

// Seed advances the counter to at least n so restarted processes keep
// issuing increasing identifiers. Lower values are ignored.
func (g *IDGenerator) Seed(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n > g.counter {
		g.counter = n
	}
}

// Next returns the next identifier, e.g. "INC-1001".
func (g *IDGenerator) Next() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%04d", IDPrefix, g.counter), g.counter
}
