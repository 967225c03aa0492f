// Package testutil provides deterministic stand-ins for the run-id
// generator so that stored histories and golden output are reproducible.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDGenerator yields "<prefix>-0001", "<prefix>-0002", ...
// It implements store.RunIDGenerator.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialRunIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialRunIDGenerator returns a generator whose ids start with
// prefix. An empty prefix defaults to "run".
func NewSequentialRunIDGenerator(prefix string) *SequentialRunIDGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialRunIDGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// Issued returns how many ids have been generated since the last Reset.
func (g *SequentialRunIDGenerator) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// Reset restarts the sequence, so the same test can run twice with
// identical ids.
func (g *SequentialRunIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}

// FixedRunIDGenerator returns the same id every time. Useful when a
// scenario is checked once and its history compared against a golden file.
type FixedRunIDGenerator string

// Generate returns the fixed id, or "run-fixed" if it is empty.
func (g FixedRunIDGenerator) Generate() string {
	if g == "" {
		return "run-fixed"
	}
	return string(g)
}
