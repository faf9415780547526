// internal/document/generation.go
package document

import "sync/atomic"

// Generations arbitrates concurrent loads: each load attempt takes a
// ticket, and only the holder of the latest ticket may install its
// result. Later wins, earlier results are dropped on arrival.
type Generations struct {
	n atomic.Uint64
}

// Next issues a new load ticket, invalidating all earlier ones.
func (g *Generations) Next() uint64 {
	return g.n.Add(1)
}

// Current reports whether ticket is still the latest.
func (g *Generations) Current(ticket uint64) bool {
	return g.n.Load() == ticket
}
