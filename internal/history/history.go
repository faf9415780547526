// Package history provides linear undo/redo over per-page overlay
// snapshots. Every committed mutation appends one entry; undoing and
// redoing replays full snapshots, never diffs.
package history

import "inkmark/internal/annot"

// Entry pairs a page with the serialized overlay state recorded after
// one committed mutation on that page.
type Entry struct {
	// PageIndex is 1-based, matching page surfaces.
	PageIndex int

	// Snapshot is the complete overlay content after the mutation.
	Snapshot []byte
}

// emptySnapshot is the serialized form of an overlay with no objects,
// used when undoing a page's very first mutation.
var emptySnapshot = func() []byte {
	b, err := annot.MarshalObjects(nil)
	if err != nil {
		panic(err) // cannot happen: marshaling an empty list
	}
	return b
}()

// EmptySnapshot returns the canonical snapshot of an empty overlay.
func EmptySnapshot() []byte {
	return emptySnapshot
}
