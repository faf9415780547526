package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeRestorer records restored snapshots per page.
type fakeRestorer struct {
	pages map[int][]byte
	gone  map[int]bool
}

func newFakeRestorer(pages ...int) *fakeRestorer {
	f := &fakeRestorer{pages: make(map[int][]byte), gone: make(map[int]bool)}
	for _, p := range pages {
		f.pages[p] = EmptySnapshot()
	}
	return f
}

func (f *fakeRestorer) HasPage(pageIndex int) bool {
	_, ok := f.pages[pageIndex]
	return ok && !f.gone[pageIndex]
}

func (f *fakeRestorer) RestoreOverlay(pageIndex int, snapshot []byte) error {
	f.pages[pageIndex] = snapshot
	return nil
}

func TestUndoRestoresPreviousSnapshot(t *testing.T) {
	m := NewManager()
	r := newFakeRestorer(1)

	snapA := []byte(`{"v":1,"objects":[{"kind":"rect"}]}`)
	snapB := []byte(`{"v":1,"objects":[{"kind":"rect"},{"kind":"line"}]}`)
	m.Record(1, snapA)
	m.Record(1, snapB)

	if !m.Undo(r) {
		t.Fatal("Undo returned false with two entries recorded")
	}
	if diff := cmp.Diff(string(snapA), string(r.pages[1])); diff != "" {
		t.Errorf("page 1 snapshot after undo (-want +got):\n%s", diff)
	}

	if !m.Undo(r) {
		t.Fatal("second Undo returned false")
	}
	if diff := cmp.Diff(string(EmptySnapshot()), string(r.pages[1])); diff != "" {
		t.Errorf("page 1 snapshot after undoing everything (-want +got):\n%s", diff)
	}
	if m.CanUndo() {
		t.Error("CanUndo is true after undoing everything")
	}
}

func TestRedoReappliesSnapshot(t *testing.T) {
	m := NewManager()
	r := newFakeRestorer(1)

	snap := []byte(`{"v":1,"objects":[{"kind":"ellipse"}]}`)
	m.Record(1, snap)
	if !m.Undo(r) {
		t.Fatal("Undo failed")
	}
	if !m.CanRedo() {
		t.Fatal("CanRedo is false right after an undo")
	}
	if !m.Redo(r) {
		t.Fatal("Redo returned false")
	}
	if diff := cmp.Diff(string(snap), string(r.pages[1])); diff != "" {
		t.Errorf("page 1 snapshot after redo (-want +got):\n%s", diff)
	}
	if m.CanRedo() {
		t.Error("CanRedo is true after redoing the only entry")
	}
}

func TestRecordDiscardsRedoBranch(t *testing.T) {
	m := NewManager()
	r := newFakeRestorer(1)

	m.Record(1, []byte("a"))
	m.Record(1, []byte("b"))
	if !m.Undo(r) {
		t.Fatal("Undo failed")
	}

	// Recording while an entry is redoable discards the redo tail.
	m.Record(1, []byte("c"))
	if m.CanRedo() {
		t.Error("CanRedo is true after recording on a mid-stack cursor")
	}
	if got := m.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2 after branch discard", got)
	}
	if !m.Undo(r) {
		t.Fatal("Undo after branch discard failed")
	}
	if diff := cmp.Diff("a", string(r.pages[1])); diff != "" {
		t.Errorf("snapshot after undoing the new branch (-want +got):\n%s", diff)
	}
}

func TestUndoInterleavedPages(t *testing.T) {
	m := NewManager()
	r := newFakeRestorer(1, 2)

	m.Record(1, []byte("p1-a"))
	m.Record(2, []byte("p2-a"))
	m.Record(1, []byte("p1-b"))

	// Undoing the last entry must restore page 1 to its own previous
	// snapshot, skipping the page 2 entry in between.
	if !m.Undo(r) {
		t.Fatal("Undo failed")
	}
	if diff := cmp.Diff("p1-a", string(r.pages[1])); diff != "" {
		t.Errorf("page 1 after undo (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("p2-a", string(r.pages[2])); diff != "" {
		t.Errorf("page 2 untouched by page 1 undo (-want +got):\n%s", diff)
	}
}

func TestUndoMissingPageIsNoOp(t *testing.T) {
	m := NewManager()
	r := newFakeRestorer(1)

	m.Record(1, []byte("a"))
	r.gone[1] = true

	if m.Undo(r) {
		t.Error("Undo succeeded against a vanished page")
	}
	if !m.CanUndo() {
		t.Error("cursor moved even though the undo was a no-op")
	}
}

func TestEvictionKeepsRecentEntries(t *testing.T) {
	m := NewManager()
	m.maxEntries = 3

	m.Record(1, []byte("a"))
	m.Record(1, []byte("b"))
	m.Record(1, []byte("c"))
	m.Record(1, []byte("d"))

	if got := m.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3 after eviction", got)
	}
	r := newFakeRestorer(1)
	for m.Undo(r) {
	}
	// The oldest entry was evicted, so a full unwind lands on the empty
	// overlay, not on "a".
	if diff := cmp.Diff(string(EmptySnapshot()), string(r.pages[1])); diff != "" {
		t.Errorf("full unwind after eviction (-want +got):\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	m := NewManager()
	m.Record(1, []byte("a"))
	m.Clear()
	if m.CanUndo() || m.CanRedo() || m.Len() != 0 {
		t.Error("Clear left state behind")
	}
}
