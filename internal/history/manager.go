// internal/history/manager.go
package history

import (
	"sync"

	"inkmark/internal/logger"
)

// DefaultMaxEntries caps the undo stack. When the cap is reached the
// oldest entry is evicted, so very long sessions lose the deepest undo
// steps rather than growing without bound.
const DefaultMaxEntries = 100

// Restorer is what the manager replays snapshots onto. The editor
// implements it; tests use a map-backed fake.
type Restorer interface {
	// HasPage reports whether the page surface still exists. Undo and
	// redo against a vanished page are silent no-ops.
	HasPage(pageIndex int) bool

	// RestoreOverlay replaces the page's entire overlay content with the
	// snapshot.
	RestoreOverlay(pageIndex int, snapshot []byte) error
}

// Manager is a linear undo/redo stack of per-page overlay snapshots.
//
// entries[0:cursor] is the undoable past, entries[cursor:] the redoable
// future. Recording while the cursor sits mid-stack discards the future
// permanently; there is no branching.
type Manager struct {
	mu         sync.Mutex
	entries    []Entry
	cursor     int
	maxEntries int
}

// NewManager creates an empty history manager.
func NewManager() *Manager {
	return &Manager{
		entries:    make([]Entry, 0, 32),
		maxEntries: DefaultMaxEntries,
	}
}

// Record appends the post-mutation snapshot of a page. Any redoable
// entries beyond the cursor are discarded first.
func (m *Manager) Record(pageIndex int, snapshot []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor < len(m.entries) {
		logger.Debugf("history: discarding %d redo entries", len(m.entries)-m.cursor)
		m.entries = m.entries[:m.cursor]
	}
	m.entries = append(m.entries, Entry{PageIndex: pageIndex, Snapshot: snapshot})

	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[1:]
	}
	m.cursor = len(m.entries)
}

// Undo steps the cursor back one entry and restores the affected page to
// its state before that entry: the nearest earlier snapshot of the same
// page, or the empty overlay if the entry was the page's first mutation.
// It returns false when there is nothing to undo or the page is gone.
func (m *Manager) Undo(r Restorer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor == 0 {
		return false
	}
	entry := m.entries[m.cursor-1]
	if !r.HasPage(entry.PageIndex) {
		logger.Debugf("history: undo target page %d no longer exists", entry.PageIndex)
		return false
	}

	prev := emptySnapshot
	for i := m.cursor - 2; i >= 0; i-- {
		if m.entries[i].PageIndex == entry.PageIndex {
			prev = m.entries[i].Snapshot
			break
		}
	}
	if err := r.RestoreOverlay(entry.PageIndex, prev); err != nil {
		logger.Errorf("history: undo restore on page %d: %v", entry.PageIndex, err)
		return false
	}
	m.cursor--
	return true
}

// Redo re-applies the entry at the cursor and advances it. It returns
// false when there is nothing to redo or the page is gone.
func (m *Manager) Redo(r Restorer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor >= len(m.entries) {
		return false
	}
	entry := m.entries[m.cursor]
	if !r.HasPage(entry.PageIndex) {
		logger.Debugf("history: redo target page %d no longer exists", entry.PageIndex)
		return false
	}
	if err := r.RestoreOverlay(entry.PageIndex, entry.Snapshot); err != nil {
		logger.Errorf("history: redo restore on page %d: %v", entry.PageIndex, err)
		return false
	}
	m.cursor++
	return true
}

// CanUndo reports whether an undo step is available.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

// CanRedo reports whether a redo step is available.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.entries)
}

// Len returns the number of recorded entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Clear drops all history, for example when a new document loads.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = m.entries[:0]
	m.cursor = 0
}
