// Package clipboard moves annotation text in and out of the system
// clipboard, with an in-process fallback for headless environments
// where no display clipboard exists.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"

	"inkmark/internal/logger"
)

// Manager is the clipboard access point. With useSystem disabled (or
// when the system clipboard is unavailable) content lives only in the
// internal buffer.
type Manager struct {
	mu        sync.Mutex
	useSystem bool
	fallback  string
}

// NewManager creates a clipboard manager.
func NewManager(useSystem bool) *Manager {
	if useSystem && clipboard.Unsupported {
		logger.Warnf("clipboard: system clipboard unsupported, using internal buffer")
		useSystem = false
	}
	return &Manager{useSystem: useSystem}
}

// Write stores text. System clipboard failures degrade to the internal
// buffer instead of losing the content.
func (m *Manager) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = text
	if !m.useSystem {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warnf("clipboard: system write failed: %v", err)
		return err
	}
	return nil
}

// Read returns the current clipboard text.
func (m *Manager) Read() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.useSystem {
		text, err := clipboard.ReadAll()
		if err == nil {
			return text, nil
		}
		logger.Warnf("clipboard: system read failed: %v", err)
	}
	return m.fallback, nil
}
