// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"inkmark/internal/config"
	"inkmark/internal/theme"
)

// Config allows customizing status bar behavior.
type Config struct {
	MessageTimeout time.Duration
}

// DefaultConfig returns a default status bar configuration.
func DefaultConfig() Config {
	return Config{
		MessageTimeout: config.MessageTimeout,
	}
}

// StatusBar draws one line of editor state at the bottom of the screen.
type StatusBar struct {
	config Config
	mutex  sync.RWMutex

	docName     string
	pageIndex   int // 0-based current page
	pageCount   int
	zoom        float64
	toolName    string
	dirty       bool
	commandLine string // ":..." while command mode is active

	tempMessage string
	messageTime time.Time
}

// New creates a status bar instance.
func New(cfg Config) *StatusBar {
	return &StatusBar{config: cfg}
}

// SetDocInfo updates the document name and dirty flag.
func (sb *StatusBar) SetDocInfo(name string, dirty bool) {
	sb.mutex.Lock()
	defer sb.mutex.Unlock()
	sb.docName = name
	sb.dirty = dirty
}

// SetPageInfo updates the visible page and total page count.
func (sb *StatusBar) SetPageInfo(pageIndex, pageCount int) {
	sb.mutex.Lock()
	defer sb.mutex.Unlock()
	sb.pageIndex = pageIndex
	sb.pageCount = pageCount
}

// SetZoom updates the displayed zoom factor.
func (sb *StatusBar) SetZoom(zoom float64) {
	sb.mutex.Lock()
	defer sb.mutex.Unlock()
	sb.zoom = zoom
}

// SetTool updates the active tool name.
func (sb *StatusBar) SetTool(name string) {
	sb.mutex.Lock()
	defer sb.mutex.Unlock()
	sb.toolName = name
}

// SetCommandLine shows the command being typed; empty hides it.
func (sb *StatusBar) SetCommandLine(cmd string) {
	sb.mutex.Lock()
	defer sb.mutex.Unlock()
	sb.commandLine = cmd
}

// SetTemporaryMessage sets a message that expires after the configured
// timeout. An empty format clears it immediately.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mutex.Lock()
	defer sb.mutex.Unlock()
	if format == "" {
		sb.tempMessage = ""
		sb.messageTime = time.Time{}
		return
	}
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.messageTime = time.Now()
}

func (sb *StatusBar) defaultText() string {
	name := sb.docName
	if name == "" {
		name = "[No Document]"
	}
	dirtyFlag := ""
	if sb.dirty {
		dirtyFlag = " [+]"
	}
	text := fmt.Sprintf("%s%s | Page %d/%d | %.0f%%", name, dirtyFlag, sb.pageIndex+1, sb.pageCount, sb.zoom*100)
	if sb.toolName != "" {
		text += " | " + sb.toolName
	}
	return text
}

// Draw renders the status bar onto the given screen region.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, activeTheme *theme.Theme) {
	sb.mutex.Lock()
	if sb.tempMessage != "" && time.Since(sb.messageTime) > sb.config.MessageTimeout {
		sb.tempMessage = ""
		sb.messageTime = time.Time{}
	}

	var text string
	var style tcell.Style
	switch {
	case sb.commandLine != "":
		text = sb.commandLine
		style = activeTheme.GetStyle("StatusBarCommand")
	case sb.tempMessage != "":
		text = sb.tempMessage
		style = activeTheme.GetStyle("StatusBarMessage")
	case sb.dirty:
		text = sb.defaultText()
		style = activeTheme.GetStyle("StatusBarDirty")
	default:
		text = sb.defaultText()
		style = activeTheme.GetStyle("StatusBar")
	}
	sb.mutex.Unlock()

	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	x := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() && x < width {
		runes := g.Runes()
		clusterWidth := g.Width()
		if len(runes) > 0 {
			screen.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += clusterWidth
	}
}
