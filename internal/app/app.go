// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"inkmark/internal/bridge"
	"inkmark/internal/editor"
	"inkmark/internal/event"
	"inkmark/internal/input"
	"inkmark/internal/logger"
	"inkmark/internal/statusbar"
	"inkmark/internal/theme"
	"inkmark/internal/tui"
)

// App wires the editor core to the terminal front end: it owns the
// event loop, the viewport, command mode and the status bar.
type App struct {
	tuiManager     *tui.TUI
	ed             *editor.Editor
	statusBar      *statusbar.StatusBar
	events         *event.Manager
	inputProcessor *input.InputProcessor
	themeManager   *theme.Manager
	viewport       *tui.Viewport
	port           bridge.Port

	commands map[string]CommandFunc

	// Command mode state
	cmdMode   bool
	cmdBuffer string

	// Mouse gesture state
	dragging bool
	dragPage int

	quit          chan struct{}
	redrawRequest chan struct{}
}

// hostMessageEvent carries a bridge message into the tcell event loop
// so host messages are handled on the UI goroutine.
type hostMessageEvent struct {
	when time.Time
	msg  bridge.Message
}

func (e *hostMessageEvent) When() time.Time { return e.when }

// NewApp creates and initializes the application around an editor.
// The port may be nil when no host bridge is configured.
func NewApp(ed *editor.Editor, port bridge.Port) (*App, error) {
	themeManager := theme.NewManager()

	tuiManager, err := tui.New(themeManager.Current())
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	a := &App{
		tuiManager:     tuiManager,
		ed:             ed,
		statusBar:      statusbar.New(statusbar.DefaultConfig()),
		events:         ed.Events(),
		inputProcessor: input.NewInputProcessor(),
		themeManager:   themeManager,
		viewport:       tui.NewViewport(),
		port:           port,
		commands:       make(map[string]CommandFunc),
		quit:           make(chan struct{}),
		redrawRequest:  make(chan struct{}, 1),
	}
	a.registerCommands()
	a.subscribeEvents()
	return a, nil
}

func (a *App) subscribeEvents() {
	a.events.Subscribe(event.TypeDocumentLoaded, func(e event.Event) bool {
		if data, ok := e.Data.(event.DocumentLoadedData); ok {
			a.viewport.OffsetX, a.viewport.OffsetY = 0, 0
			a.statusBar.SetTemporaryMessage("Opened %s (%d pages)", data.Name, data.PageCount)
		}
		a.requestRedraw()
		return false
	})
	a.events.Subscribe(event.TypeDocumentLoadFailed, func(e event.Event) bool {
		if data, ok := e.Data.(event.DocumentLoadFailedData); ok {
			a.statusBar.SetTemporaryMessage("Open failed: %v", data.Err)
		}
		a.requestRedraw()
		return false
	})
	a.events.Subscribe(event.TypeDocumentSaved, func(e event.Event) bool {
		if data, ok := e.Data.(event.DocumentSavedData); ok {
			a.statusBar.SetTemporaryMessage("Saved to %s (%d bytes)", data.Target, data.Bytes)
		}
		a.requestRedraw()
		return false
	})
	a.events.Subscribe(event.TypeSaveFailed, func(e event.Event) bool {
		if data, ok := e.Data.(event.SaveFailedData); ok {
			a.statusBar.SetTemporaryMessage("Save failed: %v", data.Err)
		}
		a.requestRedraw()
		return false
	})
	a.events.Subscribe(event.TypePageRenderFailed, func(e event.Event) bool {
		if data, ok := e.Data.(event.PageRenderFailedData); ok {
			a.statusBar.SetTemporaryMessage("Page %d failed to render", data.PageIndex)
		}
		return false
	})
	a.events.Subscribe(event.TypeConvertFailed, func(e event.Event) bool {
		if data, ok := e.Data.(event.ConvertFailedData); ok {
			a.statusBar.SetTemporaryMessage("Conversion failed: %v", data.Err)
		}
		a.requestRedraw()
		return false
	})
	a.events.Subscribe(event.TypeOverlayModified, func(e event.Event) bool {
		a.requestRedraw()
		return false
	})
	a.events.Subscribe(event.TypeSelectionChanged, func(e event.Event) bool {
		a.requestRedraw()
		return false
	})
	a.events.Subscribe(event.TypeToolChanged, func(e event.Event) bool {
		a.requestRedraw()
		return false
	})
	a.events.Subscribe(event.TypeZoomChanged, func(e event.Event) bool {
		a.requestRedraw()
		return false
	})
	a.events.Subscribe(event.TypeTextEditState, func(e event.Event) bool {
		a.requestRedraw()
		return false
	})
}

// Run starts the main event and drawing loops and blocks until quit.
func (a *App) Run() error {
	defer a.tuiManager.Close()

	go a.eventLoop()
	if a.port != nil {
		go a.pumpHostMessages()
	}

	a.statusBar.SetTemporaryMessage("inkmark - Ctrl+S save | : commands | v t d h r c l a e tools")
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			if a.ed.Dirty() {
				logger.Warnf("app: exited with unsaved changes")
			}
			return nil
		case <-a.redrawRequest:
			a.draw()
		}
	}
}

// eventLoop turns terminal events into editor operations.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}

		needsRedraw := false
		switch eventData := ev.(type) {
		case *tcell.EventResize:
			a.tuiManager.GetScreen().Sync()
			needsRedraw = true
		case *tcell.EventKey:
			needsRedraw = a.handleKeyEvent(eventData)
		case *tcell.EventMouse:
			needsRedraw = a.handleMouseEvent(eventData)
		case *hostMessageEvent:
			a.ed.HandleHostMessage(context.Background(), eventData.msg)
			needsRedraw = true
		}

		if needsRedraw {
			a.requestRedraw()
		}
	}
}

// pumpHostMessages forwards bridge messages into the tcell queue. Runs
// on its own goroutine; the inbound channel closes when the port does.
func (a *App) pumpHostMessages() {
	for msg := range a.port.Inbound() {
		a.tuiManager.PostEvent(&hostMessageEvent{when: time.Now(), msg: msg})
	}
}

func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default:
	}
}

func (a *App) signalQuit() {
	select {
	case <-a.quit:
	default:
		close(a.quit)
	}
}

// draw repaints the whole screen.
func (a *App) draw() {
	a.updateStatusBarContent()

	activeTheme := a.themeManager.Current()
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()

	a.tuiManager.Clear()
	tui.DrawPages(a.tuiManager, a.ed, a.viewport, activeTheme)
	a.statusBar.Draw(screen, width, height, activeTheme)
	a.tuiManager.Show()
}

func (a *App) updateStatusBarContent() {
	name := ""
	pageCount := 0
	if doc := a.ed.Document(); doc != nil {
		name = doc.Name
		pageCount = doc.PageCount
	}
	a.statusBar.SetDocInfo(name, a.ed.Dirty())
	a.statusBar.SetPageInfo(a.currentPage()-1, pageCount)
	a.statusBar.SetZoom(a.ed.Zoom())
	a.statusBar.SetTool(a.ed.ActiveTool().String())

	if a.cmdMode {
		a.statusBar.SetCommandLine(":" + a.cmdBuffer)
	} else {
		a.statusBar.SetCommandLine("")
	}
}

// currentPage returns the 1-based page at the top of the viewport.
func (a *App) currentPage() int {
	page := a.viewport.FirstVisiblePage(a.ed.Surfaces())
	if page == 0 {
		page = 1
	}
	return page
}

// selectionPage returns the page holding the active selection, or 0.
func (a *App) selectionPage() int {
	for _, s := range a.ed.Surfaces() {
		if s.Overlay.Selected() != nil {
			return s.Index
		}
	}
	return 0
}
