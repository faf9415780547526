// Package editor is the orchestrator: it owns the loaded document, the
// page surfaces, the tool machine and the undo history, and it routes
// every mutation through the event bus. The front end (TUI or host
// bridge) only ever talks to this package.
package editor

import (
	"context"
	"fmt"

	"inkmark/internal/annot"
	"inkmark/internal/bridge"
	"inkmark/internal/clipboard"
	"inkmark/internal/config"
	"inkmark/internal/convert"
	"inkmark/internal/document"
	"inkmark/internal/event"
	"inkmark/internal/history"
	"inkmark/internal/logger"
	"inkmark/internal/render"
	"inkmark/internal/tool"
)

// Editor coordinates one open document and its annotation session.
// All methods must be called from the UI goroutine unless noted.
type Editor struct {
	cfg      *config.Config
	events   *event.Manager
	renderer *render.Renderer
	history  *history.Manager
	settings *tool.Settings
	machine  *tool.Machine
	clip     *clipboard.Manager

	port      bridge.Port
	store     *document.Store
	converter *convert.Client

	gens     document.Generations
	doc      *document.Document
	surfaces []*render.PageSurface
	zoom     float64

	editText *annot.Text
	editPage int
	editOrig string
	editing  bool

	dirty bool
}

// New creates an editor without a document. The rasterizer is injected
// so headless tests can run without a render engine.
func New(cfg *config.Config, events *event.Manager, ras render.Rasterizer) *Editor {
	settings := tool.DefaultSettings()
	seedSettings(settings, cfg.Tools)

	return &Editor{
		cfg:      cfg,
		events:   events,
		renderer: render.NewRenderer(ras, events),
		history:  history.NewManager(),
		settings: settings,
		machine:  tool.NewMachine(settings),
		clip:     clipboard.NewManager(cfg.Editor.SystemClipboard),
		zoom:     1,
	}
}

// seedSettings copies the config's tool section onto the session
// settings, ignoring unparsable colors.
func seedSettings(s *tool.Settings, cfg config.ToolsConfig) {
	if c, err := annot.ParseColor(cfg.StrokeColor); err == nil {
		s.StrokeColor = c
	} else {
		logger.Warnf("editor: invalid stroke color %q: %v", cfg.StrokeColor, err)
	}
	if c, err := annot.ParseColor(cfg.FillColor); err == nil {
		s.FillColor = c
	}
	s.FillEnabled = cfg.FillEnabled
	s.StrokeWidth = cfg.StrokeWidth
	s.FontSize = cfg.FontSize
	s.FontFamily = cfg.FontFamily
}

// AttachPort connects the editor to a host bridge.
func (e *Editor) AttachPort(p bridge.Port) { e.port = p }

// AttachStore connects the blob store shared with the host.
func (e *Editor) AttachStore(s *document.Store) { e.store = s }

// AttachConverter connects the conversion service client.
func (e *Editor) AttachConverter(c *convert.Client) { e.converter = c }

// Settings returns the session tool settings.
func (e *Editor) Settings() *tool.Settings { return e.settings }

// Events returns the event bus.
func (e *Editor) Events() *event.Manager { return e.events }

// Document returns the loaded document, or nil.
func (e *Editor) Document() *document.Document { return e.doc }

// Surfaces returns the page surfaces in order.
func (e *Editor) Surfaces() []*render.PageSurface { return e.surfaces }

// Surface returns the surface for a 1-based page index, or nil.
func (e *Editor) Surface(pageIndex int) *render.PageSurface {
	if pageIndex < 1 || pageIndex > len(e.surfaces) {
		return nil
	}
	return e.surfaces[pageIndex-1]
}

// Dirty reports whether there are unsaved annotation changes.
func (e *Editor) Dirty() bool { return e.dirty }

// Scale returns the current render scale in pixels per point.
func (e *Editor) Scale() float64 {
	return e.cfg.Editor.BaseScale * e.zoom
}

// Zoom returns the current zoom factor (1 at base scale).
func (e *Editor) Zoom() float64 { return e.zoom }

// Load opens a source and installs the resulting document. Loads
// overlap last-write-wins: if another Load starts while this one reads
// its source, this one's result is discarded on arrival.
func (e *Editor) Load(ctx context.Context, src document.Source) error {
	ticket := e.gens.Next()

	doc, err := document.Load(ctx, src)
	if err != nil {
		if !e.gens.Current(ticket) {
			logger.Infof("editor: discarding stale load failure: %v", err)
			return nil
		}
		e.events.Dispatch(event.TypeDocumentLoadFailed, event.DocumentLoadFailedData{Err: err})
		return err
	}
	if !e.gens.Current(ticket) {
		logger.Infof("editor: discarding stale load of %s", doc.Name)
		doc.Close()
		return nil
	}

	if e.doc != nil {
		e.doc.Close()
	}
	e.doc = doc
	e.zoom = 1
	e.dirty = false
	e.cancelTextEdit()
	e.history.Clear()
	e.surfaces = e.renderer.BuildSurfaces(doc, e.Scale())

	e.events.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{
		Name:      doc.Name,
		PageCount: doc.PageCount,
	})
	e.events.Dispatch(event.TypeHistoryChanged, nil)
	e.sendToHost(bridge.NewMessage(bridge.TypeEditorReady))
	return nil
}

// NewBlank starts a fresh single-page letter document.
func (e *Editor) NewBlank(ctx context.Context) error {
	data, err := blankLetter()
	if err != nil {
		return err
	}
	return e.Load(ctx, document.ByteSource{DocName: "untitled.pdf", Data: data})
}

// Close releases the document and its temp files.
func (e *Editor) Close() {
	if e.doc != nil {
		e.doc.Close()
		e.doc = nil
	}
	e.surfaces = nil
}

// HasPage implements history.Restorer.
func (e *Editor) HasPage(pageIndex int) bool {
	return e.Surface(pageIndex) != nil
}

// RestoreOverlay implements history.Restorer. Restored objects are
// re-projected to the surface's current scale, since the snapshot may
// predate a zoom change.
func (e *Editor) RestoreOverlay(pageIndex int, snapshot []byte) error {
	s := e.Surface(pageIndex)
	if s == nil {
		return fmt.Errorf("page %d has no surface", pageIndex)
	}
	if err := s.Overlay.Restore(snapshot); err != nil {
		return err
	}
	s.Overlay.NormalizeScale(s.Scale)
	e.dirty = true
	e.events.Dispatch(event.TypeOverlayModified, event.OverlayModifiedData{PageIndex: pageIndex})
	return nil
}

// Undo reverts the newest history entry.
func (e *Editor) Undo() bool {
	ok := e.history.Undo(e)
	if ok {
		e.events.Dispatch(event.TypeHistoryChanged, nil)
	}
	return ok
}

// Redo re-applies the next history entry.
func (e *Editor) Redo() bool {
	ok := e.history.Redo(e)
	if ok {
		e.events.Dispatch(event.TypeHistoryChanged, nil)
	}
	return ok
}

// CanUndo reports undo availability.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports redo availability.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// recordPage snapshots a page overlay into history after a committed
// mutation.
func (e *Editor) recordPage(pageIndex int) {
	s := e.Surface(pageIndex)
	if s == nil {
		return
	}
	snapshot, err := s.Overlay.Snapshot()
	if err != nil {
		logger.Errorf("editor: snapshot of page %d: %v", pageIndex, err)
		return
	}
	e.history.Record(pageIndex, snapshot)
	e.dirty = true
	e.events.Dispatch(event.TypeOverlayModified, event.OverlayModifiedData{PageIndex: pageIndex})
	e.events.Dispatch(event.TypeHistoryChanged, nil)
}

func (e *Editor) sendToHost(msg bridge.Message) {
	if e.port == nil {
		return
	}
	if e.doc != nil && msg.DocumentID == "" {
		msg.DocumentID = e.doc.Name
	}
	if err := e.port.Send(msg); err != nil {
		logger.Warnf("editor: sending %s to host: %v", msg.Type, err)
	}
}
