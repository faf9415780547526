package editor

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics/content"
	"seehuhn.de/go/pdf/pagetree"

	"inkmark/internal/annot"
	"inkmark/internal/bridge"
	"inkmark/internal/config"
	"inkmark/internal/document"
	"inkmark/internal/event"
	"inkmark/internal/export"
	"inkmark/internal/geom"
	"inkmark/internal/render"
	"inkmark/internal/tool"
)

func newTestEditor(t *testing.T, pages int) *Editor {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Editor.SystemClipboard = false
	e := New(cfg, event.NewManager(), render.FlatRasterizer{})
	t.Cleanup(e.Close)

	data, err := export.Blank(pages, 612, 792)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	if err := e.Load(context.Background(), document.ByteSource{DocName: "fixture.pdf", Data: data}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e
}

func drag(e *Editor, page int, from, to geom.Point) {
	e.PointerDown(page, from)
	e.PointerDrag(page, geom.Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2})
	e.PointerDrag(page, to)
	e.PointerUp(page, to)
}

func TestDrawUndoRedo(t *testing.T) {
	e := newTestEditor(t, 1)
	e.SetTool(tool.Rect)
	drag(e, 1, geom.Point{X: 10, Y: 10}, geom.Point{X: 110, Y: 60})

	ovl := e.Surface(1).Overlay
	if ovl.Len() != 1 {
		t.Fatalf("overlay has %d objects, want 1", ovl.Len())
	}
	if !e.Dirty() || !e.CanUndo() {
		t.Fatal("draw did not set dirty/undoable state")
	}

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if ovl.Len() != 0 {
		t.Errorf("overlay has %d objects after undo, want 0", ovl.Len())
	}
	if e.CanUndo() {
		t.Error("CanUndo after undoing the only change")
	}

	if !e.Redo() {
		t.Fatal("Redo failed")
	}
	if e.Surface(1).Overlay.Len() != 1 {
		t.Error("redo did not restore the rectangle")
	}
}

func TestUndoOnSinglePageOfMany(t *testing.T) {
	e := newTestEditor(t, 3)
	e.SetTool(tool.Rect)
	drag(e, 2, geom.Point{X: 10, Y: 10}, geom.Point{X: 60, Y: 60})

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	for p := 1; p <= 3; p++ {
		if n := e.Surface(p).Overlay.Len(); n != 0 {
			t.Errorf("page %d has %d objects after undo, want 0", p, n)
		}
	}
	if e.CanUndo() {
		t.Error("CanUndo still true")
	}
}

func TestRecordDiscardsRedo(t *testing.T) {
	e := newTestEditor(t, 1)
	e.SetTool(tool.Line)
	drag(e, 1, geom.Point{X: 0, Y: 0}, geom.Point{X: 50, Y: 50})
	drag(e, 1, geom.Point{X: 0, Y: 60}, geom.Point{X: 50, Y: 110})

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if !e.CanRedo() {
		t.Fatal("CanRedo false after undo")
	}
	drag(e, 1, geom.Point{X: 0, Y: 120}, geom.Point{X: 50, Y: 170})
	if e.CanRedo() {
		t.Error("redo branch survived a new change")
	}
}

func TestArrowProducesLineAndHead(t *testing.T) {
	e := newTestEditor(t, 1)
	e.SetTool(tool.Arrow)
	drag(e, 1, geom.Point{X: 10, Y: 10}, geom.Point{X: 110, Y: 10})

	ovl := e.Surface(1).Overlay
	if ovl.Len() != 2 {
		t.Fatalf("overlay has %d objects, want line + head", ovl.Len())
	}
	line, ok := ovl.Objects()[0].(*annot.Line)
	if !ok {
		t.Fatalf("first object is %T, want line", ovl.Objects()[0])
	}
	head, ok := ovl.Objects()[1].(*annot.ArrowHead)
	if !ok {
		t.Fatalf("second object is %T, want arrow head", ovl.Objects()[1])
	}
	if head.Tip != line.P2 {
		t.Errorf("head tip %v does not sit on line end %v", head.Tip, line.P2)
	}

	// Both parts arrive in one history entry.
	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if ovl.Len() != 0 {
		t.Errorf("%d objects after undo, want 0", ovl.Len())
	}
}

func TestEraser(t *testing.T) {
	e := newTestEditor(t, 1)
	e.SetTool(tool.Rect)
	drag(e, 1, geom.Point{X: 10, Y: 10}, geom.Point{X: 60, Y: 60})

	e.SetTool(tool.Eraser)
	e.PointerDown(1, geom.Point{X: 30, Y: 30})
	e.PointerUp(1, geom.Point{X: 30, Y: 30})
	if n := e.Surface(1).Overlay.Len(); n != 0 {
		t.Fatalf("overlay has %d objects after erase, want 0", n)
	}

	// Erasing empty canvas records nothing.
	before := e.CanRedo()
	e.PointerDown(1, geom.Point{X: 300, Y: 300})
	e.PointerUp(1, geom.Point{X: 300, Y: 300})
	if e.CanRedo() != before {
		t.Error("empty erase touched history")
	}
	if !e.Undo() {
		t.Fatal("undoing the erase failed")
	}
	if n := e.Surface(1).Overlay.Len(); n != 1 {
		t.Errorf("overlay has %d objects after undoing erase, want 1", n)
	}
}

func TestTextEditLifecycle(t *testing.T) {
	e := newTestEditor(t, 1)
	e.SetTool(tool.Text)
	e.PointerDown(1, geom.Point{X: 40, Y: 40})
	e.PointerUp(1, geom.Point{X: 40, Y: 40})

	if !e.TextEditing() {
		t.Fatal("text press did not enter edit mode")
	}
	e.TextInput("note")
	e.EndTextEdit(true)
	if e.TextEditing() {
		t.Fatal("still editing after EndTextEdit")
	}

	txt, ok := e.Surface(1).Overlay.Objects()[0].(*annot.Text)
	if !ok || txt.Content != "note" {
		t.Fatalf("text object = %+v, want content 'note'", txt)
	}

	// Clicking the existing text edits it, no duplicate.
	e.PointerDown(1, geom.Point{X: 41, Y: 41})
	e.PointerUp(1, geom.Point{X: 41, Y: 41})
	if !e.TextEditing() {
		t.Fatal("clicking existing text did not enter edit mode")
	}
	if e.Surface(1).Overlay.Len() != 1 {
		t.Errorf("%d objects, duplicate text created", e.Surface(1).Overlay.Len())
	}
	e.TextBackspace()
	e.EndTextEdit(false)
	if txt.Content != "note" {
		t.Errorf("content = %q after cancel, want 'note'", txt.Content)
	}
}

func TestEmptyTextIsDiscarded(t *testing.T) {
	e := newTestEditor(t, 1)
	e.SetTool(tool.Text)
	e.PointerDown(1, geom.Point{X: 40, Y: 40})
	e.PointerUp(1, geom.Point{X: 40, Y: 40})
	e.EndTextEdit(true)

	if n := e.Surface(1).Overlay.Len(); n != 0 {
		t.Errorf("empty text object survived (%d objects)", n)
	}
}

func TestSaveFlattensAndResets(t *testing.T) {
	e := newTestEditor(t, 3)
	e.SetTool(tool.Rect)
	drag(e, 2, geom.Point{X: 75, Y: 150}, geom.Point{X: 225, Y: 225})

	if err := e.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if e.Dirty() || e.CanUndo() {
		t.Error("save left dirty/undoable state")
	}
	for p := 1; p <= 3; p++ {
		if n := e.Surface(p).Overlay.Len(); n != 0 {
			t.Errorf("page %d overlay has %d objects after save", p, n)
		}
	}

	// The saved bytes carry the rectangle natively on page 2.
	data, err := pdf.Read(bytes.NewReader(e.Document().Data), nil)
	if err != nil {
		t.Fatalf("reading saved bytes: %v", err)
	}
	refs, err := pagetree.FindPages(data)
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	pageDict, err := pdf.GetDict(data, refs[1])
	if err != nil {
		t.Fatalf("page dict: %v", err)
	}
	r, err := pagetree.ContentStream(data, pageDict)
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	ops, err := content.ReadStream(r)
	if err != nil {
		t.Fatalf("parse content: %v", err)
	}
	found := false
	for _, op := range ops {
		if op.Name == content.OpRectangle {
			found = true
		}
	}
	if !found {
		t.Error("saved page 2 has no rectangle operator")
	}
}

func TestZoomKeepsDocumentPosition(t *testing.T) {
	e := newTestEditor(t, 1)
	e.SetTool(tool.Rect)
	// Base scale 1.5: overlay (75,150)-(225,225) is page (50,642) 100x50.
	drag(e, 1, geom.Point{X: 75, Y: 150}, geom.Point{X: 225, Y: 225})

	e.SetZoom(2)
	b := e.Surface(1).Overlay.Objects()[0].Base()
	if b.Rect.X != 150 {
		t.Errorf("overlay X after zoom = %v, want 150", b.Rect.X)
	}

	if err := e.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := pdf.Read(bytes.NewReader(e.Document().Data), nil)
	if err != nil {
		t.Fatalf("read saved: %v", err)
	}
	refs, _ := pagetree.FindPages(data)
	pageDict, _ := pdf.GetDict(data, refs[0])
	r, err := pagetree.ContentStream(data, pageDict)
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	ops, _ := content.ReadStream(r)
	for _, op := range ops {
		if op.Name == content.OpRectangle {
			x := float64(op.Args[0].(pdf.Number))
			y := float64(op.Args[1].(pdf.Number))
			if x != 50 || y != 642 {
				t.Errorf("rect at (%v,%v), want (50,642) regardless of zoom", x, y)
			}
		}
	}
}

// brokenSource fails to open; onOpen runs first so a test can start a
// competing load while this one is in flight.
type brokenSource struct {
	onOpen func()
}

func (s brokenSource) Name() string { return "broken.pdf" }

func (s brokenSource) Open(ctx context.Context) ([]byte, error) {
	if s.onOpen != nil {
		s.onOpen()
	}
	return nil, errors.New("unreadable")
}

func TestStaleLoadFailureStaysSilent(t *testing.T) {
	e := newTestEditor(t, 1)
	failures := 0
	e.Events().Subscribe(event.TypeDocumentLoadFailed, func(event.Event) bool {
		failures++
		return true
	})

	data, err := export.Blank(1, 612, 792)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	src := brokenSource{onOpen: func() {
		// A newer load wins while the broken one is still opening.
		if err := e.Load(context.Background(), document.ByteSource{DocName: "newer.pdf", Data: data}); err != nil {
			t.Fatalf("competing Load: %v", err)
		}
	}}

	if err := e.Load(context.Background(), src); err != nil {
		t.Fatalf("stale failed load returned %v, want nil", err)
	}
	if failures != 0 {
		t.Errorf("stale failure dispatched %d load-failed events, want 0", failures)
	}
	if e.Document() == nil || e.Document().Name != "newer.pdf" {
		t.Error("winning load's document not installed")
	}

	// A failure with no newer load still surfaces.
	if err := e.Load(context.Background(), brokenSource{}); err == nil {
		t.Fatal("current failed load returned nil")
	}
	if failures != 1 {
		t.Errorf("current failure dispatched %d events, want 1", failures)
	}
}

func TestHostRequestSave(t *testing.T) {
	e := newTestEditor(t, 1)
	port := bridge.NewChannelPort()
	store, err := document.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	e.AttachPort(port)
	e.AttachStore(store)

	e.SetTool(tool.Circle)
	drag(e, 1, geom.Point{X: 20, Y: 20}, geom.Point{X: 80, Y: 80})

	e.HandleHostMessage(context.Background(), bridge.NewMessage(bridge.TypeRequestSave))

	var saved *bridge.Message
	for _, msg := range port.Drain() {
		if msg.Type == bridge.TypeDocumentSaved {
			m := msg
			saved = &m
		}
	}
	if saved == nil {
		t.Fatal("no DOCUMENT_SAVED message reached the host")
	}
	if saved.BlobID == "" {
		t.Fatal("DOCUMENT_SAVED without blob ID")
	}
	blob, err := store.Get(saved.BlobID)
	if err != nil {
		t.Fatalf("fetching saved blob: %v", err)
	}
	if !bytes.HasPrefix(blob, []byte("%PDF")) {
		t.Error("saved blob is not a PDF")
	}
}

func TestSelectionMoveCommitsOnce(t *testing.T) {
	e := newTestEditor(t, 1)
	e.SetTool(tool.Rect)
	drag(e, 1, geom.Point{X: 10, Y: 10}, geom.Point{X: 60, Y: 60})

	e.SetTool(tool.Select)
	drag(e, 1, geom.Point{X: 30, Y: 30}, geom.Point{X: 130, Y: 130})

	b := e.Surface(1).Overlay.Objects()[0].Base()
	if b.Rect.X != 110 || b.Rect.Y != 110 {
		t.Errorf("rect at (%v,%v) after move, want (110,110)", b.Rect.X, b.Rect.Y)
	}

	// One entry for the draw, one for the move.
	if !e.Undo() {
		t.Fatal("undo move failed")
	}
	b = e.Surface(1).Overlay.Objects()[0].Base()
	if b.Rect.X != 10 {
		t.Errorf("rect X = %v after undoing move, want 10", b.Rect.X)
	}
}
