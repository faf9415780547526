// internal/editor/pointer.go
package editor

import (
	"strings"

	"inkmark/internal/annot"
	"inkmark/internal/event"
	"inkmark/internal/geom"
	"inkmark/internal/tool"
)

// ActiveTool returns the current tool.
func (e *Editor) ActiveTool() tool.Tool { return e.machine.Active() }

// SetTool swaps the active tool. An in-progress gesture is abandoned
// and any text edit is committed first.
func (e *Editor) SetTool(t tool.Tool) {
	if t == e.machine.Active() {
		return
	}
	if e.editing {
		e.EndTextEdit(true)
	}
	e.machine.SetActive(t)

	// Leaving select drops the selection on every page.
	if t != tool.Select {
		for _, s := range e.surfaces {
			if s.Overlay.Selected() != nil {
				s.Overlay.ClearSelection()
				e.events.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{PageIndex: s.Index})
			}
		}
	}
	e.events.Dispatch(event.TypeToolChanged, event.ToolChangedData{Tool: t})
}

// PointerDown starts a gesture at p in page-surface pixels.
func (e *Editor) PointerDown(pageIndex int, p geom.Point) {
	s := e.Surface(pageIndex)
	if s == nil {
		return
	}
	if e.editing {
		e.EndTextEdit(true)
	}
	res := e.machine.Press(pageIndex, s.Overlay, p, s.Scale)
	e.applyResult(pageIndex, res)
}

// PointerDrag continues the gesture.
func (e *Editor) PointerDrag(pageIndex int, p geom.Point) {
	res := e.machine.Drag(p)
	e.applyResult(pageIndex, res)
}

// PointerUp finishes the gesture.
func (e *Editor) PointerUp(pageIndex int, p geom.Point) {
	res := e.machine.Release(p)
	e.applyResult(pageIndex, res)
}

func (e *Editor) applyResult(pageIndex int, res tool.Result) {
	if res.SelectionChanged {
		data := event.SelectionChangedData{PageIndex: pageIndex}
		if s := e.Surface(pageIndex); s != nil {
			if sel := s.Overlay.Selected(); sel != nil {
				data.ObjectID = sel.Base().ID
			}
		}
		e.events.Dispatch(event.TypeSelectionChanged, data)
	}
	if res.Committed {
		e.recordPage(pageIndex)
	}
	if res.EditText != nil {
		e.beginTextEdit(pageIndex, res.EditText)
	}
}

// DeleteSelected removes the selected object on the page, if any.
func (e *Editor) DeleteSelected(pageIndex int) bool {
	s := e.Surface(pageIndex)
	if s == nil {
		return false
	}
	sel := s.Overlay.Selected()
	if sel == nil {
		return false
	}
	s.Overlay.Remove(sel.Base().ID)
	e.events.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{PageIndex: pageIndex})
	e.recordPage(pageIndex)
	return true
}

// TextEditing reports whether a text object is in edit mode. Keyboard
// shortcuts are suppressed while editing.
func (e *Editor) TextEditing() bool { return e.editing }

// EditedText returns the text object currently being edited, or nil.
func (e *Editor) EditedText() *annot.Text {
	if !e.editing {
		return nil
	}
	return e.editText
}

func (e *Editor) beginTextEdit(pageIndex int, txt *annot.Text) {
	e.editing = true
	e.editText = txt
	e.editPage = pageIndex
	e.editOrig = txt.Content
	e.events.Dispatch(event.TypeTextEditState, event.TextEditStateData{Editing: true})
}

// TextInput appends typed text to the edited object.
func (e *Editor) TextInput(s string) {
	if !e.editing {
		return
	}
	e.editText.Content += s
	e.events.Dispatch(event.TypeOverlayModified, event.OverlayModifiedData{PageIndex: e.editPage})
}

// TextBackspace removes the last rune of the edited object.
func (e *Editor) TextBackspace() {
	if !e.editing || e.editText.Content == "" {
		return
	}
	runes := []rune(e.editText.Content)
	e.editText.Content = string(runes[:len(runes)-1])
	e.events.Dispatch(event.TypeOverlayModified, event.OverlayModifiedData{PageIndex: e.editPage})
}

// EndTextEdit leaves text edit mode. With commit false the content
// reverts to what it was when editing started. A text object left with
// no visible content is deleted either way.
func (e *Editor) EndTextEdit(commit bool) {
	if !e.editing {
		return
	}
	txt, pageIndex, orig := e.editText, e.editPage, e.editOrig
	e.cancelTextEdit()

	if !commit {
		txt.Content = orig
	}
	changed := txt.Content != orig

	if strings.TrimSpace(txt.Content) == "" {
		if s := e.Surface(pageIndex); s != nil && s.Overlay.Remove(txt.B.ID) {
			e.recordPage(pageIndex)
		}
		return
	}
	if changed {
		e.recordPage(pageIndex)
	}
}

func (e *Editor) cancelTextEdit() {
	if e.editing {
		e.events.Dispatch(event.TypeTextEditState, event.TextEditStateData{Editing: false})
	}
	e.editing = false
	e.editText = nil
	e.editPage = 0
	e.editOrig = ""
}

// CopySelection copies the selected text annotation's content to the
// clipboard. Non-text selections are ignored.
func (e *Editor) CopySelection(pageIndex int) bool {
	s := e.Surface(pageIndex)
	if s == nil {
		return false
	}
	txt, ok := s.Overlay.Selected().(*annot.Text)
	if !ok || txt == nil {
		return false
	}
	if err := e.clip.Write(txt.Content); err != nil {
		return false
	}
	return true
}

// PasteText inserts clipboard content into the edited text object, or
// creates a new text annotation at p when not editing.
func (e *Editor) PasteText(pageIndex int, p geom.Point) bool {
	content, err := e.clip.Read()
	if err != nil || content == "" {
		return false
	}
	if e.editing {
		e.TextInput(content)
		return true
	}
	s := e.Surface(pageIndex)
	if s == nil {
		return false
	}
	txt := &annot.Text{
		B: annot.NewBase(geom.Rect{
			X: p.X,
			Y: p.Y,
			W: e.settings.FontSize * s.Scale * 6,
			H: e.settings.FontSize * s.Scale * 1.4,
		}, e.settings.StrokeColor, 0, s.Scale),
		Content:    content,
		FontFamily: e.settings.FontFamily,
		FontSize:   e.settings.FontSize * s.Scale,
		Bold:       e.settings.Bold,
		Italic:     e.settings.Italic,
		Underline:  e.settings.Underline,
	}
	s.Overlay.Add(txt)
	e.recordPage(pageIndex)
	return true
}
