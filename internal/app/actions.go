// internal/app/actions.go
package app

import (
	"github.com/gdamore/tcell/v2"

	"inkmark/internal/geom"
	"inkmark/internal/input"
)

// handleKeyEvent routes one key press. Returns true when a redraw is
// needed.
func (a *App) handleKeyEvent(ev *tcell.EventKey) bool {
	if a.cmdMode {
		return a.handleCommandKey(ev)
	}

	actionEvent := a.inputProcessor.ProcessEvent(ev, a.ed.TextEditing())
	switch actionEvent.Action {
	case input.ActionQuit:
		if a.ed.Dirty() {
			a.statusBar.SetTemporaryMessage("Unsaved changes. Ctrl+S to save, Ctrl+Q to discard.")
			return true
		}
		a.signalQuit()
	case input.ActionForceQuit:
		a.signalQuit()

	case input.ActionSave:
		// Errors surface through the SaveFailed event.
		_ = a.ed.Save()

	case input.ActionUndo:
		a.ed.Undo()
	case input.ActionRedo:
		a.ed.Redo()

	case input.ActionSetTool:
		a.ed.SetTool(actionEvent.Tool)
	case input.ActionDeleteSelection:
		if page := a.selectionPage(); page > 0 {
			a.ed.DeleteSelected(page)
		}
	case input.ActionCopy:
		if page := a.selectionPage(); page > 0 {
			if a.ed.CopySelection(page) {
				a.statusBar.SetTemporaryMessage("Copied")
			}
		}
	case input.ActionPaste:
		a.pasteAtViewCenter()

	case input.ActionInsertRune:
		a.ed.TextInput(string(actionEvent.Rune))
	case input.ActionInsertNewLine:
		a.ed.TextInput("\n")
	case input.ActionDeleteCharBackward:
		a.ed.TextBackspace()
	case input.ActionCancel:
		a.cancelCurrent()

	case input.ActionZoomIn:
		a.ed.ZoomIn()
	case input.ActionZoomOut:
		a.ed.ZoomOut()
	case input.ActionPageNext:
		a.gotoPage(a.currentPage() + 1)
	case input.ActionPagePrev:
		a.gotoPage(a.currentPage() - 1)
	case input.ActionScrollUp:
		a.viewport.Scroll(0, -2, a.ed.Surfaces())
	case input.ActionScrollDown:
		a.viewport.Scroll(0, 2, a.ed.Surfaces())
	case input.ActionScrollLeft:
		a.viewport.Scroll(-4, 0, a.ed.Surfaces())
	case input.ActionScrollRight:
		a.viewport.Scroll(4, 0, a.ed.Surfaces())

	case input.ActionEnterCommandMode:
		a.cmdMode = true
		a.cmdBuffer = ""

	default:
		return false
	}
	return true
}

// handleCommandKey edits or executes the ":" command line.
func (a *App) handleCommandKey(ev *tcell.EventKey) bool {
	// editing=true yields raw runes instead of tool shortcuts.
	actionEvent := a.inputProcessor.ProcessEvent(ev, true)
	switch actionEvent.Action {
	case input.ActionInsertRune:
		a.cmdBuffer += string(actionEvent.Rune)
	case input.ActionDeleteCharBackward:
		if a.cmdBuffer == "" {
			a.cmdMode = false
		} else {
			runes := []rune(a.cmdBuffer)
			a.cmdBuffer = string(runes[:len(runes)-1])
		}
	case input.ActionInsertNewLine:
		cmd := a.cmdBuffer
		a.cmdMode = false
		a.cmdBuffer = ""
		a.executeCommand(cmd)
	case input.ActionCancel:
		a.cmdMode = false
		a.cmdBuffer = ""
	default:
		return false
	}
	return true
}

// cancelCurrent handles Escape: commit and leave text editing,
// otherwise drop the selection.
func (a *App) cancelCurrent() {
	if a.ed.TextEditing() {
		a.ed.EndTextEdit(true)
		return
	}
	if page := a.selectionPage(); page > 0 {
		if s := a.ed.Surface(page); s != nil {
			s.Overlay.ClearSelection()
		}
	}
}

func (a *App) pasteAtViewCenter() {
	page := a.currentPage()
	s := a.ed.Surface(page)
	if s == nil {
		return
	}
	width, height := a.tuiManager.Size()
	p := a.viewport.LocateOn(a.ed.Surfaces(), page, width/2, height/2)
	p.X = clamp(p.X, 0, float64(s.PixelW()))
	p.Y = clamp(p.Y, 0, float64(s.PixelH()))
	if a.ed.PasteText(page, p) {
		a.statusBar.SetTemporaryMessage("Pasted")
	}
}

func (a *App) gotoPage(page int) {
	surfaces := a.ed.Surfaces()
	if page < 1 || page > len(surfaces) {
		return
	}
	a.viewport.ScrollToPage(surfaces, page)
}

// handleMouseEvent maps pointer input onto the page under the cursor.
func (a *App) handleMouseEvent(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		a.viewport.Scroll(0, -2, a.ed.Surfaces())
		return true
	case buttons&tcell.WheelDown != 0:
		a.viewport.Scroll(0, 2, a.ed.Surfaces())
		return true
	}

	pressed := buttons&tcell.Button1 != 0
	switch {
	case pressed && !a.dragging:
		page, p, ok := a.viewport.Locate(a.ed.Surfaces(), x, y)
		if !ok {
			return false
		}
		a.dragging = true
		a.dragPage = page
		a.ed.PointerDown(page, p)
		return true

	case pressed && a.dragging:
		p := a.viewport.LocateOn(a.ed.Surfaces(), a.dragPage, x, y)
		a.ed.PointerDrag(a.dragPage, a.clampToPage(a.dragPage, p))
		return true

	case !pressed && a.dragging:
		p := a.viewport.LocateOn(a.ed.Surfaces(), a.dragPage, x, y)
		a.ed.PointerUp(a.dragPage, a.clampToPage(a.dragPage, p))
		a.dragging = false
		return true
	}
	return false
}

// clampToPage keeps drag coordinates on the gesture's page even when
// the cursor leaves it.
func (a *App) clampToPage(page int, p geom.Point) geom.Point {
	s := a.ed.Surface(page)
	if s == nil {
		return p
	}
	p.X = clamp(p.X, 0, float64(s.PixelW()))
	p.Y = clamp(p.Y, 0, float64(s.PixelH()))
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
