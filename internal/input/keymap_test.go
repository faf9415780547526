package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"inkmark/internal/tool"
)

func key(k tcell.Key, r rune, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, r, mod)
}

func TestToolShortcuts(t *testing.T) {
	p := NewInputProcessor()
	cases := map[rune]tool.Tool{
		'v': tool.Select,
		't': tool.Text,
		'd': tool.Draw,
		'h': tool.Highlight,
		'r': tool.Rect,
		'c': tool.Circle,
		'l': tool.Line,
		'a': tool.Arrow,
		'e': tool.Eraser,
	}
	for r, want := range cases {
		ev := p.ProcessEvent(key(tcell.KeyRune, r, tcell.ModNone), false)
		if ev.Action != ActionSetTool || ev.Tool != want {
			t.Errorf("rune %q = %+v, want SetTool(%v)", r, ev, want)
		}
	}
}

func TestShortcutsSuppressedWhileEditing(t *testing.T) {
	p := NewInputProcessor()

	ev := p.ProcessEvent(key(tcell.KeyRune, 'r', tcell.ModNone), true)
	if ev.Action != ActionInsertRune || ev.Rune != 'r' {
		t.Errorf("editing 'r' = %+v, want InsertRune", ev)
	}

	// Modifier bindings still work inside a text box.
	ev = p.ProcessEvent(key(tcell.KeyCtrlS, rune(tcell.KeyCtrlS), tcell.ModCtrl), true)
	if ev.Action != ActionSave {
		t.Errorf("editing Ctrl+S = %+v, want Save", ev)
	}

	// Backspace deletes a character, not the selection.
	ev = p.ProcessEvent(key(tcell.KeyBackspace2, 0, tcell.ModNone), true)
	if ev.Action != ActionDeleteCharBackward {
		t.Errorf("editing backspace = %+v, want DeleteCharBackward", ev)
	}
}

func TestHistoryAndSaveBindings(t *testing.T) {
	p := NewInputProcessor()

	ev := p.ProcessEvent(key(tcell.KeyCtrlZ, rune(tcell.KeyCtrlZ), tcell.ModCtrl), false)
	if ev.Action != ActionUndo {
		t.Errorf("Ctrl+Z = %+v, want Undo", ev)
	}
	ev = p.ProcessEvent(key(tcell.KeyCtrlZ, rune(tcell.KeyCtrlZ), tcell.ModCtrl|tcell.ModShift), false)
	if ev.Action != ActionRedo {
		t.Errorf("Ctrl+Shift+Z = %+v, want Redo", ev)
	}
	ev = p.ProcessEvent(key(tcell.KeyCtrlS, rune(tcell.KeyCtrlS), tcell.ModCtrl), false)
	if ev.Action != ActionSave {
		t.Errorf("Ctrl+S = %+v, want Save", ev)
	}
}

func TestDeleteOutsideEditing(t *testing.T) {
	p := NewInputProcessor()
	for _, k := range []tcell.Key{tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2} {
		ev := p.ProcessEvent(key(k, 0, tcell.ModNone), false)
		if ev.Action != ActionDeleteSelection {
			t.Errorf("key %v = %+v, want DeleteSelection", k, ev)
		}
	}
}

func TestCommandModeEntry(t *testing.T) {
	p := NewInputProcessor()
	ev := p.ProcessEvent(key(tcell.KeyRune, ':', tcell.ModNone), false)
	if ev.Action != ActionEnterCommandMode {
		t.Errorf("':' = %+v, want EnterCommandMode", ev)
	}
}
