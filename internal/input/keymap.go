// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"

	"inkmark/internal/tool"
)

// Keymap maps specific key events to actions.
type Keymap map[tcell.Key]Action        // For special keys (Enter, Arrows, etc.)
type RuneKeymap map[rune]Action         // For plain rune bindings
type ToolKeymap map[rune]tool.Tool      // Single-letter tool shortcuts
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers

// InputProcessor translates tcell events into ActionEvents.
//
// Mode is NOT handled here: while a text annotation is being edited the
// app asks for raw rune events instead of tool shortcuts by passing
// editing=true.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	toolKeymap ToolKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		toolKeymap: make(ToolKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyUp] = ActionScrollUp
	p.keymap[tcell.KeyDown] = ActionScrollDown
	p.keymap[tcell.KeyLeft] = ActionScrollLeft
	p.keymap[tcell.KeyRight] = ActionScrollRight
	p.keymap[tcell.KeyPgUp] = ActionPagePrev
	p.keymap[tcell.KeyPgDn] = ActionPageNext
	// Backspace and Delete both remove the selection; while editing the
	// remap in ProcessEvent turns them into character deletion.
	p.keymap[tcell.KeyBackspace] = ActionDeleteSelection
	p.keymap[tcell.KeyBackspace2] = ActionDeleteSelection
	p.keymap[tcell.KeyDelete] = ActionDeleteSelection
	p.keymap[tcell.KeyEscape] = ActionCancel
	p.keymap[tcell.KeyCtrlC] = ActionQuit

	// --- Modifier combinations ---
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	ctrlMap[tcell.KeyCtrlQ] = ActionForceQuit
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// Ctrl+Shift+Z arrives as the Ctrl-Z key with the shift modifier.
	ctrlShiftMap := make(Keymap)
	ctrlShiftMap[tcell.KeyCtrlZ] = ActionRedo
	p.modKeymap[tcell.ModCtrl|tcell.ModShift] = ctrlShiftMap

	// --- Tool shortcuts ---
	p.toolKeymap['v'] = tool.Select
	p.toolKeymap['t'] = tool.Text
	p.toolKeymap['d'] = tool.Draw
	p.toolKeymap['h'] = tool.Highlight
	p.toolKeymap['r'] = tool.Rect
	p.toolKeymap['c'] = tool.Circle
	p.toolKeymap['l'] = tool.Line
	p.toolKeymap['a'] = tool.Arrow
	p.toolKeymap['e'] = tool.Eraser

	// --- Rune Mappings ---
	p.runeKeymap[':'] = ActionEnterCommandMode
	p.runeKeymap['+'] = ActionZoomIn
	p.runeKeymap['='] = ActionZoomIn
	p.runeKeymap['-'] = ActionZoomOut
	p.runeKeymap['u'] = ActionUndo
	p.runeKeymap['y'] = ActionCopy
	p.runeKeymap['p'] = ActionPaste
	p.runeKeymap['x'] = ActionDeleteSelection
}

// ProcessEvent takes a tcell key event and returns the corresponding
// ActionEvent. With editing true, plain runes become text input instead
// of shortcuts; modifier bindings still apply so Ctrl+S saves from
// inside a text box.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey, editing bool) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()

	// 1. Check Modifier + Key combinations
	if modKeyMap, modOk := p.modKeymap[mod]; modOk {
		if action, keyOk := modKeyMap[key]; keyOk {
			return ActionEvent{Action: action}
		}
	}
	// Remove Ctrl from the modifier mask when the key itself already
	// implies it, so Ctrl+S does not fall through as plain 's'.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod &^= tcell.ModCtrl
	}

	// 2. Check simple Key mappings
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			if editing && action == ActionDeleteSelection {
				return ActionEvent{Action: ActionDeleteCharBackward}
			}
			return ActionEvent{Action: action}
		}
	}

	if key == tcell.KeyEnter {
		return ActionEvent{Action: ActionInsertNewLine}
	}

	// 3. Rune handling
	if key == tcell.KeyRune && mod == tcell.ModNone {
		if editing {
			return ActionEvent{Action: ActionInsertRune, Rune: runeVal}
		}
		if t, ok := p.toolKeymap[runeVal]; ok {
			return ActionEvent{Action: ActionSetTool, Tool: t}
		}
		if action, ok := p.runeKeymap[runeVal]; ok {
			return ActionEvent{Action: action, Rune: runeVal}
		}
		return ActionEvent{Action: ActionInsertRune, Rune: runeVal}
	}

	// 4. No mapping found
	return ActionEvent{Action: ActionUnknown}
}
