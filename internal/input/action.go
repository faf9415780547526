// internal/input/action.go
package input

import "inkmark/internal/tool"

// Action represents a command or operation to be performed by the app.
type Action int

// Define the set of possible actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionForceQuit // Quit without checking unsaved changes
	ActionSave

	// --- Editing ---
	ActionUndo
	ActionRedo
	ActionSetTool         // Requires Tool argument
	ActionDeleteSelection // Delete/Backspace outside text editing
	ActionCopy
	ActionPaste

	// --- Text editing ---
	ActionInsertRune    // Requires Rune argument
	ActionInsertNewLine // Enter while editing text
	ActionDeleteCharBackward

	// --- Viewport ---
	ActionZoomIn
	ActionZoomOut
	ActionPageNext
	ActionPagePrev
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight

	// --- Mode ---
	ActionEnterCommandMode  // Special action for ':'
	ActionExecuteCommand    // Enter in command mode
	ActionCancelCommand     // Esc in command mode
	ActionAppendCommand     // Runes in command mode
	ActionDeleteCommandChar // Backspace in command mode
	ActionCancel            // Esc outside command mode: end edit / deselect
)

// ActionEvent represents a decoded input event resulting in an action.
// It carries payload data needed for the action, like the rune to
// insert or the tool to activate.
type ActionEvent struct {
	Action Action
	Rune   rune      // Used for ActionInsertRune / ActionAppendCommand
	Tool   tool.Tool // Used for ActionSetTool
}
