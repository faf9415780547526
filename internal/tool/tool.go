// Package tool implements the annotation tool state machine: the active
// tool, the session-scoped tool settings, and the press/drag/release
// gesture handling that turns pointer input into overlay mutations.
package tool

import "inkmark/internal/annot"

// Tool identifies the active annotation tool.
type Tool int

const (
	Select Tool = iota
	Pan
	Text
	Draw
	Highlight
	Rect
	Circle
	Line
	Arrow
	Eraser
)

// String returns the tool's display name.
func (t Tool) String() string {
	switch t {
	case Select:
		return "select"
	case Pan:
		return "pan"
	case Text:
		return "text"
	case Draw:
		return "draw"
	case Highlight:
		return "highlight"
	case Rect:
		return "rectangle"
	case Circle:
		return "circle"
	case Line:
		return "line"
	case Arrow:
		return "arrow"
	case Eraser:
		return "eraser"
	default:
		return "unknown"
	}
}

// Highlight strokes ignore the configured width and alpha-blend over the
// page; both constants are in overlay pixels at scale 1.
const (
	highlightWidth   = 12.0
	highlightOpacity = 0.35
)

// Settings is the session-scoped tool configuration. One instance is
// shared by reference across every page surface of an editor, so there
// are no ambient globals and multiple editors can coexist.
//
// Settings are read at the moment an object is created; changing them
// never retroactively affects existing objects.
type Settings struct {
	StrokeColor annot.Color
	FillColor   annot.Color
	FillEnabled bool
	StrokeWidth float64
	FontSize    float64
	FontFamily  string
	Bold        bool
	Italic      bool
	Underline   bool
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() *Settings {
	return &Settings{
		StrokeColor: annot.Red,
		FillColor:   annot.White,
		StrokeWidth: 2,
		FontSize:    16,
		FontFamily:  "Helvetica",
	}
}
