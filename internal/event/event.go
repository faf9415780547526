// internal/event/event.go
package event

import "inkmark/internal/tool"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Document lifecycle
	TypeDocumentLoaded     // a document finished loading and its surfaces exist
	TypeDocumentLoadFailed // loading or probing the document failed (blocking)
	TypeDocumentSaved      // export succeeded and bytes were handed off
	TypeSaveFailed         // export or handoff failed; overlay state is intact

	// Rendering
	TypePageRendered     // one page surface was (re)built
	TypePageRenderFailed // one page failed to rasterize; others continue
	TypeZoomChanged      // render scale changed, surfaces were rebuilt

	// Editing
	TypeOverlayModified  // an object was added, changed or removed
	TypeSelectionChanged // the active selection changed
	TypeToolChanged      // the active tool was swapped
	TypeHistoryChanged   // undo/redo availability may have changed
	TypeTextEditState    // a text object entered or left edit mode

	// Conversion
	TypeConvertFinished // the external conversion service returned a blob
	TypeConvertFailed   // conversion failed, independent of save state
)

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// DocumentLoadedData describes a freshly loaded document.
type DocumentLoadedData struct {
	Name      string
	PageCount int
}

// DocumentLoadFailedData carries the blocking load error.
type DocumentLoadFailedData struct {
	Err error
}

// DocumentSavedData reports where the exported bytes went.
type DocumentSavedData struct {
	Target string // file path, or the bridge destination name
	Bytes  int
}

// SaveFailedData carries the export error.
type SaveFailedData struct {
	Err error
}

// PageRenderedData identifies the rebuilt page.
type PageRenderedData struct {
	PageIndex int // 1-based
}

// PageRenderFailedData identifies the skipped page and the cause.
type PageRenderFailedData struct {
	PageIndex int
	Err       error
}

// ZoomChangedData carries the new render scale.
type ZoomChangedData struct {
	Scale float64
}

// OverlayModifiedData identifies the mutated page.
type OverlayModifiedData struct {
	PageIndex int
}

// SelectionChangedData carries the newly selected object's ID, or "".
type SelectionChangedData struct {
	PageIndex int
	ObjectID  string
}

// ToolChangedData carries the newly active tool.
type ToolChangedData struct {
	Tool tool.Tool
}

// TextEditStateData reports whether a text object is being edited.
// Keyboard shortcuts are suppressed while Editing is true.
type TextEditStateData struct {
	Editing bool
}

// ConvertFinishedData reports the converted output location.
type ConvertFinishedData struct {
	Path string
}

// ConvertFailedData carries the conversion error.
type ConvertFailedData struct {
	Err error
}
