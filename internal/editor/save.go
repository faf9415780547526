// internal/editor/save.go
package editor

import (
	"fmt"
	"os"

	"inkmark/internal/bridge"
	"inkmark/internal/config"
	"inkmark/internal/event"
	"inkmark/internal/export"
	"inkmark/internal/geom"
	"inkmark/internal/logger"
	"inkmark/internal/render"
)

func blankLetter() ([]byte, error) {
	return export.Blank(1, 612, 792)
}

// pageOverlays collects the export input for every annotated page.
func (e *Editor) pageOverlays() []export.PageOverlay {
	overlays := make([]export.PageOverlay, 0, len(e.surfaces))
	for _, s := range e.surfaces {
		if s.Overlay.Len() == 0 {
			continue
		}
		overlays = append(overlays, export.PageOverlay{
			PageIndex: s.Index,
			Space:     geom.PageSpace{PageW: s.Size.W, PageH: s.Size.H, Scale: s.Scale},
			Objects:   s.Overlay.Objects(),
		})
	}
	return overlays
}

// Save flattens all annotations into the document bytes. On success
// the working copy is replaced, overlays and history reset (the ink is
// now part of the page), and the result is announced to the host.
func (e *Editor) Save() error {
	if e.doc == nil {
		return fmt.Errorf("no document loaded")
	}
	if e.editing {
		e.EndTextEdit(true)
	}

	out, err := export.Annotate(e.doc.Data, e.pageOverlays())
	if err != nil {
		return e.failSave(fmt.Errorf("flatten annotations: %w", err))
	}
	if err := e.doc.Replace(out); err != nil {
		return e.failSave(fmt.Errorf("install saved document: %w", err))
	}

	e.history.Clear()
	e.dirty = false
	e.surfaces = e.renderer.BuildSurfaces(e.doc, e.Scale())

	msg := bridge.NewMessage(bridge.TypeDocumentSaved)
	if e.store != nil {
		id, err := e.store.Put(out)
		if err != nil {
			logger.Warnf("editor: parking saved document in store: %v", err)
		} else {
			msg.BlobID = id
		}
	}
	e.sendToHost(msg)

	e.events.Dispatch(event.TypeDocumentSaved, event.DocumentSavedData{
		Target: e.doc.Name,
		Bytes:  len(out),
	})
	e.events.Dispatch(event.TypeHistoryChanged, nil)
	return nil
}

func (e *Editor) failSave(err error) error {
	logger.Errorf("editor: save failed: %v", err)
	msg := bridge.NewMessage(bridge.TypeSaveFailed)
	msg.Error = err.Error()
	e.sendToHost(msg)
	e.events.Dispatch(event.TypeSaveFailed, event.SaveFailedData{Err: err})
	return err
}

// SaveToFile saves and writes the flattened document to path.
func (e *Editor) SaveToFile(path string) error {
	if err := e.Save(); err != nil {
		return err
	}
	if err := os.WriteFile(path, e.doc.Data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Infof("editor: wrote %s (%d bytes)", path, len(e.doc.Data))
	return nil
}

// SetZoom changes the zoom factor, clamped to the configured range.
// Surfaces rebuild at the new scale with overlays re-projected, so
// existing ink keeps its position on the page.
func (e *Editor) SetZoom(zoom float64) {
	if e.doc == nil {
		return
	}
	if zoom < config.MinZoom {
		zoom = config.MinZoom
	}
	if zoom > config.MaxZoom {
		zoom = config.MaxZoom
	}
	if zoom == e.zoom {
		return
	}
	e.zoom = zoom
	scale := e.Scale()

	// Immediate feedback from stretched images, then the crisp rebuild.
	render.QuickRescale(e.surfaces, scale)
	e.surfaces = e.renderer.RebuildSurfaces(e.doc, e.surfaces, scale)

	e.events.Dispatch(event.TypeZoomChanged, event.ZoomChangedData{Scale: scale})
}

// ZoomIn steps the zoom up.
func (e *Editor) ZoomIn() { e.SetZoom(e.zoom + e.cfg.Editor.ZoomStep) }

// ZoomOut steps the zoom down.
func (e *Editor) ZoomOut() { e.SetZoom(e.zoom - e.cfg.Editor.ZoomStep) }
