// internal/editor/host.go
package editor

import (
	"context"
	"fmt"

	"inkmark/internal/bridge"
	"inkmark/internal/document"
	"inkmark/internal/event"
	"inkmark/internal/logger"
)

// HandleHostMessage reacts to one message from the host. The caller
// pumps the port's inbound channel on the UI goroutine.
func (e *Editor) HandleHostMessage(ctx context.Context, msg bridge.Message) {
	logger.Debugf("editor: host message %s", msg.Type)
	switch msg.Type {
	case bridge.TypeRequestSave:
		// Errors were already reported as SAVE_FAILED.
		_ = e.Save()

	case bridge.TypeLoadDocument:
		if e.store == nil {
			logger.Warnf("editor: LOAD_DOCUMENT without a store attached")
			return
		}
		if err := e.Load(ctx, document.StoreSource{Store: e.store, ID: msg.BlobID}); err != nil {
			logger.Errorf("editor: loading blob %s: %v", msg.BlobID, err)
		}

	default:
		logger.Warnf("editor: unhandled host message type %s", msg.Type)
	}
}

// OpenDocxEditor saves the current state and asks the host to reopen
// the document in its word-processing editor.
func (e *Editor) OpenDocxEditor() error {
	if e.doc == nil {
		return fmt.Errorf("no document loaded")
	}
	if e.dirty {
		if err := e.Save(); err != nil {
			return err
		}
	}
	msg := bridge.NewMessage(bridge.TypeOpenDocxEditor)
	if e.store != nil {
		id, err := e.store.Put(e.doc.Data)
		if err != nil {
			return fmt.Errorf("parking document for handoff: %w", err)
		}
		msg.BlobID = id
	}
	e.sendToHost(msg)
	return nil
}

// ImportConverted sends a non-PDF document through the conversion
// service and loads the resulting PDF.
func (e *Editor) ImportConverted(ctx context.Context, name string, blob []byte) error {
	if e.converter == nil || !e.converter.Enabled() {
		e.events.Dispatch(event.TypeConvertFailed, event.ConvertFailedData{Err: fmt.Errorf("no conversion service configured")})
		return fmt.Errorf("no conversion service configured")
	}
	pdfBytes, err := e.converter.Convert(ctx, name, blob, "pdf")
	if err != nil {
		e.events.Dispatch(event.TypeConvertFailed, event.ConvertFailedData{Err: err})
		return err
	}
	e.events.Dispatch(event.TypeConvertFinished, event.ConvertFinishedData{Path: name})
	return e.Load(ctx, document.ByteSource{DocName: name + ".pdf", Data: pdfBytes})
}
