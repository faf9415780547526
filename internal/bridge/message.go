// Package bridge carries typed messages between the editor and its
// host. The host is whatever embeds the editor: another process over
// HTTP, or the same process over channels. Messages replace direct
// calls so the editor keeps no reference to the host.
package bridge

import (
	"time"

	"github.com/google/uuid"
)

// Message types sent by the editor.
const (
	// TypeEditorReady announces the editor finished loading a document
	// and is accepting input.
	TypeEditorReady = "EDITOR_READY"

	// TypeDocumentSaved carries the blob ID of an exported document.
	TypeDocumentSaved = "DOCUMENT_SAVED"

	// TypeOpenDocxEditor asks the host to open the current document in
	// its word-processing editor instead.
	TypeOpenDocxEditor = "OPEN_DOCX_EDITOR"

	// TypeSaveFailed reports that an export could not be produced.
	TypeSaveFailed = "SAVE_FAILED"
)

// Message types sent by the host.
const (
	// TypeRequestSave asks the editor to export and hand the result
	// back as a DOCUMENT_SAVED message.
	TypeRequestSave = "REQUEST_SAVE"

	// TypeLoadDocument asks the editor to load the blob with the given
	// BlobID from the shared store.
	TypeLoadDocument = "LOAD_DOCUMENT"
)

// Message is the bridge envelope. Document bytes never travel inside a
// message; they go through the blob store and only IDs cross the wire.
type Message struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	DocumentID string    `json:"documentId,omitempty"`
	BlobID     string    `json:"blobId,omitempty"`
	Error      string    `json:"error,omitempty"`
	SentAt     time.Time `json:"sentAt"`
}

// NewMessage builds a message of the given type with a fresh ID.
func NewMessage(msgType string) Message {
	return Message{
		ID:     uuid.NewString(),
		Type:   msgType,
		SentAt: time.Now().UTC(),
	}
}
