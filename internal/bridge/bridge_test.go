package bridge

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"inkmark/internal/document"
)

func TestChannelPortRoundTrip(t *testing.T) {
	p := NewChannelPort()

	ready := NewMessage(TypeEditorReady)
	if err := p.Send(ready); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msgs := p.Drain()
	if len(msgs) != 1 || msgs[0].Type != TypeEditorReady {
		t.Fatalf("Drain = %v, want one EDITOR_READY", msgs)
	}
	if len(p.Drain()) != 0 {
		t.Error("second Drain not empty")
	}

	p.Post(NewMessage(TypeRequestSave))
	select {
	case msg := <-p.Inbound():
		if msg.Type != TypeRequestSave {
			t.Errorf("inbound type = %s, want REQUEST_SAVE", msg.Type)
		}
	default:
		t.Fatal("posted message not on inbound channel")
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Send(ready); err == nil {
		t.Error("Send after Close succeeded")
	}
	if _, ok := <-p.Inbound(); ok {
		t.Error("inbound channel still open after Close")
	}
}

func newTestHTTPPort(t *testing.T) *HTTPPort {
	t.Helper()
	store, err := document.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return NewHTTPPort("127.0.0.1:0", store)
}

func TestHTTPPortMessages(t *testing.T) {
	p := newTestHTTPPort(t)

	body, _ := json.Marshal(NewMessage(TypeRequestSave))
	req := httptest.NewRequest("POST", "/bridge/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.App().Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 202 {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	select {
	case msg := <-p.Inbound():
		if msg.Type != TypeRequestSave {
			t.Errorf("inbound type = %s, want REQUEST_SAVE", msg.Type)
		}
	default:
		t.Fatal("message did not reach the inbound channel")
	}
}

func TestHTTPPortMessageAfterClose(t *testing.T) {
	p := newTestHTTPPort(t)
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A request racing Close must get the unavailable status, never a
	// send on the closed inbound channel.
	body, _ := json.Marshal(NewMessage(TypeRequestSave))
	req := httptest.NewRequest("POST", "/bridge/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.App().Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}

	if err := p.postInbound(NewMessage(TypeRequestSave)); err != errPortClosed {
		t.Errorf("postInbound after Close = %v, want port closed", err)
	}
}

func TestHTTPPortRejectsUntypedMessage(t *testing.T) {
	p := newTestHTTPPort(t)

	req := httptest.NewRequest("POST", "/bridge/messages", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.App().Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHTTPPortOutbox(t *testing.T) {
	p := newTestHTTPPort(t)

	saved := NewMessage(TypeDocumentSaved)
	saved.BlobID = "blob-1"
	if err := p.Send(saved); err != nil {
		t.Fatalf("Send: %v", err)
	}

	resp, err := p.App().Test(httptest.NewRequest("GET", "/bridge/outbox", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	var msgs []Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decoding outbox: %v", err)
	}
	if len(msgs) != 1 || msgs[0].BlobID != "blob-1" {
		t.Fatalf("outbox = %v, want the saved message", msgs)
	}

	// The outbox drains on read.
	resp, err = p.App().Test(httptest.NewRequest("GET", "/bridge/outbox", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	msgs = nil
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decoding outbox: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("outbox after drain = %v, want empty", msgs)
	}
}

func TestHTTPPortDocumentUpload(t *testing.T) {
	p := newTestHTTPPort(t)

	req := httptest.NewRequest("POST", "/bridge/documents", bytes.NewReader([]byte("%PDF-fake")))
	resp, err := p.App().Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var out struct {
		BlobID string `json:"blobId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if out.BlobID == "" {
		t.Fatal("no blob ID returned")
	}

	// Upload lands on the inbound channel as LOAD_DOCUMENT.
	select {
	case msg := <-p.Inbound():
		if msg.Type != TypeLoadDocument || msg.BlobID != out.BlobID {
			t.Errorf("inbound = %+v, want LOAD_DOCUMENT for %s", msg, out.BlobID)
		}
	default:
		t.Fatal("upload did not produce an inbound message")
	}

	// And the blob is downloadable again.
	resp, err = p.App().Test(httptest.NewRequest("GET", "/bridge/blobs/"+out.BlobID, nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("blob fetch status = %d, want 200", resp.StatusCode)
	}
	blob, _ := io.ReadAll(resp.Body)
	if string(blob) != "%PDF-fake" {
		t.Errorf("blob = %q", blob)
	}
}
