package convert

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkmark/internal/config"
)

func TestConvertUploadsMultipart(t *testing.T) {
	var gotTarget string
	var gotFile []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/convert" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		gotTarget = r.FormValue("target")
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file part: %v", err)
		}
		defer f.Close()
		gotFile, _ = io.ReadAll(f)
		w.Write([]byte("%PDF-1.7 converted"))
	}))
	defer srv.Close()

	c := NewClient(config.ConvertConfig{ServiceURL: srv.URL, TimeoutSeconds: 5})
	out, err := c.Convert(context.Background(), "report.docx", []byte("docx-bytes"), "pdf")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("unexpected response body %q", out)
	}
	if gotTarget != "pdf" {
		t.Errorf("target = %q, want pdf", gotTarget)
	}
	if string(gotFile) != "docx-bytes" {
		t.Errorf("uploaded file = %q", gotFile)
	}
}

func TestConvertServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported format", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(config.ConvertConfig{ServiceURL: srv.URL, TimeoutSeconds: 5})
	_, err := c.Convert(context.Background(), "x.bin", []byte("data"), "pdf")
	if err == nil {
		t.Fatal("Convert succeeded against a failing service")
	}
}

func TestConvertDisabled(t *testing.T) {
	c := NewClient(config.ConvertConfig{})
	if c.Enabled() {
		t.Error("client with empty URL reports enabled")
	}
	if _, err := c.Convert(context.Background(), "x", nil, "pdf"); err != ErrDisabled {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}
