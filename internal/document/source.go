// internal/document/source.go
package document

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Source yields PDF bytes from somewhere: memory, disk, the network or
// the blob store. Open may be slow and honors the context.
type Source interface {
	Name() string
	Open(ctx context.Context) ([]byte, error)
}

// ByteSource serves bytes already in memory.
type ByteSource struct {
	DocName string
	Data    []byte
}

func (s ByteSource) Name() string { return s.DocName }

func (s ByteSource) Open(ctx context.Context) ([]byte, error) {
	if len(s.Data) == 0 {
		return nil, fmt.Errorf("byte source %q is empty", s.DocName)
	}
	return s.Data, nil
}

// FileSource reads a PDF from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return filepath.Base(s.Path) }

func (s FileSource) Open(ctx context.Context) ([]byte, error) {
	return os.ReadFile(s.Path)
}

// HTTPSource fetches a PDF over HTTP. A nil Client falls back to
// http.DefaultClient.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string {
	return filepath.Base(s.URL)
}

func (s HTTPSource) Open(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", s.URL, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// StoreSource reads a blob previously put into a Store.
type StoreSource struct {
	Store *Store
	ID    string
}

func (s StoreSource) Name() string { return s.ID + ".pdf" }

func (s StoreSource) Open(ctx context.Context) ([]byte, error) {
	return s.Store.Get(s.ID)
}
