// internal/document/store.go
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is a directory-backed blob store. The bridge drops incoming
// documents here and saved exports can be parked here for pickup.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) a blob store at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Put stores the blob under a fresh ID and returns it.
func (s *Store) Put(data []byte) (string, error) {
	id := uuid.NewString()
	if err := os.WriteFile(s.path(id), data, 0o600); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the blob for id.
func (s *Store) Get(id string) ([]byte, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	return os.ReadFile(s.path(id))
}

// Delete removes the blob for id. Deleting a missing blob is not an
// error.
func (s *Store) Delete(id string) error {
	if err := validID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".blob")
}

// validID rejects IDs that could escape the store directory.
func validID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("invalid blob id %q", id)
	}
	return nil
}
