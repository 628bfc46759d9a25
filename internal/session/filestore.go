// ABOUTME: Persists the session record as JSON in the XDG config directory
// ABOUTME: Writes are atomic and owner-readable only since the record holds a bearer token

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/markalston/storefront-cli/internal/models"
)

// FileName is the well-known key under which the session is persisted
const FileName = "session.json"

// Record is the persisted form of a session
type Record struct {
	Token    string           `json:"token"`
	Identity *models.Identity `json:"identity"`
}

func (r *Record) complete() bool {
	return r != nil && r.Token != "" && r.Identity != nil
}

// Persister loads, saves, and clears the persisted session record
type Persister interface {
	Load() (*Record, error)
	Save(Record) error
	Clear() error
}

// FileStore keeps the record in <dir>/session.json
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the location of the session file
func (f *FileStore) Path() string {
	return filepath.Join(f.dir, FileName)
}

// Load returns the stored record, or nil when none exists
func (f *FileStore) Load() (*Record, error) {
	data, err := os.ReadFile(f.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &rec, nil
}

// Save writes the record via a temp file and rename
func (f *FileStore) Save(rec Record) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting session file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmpName, f.Path()); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

// Clear removes the record. Removing a missing record is not an error.
func (f *FileStore) Clear() error {
	err := os.Remove(f.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
