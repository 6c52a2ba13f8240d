// Package state persists the address book between sessions.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goglerespect/personal-assistant/internal/contact"
)

// SnapshotVersion is the current on-disk snapshot format version.
const SnapshotVersion = 1

var (
	// ErrUnsupportedVersion indicates a snapshot written by a newer format.
	ErrUnsupportedVersion = errors.New("state: unsupported snapshot version")

	// ErrUnknownBackend indicates Open was asked for a backend it does not know.
	ErrUnknownBackend = errors.New("state: unknown storage backend")
)

// Store loads and saves a whole address book.
type Store interface {
	// Load returns the persisted book, or an empty book if nothing was saved yet.
	Load(ctx context.Context) (*contact.Book, error)
	// Save replaces the persisted book with b.
	Save(ctx context.Context, b *contact.Book) error
	Close() error
}

// Compile-time checks.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// Open returns the store for backend ("file" or "sqlite") at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", "file":
		return NewFileStore(path), nil
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Snapshot is the serialized form of a book. Contacts keep book order.
type Snapshot struct {
	Version  int            `json:"version"  yaml:"version"`
	Contacts []ContactEntry `json:"contacts" yaml:"contacts"`
}

// ContactEntry is the serialized form of one record.
type ContactEntry struct {
	Name     string   `json:"name"               yaml:"name"`
	Phones   []string `json:"phones,omitempty"   yaml:"phones,omitempty"`
	Birthday string   `json:"birthday,omitempty" yaml:"birthday,omitempty"`
}

// SnapshotOf captures b in serializable form.
func SnapshotOf(b *contact.Book) Snapshot {
	snap := Snapshot{Version: SnapshotVersion, Contacts: []ContactEntry{}}
	for _, r := range b.Records() {
		entry := ContactEntry{Name: r.Name()}
		for _, p := range r.Phones() {
			entry.Phones = append(entry.Phones, p.String())
		}
		if bd, ok := r.Birthday(); ok {
			entry.Birthday = bd.String()
		}
		snap.Contacts = append(snap.Contacts, entry)
	}
	return snap
}

// Book rebuilds a book from the snapshot, validating every field.
func (s Snapshot) Book() (*contact.Book, error) {
	if s.Version > SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	b := contact.NewBook()
	for _, e := range s.Contacts {
		r, err := e.record()
		if err != nil {
			return nil, err
		}
		b.Add(r)
	}
	return b, nil
}

func (e ContactEntry) record() (*contact.Record, error) {
	r := contact.NewRecord(e.Name)
	for _, p := range e.Phones {
		if err := r.AddPhone(p); err != nil {
			return nil, fmt.Errorf("state: contact %q: %w", e.Name, err)
		}
	}
	if e.Birthday != "" {
		if err := r.SetBirthday(e.Birthday); err != nil {
			return nil, fmt.Errorf("state: contact %q: %w", e.Name, err)
		}
	}
	return r, nil
}

// FileStore persists the book as a single JSON or YAML file.
// Files ending in .yaml or .yml are YAML; anything else is JSON.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the book from disk. A missing file yields an empty book.
func (s *FileStore) Load(ctx context.Context) (*contact.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return contact.NewBook(), nil
		}
		return nil, fmt.Errorf("state: reading %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return contact.NewBook(), nil
	}

	var snap Snapshot
	if s.isYAML() {
		err = yaml.Unmarshal(data, &snap)
	} else {
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, fmt.Errorf("state: parsing %s: %w", s.path, err)
	}
	return snap.Book()
}

// Save writes the book to disk, replacing the file atomically.
func (s *FileStore) Save(ctx context.Context, b *contact.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := SnapshotOf(b)
	var (
		data []byte
		err  error
	)
	if s.isYAML() {
		data, err = yaml.Marshal(snap)
	} else {
		data, err = json.MarshalIndent(snap, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("state: marshaling: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("state: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("state: writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("state: writing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("state: writing %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; files are opened per call.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.path))
	return ext == ".yaml" || ext == ".yml"
}
