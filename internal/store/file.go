package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/nibzard/capplan-go/internal/planner"
)

// FileStore keeps all records in a single JSON file. Every mutation rewrites
// the file through a temporary file and a rename.
type FileStore struct {
	path string

	mu      sync.Mutex
	records []fileRecord
}

type fileRecord struct {
	ID       string            `json:"id"`
	Document *planner.Document `json:"document"`
}

type fileContents struct {
	Records []fileRecord `json:"records"`
}

// OpenFile loads the store at path. A missing file is an empty store; it is
// created on the first write.
func OpenFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: empty path")
	}
	s := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("file store %s: %w", path, err)
	}
	s.records = contents.Records
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Insert stores doc under a new random id.
func (s *FileStore) Insert(ctx context.Context, doc *planner.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc == nil {
		return "", fmt.Errorf("insert: nil document")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.records = append(s.records, fileRecord{ID: id, Document: doc})
	if err := s.flush(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return "", err
	}
	return id, nil
}

// Find returns matching records in insertion order. The documents are the
// stored values; use Replace rather than mutating them.
func (s *FileStore) Find(ctx context.Context, q Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, r := range s.records {
		if q.matches(r.Document) {
			out = append(out, Record{ID: r.ID, Document: r.Document})
		}
	}
	return out, nil
}

// Replace overwrites the document stored under id.
func (s *FileStore) Replace(ctx context.Context, id string, doc *planner.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("replace: nil document")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		prev := s.records[i].Document
		s.records[i].Document = doc
		if err := s.flush(); err != nil {
			s.records[i].Document = prev
			return err
		}
		return nil
	}
	return fmt.Errorf("record %s: %w", id, ErrNotFound)
}

// Close is a no-op; every write is already on disk.
func (s *FileStore) Close(context.Context) error { return nil }

// flush writes all records. Callers hold s.mu.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(fileContents{Records: s.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("file store: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".capplan-store-*")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("file store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("file store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}
