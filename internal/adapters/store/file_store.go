package store

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"bookfinder/internal/core/domain/ports"
)

// Ensure FileStore implements SnapshotStore
var _ ports.SnapshotStore = (*FileStore)(nil)

// FileStore persists snapshots in a single local JSON file mapping keys to
// raw values. Every mutation rewrites the whole file atomically (temp file
// plus rename), so a reader never observes a partial write.
type FileStore struct {
	filepath string
	mu       sync.RWMutex
	data     map[string]json.RawMessage
}

// NewFileStore initializes a snapshot store from a file path. A missing or
// unparseable file starts the store empty rather than failing: the snapshot
// is a cache of user state, not a source of truth worth crashing over.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		filepath: path,
		data:     make(map[string]json.RawMessage),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.filepath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Open(s.filepath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	if err := decoder.Decode(&s.data); err != nil {
		if err == io.EOF {
			return nil // empty file is fine
		}
		log.Printf("WARNING store: discarding corrupt state file %s: %v", s.filepath, err)
		s.data = make(map[string]json.RawMessage)
		return nil
	}

	if s.data == nil {
		s.data = make(map[string]json.RawMessage)
	}

	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	s.data[key] = stored
	return s.saveLocked()
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.saveLocked()
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) saveLocked() error {
	tmpFile := s.filepath + ".tmp"
	f, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		f.Close()
		return err
	}
	f.Close()

	return os.Rename(tmpFile, s.filepath)
}
