package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// FileStore persists all records as a single JSON file mapping id to record,
// read and written whole on every operation. This mirrors the local-storage
// model the theme used: one opaque key, no partial updates, last write wins.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path. Parent directories are
// created; the file itself appears on first save.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store directory")
	}
	return &FileStore{path: path}, nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, name string, doc codec.Document, opts SaveOptions) (*SavedGallery, error) {
	records, err := s.read()
	if err != nil {
		return nil, err
	}

	rec, err := prepare(name, opts, mapValues(records))
	if err != nil {
		return nil, err
	}
	if prev, ok := records[rec.ID]; ok {
		rec.CreatedAt = prev.CreatedAt
	}
	rec.Document = doc
	records[rec.ID] = rec

	if err := s.write(records); err != nil {
		return nil, err
	}
	out := *rec
	return &out, nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, id string) (*SavedGallery, error) {
	records, err := s.read()
	if err != nil {
		return nil, err
	}
	rec, ok := records[id]
	if !ok {
		return nil, notFound(id)
	}
	return rec, nil
}

// List implements Store.
func (s *FileStore) List(ctx context.Context) ([]*SavedGallery, error) {
	records, err := s.read()
	if err != nil {
		return nil, err
	}
	out := mapValues(records)
	sortNewestFirst(out)
	return out, nil
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	records, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := records[id]; !ok {
		return notFound(id)
	}
	delete(records, id)
	return s.write(records)
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

// read loads the whole record map. A missing file is an empty store; an
// unreadable file is treated as empty rather than fatal, matching the
// graceful-degradation policy for persisted data.
func (s *FileStore) read() (map[string]*SavedGallery, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]*SavedGallery{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read store file")
	}

	var records map[string]*SavedGallery
	if err := json.Unmarshal(data, &records); err != nil {
		return map[string]*SavedGallery{}, nil
	}
	if records == nil {
		records = map[string]*SavedGallery{}
	}
	return records, nil
}

// write replaces the whole record map atomically via rename.
func (s *FileStore) write(records map[string]*SavedGallery) error {
	data, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode store file")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write store file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "replace store file")
	}
	return nil
}

func mapValues(records map[string]*SavedGallery) []*SavedGallery {
	out := make([]*SavedGallery, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	return out
}

var _ Store = (*FileStore)(nil)
