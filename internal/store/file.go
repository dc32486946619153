package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// File is a SavedStore backed by a JSON document. Every operation reads the
// file and every change rewrites it atomically.
type File struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewFile(path string) *File {
	return &File{path: path, now: time.Now}
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Add(kind Kind, id string) error {
	return f.update(func(s *savedSet) error { return s.add(kind, id, f.now()) })
}

func (f *File) Remove(kind Kind, id string) error {
	return f.update(func(s *savedSet) error { return s.remove(kind, id) })
}

func (f *File) Toggle(kind Kind, id string) (bool, error) {
	var saved bool
	err := f.update(func(s *savedSet) error {
		var err error
		saved, err = s.toggle(kind, id, f.now())
		return err
	})
	return saved, err
}

func (f *File) Contains(kind Kind, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.load()
	if err != nil {
		return false, err
	}
	return s.contains(kind, id)
}

func (f *File) IDs(kind Kind) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.load()
	if err != nil {
		return nil, err
	}
	return s.ids(kind)
}

func (f *File) update(fn func(*savedSet) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.load()
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return writeJSON(f.path, s)
}

// load treats a missing or empty file as an empty set.
func (f *File) load() (*savedSet, error) {
	s := &savedSet{}
	if err := readJSON(f.path, s); err != nil {
		return nil, errors.Wrap(err, "loading saved items")
	}
	return s, nil
}

func readJSON(path string, target any) error {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	if stat.Size() == 0 {
		return nil
	}

	if err := json.NewDecoder(file).Decode(target); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}

// writeJSON replaces path with the encoded value via a temporary file in the
// same directory.
func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return errors.Wrap(err, "encoding")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	return nil
}
