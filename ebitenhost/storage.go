package ebitenhost

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// fileStore is a flat key/value store persisted as a YAML mapping. Every
// write rewrites the whole file through a temporary file and a rename. An
// empty path keeps the store in memory.
type fileStore struct {
	mu    sync.Mutex
	path  string
	items map[string]string
}

func openFileStore(path string) (*fileStore, error) {
	s := &fileStore{path: path, items: map[string]string{}}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s.items); err != nil {
		return nil, fmt.Errorf("parse storage %s: %w", path, err)
	}
	if s.items == nil {
		s.items = map[string]string{}
	}
	return s, nil
}

func (s *fileStore) GetItem(key string, cb func(string, bool)) error {
	s.mu.Lock()
	v, ok := s.items[key]
	s.mu.Unlock()
	cb(v, ok)
	return nil
}

func (s *fileStore) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return s.flush()
}

func (s *fileStore) GetStore(cb func(map[string]string)) error {
	s.mu.Lock()
	m := maps.Clone(s.items)
	s.mu.Unlock()
	cb(m)
	return nil
}

func (s *fileStore) SetStore(store map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = maps.Clone(store)
	if s.items == nil {
		s.items = map[string]string{}
	}
	return s.flush()
}

// flush writes the store to disk. Callers hold mu.
func (s *fileStore) flush() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write storage %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace storage %s: %w", s.path, err)
	}
	return nil
}
