package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"cashbook/internal/kv"
)

var _ kv.Store = (*Store)(nil)

// Store is a process-local kv.Store.
type Store struct {
	mu     sync.Mutex
	items  map[string]string
	closed bool
}

func New() *Store {
	return &Store{items: map[string]string{}}
}

// NewFromFile seeds a store from a JSON object of string values, e.g. a
// dump of the browser's localStorage. A missing file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	s := New()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	if err := json.Unmarshal(data, &s.items); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if s.items == nil {
		s.items = map[string]string{}
	}
	return s, nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, kv.ErrClosed
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kv.ErrClosed
	}
	s.items[key] = value
	return nil
}

// Close makes later calls fail with kv.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
