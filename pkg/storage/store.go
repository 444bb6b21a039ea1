// Package storage provides durable key-value persistence for the companion
// stores. Values are JSON blobs under well-known keys; the core never talks
// to a concrete backend directly, it gets a Store injected.
package storage

import "sync"

// Store is a durable JSON key-value store.
type Store interface {
	// Save marshals v and persists it under key.
	Save(key string, v any) error
	// Load unmarshals the value under key into dest. The boolean is false
	// when the key is absent; corrupt payloads return an error and callers
	// are expected to fall back to an empty initial state.
	Load(key string, dest any) (bool, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// MemStore is an in-memory Store, used in tests and as a last-resort
// fallback when no durable backend is configured.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Save(key string, v any) error {
	raw, err := marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Load(key string, dest any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, unmarshal(raw, dest)
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
