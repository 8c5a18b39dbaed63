package vault

import "sync"

// MemoryStore is an in-memory SecretStore.
// This is primarily useful for testing; blobs are not protected.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates a new in-memory secret store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Get returns the blob for the key.
func (s *MemoryStore) Get(service, account string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[string(secretKey(service, account))]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

// Set stores the blob for the key.
func (s *MemoryStore) Set(service, account string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[string(secretKey(service, account))] = append([]byte(nil), data...)
	return nil
}

// Delete removes the blob for the key.
func (s *MemoryStore) Delete(service, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, string(secretKey(service, account)))
	return nil
}

// Compile-time interface satisfaction check.
var _ SecretStore = (*MemoryStore)(nil)
