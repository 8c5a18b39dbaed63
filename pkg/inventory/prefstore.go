package inventory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store errors.
var (
	ErrKeyNotFound       = errors.New("preference key not found")
	ErrAccessoryNotFound = errors.New("accessory not found")
)

// InventoryKey is the fixed preference key for the accessory collection.
const InventoryKey = "inventory.accessories"

// PrefStore holds opaque blobs in local preference storage.
// Implementations must be safe for concurrent access.
type PrefStore interface {
	// Get returns the blob for the key.
	// Returns ErrKeyNotFound if nothing is stored.
	Get(key string) ([]byte, error)

	// Set stores the blob for the key, replacing any previous value.
	Set(key string, data []byte) error

	// Delete removes the blob for the key. Deleting a missing key is
	// not an error.
	Delete(key string) error
}

var bucketPreferences = []byte("preferences")

// BoltPrefStore is a PrefStore backed by a BoltDB file.
type BoltPrefStore struct {
	db *bolt.DB
}

// OpenBoltPrefStore opens or creates the preference store file.
func OpenBoltPrefStore(path string) (*BoltPrefStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPreferences)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create preferences bucket: %w", err)
	}

	return &BoltPrefStore{db: db}, nil
}

// Get returns the blob for the key.
func (s *BoltPrefStore) Get(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketPreferences)
		}
		data := b.Get([]byte(key))
		if data == nil {
			return ErrKeyNotFound
		}
		out = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set stores the blob for the key.
func (s *BoltPrefStore) Set(key string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketPreferences)
		}
		return b.Put([]byte(key), data)
	})
}

// Delete removes the blob for the key.
func (s *BoltPrefStore) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketPreferences)
		}
		return b.Delete([]byte(key))
	})
}

// Close closes the underlying database file.
func (s *BoltPrefStore) Close() error {
	return s.db.Close()
}

// MemoryPrefStore is an in-memory PrefStore for tests.
type MemoryPrefStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryPrefStore creates a new in-memory preference store.
func NewMemoryPrefStore() *MemoryPrefStore {
	return &MemoryPrefStore{blobs: make(map[string][]byte)}
}

// Get returns the blob for the key.
func (s *MemoryPrefStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), data...), nil
}

// Set stores the blob for the key.
func (s *MemoryPrefStore) Set(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes the blob for the key.
func (s *MemoryPrefStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ PrefStore = (*BoltPrefStore)(nil)
	_ PrefStore = (*MemoryPrefStore)(nil)
)
