package vault

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketSecrets = []byte("secrets")

// BoltStore is a SecretStore backed by a BoltDB file. Blobs are sealed
// with a passphrase-derived key before they touch disk.
type BoltStore struct {
	db         *bolt.DB
	passphrase []byte
}

// OpenBoltStore opens or creates the store file. The passphrase protects
// every blob at rest; losing it makes the stored data unrecoverable.
func OpenBoltStore(path string, passphrase []byte) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open secret store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSecrets)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create secrets bucket: %w", err)
	}

	return &BoltStore{db: db, passphrase: passphrase}, nil
}

// secretKey builds the bucket key for a service/account pair.
func secretKey(service, account string) []byte {
	return []byte(service + "\x00" + account)
}

// Get returns and unseals the blob for the key.
func (s *BoltStore) Get(service, account string) ([]byte, error) {
	var sealed []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSecrets)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketSecrets)
		}
		data := b.Get(secretKey(service, account))
		if data == nil {
			return ErrBlobNotFound
		}
		sealed = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return openBlob(s.passphrase, sealed)
}

// Set seals and stores the blob for the key.
func (s *BoltStore) Set(service, account string, data []byte) error {
	sealed, err := sealBlob(s.passphrase, data)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSecrets)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketSecrets)
		}
		return b.Put(secretKey(service, account), sealed)
	})
}

// Delete removes the blob for the key.
func (s *BoltStore) Delete(service, account string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSecrets)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketSecrets)
		}
		return b.Delete(secretKey(service, account))
	})
}

// Close closes the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Compile-time interface satisfaction check.
var _ SecretStore = (*BoltStore)(nil)
