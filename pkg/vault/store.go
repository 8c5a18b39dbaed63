package vault

import "errors"

// Store errors.
var (
	ErrBlobNotFound   = errors.New("blob not found")
	ErrRecordNotFound = errors.New("record not found")
	ErrCannotUnseal   = errors.New("cannot unseal blob (wrong passphrase or corrupt data)")
	ErrSealedCorrupt  = errors.New("sealed blob is malformed")
)

// Fixed key under which the setup-code collection is stored.
const (
	// Service is the secret-store service name.
	Service = "com.homevault.vault"

	// Account is the secret-store account name.
	Account = "setup-codes"
)

// SecretStore holds opaque blobs keyed by a service/account pair.
// Implementations must be safe for concurrent access.
type SecretStore interface {
	// Get returns the blob for the key.
	// Returns ErrBlobNotFound if nothing is stored.
	Get(service, account string) ([]byte, error)

	// Set stores the blob for the key, replacing any previous value.
	Set(service, account string, data []byte) error

	// Delete removes the blob for the key. Deleting a missing blob is
	// not an error.
	Delete(service, account string) error
}
