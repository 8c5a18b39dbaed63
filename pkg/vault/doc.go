// Package vault stores user-entered setup codes with at-rest protection.
//
// The whole collection is encoded as a single JSON blob and kept in a
// SecretStore under a fixed service/account key. Every mutation is a
// whole-collection read-modify-write: the blob and the in-memory list move
// in lockstep, and a failed persist leaves the in-memory list untouched.
// This is safe for a single interactive user; concurrent writers from
// separate processes can lose updates.
//
// BoltStore seals the blob with XChaCha20-Poly1305 under a key derived
// from a passphrase via scrypt, standing in for platform credential
// storage. MemoryStore keeps blobs in plain memory for tests.
//
// Photo attachments are kept outside the blob, one PNG per record id,
// managed by PhotoStore.
package vault
