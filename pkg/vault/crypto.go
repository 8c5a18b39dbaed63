package vault

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// Sealed blob layout: magic || salt || nonce || ciphertext.
var sealMagic = []byte("HVS1")

// Key derivation parameters.
const (
	saltLen = 16
	keyLen  = chacha20poly1305.KeySize

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// deriveKey stretches a passphrase into an AEAD key.
func deriveKey(passphrase, salt []byte) ([]byte, error) {
	key, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// sealBlob encrypts plaintext under a passphrase-derived key.
// A fresh salt and nonce are generated for every seal.
func sealBlob(passphrase, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(sealMagic)+saltLen+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, sealMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// openBlob decrypts a sealed blob.
// Returns ErrSealedCorrupt for malformed input and ErrCannotUnseal when
// authentication fails (wrong passphrase or tampered data).
func openBlob(passphrase, sealed []byte) ([]byte, error) {
	minLen := len(sealMagic) + saltLen + chacha20poly1305.NonceSizeX
	if len(sealed) < minLen {
		return nil, ErrSealedCorrupt
	}
	if !bytes.Equal(sealed[:len(sealMagic)], sealMagic) {
		return nil, ErrSealedCorrupt
	}

	rest := sealed[len(sealMagic):]
	salt := rest[:saltLen]
	nonce := rest[saltLen : saltLen+chacha20poly1305.NonceSizeX]
	ciphertext := rest[saltLen+chacha20poly1305.NonceSizeX:]

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrCannotUnseal
	}
	return plaintext, nil
}
