package vault

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	// Register decoders for the formats photos commonly arrive in.
	_ "image/gif"
	_ "image/jpeg"
)

// PhotoStore keeps one raster file per vault record, named by record id.
// Input images of any registered format are re-encoded to PNG on save.
type PhotoStore struct {
	dir string
}

// NewPhotoStore creates a photo store rooted at dir.
// The directory is created on first save.
func NewPhotoStore(dir string) *PhotoStore {
	return &PhotoStore{dir: dir}
}

// Path returns the asset path for a record id.
func (p *PhotoStore) Path(recordID string) string {
	return filepath.Join(p.dir, recordID+".png")
}

// Save decodes data, re-encodes it as PNG, and writes it under the
// record's id. Returns the asset path.
func (p *PhotoStore) Save(recordID string, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode photo: %w", err)
	}

	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return "", err
	}

	path := p.Path(recordID)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to encode photo: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Delete removes the asset for a record id.
// A missing asset is not an error.
func (p *PhotoStore) Delete(recordID string) error {
	err := os.Remove(p.Path(recordID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Exists reports whether an asset is present for the record id.
func (p *PhotoStore) Exists(recordID string) bool {
	_, err := os.Stat(p.Path(recordID))
	return err == nil
}
