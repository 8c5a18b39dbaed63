package vault

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/homevault-project/homevault-go/pkg/model"
)

// Vault manages the setup-code collection.
//
// Every mutation re-encodes the entire collection and overwrites the
// single stored blob. A failed persist leaves the in-memory list
// unchanged.
type Vault struct {
	mu      sync.Mutex
	store   SecretStore
	photos  *PhotoStore
	records []model.SetupCodeRecord
}

// New creates a vault over the given secret store. The photo store may be
// nil when photo attachments are not used.
func New(store SecretStore, photos *PhotoStore) *Vault {
	return &Vault{store: store, photos: photos}
}

// Load reads the stored blob into memory. A missing blob loads as an
// empty collection. A blob that fails to decode resets the collection to
// empty and returns the decode error; no partially decoded state is kept.
func (v *Vault) Load() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := v.store.Get(Service, Account)
	if err == ErrBlobNotFound {
		v.records = nil
		return nil
	}
	if err != nil {
		v.records = nil
		return fmt.Errorf("failed to read vault: %w", err)
	}

	var records []model.SetupCodeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		v.records = nil
		return fmt.Errorf("failed to decode vault: %w", err)
	}

	v.records = records
	return nil
}

// All returns a snapshot of the collection.
func (v *Vault) All() []model.SetupCodeRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.SetupCodeRecord(nil), v.records...)
}

// Count returns the number of stored records.
func (v *Vault) Count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.records)
}

// Find returns the record with the given id.
func (v *Vault) Find(id string) (model.SetupCodeRecord, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, r := range v.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.SetupCodeRecord{}, false
}

// Save inserts the record, or replaces the existing record with the same
// id. A record without an id gets a fresh one. UpdatedAt is refreshed;
// CreatedAt is set on first save and preserved on replace. The updated
// collection is persisted before the in-memory list changes.
func (v *Vault) Save(record model.SetupCodeRecord) (model.SetupCodeRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	if record.ID == "" {
		record.ID = model.NewID()
	}
	record.UpdatedAt = now

	updated := append([]model.SetupCodeRecord(nil), v.records...)
	replaced := false
	for i, r := range updated {
		if r.ID == record.ID {
			if record.CreatedAt.IsZero() {
				record.CreatedAt = r.CreatedAt
			}
			updated[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		updated = append(updated, record)
	}
	if record.UpdatedAt.Before(record.CreatedAt) {
		record.UpdatedAt = record.CreatedAt
	}

	if err := v.persistLocked(updated); err != nil {
		return model.SetupCodeRecord{}, err
	}

	v.records = updated
	return record, nil
}

// Delete removes the record with the given id, persists the reduced
// collection, and removes the record's photo asset. Photo removal is
// best-effort; its failure does not fail the delete.
func (v *Vault) Delete(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	updated := make([]model.SetupCodeRecord, 0, len(v.records))
	found := false
	for _, r := range v.records {
		if r.ID == id {
			found = true
			continue
		}
		updated = append(updated, r)
	}
	if !found {
		return ErrRecordNotFound
	}

	if err := v.persistLocked(updated); err != nil {
		return err
	}

	v.records = updated
	if v.photos != nil {
		_ = v.photos.Delete(id)
	}
	return nil
}

// Search filters the collection. The query matches case-insensitively
// against accessory name, manufacturer and model, and as an exact
// substring against the raw code digits. An empty query returns the full
// collection.
func (v *Vault) Search(query string) []model.SetupCodeRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	if query == "" {
		return append([]model.SetupCodeRecord(nil), v.records...)
	}

	lower := strings.ToLower(query)
	var out []model.SetupCodeRecord
	for _, r := range v.records {
		switch {
		case strings.Contains(strings.ToLower(r.AccessoryName), lower),
			strings.Contains(strings.ToLower(r.Manufacturer), lower),
			strings.Contains(strings.ToLower(r.Model), lower),
			strings.Contains(r.Code, query):
			out = append(out, r)
		}
	}
	return out
}

// AttachPhoto re-encodes the image data to PNG, stores it under the
// record's id, and persists the record's photo reference. If the persist
// fails the written asset is removed again.
func (v *Vault) AttachPhoto(id string, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.photos == nil {
		return fmt.Errorf("no photo store configured")
	}

	idx := -1
	for i, r := range v.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrRecordNotFound
	}

	path, err := v.photos.Save(id, data)
	if err != nil {
		return err
	}

	updated := append([]model.SetupCodeRecord(nil), v.records...)
	updated[idx].PhotoRef = path
	updated[idx].UpdatedAt = time.Now()

	if err := v.persistLocked(updated); err != nil {
		_ = v.photos.Delete(id)
		return err
	}

	v.records = updated
	return nil
}

// persistLocked encodes and stores the collection. Caller holds v.mu.
func (v *Vault) persistLocked(records []model.SetupCodeRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode vault: %w", err)
	}
	if err := v.store.Set(Service, Account, data); err != nil {
		return fmt.Errorf("failed to persist vault: %w", err)
	}
	return nil
}
