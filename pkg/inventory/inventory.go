package inventory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/homevault-project/homevault-go/pkg/model"
)

// UnassignedLabel is the sentinel group key for accessories without a
// value for the grouping attribute.
const UnassignedLabel = "Unassigned"

// GroupAttr selects the attribute accessories are grouped by.
type GroupAttr int

const (
	// GroupByRoom groups by room assignment.
	GroupByRoom GroupAttr = iota

	// GroupByManufacturer groups by vendor name.
	GroupByManufacturer

	// GroupByCategory groups by category tag.
	GroupByCategory

	// GroupByHome groups by home assignment.
	GroupByHome
)

// String returns the attribute name.
func (a GroupAttr) String() string {
	switch a {
	case GroupByRoom:
		return "room"
	case GroupByManufacturer:
		return "manufacturer"
	case GroupByCategory:
		return "category"
	case GroupByHome:
		return "home"
	default:
		return "unknown"
	}
}

// ParseGroupAttr parses a grouping attribute name.
func ParseGroupAttr(s string) (GroupAttr, error) {
	switch strings.ToLower(s) {
	case "room":
		return GroupByRoom, nil
	case "manufacturer":
		return GroupByManufacturer, nil
	case "category":
		return GroupByCategory, nil
	case "home":
		return GroupByHome, nil
	default:
		return 0, fmt.Errorf("unknown grouping attribute %q", s)
	}
}

// Group is one partition of the accessory list.
type Group struct {
	// Key is the shared attribute value, or UnassignedLabel.
	Key string

	// Records are the accessories in this group, in list order.
	Records []model.AccessoryRecord
}

// Inventory manages the curated accessory list.
//
// Mutations re-encode the entire collection and overwrite the stored
// blob; a failed persist leaves the in-memory list unchanged.
type Inventory struct {
	mu      sync.Mutex
	store   PrefStore
	records []model.AccessoryRecord
}

// New creates an inventory over the given preference store.
func New(store PrefStore) *Inventory {
	return &Inventory{store: store}
}

// Load reads the stored blob into memory. A missing blob loads as an
// empty collection; a blob that fails to decode resets the collection to
// empty and returns the decode error.
func (inv *Inventory) Load() error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	data, err := inv.store.Get(InventoryKey)
	if err == ErrKeyNotFound {
		inv.records = nil
		return nil
	}
	if err != nil {
		inv.records = nil
		return fmt.Errorf("failed to read inventory: %w", err)
	}

	var records []model.AccessoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		inv.records = nil
		return fmt.Errorf("failed to decode inventory: %w", err)
	}

	inv.records = records
	return nil
}

// All returns a snapshot of the collection.
func (inv *Inventory) All() []model.AccessoryRecord {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return append([]model.AccessoryRecord(nil), inv.records...)
}

// Count returns the number of accessories.
func (inv *Inventory) Count() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.records)
}

// Find returns the accessory with the given id.
func (inv *Inventory) Find(id string) (model.AccessoryRecord, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for _, r := range inv.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.AccessoryRecord{}, false
}

// AddOrUpdate inserts the accessory, or replaces the existing accessory
// with the same id, then re-sorts the collection by name and persists it.
// An accessory without an id gets a fresh one. Names are not unique.
func (inv *Inventory) AddOrUpdate(record model.AccessoryRecord) (model.AccessoryRecord, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if record.ID == "" {
		record.ID = model.NewID()
	}

	updated := append([]model.AccessoryRecord(nil), inv.records...)
	replaced := false
	for i, r := range updated {
		if r.ID == record.ID {
			updated[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		updated = append(updated, record)
	}

	sort.SliceStable(updated, func(i, j int) bool {
		return strings.ToLower(updated[i].Name) < strings.ToLower(updated[j].Name)
	})

	if err := inv.persistLocked(updated); err != nil {
		return model.AccessoryRecord{}, err
	}

	inv.records = updated
	return record, nil
}

// Remove deletes the accessory with the given id and persists the
// reduced collection.
func (inv *Inventory) Remove(id string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	updated := make([]model.AccessoryRecord, 0, len(inv.records))
	found := false
	for _, r := range inv.records {
		if r.ID == id {
			found = true
			continue
		}
		updated = append(updated, r)
	}
	if !found {
		return ErrAccessoryNotFound
	}

	if err := inv.persistLocked(updated); err != nil {
		return err
	}

	inv.records = updated
	return nil
}

// GroupBy partitions the collection by the chosen attribute. Accessories
// without a value fall into the UnassignedLabel group. Groups are sorted
// by key; records keep their list order within each group.
func (inv *Inventory) GroupBy(attr GroupAttr) []Group {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	byKey := make(map[string][]model.AccessoryRecord)
	for _, r := range inv.records {
		key := groupKey(r, attr)
		byKey[key] = append(byKey[key], r)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, Group{Key: k, Records: byKey[k]})
	}
	return groups
}

// groupKey extracts the grouping value for one accessory.
func groupKey(r model.AccessoryRecord, attr GroupAttr) string {
	var v string
	switch attr {
	case GroupByRoom:
		v = r.Room
	case GroupByManufacturer:
		v = r.Manufacturer
	case GroupByCategory:
		v = r.Category
	case GroupByHome:
		v = r.Home
	}
	if v == "" {
		return UnassignedLabel
	}
	return v
}

// NewAccessoryFromDiscovered constructs an accessory record from one
// scan observation. The category label is derived from the advertising
// service type; the device's session id is not carried over.
func NewAccessoryFromDiscovered(d model.DiscoveredDevice) model.AccessoryRecord {
	return model.AccessoryRecord{
		ID:           model.NewID(),
		Name:         d.Name,
		Manufacturer: d.Manufacturer,
		Category:     d.ServiceTypeTag.Category(),
		IsReachable:  true,
		IPAddress:    d.IPAddress,
		LastSeen:     d.DiscoveredAt,
	}
}

// Promote constructs an accessory from a discovered device and adds it
// to the inventory.
func (inv *Inventory) Promote(d model.DiscoveredDevice) (model.AccessoryRecord, error) {
	return inv.AddOrUpdate(NewAccessoryFromDiscovered(d))
}

// persistLocked encodes and stores the collection. Caller holds inv.mu.
func (inv *Inventory) persistLocked(records []model.AccessoryRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	if err := inv.store.Set(InventoryKey, data); err != nil {
		return fmt.Errorf("failed to persist inventory: %w", err)
	}
	return nil
}
