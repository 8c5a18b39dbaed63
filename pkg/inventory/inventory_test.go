package inventory

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/homevault-project/homevault-go/pkg/model"
)

type failingPrefStore struct {
	PrefStore
	failSet bool
}

func (s *failingPrefStore) Set(key string, data []byte) error {
	if s.failSet {
		return errors.New("store unavailable")
	}
	return s.PrefStore.Set(key, data)
}

func newTestInventory(t *testing.T) (*Inventory, *MemoryPrefStore) {
	t.Helper()
	store := NewMemoryPrefStore()
	inv := New(store)
	if err := inv.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return inv, store
}

func TestInventoryAddOrUpdate(t *testing.T) {
	t.Run("assigns id", func(t *testing.T) {
		inv, _ := newTestInventory(t)

		saved, err := inv.AddOrUpdate(model.AccessoryRecord{Name: "Hue Bridge"})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if saved.ID == "" {
			t.Error("expected id to be assigned")
		}
		if inv.Count() != 1 {
			t.Errorf("expected 1 record, got %d", inv.Count())
		}
	})

	t.Run("replaces by id", func(t *testing.T) {
		inv, _ := newTestInventory(t)

		saved, err := inv.AddOrUpdate(model.AccessoryRecord{Name: "Hue Bridge"})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		saved.Room = "Hallway"
		if _, err := inv.AddOrUpdate(saved); err != nil {
			t.Fatalf("update: %v", err)
		}

		if inv.Count() != 1 {
			t.Fatalf("expected 1 record after replace, got %d", inv.Count())
		}
		got, ok := inv.Find(saved.ID)
		if !ok {
			t.Fatal("record not found after update")
		}
		if got.Room != "Hallway" {
			t.Errorf("expected updated room, got %q", got.Room)
		}
	})

	t.Run("sorts by name case-insensitively", func(t *testing.T) {
		inv, _ := newTestInventory(t)

		for _, name := range []string{"thermostat", "Bedroom Lamp", "aqara Hub"} {
			if _, err := inv.AddOrUpdate(model.AccessoryRecord{Name: name}); err != nil {
				t.Fatalf("add %q: %v", name, err)
			}
		}

		want := []string{"aqara Hub", "Bedroom Lamp", "thermostat"}
		all := inv.All()
		for i, rec := range all {
			if rec.Name != want[i] {
				t.Errorf("position %d: expected %q, got %q", i, want[i], rec.Name)
			}
		}
	})

	t.Run("rename re-sorts", func(t *testing.T) {
		inv, _ := newTestInventory(t)

		first, _ := inv.AddOrUpdate(model.AccessoryRecord{Name: "Aqara Hub"})
		inv.AddOrUpdate(model.AccessoryRecord{Name: "Bedroom Lamp"})

		first.Name = "Zigbee Hub"
		if _, err := inv.AddOrUpdate(first); err != nil {
			t.Fatalf("rename: %v", err)
		}

		all := inv.All()
		if all[len(all)-1].Name != "Zigbee Hub" {
			t.Errorf("expected renamed record last, got %q", all[len(all)-1].Name)
		}
	})

	t.Run("keeps duplicate names as separate records", func(t *testing.T) {
		inv, _ := newTestInventory(t)

		a, _ := inv.AddOrUpdate(model.AccessoryRecord{Name: "Lamp"})
		b, _ := inv.AddOrUpdate(model.AccessoryRecord{Name: "Lamp"})
		if a.ID == b.ID {
			t.Error("expected distinct ids for same name")
		}
		if inv.Count() != 2 {
			t.Errorf("expected 2 records, got %d", inv.Count())
		}
	})

	t.Run("failed persist leaves collection unchanged", func(t *testing.T) {
		store := &failingPrefStore{PrefStore: NewMemoryPrefStore()}
		inv := New(store)
		if err := inv.Load(); err != nil {
			t.Fatalf("load: %v", err)
		}
		if _, err := inv.AddOrUpdate(model.AccessoryRecord{Name: "Lamp"}); err != nil {
			t.Fatalf("add: %v", err)
		}

		store.failSet = true
		if _, err := inv.AddOrUpdate(model.AccessoryRecord{Name: "Sensor"}); err == nil {
			t.Fatal("expected persist error")
		}
		if inv.Count() != 1 {
			t.Errorf("expected collection unchanged, got %d records", inv.Count())
		}
	})
}

func TestInventoryRemove(t *testing.T) {
	inv, _ := newTestInventory(t)

	saved, _ := inv.AddOrUpdate(model.AccessoryRecord{Name: "Lamp"})

	if err := inv.Remove("no-such-id"); !errors.Is(err, ErrAccessoryNotFound) {
		t.Errorf("expected ErrAccessoryNotFound, got %v", err)
	}
	if err := inv.Remove(saved.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if inv.Count() != 0 {
		t.Errorf("expected empty collection, got %d records", inv.Count())
	}
}

func TestInventoryLoad(t *testing.T) {
	t.Run("missing blob loads empty", func(t *testing.T) {
		inv := New(NewMemoryPrefStore())
		if err := inv.Load(); err != nil {
			t.Fatalf("load: %v", err)
		}
		if inv.Count() != 0 {
			t.Errorf("expected empty collection, got %d records", inv.Count())
		}
	})

	t.Run("round-trips through store", func(t *testing.T) {
		store := NewMemoryPrefStore()
		inv := New(store)
		if err := inv.Load(); err != nil {
			t.Fatalf("load: %v", err)
		}
		saved, _ := inv.AddOrUpdate(model.AccessoryRecord{Name: "Lamp", Room: "Office"})

		reopened := New(store)
		if err := reopened.Load(); err != nil {
			t.Fatalf("reload: %v", err)
		}
		got, ok := reopened.Find(saved.ID)
		if !ok {
			t.Fatal("record not found after reload")
		}
		if got.Room != "Office" {
			t.Errorf("expected room to survive reload, got %q", got.Room)
		}
	})

	t.Run("corrupt blob resets to empty", func(t *testing.T) {
		store := NewMemoryPrefStore()
		if err := store.Set(InventoryKey, []byte("not json")); err != nil {
			t.Fatalf("seed: %v", err)
		}

		inv := New(store)
		if err := inv.Load(); err == nil {
			t.Fatal("expected decode error")
		}
		if inv.Count() != 0 {
			t.Errorf("expected empty collection after corrupt load, got %d", inv.Count())
		}
	})
}

func TestInventoryGroupBy(t *testing.T) {
	inv, _ := newTestInventory(t)

	records := []model.AccessoryRecord{
		{Name: "Bedroom Lamp", Room: "Bedroom", Manufacturer: "Philips Hue"},
		{Name: "Hallway Sensor", Room: "Hallway", Manufacturer: "Eve Systems"},
		{Name: "Mystery Plug"},
		{Name: "Office Lamp", Room: "Bedroom", Manufacturer: "Philips Hue"},
	}
	for _, r := range records {
		if _, err := inv.AddOrUpdate(r); err != nil {
			t.Fatalf("add %q: %v", r.Name, err)
		}
	}

	t.Run("by room", func(t *testing.T) {
		groups := inv.GroupBy(GroupByRoom)
		wantKeys := []string{"Bedroom", "Hallway", UnassignedLabel}
		if len(groups) != len(wantKeys) {
			t.Fatalf("expected %d groups, got %d", len(wantKeys), len(groups))
		}
		for i, g := range groups {
			if g.Key != wantKeys[i] {
				t.Errorf("group %d: expected key %q, got %q", i, wantKeys[i], g.Key)
			}
		}
		if len(groups[0].Records) != 2 {
			t.Errorf("expected 2 bedroom records, got %d", len(groups[0].Records))
		}
	})

	t.Run("by manufacturer", func(t *testing.T) {
		groups := inv.GroupBy(GroupByManufacturer)
		if len(groups) != 3 {
			t.Fatalf("expected 3 groups, got %d", len(groups))
		}
		if groups[0].Key != "Eve Systems" {
			t.Errorf("expected first group Eve Systems, got %q", groups[0].Key)
		}
	})

	t.Run("records keep list order within groups", func(t *testing.T) {
		groups := inv.GroupBy(GroupByRoom)
		bedroom := groups[0].Records
		if bedroom[0].Name != "Bedroom Lamp" || bedroom[1].Name != "Office Lamp" {
			t.Errorf("unexpected order: %q, %q", bedroom[0].Name, bedroom[1].Name)
		}
	})
}

func TestParseGroupAttr(t *testing.T) {
	for _, name := range []string{"room", "Manufacturer", "CATEGORY", "home"} {
		if _, err := ParseGroupAttr(name); err != nil {
			t.Errorf("expected %q to parse, got %v", name, err)
		}
	}
	if _, err := ParseGroupAttr("color"); err == nil {
		t.Error("expected error for unknown attribute")
	}
}

func TestPromote(t *testing.T) {
	inv, _ := newTestInventory(t)

	seen := time.Now().Add(-time.Minute)
	device := model.DiscoveredDevice{
		ID:             "session-scoped",
		Name:           "Eve Door 8A3F",
		ServiceTypeTag: model.TagHAP,
		IPAddress:      "192.168.1.40",
		Manufacturer:   "Eve Systems",
		DiscoveredAt:   seen,
	}

	saved, err := inv.Promote(device)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if saved.ID == device.ID {
		t.Error("expected fresh id, not the session-scoped one")
	}
	if saved.Name != device.Name {
		t.Errorf("expected name %q, got %q", device.Name, saved.Name)
	}
	if saved.Manufacturer != "Eve Systems" {
		t.Errorf("expected manufacturer carried over, got %q", saved.Manufacturer)
	}
	if saved.Category != model.TagHAP.Category() {
		t.Errorf("expected category %q, got %q", model.TagHAP.Category(), saved.Category)
	}
	if !saved.IsReachable {
		t.Error("expected promoted accessory to be reachable")
	}
	if saved.IPAddress != device.IPAddress {
		t.Errorf("expected address %q, got %q", device.IPAddress, saved.IPAddress)
	}
	if !saved.LastSeen.Equal(seen) {
		t.Errorf("expected last seen %v, got %v", seen, saved.LastSeen)
	}
}

func TestBoltPrefStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	store, err := OpenBoltPrefStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, err := store.Get("missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
	if err := store.Set("key", []byte("value")); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, err := store.Get("key")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "value" {
		t.Errorf("expected %q, got %q", "value", data)
	}
	if err := store.Delete("key"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get("key"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
}
