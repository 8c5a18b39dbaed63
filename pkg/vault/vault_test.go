package vault

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/homevault-project/homevault-go/pkg/model"
)

// failingStore wraps a SecretStore and fails writes on demand.
type failingStore struct {
	SecretStore
	failSet bool
}

var errSetFailed = errors.New("set failed")

func (s *failingStore) Set(service, account string, data []byte) error {
	if s.failSet {
		return errSetFailed
	}
	return s.SecretStore.Set(service, account, data)
}

func testRecord(name, code string) model.SetupCodeRecord {
	return model.SetupCodeRecord{
		AccessoryName: name,
		Manufacturer:  "Eve Systems",
		Model:         "Eve Energy",
		Code:          code,
		CodeFormat:    model.FormatNumeric,
	}
}

// pngBytes returns a small valid PNG for photo tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestVaultSave(t *testing.T) {
	t.Run("AssignsIDAndTimestamps", func(t *testing.T) {
		v := New(NewMemoryStore(), nil)

		saved, err := v.Save(testRecord("Lamp", "12345678"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if saved.ID == "" {
			t.Error("Save() should assign an id")
		}
		if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
			t.Error("Save() should set timestamps")
		}
		if saved.UpdatedAt.Before(saved.CreatedAt) {
			t.Error("UpdatedAt must not precede CreatedAt")
		}
	})

	t.Run("ReplaceByIDIsIdempotent", func(t *testing.T) {
		v := New(NewMemoryStore(), nil)

		first, err := v.Save(testRecord("Lamp", "12345678"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		other, err := v.Save(testRecord("Plug", "87654321"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		first.Notes = "re-labelled"
		updated, err := v.Save(first)
		if err != nil {
			t.Fatalf("Save() replace error = %v", err)
		}

		if v.Count() != 2 {
			t.Fatalf("Count() = %d after replace, want 2", v.Count())
		}
		if updated.CreatedAt != first.CreatedAt {
			t.Error("replace must preserve CreatedAt")
		}

		got, ok := v.Find(other.ID)
		if !ok || got.AccessoryName != "Plug" {
			t.Error("replace must not alter other records")
		}
	})

	t.Run("FailedPersistRollsBack", func(t *testing.T) {
		store := &failingStore{SecretStore: NewMemoryStore()}
		v := New(store, nil)

		if _, err := v.Save(testRecord("Lamp", "12345678")); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		store.failSet = true
		if _, err := v.Save(testRecord("Plug", "87654321")); err == nil {
			t.Fatal("Save() with failing store should error")
		}
		if v.Count() != 1 {
			t.Errorf("Count() = %d after failed save, want 1", v.Count())
		}
	})
}

func TestVaultRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	v := New(store, nil)

	records := []model.SetupCodeRecord{
		testRecord("Lamp", "12345678"),
		testRecord("Plug", "87654321"),
		testRecord("Door", "11112222"),
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		saved, err := v.Save(r)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		ids = append(ids, saved.ID)
	}

	// Simulated process restart: a fresh vault over the same store.
	reloaded := New(store, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.Count() != len(records) {
		t.Fatalf("Count() after reload = %d, want %d", reloaded.Count(), len(records))
	}
	for i, id := range ids {
		got, ok := reloaded.Find(id)
		if !ok {
			t.Fatalf("record %d missing after reload", i)
		}
		if got.AccessoryName != records[i].AccessoryName || got.Code != records[i].Code {
			t.Errorf("record %d = %+v, want name %q code %q",
				i, got, records[i].AccessoryName, records[i].Code)
		}
	}
}

func TestVaultLoad(t *testing.T) {
	t.Run("MissingBlobLoadsEmpty", func(t *testing.T) {
		v := New(NewMemoryStore(), nil)
		if err := v.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if v.Count() != 0 {
			t.Errorf("Count() = %d, want 0", v.Count())
		}
	})

	t.Run("DecodeFailureResetsToEmpty", func(t *testing.T) {
		store := NewMemoryStore()
		store.Set(Service, Account, []byte("not json"))

		v := New(store, nil)
		// Pre-populate memory state to prove the reset.
		v.records = []model.SetupCodeRecord{testRecord("Stale", "00000000")}

		if err := v.Load(); err == nil {
			t.Fatal("Load() of garbage blob should error")
		}
		if v.Count() != 0 {
			t.Errorf("Count() = %d after decode failure, want 0", v.Count())
		}
	})
}

func TestVaultDelete(t *testing.T) {
	t.Run("RemovesRecordAndPhotoAndPersists", func(t *testing.T) {
		store := NewMemoryStore()
		photos := NewPhotoStore(filepath.Join(t.TempDir(), "photos"))
		v := New(store, photos)

		saved, err := v.Save(testRecord("Lamp", "12345678"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := v.AttachPhoto(saved.ID, pngBytes(t)); err != nil {
			t.Fatalf("AttachPhoto() error = %v", err)
		}
		if !photos.Exists(saved.ID) {
			t.Fatal("photo asset should exist after attach")
		}

		if err := v.Delete(saved.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if photos.Exists(saved.ID) {
			t.Error("photo asset should be removed on delete")
		}

		reloaded := New(store, photos)
		if err := reloaded.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if reloaded.Count() != 0 {
			t.Errorf("Count() after reload = %d, want 0", reloaded.Count())
		}
	})

	t.Run("MissingRecord", func(t *testing.T) {
		v := New(NewMemoryStore(), nil)
		if err := v.Delete("nope"); err != ErrRecordNotFound {
			t.Errorf("Delete() = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("FailedPersistRollsBack", func(t *testing.T) {
		store := &failingStore{SecretStore: NewMemoryStore()}
		v := New(store, nil)

		saved, err := v.Save(testRecord("Lamp", "12345678"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		store.failSet = true
		if err := v.Delete(saved.ID); err == nil {
			t.Fatal("Delete() with failing store should error")
		}
		if v.Count() != 1 {
			t.Errorf("Count() = %d after failed delete, want 1", v.Count())
		}
	})
}

func TestVaultSearch(t *testing.T) {
	v := New(NewMemoryStore(), nil)

	lamp := testRecord("Ceiling Lamp", "12345678")
	lamp.Manufacturer = "Philips Hue"
	lamp.Model = "LCT016"
	plug := testRecord("Smart Plug", "87654321")
	plug.Manufacturer = "Meross"
	plug.Model = "MSS110"

	for _, r := range []model.SetupCodeRecord{lamp, plug} {
		if _, err := v.Save(r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	t.Run("EmptyQueryReturnsAll", func(t *testing.T) {
		if got := v.Search(""); len(got) != 2 {
			t.Errorf("Search(\"\") = %d records, want 2", len(got))
		}
	})

	t.Run("CaseInsensitiveNameMatch", func(t *testing.T) {
		got := v.Search("ceiling")
		if len(got) != 1 || got[0].AccessoryName != "Ceiling Lamp" {
			t.Errorf("Search(ceiling) = %v", got)
		}
	})

	t.Run("ManufacturerAndModelMatch", func(t *testing.T) {
		if got := v.Search("MEROSS"); len(got) != 1 {
			t.Errorf("Search(MEROSS) = %d records, want 1", len(got))
		}
		if got := v.Search("lct016"); len(got) != 1 {
			t.Errorf("Search(lct016) = %d records, want 1", len(got))
		}
	})

	t.Run("CodeDigitsExactSubstring", func(t *testing.T) {
		if got := v.Search("8765"); len(got) != 1 || got[0].Code != "87654321" {
			t.Errorf("Search(8765) = %v", got)
		}
	})

	t.Run("NoMatch", func(t *testing.T) {
		if got := v.Search("nothing-here"); len(got) != 0 {
			t.Errorf("Search(miss) = %d records, want 0", len(got))
		}
	})
}

func TestPhotoStore(t *testing.T) {
	photos := NewPhotoStore(filepath.Join(t.TempDir(), "photos"))

	path, err := photos.Save("rec-1", pngBytes(t))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// The stored asset must be a decodable PNG.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("stored asset is not PNG: %v", err)
	}

	if err := photos.Delete("rec-1"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := photos.Delete("rec-1"); err != nil {
		t.Errorf("Delete() of missing asset should be nil, got %v", err)
	}

	if _, err := photos.Save("rec-2", []byte("not an image")); err == nil {
		t.Error("Save() of non-image data should error")
	}
}

func TestSealOpenBlob(t *testing.T) {
	passphrase := []byte("correct horse battery staple")
	plaintext := []byte(`[{"id":"a"}]`)

	sealed, err := sealBlob(passphrase, plaintext)
	if err != nil {
		t.Fatalf("sealBlob() error = %v", err)
	}
	if bytes.Contains(sealed, plaintext) {
		t.Error("sealed blob must not contain plaintext")
	}

	got, err := openBlob(passphrase, sealed)
	if err != nil {
		t.Fatalf("openBlob() error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("openBlob() = %q, want %q", got, plaintext)
	}

	if _, err := openBlob([]byte("wrong"), sealed); err != ErrCannotUnseal {
		t.Errorf("openBlob(wrong passphrase) = %v, want ErrCannotUnseal", err)
	}

	sealed[len(sealed)-1] ^= 0xFF
	if _, err := openBlob(passphrase, sealed); err != ErrCannotUnseal {
		t.Errorf("openBlob(tampered) = %v, want ErrCannotUnseal", err)
	}

	if _, err := openBlob(passphrase, []byte("short")); err != ErrSealedCorrupt {
		t.Errorf("openBlob(short) = %v, want ErrSealedCorrupt", err)
	}
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")
	passphrase := []byte("test passphrase")

	store, err := OpenBoltStore(path, passphrase)
	if err != nil {
		t.Fatalf("OpenBoltStore() error = %v", err)
	}

	if _, err := store.Get(Service, Account); err != ErrBlobNotFound {
		t.Errorf("Get(missing) = %v, want ErrBlobNotFound", err)
	}

	blob := []byte(`[{"id":"a","code":"12345678"}]`)
	if err := store.Set(Service, Account, blob); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(Service, Account)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("Get() = %q, want %q", got, blob)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// The on-disk file must not leak the plaintext blob.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if bytes.Contains(raw, []byte("12345678")) {
		t.Error("store file contains plaintext setup code")
	}

	// Reopen with the wrong passphrase: the blob must not unseal.
	wrong, err := OpenBoltStore(path, []byte("other"))
	if err != nil {
		t.Fatalf("OpenBoltStore(reopen) error = %v", err)
	}
	defer wrong.Close()
	if _, err := wrong.Get(Service, Account); err != ErrCannotUnseal {
		t.Errorf("Get(wrong passphrase) = %v, want ErrCannotUnseal", err)
	}
}

func TestVaultTimestampMonotonicity(t *testing.T) {
	v := New(NewMemoryStore(), nil)

	saved, err := v.Save(testRecord("Lamp", "12345678"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	updated, err := v.Save(saved)
	if err != nil {
		t.Fatalf("Save() replace error = %v", err)
	}

	if !updated.UpdatedAt.After(saved.UpdatedAt) {
		t.Error("replace should refresh UpdatedAt")
	}
	if updated.CreatedAt != saved.CreatedAt {
		t.Error("replace should preserve CreatedAt")
	}
}
