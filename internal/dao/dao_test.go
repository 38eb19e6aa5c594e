package dao

import (
	"errors"
	"testing"
	"time"

	"github.com/hybrid-cipher-go/internal/cache"
	"github.com/hybrid-cipher-go/internal/encryption"
	apperrors "github.com/hybrid-cipher-go/internal/errors"
	"github.com/hybrid-cipher-go/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testKeys(t *testing.T, columns int) encryption.KeySet {
	t.Helper()
	keys, err := encryption.GenerateKeySet(columns, nil, encryption.NewSeededShuffler(uint64(columns)))
	if err != nil {
		t.Fatalf("GenerateKeySet error: %v", err)
	}
	return keys
}

func TestKeySetDAOSaveGet(t *testing.T) {
	for _, withCache := range []bool{false, true} {
		var c *cache.Cache
		if withCache {
			c = cache.NewCache(time.Minute, 16)
			defer c.Close()
		}
		d := NewKeySetDAO(newTestStore(t), c)

		keys := testKeys(t, 12)
		if _, err := d.Save("demo", keys); err != nil {
			t.Fatalf("Save error: %v", err)
		}

		got, err := d.Keys("demo")
		if err != nil {
			t.Fatalf("Keys error: %v", err)
		}
		if got.StreamKeyHex() != keys.StreamKeyHex() || !got.Permutation.Equal(keys.Permutation) {
			t.Errorf("cache=%v: Keys = %v, want %v", withCache, got, keys)
		}

		// replacing must not serve the stale cached copy
		replaced := testKeys(t, 5)
		if _, err := d.Save("demo", replaced); err != nil {
			t.Fatalf("Save error: %v", err)
		}
		got, _ = d.Keys("demo")
		if !got.Permutation.Equal(replaced.Permutation) {
			t.Errorf("cache=%v: stale key set after replace", withCache)
		}
	}
}

func TestKeySetDAONotFound(t *testing.T) {
	d := NewKeySetDAO(newTestStore(t), nil)

	if _, err := d.Get("missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Get error = %v, want not found", err)
	}
	if err := d.Delete("missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Delete error = %v, want not found", err)
	}
}

func TestKeySetDAOListDelete(t *testing.T) {
	d := NewKeySetDAO(newTestStore(t), nil)
	for _, name := range []string{"beta", "alpha"} {
		if _, err := d.Save(name, testKeys(t, 4)); err != nil {
			t.Fatalf("Save(%s) error: %v", name, err)
		}
	}

	names, err := d.List()
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" {
		t.Errorf("List = %v", names)
	}

	if err := d.Delete("alpha"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	names, _ = d.List()
	if len(names) != 1 || names[0] != "beta" {
		t.Errorf("List after delete = %v", names)
	}
}

func TestKeySetDAOValidation(t *testing.T) {
	d := NewKeySetDAO(newTestStore(t), nil)

	for _, name := range []string{"", "../etc", "has space", "-leading"} {
		if _, err := d.Save(name, testKeys(t, 3)); err == nil {
			t.Errorf("Save(%q) should fail", name)
		}
	}

	bad := encryption.KeySet{StreamKey: []byte{1}, Permutation: encryption.Permutation{0, 0}}
	if _, err := d.Save("bad", bad); !errors.Is(err, apperrors.ErrInvalidKey) {
		t.Errorf("Save(invalid keys) error = %v, want InvalidKey", err)
	}
}

func TestUserDAO(t *testing.T) {
	d := NewUserDAO(newTestStore(t))
	d.cost = 4 // bcrypt.MinCost keeps the test fast

	if err := d.EnsureDefaultUser(); err != nil {
		t.Fatalf("EnsureDefaultUser error: %v", err)
	}
	if err := d.EnsureDefaultUser(); err != nil {
		t.Fatalf("EnsureDefaultUser second call error: %v", err)
	}
	if err := d.Validate("admin", "admin"); err != nil {
		t.Errorf("Validate(admin) error: %v", err)
	}
	if err := d.Validate("admin", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Validate(wrong) error = %v, want ErrInvalidPassword", err)
	}
	if err := d.Validate("ghost", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Validate(ghost) error = %v, want ErrUserNotFound", err)
	}
	if err := d.Create("admin", "x"); !errors.Is(err, ErrUserExists) {
		t.Errorf("Create(admin) error = %v, want ErrUserExists", err)
	}

	if err := d.UpdatePassword("admin", "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("UpdatePassword(short) error = %v, want ErrPasswordTooShort", err)
	}
	if err := d.UpdatePassword("ghost", "long-enough"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdatePassword(ghost) error = %v, want ErrUserNotFound", err)
	}
	if err := d.UpdatePassword("admin", "new-password"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
	if err := d.Validate("admin", "new-password"); err != nil {
		t.Errorf("Validate(new) error: %v", err)
	}

	if err := d.Delete("admin"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := d.Get("admin"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Get after delete error = %v", err)
	}
	if err := d.Delete("admin"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second Delete error = %v, want ErrUserNotFound", err)
	}
}
