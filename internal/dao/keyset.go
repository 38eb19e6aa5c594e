package dao

import (
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hybrid-cipher-go/internal/cache"
	"github.com/hybrid-cipher-go/internal/encryption"
	apperrors "github.com/hybrid-cipher-go/internal/errors"
	"github.com/hybrid-cipher-go/internal/storage"
)

var keySetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// KeySetRecord is a named key set as persisted
type KeySetRecord struct {
	Name      string            `json:"name"`
	Keys      encryption.KeySet `json:"keys"`
	CreatedAt time.Time         `json:"created_at"`
}

// KeySetDAO handles key set data access
type KeySetDAO struct {
	store *storage.Store
	cache *cache.Cache
}

// NewKeySetDAO creates a key set DAO. c may be nil to disable caching.
func NewKeySetDAO(store *storage.Store, c *cache.Cache) *KeySetDAO {
	return &KeySetDAO{store: store, cache: c}
}

// ValidateName checks a key set name
func ValidateName(name string) error {
	if !keySetNamePattern.MatchString(name) {
		return apperrors.NewBadRequest(fmt.Sprintf("invalid key set name %q", name))
	}
	return nil
}

// Save stores keys under name, replacing any existing record
func (d *KeySetDAO) Save(name string, keys encryption.KeySet) (*KeySetRecord, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := keys.Validate(); err != nil {
		return nil, err
	}

	record := &KeySetRecord{
		Name:      name,
		Keys:      keys,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.store.SetJSON(storage.BucketKeySets, name, record); err != nil {
		return nil, apperrors.NewStorageErrorWithCause("failed to save key set", err)
	}
	if d.cache != nil {
		d.cache.Delete(name)
	}

	log.Debug().Str("name", name).Int("columns", keys.Permutation.Columns()).Msg("Key set saved")
	return record, nil
}

// Get retrieves a key set record by name
func (d *KeySetDAO) Get(name string) (*KeySetRecord, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if d.cache == nil {
		return d.load(name)
	}

	v, err := d.cache.GetOrLoad(name, func() (interface{}, error) {
		return d.load(name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*KeySetRecord), nil
}

func (d *KeySetDAO) load(name string) (*KeySetRecord, error) {
	var record KeySetRecord
	found, err := d.store.GetJSON(storage.BucketKeySets, name, &record)
	if err != nil {
		if appErr, ok := apperrors.As(err); ok {
			// stored record failed key validation
			return nil, appErr
		}
		return nil, apperrors.NewStorageErrorWithCause("failed to load key set", err)
	}
	if !found {
		return nil, apperrors.NewNotFound(fmt.Sprintf("key set %q not found", name))
	}
	return &record, nil
}

// Keys returns the stored key set for name
func (d *KeySetDAO) Keys(name string) (encryption.KeySet, error) {
	record, err := d.Get(name)
	if err != nil {
		return encryption.KeySet{}, err
	}
	return record.Keys, nil
}

// List returns all key set names, sorted
func (d *KeySetDAO) List() ([]string, error) {
	names, err := d.store.Keys(storage.BucketKeySets)
	if err != nil {
		return nil, apperrors.NewStorageErrorWithCause("failed to list key sets", err)
	}
	return names, nil
}

// Delete removes a key set; missing names are reported as not found
func (d *KeySetDAO) Delete(name string) error {
	found, err := d.store.Delete(storage.BucketKeySets, name)
	if err != nil {
		return apperrors.NewStorageErrorWithCause("failed to delete key set", err)
	}
	if !found {
		return apperrors.NewNotFound(fmt.Sprintf("key set %q not found", name))
	}
	if d.cache != nil {
		d.cache.Delete(name)
	}
	log.Debug().Str("name", name).Msg("Key set deleted")
	return nil
}
