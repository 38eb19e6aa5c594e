package encryption

import (
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/hybrid-cipher-go/internal/errors"
)

// SchemeFactory creates a scheme bound to a key set
type SchemeFactory func(keys KeySet) (Scheme, error)

// registry holds registered scheme factories
var (
	registryMu sync.RWMutex
	registry   = make(map[EncType]SchemeFactory)
)

func init() {
	Register(EncTypeHybrid, func(keys KeySet) (Scheme, error) {
		return NewHybrid(keys)
	})
	Register(EncTypeAdditive, func(keys KeySet) (Scheme, error) {
		return newAdditiveScheme(keys)
	})
	Register(EncTypeColumnar, func(keys KeySet) (Scheme, error) {
		return newColumnarScheme(keys)
	})
}

// Register adds a scheme factory to the registry
func Register(encType EncType, factory SchemeFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[encType] = factory
}

// NewScheme creates a scheme using the registry. Empty type means hybrid.
func NewScheme(encType EncType, keys KeySet) (Scheme, error) {
	if encType == "" {
		encType = EncTypeHybrid
	}

	registryMu.RLock()
	factory, ok := registry[encType]
	registryMu.RUnlock()

	if !ok {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("unsupported encryption type: %s", encType))
	}
	return factory(keys)
}

// ListRegistered returns all registered scheme types, sorted
func ListRegistered() []EncType {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]EncType, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// IsRegistered checks if an encryption type is registered
func IsRegistered(encType EncType) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[encType]
	return ok
}
