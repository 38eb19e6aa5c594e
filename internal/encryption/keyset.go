package encryption

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	apperrors "github.com/hybrid-cipher-go/internal/errors"
)

// KeySet pairs an additive stream key with a transposition permutation
type KeySet struct {
	StreamKey   []byte
	Permutation Permutation
}

type keySetJSON struct {
	StreamKey   string `json:"stream_key"`
	Permutation []int  `json:"permutation"`
}

// NewKeySet copies and validates key material
func NewKeySet(streamKey []byte, perm Permutation) (KeySet, error) {
	ks := KeySet{
		StreamKey:   append([]byte(nil), streamKey...),
		Permutation: append(Permutation(nil), perm...),
	}
	if err := ks.Validate(); err != nil {
		return KeySet{}, err
	}
	return ks, nil
}

// KeyGenerator produces key sets. Nil sources fall back to crypto/rand;
// the shuffle is then seeded from it with NewEntropyShuffler.
type KeyGenerator struct {
	Columns   int
	KeySize   int
	KeySource io.Reader
	Shuffler  Shuffler
}

// Generate draws a fresh stream key and shuffles a permutation
func (g KeyGenerator) Generate() (KeySet, error) {
	size := g.KeySize
	if size == 0 {
		size = StreamKeySize
	}
	key, err := GenerateStreamKeyN(g.KeySource, size)
	if err != nil {
		return KeySet{}, err
	}

	s := g.Shuffler
	if s == nil {
		if s, err = NewEntropyShuffler(g.KeySource); err != nil {
			return KeySet{}, err
		}
	}
	perm, err := GeneratePermutation(g.Columns, s)
	if err != nil {
		return KeySet{}, err
	}
	return KeySet{StreamKey: key, Permutation: perm}, nil
}

// GenerateKeySet generates a StreamKeySize key and a permutation of the given columns
func GenerateKeySet(columns int, keySource io.Reader, s Shuffler) (KeySet, error) {
	return KeyGenerator{Columns: columns, KeySource: keySource, Shuffler: s}.Generate()
}

// Validate checks both keys
func (k KeySet) Validate() error {
	if len(k.StreamKey) == 0 {
		return apperrors.NewInvalidKey("stream key is empty")
	}
	return k.Permutation.Validate()
}

// StreamKeyHex returns the stream key for display
func (k KeySet) StreamKeyHex() string {
	return hex.EncodeToString(k.StreamKey)
}

// MarshalJSON encodes the stream key as hex
func (k KeySet) MarshalJSON() ([]byte, error) {
	perm := k.Permutation
	if perm == nil {
		perm = Permutation{}
	}
	return json.Marshal(keySetJSON{
		StreamKey:   k.StreamKeyHex(),
		Permutation: perm,
	})
}

// UnmarshalJSON decodes and validates a key set
func (k *KeySet) UnmarshalJSON(data []byte) error {
	var raw keySetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	key, err := hex.DecodeString(raw.StreamKey)
	if err != nil {
		return apperrors.NewInvalidKey("stream key is not hex: %v", err)
	}
	ks := KeySet{StreamKey: key, Permutation: raw.Permutation}
	if err := ks.Validate(); err != nil {
		return err
	}
	*k = ks
	return nil
}

// String avoids printing the raw key bytes as a decimal slice
func (k KeySet) String() string {
	return fmt.Sprintf("KeySet{stream_key=%s, permutation=%v}", k.StreamKeyHex(), []int(k.Permutation))
}
