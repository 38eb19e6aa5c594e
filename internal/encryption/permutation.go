package encryption

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand/v2"

	apperrors "github.com/hybrid-cipher-go/internal/errors"
)

const (
	// StreamKeySize is the length of generated additive stream keys
	StreamKeySize = 16
	// DefaultColumns is the demonstration column count (12! ~ 2^29 keys)
	DefaultColumns = 12
)

// Permutation is a columnar transposition key.
// Position i holds the source column written to output column i.
type Permutation []int

// IdentityPermutation returns 0, 1, ..., n-1
func IdentityPermutation(n int) Permutation {
	p := make(Permutation, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// ReversePermutation returns n-1, ..., 1, 0
func ReversePermutation(n int) Permutation {
	p := make(Permutation, n)
	for i := range p {
		p[i] = n - 1 - i
	}
	return p
}

// Columns returns the column count N
func (p Permutation) Columns() int {
	return len(p)
}

// Validate checks that p is a bijection on 0..N-1 with 1 <= N <= MaxBlockSize
func (p Permutation) Validate() error {
	n := len(p)
	if n == 0 {
		return apperrors.NewInvalidKey("permutation is empty")
	}
	if n > MaxBlockSize {
		return apperrors.NewInvalidKey("permutation has %d columns, max %d", n, MaxBlockSize)
	}
	seen := make([]bool, n)
	for i, v := range p {
		if v < 0 || v >= n {
			return apperrors.NewInvalidKey("permutation[%d] = %d out of range 0..%d", i, v, n-1)
		}
		if seen[v] {
			return apperrors.NewInvalidKey("permutation repeats column %d", v)
		}
		seen[v] = true
	}
	return nil
}

// Inverse returns q with q[p[i]] = i. p must be valid.
func (p Permutation) Inverse() Permutation {
	inv := make(Permutation, len(p))
	for i, col := range p {
		inv[col] = i
	}
	return inv
}

// Equal reports whether p and q are the same permutation
func (p Permutation) Equal(q Permutation) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Shuffler supplies uniform integers in [0, n) for Fisher-Yates
type Shuffler interface {
	IntN(n int) int
}

// NewSeededShuffler returns a deterministic PCG-backed shuffler for tests
func NewSeededShuffler(seed uint64) Shuffler {
	return mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEntropyShuffler seeds a general-purpose PRNG with 8 bytes from r.
// The generator itself is not cryptographic, so the permutation space is
// bounded by the 64-bit seed. If r is nil, crypto/rand is used.
func NewEntropyShuffler(r io.Reader) (Shuffler, error) {
	if r == nil {
		r = rand.Reader
	}
	var seed [8]byte
	if _, err := io.ReadFull(r, seed[:]); err != nil {
		return nil, fmt.Errorf("failed to read shuffle seed: %w", err)
	}
	return NewSeededShuffler(binary.LittleEndian.Uint64(seed[:])), nil
}

// Shuffle permutes p in place with the Fisher-Yates algorithm
func Shuffle(p Permutation, s Shuffler) {
	for i := len(p) - 1; i > 0; i-- {
		j := s.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}

// GeneratePermutation returns a uniformly shuffled permutation of 0..n-1
func GeneratePermutation(n int, s Shuffler) (Permutation, error) {
	if n < 1 || n > MaxBlockSize {
		return nil, apperrors.NewInvalidKey("column count %d outside 1..%d", n, MaxBlockSize)
	}
	p := IdentityPermutation(n)
	Shuffle(p, s)
	return p, nil
}

// GenerateStreamKey reads StreamKeySize bytes from r, or from crypto/rand if r is nil
func GenerateStreamKey(r io.Reader) ([]byte, error) {
	return GenerateStreamKeyN(r, StreamKeySize)
}

// GenerateStreamKeyN is GenerateStreamKey with an explicit key length
func GenerateStreamKeyN(r io.Reader, size int) ([]byte, error) {
	if size < 1 {
		return nil, apperrors.NewInvalidKey("stream key size %d", size)
	}
	if r == nil {
		r = rand.Reader
	}
	key := make([]byte, size)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to read stream key: %w", err)
	}
	return key, nil
}
