package encryption

import (
	"unicode/utf8"

	apperrors "github.com/hybrid-cipher-go/internal/errors"
)

// EncType names a registered scheme
type EncType string

const (
	EncTypeHybrid   EncType = "hybrid"
	EncTypeAdditive EncType = "additive"
	EncTypeColumnar EncType = "columnar"
)

// Algorithm returns the cipher algorithm name
func (h *Hybrid) Algorithm() string {
	return "ADDITIVE-256+COLUMNAR"
}

// BlockSize returns the transposition column count
func (h *Hybrid) BlockSize() int {
	return len(h.keys.Permutation)
}

// additiveScheme runs only the stream stage
type additiveScheme struct {
	key []byte
}

func newAdditiveScheme(keys KeySet) (*additiveScheme, error) {
	if len(keys.StreamKey) == 0 {
		return nil, apperrors.NewInvalidKey("stream key is empty")
	}
	return &additiveScheme{key: keys.StreamKey}, nil
}

func (s *additiveScheme) Algorithm() string { return "ADDITIVE-256" }

func (s *additiveScheme) BlockSize() int { return 1 }

func (s *additiveScheme) Encrypt(plaintext string) ([]byte, error) {
	return AdditiveEncrypt([]byte(plaintext), s.key)
}

func (s *additiveScheme) Decrypt(ciphertext []byte) (string, error) {
	plain, err := AdditiveDecrypt(ciphertext, s.key)
	if err != nil {
		return "", err
	}
	return decodeText(plain)
}

// columnarScheme runs only the transposition stage
type columnarScheme struct {
	perm Permutation
}

func newColumnarScheme(keys KeySet) (*columnarScheme, error) {
	if err := keys.Permutation.Validate(); err != nil {
		return nil, err
	}
	return &columnarScheme{perm: keys.Permutation}, nil
}

func (s *columnarScheme) Algorithm() string { return "COLUMNAR" }

func (s *columnarScheme) BlockSize() int { return len(s.perm) }

func (s *columnarScheme) Encrypt(plaintext string) ([]byte, error) {
	return TransposeEncrypt([]byte(plaintext), s.perm)
}

func (s *columnarScheme) Decrypt(ciphertext []byte) (string, error) {
	plain, err := TransposeDecrypt(ciphertext, s.perm)
	if err != nil {
		return "", err
	}
	return decodeText(plain)
}

func decodeText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", apperrors.NewInvalidEncoding("decrypted bytes are not valid UTF-8")
	}
	return string(b), nil
}
