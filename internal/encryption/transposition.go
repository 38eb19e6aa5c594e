package encryption

import (
	apperrors "github.com/hybrid-cipher-go/internal/errors"
)

// TransposeEncrypt pads data to a multiple of N = len(perm), lays it out
// row-major in an R x N matrix and emits column perm[i] top to bottom for
// each i in order.
func TransposeEncrypt(data []byte, perm Permutation) ([]byte, error) {
	if err := perm.Validate(); err != nil {
		return nil, err
	}

	cols := len(perm)
	padded, err := Pad(data, cols)
	if err != nil {
		return nil, err
	}
	rows := len(padded) / cols

	out := make([]byte, len(padded))
	for i, src := range perm {
		base := i * rows
		for row := 0; row < rows; row++ {
			out[base+row] = padded[row*cols+src]
		}
	}
	return out, nil
}

// TransposeDecrypt reverses TransposeEncrypt and strips the padding
func TransposeDecrypt(cipher []byte, perm Permutation) ([]byte, error) {
	if err := perm.Validate(); err != nil {
		return nil, err
	}

	cols := len(perm)
	if len(cipher)%cols != 0 {
		return nil, apperrors.NewInvalidLength("ciphertext length %d is not a multiple of %d columns", len(cipher), cols)
	}
	rows := len(cipher) / cols
	inverse := perm.Inverse()

	plain := make([]byte, len(cipher))
	for row := 0; row < rows; row++ {
		base := row * cols
		for c := 0; c < cols; c++ {
			plain[base+c] = cipher[inverse[c]*rows+row]
		}
	}
	return Unpad(plain)
}
