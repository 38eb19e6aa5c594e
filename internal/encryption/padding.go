package encryption

import (
	apperrors "github.com/hybrid-cipher-go/internal/errors"
)

// MaxBlockSize is the largest block a one-byte padding trailer can describe
const MaxBlockSize = 255

// Pad appends PKCS#7 padding so len(result) is a multiple of blockSize.
// Between 1 and blockSize bytes are always added, each holding the pad length.
func Pad(data []byte, blockSize int) ([]byte, error) {
	if blockSize < 1 || blockSize > MaxBlockSize {
		return nil, apperrors.NewInvalidLength("block size %d outside 1..%d", blockSize, MaxBlockSize)
	}

	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded, nil
}

// Unpad strips PKCS#7 padding produced by Pad.
// The returned slice aliases padded.
func Unpad(padded []byte) ([]byte, error) {
	length := len(padded)
	if length == 0 {
		return nil, apperrors.NewInvalidPadding("empty input")
	}

	padLen := int(padded[length-1])
	if padLen < 1 || padLen > length {
		return nil, apperrors.NewInvalidPadding("trailer %d out of range for %d bytes", padLen, length)
	}

	for i := length - padLen; i < length; i++ {
		if padded[i] != byte(padLen) {
			return nil, apperrors.NewInvalidPadding("byte %d is %d, want %d", i, padded[i], padLen)
		}
	}

	return padded[:length-padLen], nil
}
