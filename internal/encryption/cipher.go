package encryption

import "io"

// CipherInfo provides metadata about a cipher
type CipherInfo interface {
	// Algorithm returns the cipher algorithm name
	Algorithm() string
	// BlockSize returns the unit the cipher aligns output to
	BlockSize() int
}

// SeekableStream is a positioned in-place byte stream transform
type SeekableStream interface {
	CipherInfo
	// SetPosition sets the stream position for seeking
	SetPosition(position int64) error
	// Position returns the current stream position
	Position() int64
	// Encrypt encrypts data in place
	Encrypt(data []byte)
	// Decrypt decrypts data in place
	Decrypt(data []byte)
	// EncryptReader wraps a reader with encryption
	EncryptReader(r io.Reader) io.Reader
	// DecryptReader wraps a reader with decryption
	DecryptReader(r io.Reader) io.Reader
}

// Scheme is a text cipher bound to its key material
type Scheme interface {
	CipherInfo
	// Encrypt encrypts UTF-8 text to raw ciphertext
	Encrypt(plaintext string) ([]byte, error)
	// Decrypt recovers UTF-8 text from raw ciphertext
	Decrypt(ciphertext []byte) (string, error)
}

var (
	_ SeekableStream = (*Additive)(nil)
	_ Scheme         = (*Hybrid)(nil)
	_ Scheme         = (*additiveScheme)(nil)
	_ Scheme         = (*columnarScheme)(nil)
)
