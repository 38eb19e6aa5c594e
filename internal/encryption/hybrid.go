package encryption

// HybridEncrypt UTF-8 encodes plaintext, applies the additive stream and
// then the columnar transposition.
func HybridEncrypt(plaintext string, streamKey []byte, perm Permutation) ([]byte, error) {
	substituted, err := AdditiveEncrypt([]byte(plaintext), streamKey)
	if err != nil {
		return nil, err
	}
	return TransposeEncrypt(substituted, perm)
}

// HybridDecrypt inverts HybridEncrypt. A wrong key usually surfaces as
// InvalidPadding or InvalidEncoding, but nothing guarantees it: there is
// no integrity check and garbage may decode as valid text.
func HybridDecrypt(ciphertext []byte, streamKey []byte, perm Permutation) (string, error) {
	transposed, err := TransposeDecrypt(ciphertext, perm)
	if err != nil {
		return "", err
	}
	plain, err := AdditiveDecrypt(transposed, streamKey)
	if err != nil {
		return "", err
	}
	return decodeText(plain)
}

// Hybrid binds a key set to the two-stage pipeline
type Hybrid struct {
	keys KeySet
}

// NewHybrid validates keys and returns a pipeline bound to them
func NewHybrid(keys KeySet) (*Hybrid, error) {
	if err := keys.Validate(); err != nil {
		return nil, err
	}
	return &Hybrid{keys: keys}, nil
}

// Encrypt encrypts text
func (h *Hybrid) Encrypt(plaintext string) ([]byte, error) {
	return HybridEncrypt(plaintext, h.keys.StreamKey, h.keys.Permutation)
}

// Decrypt decrypts to text
func (h *Hybrid) Decrypt(ciphertext []byte) (string, error) {
	return HybridDecrypt(ciphertext, h.keys.StreamKey, h.keys.Permutation)
}
