package handler

import (
	"encoding/hex"

	"github.com/gin-gonic/gin"

	"github.com/hybrid-cipher-go/internal/config"
	"github.com/hybrid-cipher-go/internal/dao"
	"github.com/hybrid-cipher-go/internal/encryption"
	"github.com/hybrid-cipher-go/internal/errors"
	"github.com/hybrid-cipher-go/internal/trace"
)

// CipherHandler handles /api/encrypt and /api/decrypt
type CipherHandler struct {
	cfg    *config.CipherConfig
	keyDAO *dao.KeySetDAO
}

// NewCipherHandler creates a new cipher handler
func NewCipherHandler(cfg *config.CipherConfig, keyDAO *dao.KeySetDAO) *CipherHandler {
	return &CipherHandler{cfg: cfg, keyDAO: keyDAO}
}

// EncryptRequest is the body of POST /api/encrypt
type EncryptRequest struct {
	KeySet    string             `json:"key_set"`
	Keys      *encryption.KeySet `json:"keys"`
	Plaintext string             `json:"plaintext"`
	Type      string             `json:"type"`
}

// DecryptRequest is the body of POST /api/decrypt. Ciphertext is hex.
type DecryptRequest struct {
	KeySet     string             `json:"key_set"`
	Keys       *encryption.KeySet `json:"keys"`
	Ciphertext string             `json:"ciphertext"`
	Type       string             `json:"type"`
}

func (h *CipherHandler) scheme(encType, name string, inline *encryption.KeySet) (encryption.Scheme, error) {
	keys, err := resolveKeys(h.keyDAO, name, inline)
	if err != nil {
		return nil, err
	}
	if encType == "" {
		encType = h.cfg.DefaultType
	}
	return encryption.NewScheme(encryption.EncType(encType), keys)
}

// Encrypt encrypts plaintext and returns hex ciphertext
func (h *CipherHandler) Encrypt(c *gin.Context) {
	var req EncryptRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	s, err := h.scheme(req.Type, req.KeySet, req.Keys)
	if err != nil {
		RespondError(c, err)
		return
	}

	ciphertext, err := s.Encrypt(req.Plaintext)
	if err != nil {
		RespondError(c, err)
		return
	}

	logger := trace.Logger(c.Request.Context())
	logger.Debug().Str("algorithm", s.Algorithm()).Int("bytes", len(ciphertext)).Msg("Encrypted")

	RespondSuccess(c, gin.H{
		"algorithm":  s.Algorithm(),
		"ciphertext": hex.EncodeToString(ciphertext),
	})
}

// Decrypt decrypts hex ciphertext and returns the plaintext
func (h *CipherHandler) Decrypt(c *gin.Context) {
	var req DecryptRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	ciphertext, err := hex.DecodeString(req.Ciphertext)
	if err != nil {
		RespondError(c, errors.NewBadRequestWithCause("ciphertext must be hex encoded", err))
		return
	}

	s, err := h.scheme(req.Type, req.KeySet, req.Keys)
	if err != nil {
		RespondError(c, err)
		return
	}

	plaintext, err := s.Decrypt(ciphertext)
	if err != nil {
		RespondError(c, err)
		return
	}

	RespondSuccess(c, gin.H{
		"algorithm": s.Algorithm(),
		"plaintext": plaintext,
	})
}
