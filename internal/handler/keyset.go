package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hybrid-cipher-go/internal/config"
	"github.com/hybrid-cipher-go/internal/dao"
	"github.com/hybrid-cipher-go/internal/encryption"
	"github.com/hybrid-cipher-go/internal/errors"
	"github.com/hybrid-cipher-go/internal/trace"
)

// KeySetHandler handles /api/keysets routes
type KeySetHandler struct {
	cfg    *config.CipherConfig
	keyDAO *dao.KeySetDAO
}

// NewKeySetHandler creates a new key set handler
func NewKeySetHandler(cfg *config.CipherConfig, keyDAO *dao.KeySetDAO) *KeySetHandler {
	return &KeySetHandler{cfg: cfg, keyDAO: keyDAO}
}

// CreateKeySetRequest is the body of POST /api/keysets. Zero Columns uses the configured default.
type CreateKeySetRequest struct {
	Name    string `json:"name" binding:"required"`
	Columns int    `json:"columns"`
}

// Create generates a fresh key set and stores it under the given name
func (h *KeySetHandler) Create(c *gin.Context) {
	var req CreateKeySetRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	columns := req.Columns
	if columns == 0 {
		columns = h.cfg.Columns
	}
	keys, err := encryption.KeyGenerator{Columns: columns, KeySize: h.cfg.KeySize}.Generate()
	if err != nil {
		RespondError(c, err)
		return
	}

	record, err := h.keyDAO.Save(req.Name, keys)
	if err != nil {
		RespondError(c, err)
		return
	}

	logger := trace.Logger(c.Request.Context())
	logger.Info().
		Str("name", record.Name).
		Int("columns", columns).
		Str("user", c.GetString(UsernameKey)).
		Msg("Key set created")
	RespondSuccess(c, record)
}

// List returns the names of all stored key sets
func (h *KeySetHandler) List(c *gin.Context) {
	names, err := h.keyDAO.List()
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"names": names})
}

// Get returns one stored key set
func (h *KeySetHandler) Get(c *gin.Context) {
	record, err := h.keyDAO.Get(c.Param("name"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, record)
}

// Delete removes a stored key set
func (h *KeySetHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := dao.ValidateName(name); err != nil {
		RespondError(c, err)
		return
	}
	if err := h.keyDAO.Delete(name); err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccessMsg(c, "deleted")
}

// resolveKeys picks the named key set or the inline keys; exactly one must be given
func resolveKeys(keyDAO *dao.KeySetDAO, name string, inline *encryption.KeySet) (encryption.KeySet, error) {
	switch {
	case name != "" && inline != nil:
		return encryption.KeySet{}, errors.NewBadRequest("key_set and keys are mutually exclusive")
	case name != "":
		return keyDAO.Keys(name)
	case inline != nil:
		return *inline, nil
	default:
		return encryption.KeySet{}, errors.NewBadRequest("one of key_set or keys is required")
	}
}
