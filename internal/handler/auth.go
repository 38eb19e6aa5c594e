package handler

import (
	stderrors "errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/hybrid-cipher-go/internal/auth"
	"github.com/hybrid-cipher-go/internal/dao"
	"github.com/hybrid-cipher-go/internal/errors"
	"github.com/hybrid-cipher-go/internal/trace"
)

// AuthHandler handles /api/login and /api/password
type AuthHandler struct {
	jwtAuth *auth.JWTAuth
	userDAO *dao.UserDAO
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtAuth *auth.JWTAuth, userDAO *dao.UserDAO) *AuthHandler {
	return &AuthHandler{jwtAuth: jwtAuth, userDAO: userDAO}
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login validates credentials and issues a JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	if err := h.userDAO.Validate(req.Username, req.Password); err != nil {
		if stderrors.Is(err, dao.ErrUserNotFound) || stderrors.Is(err, dao.ErrInvalidPassword) {
			RespondError(c, errors.NewUnauthorized("invalid username or password"))
			return
		}
		RespondError(c, errors.NewStorageErrorWithCause("failed to load user", err))
		return
	}

	token, err := h.jwtAuth.GenerateToken(req.Username)
	if err != nil {
		RespondError(c, errors.NewInternalWithCause("failed to sign token", err))
		return
	}

	logger := trace.Logger(c.Request.Context())
	logger.Info().Str("username", req.Username).Msg("User logged in")

	RespondSuccess(c, gin.H{
		"username": req.Username,
		"token":    token,
	})
}

// ChangePasswordRequest is the body of POST /api/password
type ChangePasswordRequest struct {
	Password    string `json:"password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword replaces the caller's password after checking the current one
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	username := c.GetString(UsernameKey)
	if username == "" {
		RespondError(c, errors.NewUnauthorized("authentication required"))
		return
	}

	var req ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}
	if len(req.NewPassword) < dao.MinPasswordLength {
		RespondError(c, errors.NewBadRequest(fmt.Sprintf("new password must be at least %d characters", dao.MinPasswordLength)))
		return
	}

	if err := h.userDAO.Validate(username, req.Password); err != nil {
		if stderrors.Is(err, dao.ErrUserNotFound) || stderrors.Is(err, dao.ErrInvalidPassword) {
			RespondError(c, errors.NewUnauthorized("invalid password"))
			return
		}
		RespondError(c, errors.NewStorageErrorWithCause("failed to load user", err))
		return
	}
	if err := h.userDAO.UpdatePassword(username, req.NewPassword); err != nil {
		RespondError(c, errors.NewStorageErrorWithCause("failed to update password", err))
		return
	}

	logger := trace.Logger(c.Request.Context())
	logger.Info().Str("username", username).Msg("Password changed")
	RespondSuccessMsg(c, "password updated")
}
