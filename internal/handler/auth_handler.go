package handler

import (
	"errors"
	"net/http"

	"github.com/classmark/gradebook/internal/middleware"
	"github.com/classmark/gradebook/internal/model"
	"github.com/classmark/gradebook/internal/response"
	"github.com/classmark/gradebook/internal/service"
	"github.com/classmark/gradebook/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	users   userService
	revoker tokenRevoker
	log     zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users userService, revoker tokenRevoker, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:   users,
		revoker: revoker,
		log:     log.With().Str("component", "auth_handler").Logger(),
	}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a teacher or student account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrAlreadyExists,
				map[string]string{"username": "username is already taken"})
			return
		}
		h.log.Error().Err(err).Msg("Failed to register user")
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// Login godoc
// POST /api/v1/auth/login
// Validates username + password and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	resp, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Refresh godoc
// POST /api/v1/auth/refresh
// Issues a fresh token and retires the one presented.
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	resp, err := h.users.Refresh(c.Request.Context(), claims)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.revoker.Revoke(c.Request.Context(), claims); err != nil {
		h.log.Error().Err(err).Str("username", claims.Username).Msg("Failed to revoke token")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStorage)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the caller's profile; teachers also get their classes.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.Profile(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}
