package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadsys/acadsys-backend/internal/middleware"
	"github.com/acadsys/acadsys-backend/internal/model"
	"github.com/acadsys/acadsys-backend/internal/response"
	"github.com/acadsys/acadsys-backend/internal/service"
	"github.com/acadsys/acadsys-backend/internal/validator"
)

type AuthHandler struct {
	sessionService *service.SessionService
	userService    *service.UserService
}

func NewAuthHandler(sessionService *service.SessionService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{sessionService: sessionService, userService: userService}
}

// Login godoc
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, token, err := h.sessionService.SignIn(c.Request.Context(), req.UserName, req.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
		return
	case errors.Is(err, service.ErrInvalidCredential):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	case errors.Is(err, service.ErrAccountDisabled):
		response.Fail(c, http.StatusForbidden, response.ErrAccountDisabled)
		return
	case err != nil:
		failStore(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":    token,
		"user":     user,
		"is_admin": user.IsAdmin(),
	})
}

// Logout godoc
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.sessionService.SignOut(c.Request.Context(), claims.ID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "sessão encerrada"})
}

// Me godoc
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":     user,
		"is_admin": user.IsAdmin(),
		"is_user":  user.IsUser(),
	})
}

// UpdateProfile godoc
// PUT /api/v1/auth/profile
// A password change signs the session out; the client must log in again.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	user, ok := middleware.GetUser(c)
	if claims == nil || !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	updated, passwordChanged, err := h.userService.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		failStore(c, err)
		return
	}

	ctx := c.Request.Context()
	if passwordChanged {
		if err := h.sessionService.SignOut(ctx, claims.ID); err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.Success(c, http.StatusOK, gin.H{
			"user":          updated,
			"reauth_needed": true,
			"message":       "Senha alterada. Faça login novamente.",
		})
		return
	}

	if err := h.sessionService.RefreshStoredUser(ctx, claims.ID, updated); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": updated, "reauth_needed": false})
}
