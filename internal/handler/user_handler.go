package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadsys/acadsys-backend/internal/model"
	"github.com/acadsys/acadsys-backend/internal/response"
	"github.com/acadsys/acadsys-backend/internal/service"
	"github.com/acadsys/acadsys-backend/internal/validator"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// GET /api/v1/admin/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		failStore(c, err)
		return
	}

	if users == nil {
		users = []model.User{}
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// Create godoc
// POST /api/v1/admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": created})
}

// Update godoc
// PUT /api/v1/admin/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req model.UpdateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.userService.Update(c.Request.Context(), id, req); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "usuário atualizado"})
}

// Delete godoc
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "usuário removido"})
}

// ToggleActive godoc
// POST /api/v1/admin/users/:id/toggle-active
func (h *UserHandler) ToggleActive(c *gin.Context) {
	active, err := h.userService.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ativo": active})
}

// Diagnostics godoc
// GET /api/v1/admin/diagnostics?handle=<login>
// Probes the user store: total record count plus an exact-match lookup of
// the optional handle.
func (h *UserHandler) Diagnostics(c *gin.Context) {
	report, err := h.userService.Diagnose(c.Request.Context(), c.Query("handle"))
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"diagnostics": report})
}
