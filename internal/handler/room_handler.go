package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadsys/acadsys-backend/internal/model"
	"github.com/acadsys/acadsys-backend/internal/response"
	"github.com/acadsys/acadsys-backend/internal/service"
	"github.com/acadsys/acadsys-backend/internal/validator"
)

type RoomHandler struct {
	classroomService *service.ClassroomService
}

func NewRoomHandler(classroomService *service.ClassroomService) *RoomHandler {
	return &RoomHandler{classroomService: classroomService}
}

// List godoc
// GET /api/v1/salas
// Each request refreshes the snapshot before serving it, the way every
// page mount reloaded its collections in the legacy front end.
func (h *RoomHandler) List(c *gin.Context) {
	if err := h.classroomService.LoadRooms(c.Request.Context()); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"salas": h.classroomService.Rooms()})
}

// Create godoc
// POST /api/v1/salas
func (h *RoomHandler) Create(c *gin.Context) {
	var req model.RoomRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.classroomService.CreateRoom(c.Request.Context(), model.Room{
		Number:    req.Number,
		Name:      req.Name,
		Capacity:  req.Capacity,
		Kind:      req.Kind,
		Resources: req.Resources,
		Active:    *req.Active,
	})
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"sala": created})
}

// Update godoc
// PUT /api/v1/salas/:id
func (h *RoomHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req model.RoomRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.classroomService.UpdateRoom(c.Request.Context(), id, req); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "sala atualizada"})
}

// Delete godoc
// DELETE /api/v1/salas/:id
func (h *RoomHandler) Delete(c *gin.Context) {
	if err := h.classroomService.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "sala removida"})
}
