package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadsys/acadsys-backend/internal/model"
	"github.com/acadsys/acadsys-backend/internal/response"
	"github.com/acadsys/acadsys-backend/internal/service"
	"github.com/acadsys/acadsys-backend/internal/validator"
)

type ClassSectionHandler struct {
	classroomService *service.ClassroomService
}

func NewClassSectionHandler(classroomService *service.ClassroomService) *ClassSectionHandler {
	return &ClassSectionHandler{classroomService: classroomService}
}

// List godoc
// GET /api/v1/turmas
// Sections are returned with their discipline and room names resolved from
// the freshly loaded caches; dangling keys resolve to fallback labels.
func (h *ClassSectionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.classroomService.LoadAll(ctx); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"turmas": h.classroomService.SectionViews()})
}

// Create godoc
// POST /api/v1/turmas
// disciplina_id and sala_id are accepted as-is — no existence check; the
// selection lists on the form are the only guard against dangling keys.
func (h *ClassSectionHandler) Create(c *gin.Context) {
	var req model.ClassSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.classroomService.CreateSection(c.Request.Context(), model.ClassSection{
		SectionCode:   req.SectionCode,
		DisciplineKey: req.DisciplineKey,
		Instructor:    req.Instructor,
		TermHalf:      req.TermHalf,
		Year:          req.Year,
		TimeSlots:     req.TimeSlots,
		RoomKey:       req.RoomKey,
		CapacityTotal: req.CapacityTotal,
		CapacityUsed:  *req.CapacityUsed,
		Active:        *req.Active,
		Notes:         req.Notes,
	})
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"turma": created})
}

// Update godoc
// PUT /api/v1/turmas/:id
func (h *ClassSectionHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req model.ClassSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.classroomService.UpdateSection(c.Request.Context(), id, req); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "turma atualizada"})
}

// Delete godoc
// DELETE /api/v1/turmas/:id
func (h *ClassSectionHandler) Delete(c *gin.Context) {
	if err := h.classroomService.DeleteSection(c.Request.Context(), c.Param("id")); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "turma removida"})
}
