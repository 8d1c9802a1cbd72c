package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadsys/acadsys-backend/internal/model"
	"github.com/acadsys/acadsys-backend/internal/response"
	"github.com/acadsys/acadsys-backend/internal/service"
	"github.com/acadsys/acadsys-backend/internal/validator"
)

type DisciplineHandler struct {
	classroomService *service.ClassroomService
}

func NewDisciplineHandler(classroomService *service.ClassroomService) *DisciplineHandler {
	return &DisciplineHandler{classroomService: classroomService}
}

// List godoc
// GET /api/v1/disciplinas
func (h *DisciplineHandler) List(c *gin.Context) {
	if err := h.classroomService.LoadDisciplines(c.Request.Context()); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"disciplinas": h.classroomService.Disciplines()})
}

// Create godoc
// POST /api/v1/disciplinas
// Prerequisite codes are stored as given; nothing checks them against the
// catalog.
func (h *DisciplineHandler) Create(c *gin.Context) {
	var req model.DisciplineRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.classroomService.CreateDiscipline(c.Request.Context(), model.Discipline{
		Code:          req.Code,
		Name:          req.Name,
		WeeklyHours:   req.WeeklyHours,
		Department:    req.Department,
		Syllabus:      req.Syllabus,
		Prerequisites: req.Prerequisites,
		Credits:       req.Credits,
		Active:        *req.Active,
	})
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"disciplina": created})
}

// Update godoc
// PUT /api/v1/disciplinas/:id
func (h *DisciplineHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req model.DisciplineRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.classroomService.UpdateDiscipline(c.Request.Context(), id, req); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "disciplina atualizada"})
}

// Delete godoc
// DELETE /api/v1/disciplinas/:id
// Sections referencing the deleted code keep their dangling key and fall
// back to showing the raw code.
func (h *DisciplineHandler) Delete(c *gin.Context) {
	if err := h.classroomService.DeleteDiscipline(c.Request.Context(), c.Param("id")); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "disciplina removida"})
}
