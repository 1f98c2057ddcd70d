package handler

import (
	"net/http"

	"github.com/classmark/gradebook/internal/middleware"
	"github.com/classmark/gradebook/internal/model"
	"github.com/classmark/gradebook/internal/response"
	"github.com/classmark/gradebook/internal/validator"
	"github.com/gin-gonic/gin"
)

// ClassHandler handles a teacher's class and roster endpoints.
type ClassHandler struct {
	classService classService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService classService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListClasses godoc
// GET /api/v1/teacher/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classService.List(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// GetClass godoc
// GET /api/v1/teacher/classes/:name
func (h *ClassHandler) GetClass(c *gin.Context) {
	class, err := h.classService.Get(c.Request.Context(), middleware.GetPrincipal(c), c.Param("name"))
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// CreateClass godoc
// POST /api/v1/teacher/classes
// Creates a class; unknown or non-student ids in userIds are dropped.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// DeleteClass godoc
// DELETE /api/v1/teacher/classes/:name
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	if err := h.classService.Delete(c.Request.Context(), middleware.GetPrincipal(c), c.Param("name")); err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ModifyRoster godoc
// PATCH /api/v1/teacher/classes/:name/roster
// Applies addIds/removeIds to the roster. Existing assignments keep their entries.
func (h *ClassHandler) ModifyRoster(c *gin.Context) {
	var req model.ModifyRosterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.ModifyRoster(c.Request.Context(), middleware.GetPrincipal(c), c.Param("name"), req)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}
