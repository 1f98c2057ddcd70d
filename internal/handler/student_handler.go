package handler

import (
	"net/http"

	"github.com/classmark/gradebook/internal/middleware"
	"github.com/classmark/gradebook/internal/response"
	"github.com/gin-gonic/gin"
)

// StudentHandler serves the student's own gradebook.
type StudentHandler struct {
	gradebookService gradebookService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(gradebookService gradebookService) *StudentHandler {
	return &StudentHandler{gradebookService: gradebookService}
}

// GetAssignments godoc
// GET /api/v1/student/assignments
// Returns {relevant, grades} for the authenticated student.
func (h *StudentHandler) GetAssignments(c *gin.Context) {
	gb, err := h.gradebookService.ForStudent(c.Request.Context(), middleware.GetPrincipal(c).Username)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gb)
}
