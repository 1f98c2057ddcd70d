package handler

import (
	"net/http"

	"github.com/classmark/gradebook/internal/middleware"
	"github.com/classmark/gradebook/internal/model"
	"github.com/classmark/gradebook/internal/response"
	"github.com/classmark/gradebook/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssignmentHandler handles a teacher's assignment and grading endpoints.
type AssignmentHandler struct {
	assignmentService assignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService assignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// ListAssignments godoc
// GET /api/v1/teacher/assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.assignmentService.ListMine(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// CreateAssignment godoc
// POST /api/v1/teacher/assignments
// Issues an assignment to the current roster of className.
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var def model.AssignmentDef
	if fields := validator.Bind(c, &def); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	a, err := h.assignmentService.Create(c.Request.Context(), middleware.GetPrincipal(c), def)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assignment": a})
}

// GetAssignment godoc
// GET /api/v1/teacher/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.assignmentService.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": a})
}

// UpdateAssignment godoc
// PUT /api/v1/teacher/assignments/:id
// Changes top-level fields only; grading entries are untouched except for
// grade recomputation when points change.
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	a, err := h.assignmentService.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": a})
}

// DeleteAssignment godoc
// DELETE /api/v1/teacher/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.assignmentService.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// AppendStudents godoc
// POST /api/v1/teacher/assignments/:id/students
// Adds ungraded entries for students not yet on the assignment.
func (h *AssignmentHandler) AppendStudents(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.AppendStudentsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	a, err := h.assignmentService.AppendStudents(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": a})
}

// RecordGrade godoc
// PUT /api/v1/teacher/assignments/:id/grades/:student_id
// Sets one student's points earned and optional comments.
func (h *AssignmentHandler) RecordGrade(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.RecordGradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	entry, err := h.assignmentService.RecordGrade(c.Request.Context(), middleware.GetPrincipal(c), id, c.Param("student_id"), req)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"gradingEntry": entry})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
