package model

import (
	"time"

	"github.com/google/uuid"
)

// DayDate is a calendar date paired with its weekday (0 = Sunday).
type DayDate struct {
	Weekday int    `json:"weekday" binding:"min=0,max=6"`
	Date    string `json:"date" binding:"required,max=32"`
}

// GradingEntry is one student's record inside a single assignment.
// A nil PointsEarned means the work has not been graded yet.
type GradingEntry struct {
	StudentID    string   `json:"studentId"`
	PointsEarned *float64 `json:"pointsEarned"`
	Comments     string   `json:"comments"`
	Grade        *float64 `json:"grade"`
}

// Graded reports whether points have been recorded for the entry.
func (e GradingEntry) Graded() bool {
	return e.PointsEarned != nil
}

// Assignment is a piece of work issued to every student of a class.
type Assignment struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Subject        string         `json:"subject"`
	Teacher        string         `json:"teacher"`
	ClassID        *uuid.UUID     `json:"classId,omitempty"`
	ClassName      string         `json:"className"`
	Points         float64        `json:"points"`
	Goals          string         `json:"goals"`
	Instructions   string         `json:"instructions"`
	AssignDate     DayDate        `json:"assignDate"`
	DueDate        DayDate        `json:"dueDate"`
	GradingEntries []GradingEntry `json:"gradingEntries"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// EntryFor returns the grading entry for studentID, if any.
func (a *Assignment) EntryFor(studentID string) (GradingEntry, bool) {
	for _, e := range a.GradingEntries {
		if e.StudentID == studentID {
			return e, true
		}
	}
	return GradingEntry{}, false
}

// AssignmentDef is the teacher-supplied definition of a new assignment.
// The owning teacher is never part of the definition.
type AssignmentDef struct {
	Title        string  `json:"title" binding:"required,min=1,max=255"`
	Subject      string  `json:"subject" binding:"required,min=1,max=100"`
	ClassName    string  `json:"className" binding:"required,min=1,max=100"`
	Points       float64 `json:"points" binding:"required"`
	Goals        string  `json:"goals" binding:"required,max=5000"`
	Instructions string  `json:"instructions" binding:"required,max=10000"`
	AssignDate   DayDate `json:"assignDate" binding:"required"`
	DueDate      DayDate `json:"dueDate" binding:"required"`
}

// UpdateAssignmentRequest changes top-level assignment fields. Grading entries
// are never replaced through this path.
type UpdateAssignmentRequest struct {
	Title        *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Subject      *string  `json:"subject" binding:"omitempty,min=1,max=100"`
	ClassName    *string  `json:"className" binding:"omitempty,min=1,max=100"`
	Points       *float64 `json:"points" binding:"omitempty,gt=0"`
	Goals        *string  `json:"goals" binding:"omitempty,max=5000"`
	Instructions *string  `json:"instructions" binding:"omitempty,max=10000"`
	AssignDate   *DayDate `json:"assignDate" binding:"omitempty"`
	DueDate      *DayDate `json:"dueDate" binding:"omitempty"`
}

// Empty reports whether the request changes nothing.
func (r UpdateAssignmentRequest) Empty() bool {
	return r.Title == nil && r.Subject == nil && r.ClassName == nil && r.Points == nil &&
		r.Goals == nil && r.Instructions == nil && r.AssignDate == nil && r.DueDate == nil
}

// RecordGradeRequest sets one student's points and, optionally, comments.
type RecordGradeRequest struct {
	PointsEarned *float64 `json:"pointsEarned" binding:"required,min=0"`
	Comments     *string  `json:"comments" binding:"omitempty,max=2000"`
}

// GradeWrite is one student's grade as persisted. A nil Comments leaves the
// stored comments alone.
type GradeWrite struct {
	StudentID    string
	PointsEarned float64
	Grade        float64
	Comments     *string
}

// AppendStudentsRequest adds grading entries for students missing from an assignment.
type AppendStudentsRequest struct {
	StudentIDs []string `json:"studentIds" binding:"required,min=1,max=500,dive,required,max=64"`
}

// StudentAssignmentView is an assignment as seen by one student: metadata plus
// that student's own entry and nothing from anyone else's.
type StudentAssignmentView struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Subject      string    `json:"subject"`
	Teacher      string    `json:"teacher"`
	ClassName    string    `json:"className"`
	Points       float64   `json:"points"`
	Goals        string    `json:"goals"`
	Instructions string    `json:"instructions"`
	AssignDate   DayDate   `json:"assignDate"`
	DueDate      DayDate   `json:"dueDate"`
	PointsEarned *float64  `json:"pointsEarned"`
	Comments     string    `json:"comments"`
	Grade        *float64  `json:"grade"`
}

// ClassGrade is the per-class rollup for one student.
type ClassGrade struct {
	Assignments  int     `json:"assignments"`
	Points       float64 `json:"points"`
	PointsEarned float64 `json:"pointsEarned"`
}

// StudentGradebook is the student's full assignment history with per-class rollups.
type StudentGradebook struct {
	Relevant []StudentAssignmentView `json:"relevant"`
	Grades   map[string]ClassGrade   `json:"grades"`
}
