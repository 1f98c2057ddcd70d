package service

import (
	"context"
	"fmt"

	"github.com/classmark/gradebook/internal/gradebook"
	"github.com/classmark/gradebook/internal/model"
	"github.com/google/uuid"
)

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	FindValidStudentIDs(ctx context.Context, ids []string) ([]string, error)
}

// ClassStore persists classes and their rosters.
type ClassStore interface {
	GetByName(ctx context.Context, teacher, name string) (*model.Class, error)
	ListByTeacher(ctx context.Context, teacher string) ([]model.Class, error)
	Create(ctx context.Context, c *model.Class) error
	UpdateRoster(ctx context.Context, classID uuid.UUID, added, removed []string) error
	Delete(ctx context.Context, teacher, name string) error
}

// AssignmentStore persists assignments. Every mutation is scoped to the
// fields or entries it changes.
type AssignmentStore interface {
	Create(ctx context.Context, a *model.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
	ListByTeacher(ctx context.Context, teacher string) ([]model.Assignment, error)
	ListForStudent(ctx context.Context, studentID string) ([]model.Assignment, error)
	UpdateGradingEntry(ctx context.Context, assignmentID uuid.UUID, expectedPoints float64, w model.GradeWrite) (*model.GradingEntry, error)
	UpdateFields(ctx context.Context, id uuid.UUID, expectedPoints float64, f model.UpdateAssignmentRequest, classID *uuid.UUID) error
	AppendGradingEntries(ctx context.Context, assignmentID uuid.UUID, studentIDs []string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GradebookCache holds computed student gradebooks. Every Invalidate bumps the
// student's generation; Set only stores a gradebook built from data read at the
// current generation, so a snapshot that raced a grade write is never cached.
type GradebookCache interface {
	Get(ctx context.Context, studentID string) (*model.StudentGradebook, bool)
	Generation(ctx context.Context, studentID string) (int64, bool)
	Set(ctx context.Context, studentID string, generation int64, gb *model.StudentGradebook) bool
	Invalidate(ctx context.Context, studentIDs ...string)
}

// maxWriteAttempts bounds reload-and-retry loops on gradebook.ErrConflict.
const maxWriteAttempts = 3

func requireTeacher(p model.Principal) error {
	if !p.IsTeacher {
		return fmt.Errorf("%w: teacher role required", gradebook.ErrForbidden)
	}
	return nil
}
