package handler

import (
	"context"

	"github.com/classmark/gradebook/internal/model"
	"github.com/classmark/gradebook/internal/service"
	"github.com/google/uuid"
)

// The handlers depend on these narrow views of the services so they can be
// exercised without a database.

type userService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Refresh(ctx context.Context, claims *service.Claims) (*model.LoginResponse, error)
	Profile(ctx context.Context, p model.Principal) (*model.User, error)
}

type tokenRevoker interface {
	Revoke(ctx context.Context, claims *service.Claims) error
}

type classService interface {
	List(ctx context.Context, p model.Principal) ([]model.Class, error)
	Get(ctx context.Context, p model.Principal, name string) (*model.Class, error)
	Create(ctx context.Context, p model.Principal, req model.CreateClassRequest) (*model.Class, error)
	Delete(ctx context.Context, p model.Principal, name string) error
	ModifyRoster(ctx context.Context, p model.Principal, name string, req model.ModifyRosterRequest) (*model.Class, error)
}

type assignmentService interface {
	Create(ctx context.Context, p model.Principal, def model.AssignmentDef) (*model.Assignment, error)
	ListMine(ctx context.Context, p model.Principal) ([]model.Assignment, error)
	Get(ctx context.Context, p model.Principal, id uuid.UUID) (*model.Assignment, error)
	Update(ctx context.Context, p model.Principal, id uuid.UUID, req model.UpdateAssignmentRequest) (*model.Assignment, error)
	Delete(ctx context.Context, p model.Principal, id uuid.UUID) error
	AppendStudents(ctx context.Context, p model.Principal, id uuid.UUID, req model.AppendStudentsRequest) (*model.Assignment, error)
	RecordGrade(ctx context.Context, p model.Principal, id uuid.UUID, studentID string, req model.RecordGradeRequest) (*model.GradingEntry, error)
}

type gradebookService interface {
	ForStudent(ctx context.Context, studentID string) (*model.StudentGradebook, error)
}
