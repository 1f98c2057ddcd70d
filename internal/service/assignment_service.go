package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/classmark/gradebook/internal/gradebook"
	"github.com/classmark/gradebook/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AssignmentService issues assignments and records grades. Every mutating
// call checks that the caller owns the assignment.
type AssignmentService struct {
	assignments AssignmentStore
	classes     ClassStore
	users       UserStore
	cache       GradebookCache
	log         zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(assignments AssignmentStore, classes ClassStore, users UserStore, cache GradebookCache, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		classes:     classes,
		users:       users,
		cache:       cache,
		log:         log.With().Str("component", "assignment_service").Logger(),
	}
}

// Create issues a new assignment to every student currently on the named class.
func (s *AssignmentService) Create(ctx context.Context, p model.Principal, def model.AssignmentDef) (*model.Assignment, error) {
	if err := requireTeacher(p); err != nil {
		return nil, err
	}

	class, err := s.ownedClass(ctx, p, def.ClassName)
	if err != nil {
		return nil, err
	}

	a, err := gradebook.NewAssignment(def, p.Username, class.StudentIDs)
	if err != nil {
		return nil, err
	}
	a.ClassID = &class.ID

	if err := s.assignments.Create(ctx, a); err != nil {
		s.log.Error().Err(err).Str("teacher", p.Username).Msg("Failed to create assignment")
		return nil, err
	}

	s.cache.Invalidate(ctx, studentIDs(a.GradingEntries)...)
	s.log.Info().
		Str("assignment_id", a.ID.String()).
		Str("class", a.ClassName).
		Int("entries", len(a.GradingEntries)).
		Msg("Assignment created")
	return a, nil
}

// ListMine returns the caller's assignments, newest first.
func (s *AssignmentService) ListMine(ctx context.Context, p model.Principal) ([]model.Assignment, error) {
	if err := requireTeacher(p); err != nil {
		return nil, err
	}
	return s.assignments.ListByTeacher(ctx, p.Username)
}

// Get returns one of the caller's assignments with all grading entries.
func (s *AssignmentService) Get(ctx context.Context, p model.Principal, id uuid.UUID) (*model.Assignment, error) {
	return s.loadOwned(ctx, p, id)
}

// Update changes top-level fields. A points change recomputes stored grades;
// a className change must name one of the caller's classes.
func (s *AssignmentService) Update(ctx context.Context, p model.Principal, id uuid.UUID, req model.UpdateAssignmentRequest) (*model.Assignment, error) {
	if req.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", gradebook.ErrValidation)
	}
	if req.Points != nil {
		if err := gradebook.ValidatePoints(*req.Points); err != nil {
			return nil, err
		}
	}

	a, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	var classID *uuid.UUID
	if req.ClassName != nil {
		class, err := s.ownedClass(ctx, p, *req.ClassName)
		if err != nil {
			return nil, err
		}
		classID = &class.ID
	}

	for attempt := 1; ; attempt++ {
		err = s.assignments.UpdateFields(ctx, id, a.Points, req, classID)
		if err == nil {
			break
		}
		if !errors.Is(err, gradebook.ErrConflict) || attempt >= maxWriteAttempts {
			return nil, err
		}
		if a, err = s.loadOwned(ctx, p, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, studentIDs(updated.GradingEntries)...)
	s.log.Info().Str("assignment_id", id.String()).Msg("Assignment updated")
	return updated, nil
}

// Delete removes one of the caller's assignments.
func (s *AssignmentService) Delete(ctx context.Context, p model.Principal, id uuid.UUID) error {
	a, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, studentIDs(a.GradingEntries)...)
	s.log.Info().Str("assignment_id", id.String()).Msg("Assignment deleted")
	return nil
}

// AppendStudents adds ungraded entries for existing students missing from
// the assignment. Ids already present or unknown are ignored.
func (s *AssignmentService) AppendStudents(ctx context.Context, p model.Principal, id uuid.UUID, req model.AppendStudentsRequest) (*model.Assignment, error) {
	a, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	valid, err := s.users.FindValidStudentIDs(ctx, req.StudentIDs)
	if err != nil {
		return nil, err
	}
	requested := gradebook.ApplyDelta(nil, req.StudentIDs, nil, valid)
	missing := studentIDs(gradebook.UngradedEntries(a.GradingEntries, requested))
	if len(missing) == 0 {
		return a, nil
	}

	n, err := s.assignments.AppendGradingEntries(ctx, id, missing)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, missing...)
	s.log.Info().
		Str("assignment_id", id.String()).
		Int64("appended", n).
		Msg("Students appended to assignment")
	return s.assignments.GetByID(ctx, id)
}

// RecordGrade sets one student's points (and optionally comments) and
// returns the updated entry. Concurrent points changes are retried against
// the fresh total.
func (s *AssignmentService) RecordGrade(ctx context.Context, p model.Principal, id uuid.UUID, studentID string, req model.RecordGradeRequest) (*model.GradingEntry, error) {
	if req.PointsEarned == nil {
		return nil, fmt.Errorf("%w: pointsEarned is required", gradebook.ErrValidation)
	}

	for attempt := 1; ; attempt++ {
		a, err := s.loadOwned(ctx, p, id)
		if err != nil {
			return nil, err
		}

		entries, err := gradebook.RecordGrade(a.GradingEntries, studentID, *req.PointsEarned, req.Comments, a.Points)
		if err != nil {
			return nil, err
		}
		a.GradingEntries = entries
		graded, _ := a.EntryFor(studentID)

		saved, err := s.assignments.UpdateGradingEntry(ctx, id, a.Points, model.GradeWrite{
			StudentID:    studentID,
			PointsEarned: *graded.PointsEarned,
			Grade:        *graded.Grade,
			Comments:     req.Comments,
		})
		if err == nil {
			s.cache.Invalidate(ctx, studentID)
			s.log.Debug().
				Str("assignment_id", id.String()).
				Str("student", studentID).
				Msg("Grade recorded")
			return saved, nil
		}
		if !errors.Is(err, gradebook.ErrConflict) || attempt >= maxWriteAttempts {
			s.log.Warn().Err(err).Str("assignment_id", id.String()).Int("attempt", attempt).Msg("Failed to record grade")
			return nil, err
		}
	}
}

// loadOwned fetches an assignment and checks that the caller issued it.
func (s *AssignmentService) loadOwned(ctx context.Context, p model.Principal, id uuid.UUID) (*model.Assignment, error) {
	if err := requireTeacher(p); err != nil {
		return nil, err
	}
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Teacher != p.Username {
		return nil, fmt.Errorf("%w: assignment belongs to another teacher", gradebook.ErrForbidden)
	}
	return a, nil
}

func (s *AssignmentService) ownedClass(ctx context.Context, p model.Principal, name string) (*model.Class, error) {
	class, err := s.classes.GetByName(ctx, p.Username, name)
	if err != nil {
		if errors.Is(err, gradebook.ErrNotFound) {
			return nil, fmt.Errorf("class %q: %w", name, gradebook.ErrNotFound)
		}
		return nil, err
	}
	return class, nil
}

func studentIDs(entries []model.GradingEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.StudentID
	}
	return ids
}
