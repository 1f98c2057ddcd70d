package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/classmark/gradebook/internal/gradebook"
	"github.com/classmark/gradebook/internal/model"
	"github.com/rs/zerolog"
)

// ClassService manages a teacher's classes and their rosters.
type ClassService struct {
	classes ClassStore
	users   UserStore
	log     zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(classes ClassStore, users UserStore, log zerolog.Logger) *ClassService {
	return &ClassService{
		classes: classes,
		users:   users,
		log:     log.With().Str("component", "class_service").Logger(),
	}
}

// List returns every class owned by the caller.
func (s *ClassService) List(ctx context.Context, p model.Principal) ([]model.Class, error) {
	if err := requireTeacher(p); err != nil {
		return nil, err
	}
	return s.classes.ListByTeacher(ctx, p.Username)
}

// Get returns one of the caller's classes by name.
func (s *ClassService) Get(ctx context.Context, p model.Principal, name string) (*model.Class, error) {
	if err := requireTeacher(p); err != nil {
		return nil, err
	}
	return s.classes.GetByName(ctx, p.Username, name)
}

// Create adds a class for the caller. Requested ids that are not existing
// students are dropped.
func (s *ClassService) Create(ctx context.Context, p model.Principal, req model.CreateClassRequest) (*model.Class, error) {
	if err := requireTeacher(p); err != nil {
		return nil, err
	}

	valid, err := s.users.FindValidStudentIDs(ctx, req.UserIDs)
	if err != nil {
		return nil, err
	}

	class := &model.Class{
		Name:       req.ClassName,
		Teacher:    p.Username,
		StudentIDs: gradebook.ApplyDelta(nil, req.UserIDs, nil, valid),
	}
	if err := s.classes.Create(ctx, class); err != nil {
		if errors.Is(err, gradebook.ErrExists) {
			return nil, fmt.Errorf("class %q already exists: %w", req.ClassName, gradebook.ErrExists)
		}
		return nil, err
	}

	s.log.Info().
		Str("teacher", p.Username).
		Str("class", class.Name).
		Int("students", len(class.StudentIDs)).
		Msg("Class created")
	return class, nil
}

// Delete removes one of the caller's classes. Assignments issued to it keep
// their grading entries and class name.
func (s *ClassService) Delete(ctx context.Context, p model.Principal, name string) error {
	if err := requireTeacher(p); err != nil {
		return err
	}
	if err := s.classes.Delete(ctx, p.Username, name); err != nil {
		return err
	}
	s.log.Info().Str("teacher", p.Username).Str("class", name).Msg("Class deleted")
	return nil
}

// ModifyRoster applies add/remove deltas to a class roster and returns the
// updated class. Existing assignments are not affected.
func (s *ClassService) ModifyRoster(ctx context.Context, p model.Principal, name string, req model.ModifyRosterRequest) (*model.Class, error) {
	if err := requireTeacher(p); err != nil {
		return nil, err
	}

	class, err := s.classes.GetByName(ctx, p.Username, name)
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(req.AddIDs)+len(req.RemoveIDs))
	candidates = append(candidates, req.AddIDs...)
	candidates = append(candidates, req.RemoveIDs...)
	valid, err := s.users.FindValidStudentIDs(ctx, candidates)
	if err != nil {
		return nil, err
	}

	next := gradebook.ApplyDelta(class.StudentIDs, req.AddIDs, req.RemoveIDs, valid)
	added, removed := gradebook.Diff(class.StudentIDs, next)
	if len(added) == 0 && len(removed) == 0 {
		return class, nil
	}

	if err := s.classes.UpdateRoster(ctx, class.ID, added, removed); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("teacher", p.Username).
		Str("class", class.Name).
		Int("added", len(added)).
		Int("removed", len(removed)).
		Msg("Roster updated")

	return s.classes.GetByName(ctx, p.Username, name)
}
