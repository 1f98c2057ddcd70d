package service

import (
	"context"

	"github.com/classmark/gradebook/internal/gradebook"
	"github.com/classmark/gradebook/internal/model"
	"github.com/rs/zerolog"
)

// GradebookService answers a student's "what have I been assigned and how
// am I doing" query.
type GradebookService struct {
	users       UserStore
	assignments AssignmentStore
	cache       GradebookCache
	log         zerolog.Logger
}

// NewGradebookService creates a new GradebookService.
func NewGradebookService(users UserStore, assignments AssignmentStore, cache GradebookCache, log zerolog.Logger) *GradebookService {
	return &GradebookService{
		users:       users,
		assignments: assignments,
		cache:       cache,
		log:         log.With().Str("component", "gradebook_service").Logger(),
	}
}

// ForStudent returns every assignment containing studentID plus per-class rollups.
func (s *GradebookService) ForStudent(ctx context.Context, studentID string) (*model.StudentGradebook, error) {
	if _, err := s.users.GetByUsername(ctx, studentID); err != nil {
		return nil, err
	}

	if gb, ok := s.cache.Get(ctx, studentID); ok {
		return gb, nil
	}
	generation, cacheable := s.cache.Generation(ctx, studentID)

	all, err := s.assignments.ListForStudent(ctx, studentID)
	if err != nil {
		s.log.Error().Err(err).Str("student", studentID).Msg("Failed to list assignments")
		return nil, err
	}

	gb := gradebook.BuildGradebook(all, studentID)
	if cacheable && !s.cache.Set(ctx, studentID, generation, &gb) {
		s.log.Debug().Str("student", studentID).Msg("Gradebook changed while loading, not cached")
	}
	return &gb, nil
}
