package gradebook

import (
	"fmt"
	"math"
	"strings"

	"github.com/classmark/gradebook/internal/model"
	"github.com/google/uuid"
)

// NewAssignment builds an assignment owned by teacher whose grading entries
// are an ungraded snapshot of roster. teacher must come from the
// authenticated principal.
func NewAssignment(def model.AssignmentDef, teacher string, roster []string) (*model.Assignment, error) {
	if strings.TrimSpace(teacher) == "" {
		return nil, fmt.Errorf("%w: assignment teacher is required", ErrValidation)
	}
	if err := ValidatePoints(def.Points); err != nil {
		return nil, err
	}
	if strings.TrimSpace(def.ClassName) == "" {
		return nil, fmt.Errorf("%w: className is required", ErrValidation)
	}

	return &model.Assignment{
		ID:             uuid.New(),
		Title:          def.Title,
		Subject:        def.Subject,
		Teacher:        teacher,
		ClassName:      def.ClassName,
		Points:         def.Points,
		Goals:          def.Goals,
		Instructions:   def.Instructions,
		AssignDate:     def.AssignDate,
		DueDate:        def.DueDate,
		GradingEntries: UngradedEntries(nil, roster),
	}, nil
}

// UngradedEntries returns fresh ungraded entries for every id in studentIDs
// that is not already covered by existing (and not repeated in studentIDs).
func UngradedEntries(existing []model.GradingEntry, studentIDs []string) []model.GradingEntry {
	seen := make(map[string]struct{}, len(existing)+len(studentIDs))
	for _, e := range existing {
		seen[e.StudentID] = struct{}{}
	}

	entries := make([]model.GradingEntry, 0, len(studentIDs))
	for _, id := range studentIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		entries = append(entries, model.GradingEntry{StudentID: id})
	}
	return entries
}

// ValidatePoints rejects assignment totals that are not positive finite numbers.
func ValidatePoints(p float64) error {
	if !(p > 0) || math.IsInf(p, 1) {
		return fmt.Errorf("%w: points must be a positive number", ErrValidation)
	}
	return nil
}
