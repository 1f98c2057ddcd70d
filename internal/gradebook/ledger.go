package gradebook

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/classmark/gradebook/internal/model"
)

// RecordGrade returns a copy of entries in which the entry for studentID
// carries pointsEarned and a grade of pointsEarned/totalPoints rounded to two
// decimals. A nil comments leaves the previous comments in place. Every other
// entry, and the order of all entries, is preserved.
func RecordGrade(entries []model.GradingEntry, studentID string, pointsEarned float64, comments *string, totalPoints float64) ([]model.GradingEntry, error) {
	idx := indexOf(entries, studentID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: no grading entry for student %q", ErrNotFound, studentID)
	}

	grade, err := ComputeGrade(pointsEarned, totalPoints)
	if err != nil {
		return nil, err
	}

	out := make([]model.GradingEntry, len(entries))
	copy(out, entries)

	target := out[idx]
	earned := pointsEarned
	target.PointsEarned = &earned
	target.Grade = &grade
	if comments != nil {
		target.Comments = *comments
	}
	out[idx] = target

	return out, nil
}

// ComputeGrade returns pointsEarned/totalPoints rounded to two decimals.
// Scores above totalPoints are kept as-is (extra credit).
func ComputeGrade(pointsEarned, totalPoints float64) (float64, error) {
	if totalPoints <= 0 || math.IsNaN(totalPoints) || math.IsInf(totalPoints, 0) {
		return 0, ErrDivision
	}
	if pointsEarned < 0 || math.IsNaN(pointsEarned) || math.IsInf(pointsEarned, 0) {
		return 0, fmt.Errorf("%w: pointsEarned must be a non-negative number", ErrValidation)
	}
	return Round2(pointsEarned / totalPoints), nil
}

// Regrade returns a copy of entries with every graded entry's grade
// recomputed against totalPoints. Ungraded entries are left untouched.
func Regrade(entries []model.GradingEntry, totalPoints float64) ([]model.GradingEntry, error) {
	out := make([]model.GradingEntry, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].PointsEarned == nil {
			continue
		}
		grade, err := ComputeGrade(*out[i].PointsEarned, totalPoints)
		if err != nil {
			return nil, err
		}
		out[i].Grade = &grade
	}
	return out, nil
}

// Round2 rounds x half away from zero to two decimal places. Rounding is done
// on x's 15-digit decimal form, so 0.285 becomes 0.29 even though its binary
// value sits just below the midpoint.
func Round2(x float64) float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	s := strconv.FormatFloat(x, 'e', 14, 64)
	i := strings.IndexByte(s, 'e')
	exp, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return math.Round(x*100) / 100
	}
	scaled, err := strconv.ParseFloat(s[:i]+"e"+strconv.Itoa(exp+2), 64)
	if err != nil {
		return math.Round(x*100) / 100
	}
	return math.Round(scaled) / 100
}

func indexOf(entries []model.GradingEntry, studentID string) int {
	for i := range entries {
		if entries[i].StudentID == studentID {
			return i
		}
	}
	return -1
}
