package gradebook

import "github.com/classmark/gradebook/internal/model"

// RelevantAssignments projects every assignment that has an entry for
// studentID into a view exposing only that student's entry. Assignments the
// student is not enrolled in are skipped; input order is kept.
func RelevantAssignments(all []model.Assignment, studentID string) []model.StudentAssignmentView {
	views := make([]model.StudentAssignmentView, 0)
	for i := range all {
		a := &all[i]
		entry, ok := a.EntryFor(studentID)
		if !ok {
			continue
		}
		views = append(views, model.StudentAssignmentView{
			ID:           a.ID,
			Title:        a.Title,
			Subject:      a.Subject,
			Teacher:      a.Teacher,
			ClassName:    a.ClassName,
			Points:       a.Points,
			Goals:        a.Goals,
			Instructions: a.Instructions,
			AssignDate:   a.AssignDate,
			DueDate:      a.DueDate,
			PointsEarned: entry.PointsEarned,
			Comments:     entry.Comments,
			Grade:        entry.Grade,
		})
	}
	return views
}

// ClassRollup totals a student's views per class. Every view counts as an
// assignment; only graded views with a positive point total contribute to
// points and pointsEarned, so ungraded work never lowers the ratio.
func ClassRollup(views []model.StudentAssignmentView) map[string]model.ClassGrade {
	grades := make(map[string]model.ClassGrade)
	for _, v := range views {
		g := grades[v.ClassName]
		g.Assignments++
		if v.PointsEarned != nil && v.Points > 0 {
			g.Points += v.Points
			g.PointsEarned += *v.PointsEarned
		}
		grades[v.ClassName] = g
	}
	return grades
}

// BuildGradebook combines RelevantAssignments and ClassRollup.
func BuildGradebook(all []model.Assignment, studentID string) model.StudentGradebook {
	views := RelevantAssignments(all, studentID)
	return model.StudentGradebook{
		Relevant: views,
		Grades:   ClassRollup(views),
	}
}
