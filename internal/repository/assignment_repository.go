package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/classmark/gradebook/internal/gradebook"
	"github.com/classmark/gradebook/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const assignmentColumns = `a.id, a.title, a.subject, a.teacher_username, a.class_id, a.class_name,
	a.points, a.goals, a.instructions, a.assign_weekday, a.assign_date,
	a.due_weekday, a.due_date, a.created_at, a.updated_at`

// AssignmentRepository handles assignment and grading entry data access.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

func scanAssignment(row pgx.Row) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := row.Scan(&a.ID, &a.Title, &a.Subject, &a.Teacher, &a.ClassID, &a.ClassName,
		&a.Points, &a.Goals, &a.Instructions, &a.AssignDate.Weekday, &a.AssignDate.Date,
		&a.DueDate.Weekday, &a.DueDate.Date, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.GradingEntries = []model.GradingEntry{}
	return a, nil
}

// Create inserts an assignment and its grading entries in one transaction.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translate(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO assignments (id, title, subject, teacher_username, class_id, class_name, points,
		                          goals, instructions, assign_weekday, assign_date, due_weekday, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING created_at, updated_at`,
		a.ID, a.Title, a.Subject, a.Teacher, a.ClassID, a.ClassName, a.Points,
		a.Goals, a.Instructions, a.AssignDate.Weekday, a.AssignDate.Date, a.DueDate.Weekday, a.DueDate.Date,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return translate(err, "create assignment")
	}

	if len(a.GradingEntries) > 0 {
		rows := make([][]interface{}, len(a.GradingEntries))
		for i, e := range a.GradingEntries {
			rows[i] = []interface{}{a.ID, e.StudentID, i, e.PointsEarned, e.Comments, e.Grade}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"grading_entries"},
			[]string{"assignment_id", "student_id", "position", "points_earned", "comments", "grade"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return translate(err, "create grading entries")
		}
	}

	return translate(tx.Commit(ctx), "commit assignment")
}

// GetByID retrieves an assignment with all of its grading entries in roster order.
func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	a, err := scanAssignment(r.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments a WHERE a.id = $1`, id))
	if err != nil {
		return nil, translate(err, "get assignment")
	}

	byID := map[uuid.UUID]*model.Assignment{a.ID: a}
	if err := r.loadEntries(ctx, byID); err != nil {
		return nil, err
	}
	return a, nil
}

// ListByTeacher retrieves every assignment created by teacher, newest first.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacher string) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+`
		 FROM assignments a
		 WHERE a.teacher_username = $1
		 ORDER BY a.created_at DESC, a.id`, teacher)
	if err != nil {
		return nil, translate(err, "list assignments")
	}
	defer rows.Close()

	var list []*model.Assignment
	byID := make(map[uuid.UUID]*model.Assignment)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, translate(err, "scan assignment")
		}
		list = append(list, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list assignments")
	}
	rows.Close()

	if err := r.loadEntries(ctx, byID); err != nil {
		return nil, err
	}

	out := make([]model.Assignment, len(list))
	for i, a := range list {
		out[i] = *a
	}
	return out, nil
}

// ListForStudent retrieves the assignments that hold a grading entry for
// studentID, oldest first. Each returned assignment carries only that
// student's entry.
func (r *AssignmentRepository) ListForStudent(ctx context.Context, studentID string) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+`, g.student_id, g.points_earned, g.comments, g.grade
		 FROM assignments a
		 JOIN grading_entries g ON g.assignment_id = a.id
		 WHERE g.student_id = $1
		 ORDER BY a.created_at, a.id`, studentID)
	if err != nil {
		return nil, translate(err, "list student assignments")
	}
	defer rows.Close()

	out := []model.Assignment{}
	for rows.Next() {
		var a model.Assignment
		var e model.GradingEntry
		if err := rows.Scan(&a.ID, &a.Title, &a.Subject, &a.Teacher, &a.ClassID, &a.ClassName,
			&a.Points, &a.Goals, &a.Instructions, &a.AssignDate.Weekday, &a.AssignDate.Date,
			&a.DueDate.Weekday, &a.DueDate.Date, &a.CreatedAt, &a.UpdatedAt,
			&e.StudentID, &e.PointsEarned, &e.Comments, &e.Grade); err != nil {
			return nil, translate(err, "scan student assignment")
		}
		a.GradingEntries = []model.GradingEntry{e}
		out = append(out, a)
	}
	return out, translate(rows.Err(), "list student assignments")
}

// UpdateGradingEntry writes one student's points and grade, plus comments
// when w.Comments is set, and returns the stored entry. The write only lands
// when the assignment still has expectedPoints; otherwise gradebook.ErrConflict
// is returned and the caller should reload and retry. The assignment row is
// share-locked so a concurrent points change cannot interleave.
func (r *AssignmentRepository) UpdateGradingEntry(ctx context.Context, assignmentID uuid.UUID, expectedPoints float64, w model.GradeWrite) (*model.GradingEntry, error) {
	var e model.GradingEntry
	err := r.pool.QueryRow(ctx,
		`UPDATE grading_entries g
		 SET points_earned = $3, comments = COALESCE($4, g.comments), grade = $5, updated_at = NOW()
		 FROM (SELECT id, points FROM assignments WHERE id = $1 FOR SHARE) a
		 WHERE g.assignment_id = a.id AND g.student_id = $2 AND a.points = $6
		 RETURNING g.student_id, g.points_earned, g.comments, g.grade`,
		assignmentID, w.StudentID, w.PointsEarned, w.Comments, w.Grade, expectedPoints,
	).Scan(&e.StudentID, &e.PointsEarned, &e.Comments, &e.Grade)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update grading entry %s/%s: %w", assignmentID, w.StudentID, gradebook.ErrConflict)
	}
	if err != nil {
		return nil, translate(err, "update grading entry")
	}
	return &e, nil
}

// UpdateFields changes only the provided top-level columns, guarded by
// expectedPoints. classID accompanies a className change. When points change,
// stored grades are recomputed in the same transaction.
func (r *AssignmentRepository) UpdateFields(ctx context.Context, id uuid.UUID, expectedPoints float64, f model.UpdateAssignmentRequest, classID *uuid.UUID) error {
	var sets []string
	args := []interface{}{id, expectedPoints}
	set := func(column string, v interface{}) {
		args = append(args, v)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if f.Title != nil {
		set("title", *f.Title)
	}
	if f.Subject != nil {
		set("subject", *f.Subject)
	}
	if f.ClassName != nil {
		set("class_name", *f.ClassName)
		set("class_id", classID)
	}
	if f.Points != nil {
		set("points", *f.Points)
	}
	if f.Goals != nil {
		set("goals", *f.Goals)
	}
	if f.Instructions != nil {
		set("instructions", *f.Instructions)
	}
	if f.AssignDate != nil {
		set("assign_weekday", f.AssignDate.Weekday)
		set("assign_date", f.AssignDate.Date)
	}
	if f.DueDate != nil {
		set("due_weekday", f.DueDate.Weekday)
		set("due_date", f.DueDate.Date)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translate(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE assignments SET `+strings.Join(sets, ", ")+` WHERE id = $1 AND points = $2`, args...)
	if err != nil {
		return translate(err, "update assignment")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update assignment %s: %w", id, gradebook.ErrConflict)
	}

	if f.Points != nil && *f.Points != expectedPoints {
		if err := regradeEntries(ctx, tx, id, *f.Points); err != nil {
			return err
		}
	}

	return translate(tx.Commit(ctx), "commit assignment")
}

// regradeEntries recomputes the grade of every graded entry against points.
// Grades go through gradebook.Regrade so they round exactly like RecordGrade.
func regradeEntries(ctx context.Context, tx pgx.Tx, assignmentID uuid.UUID, points float64) error {
	rows, err := tx.Query(ctx,
		`SELECT student_id, points_earned, comments, grade FROM grading_entries
		 WHERE assignment_id = $1 AND points_earned IS NOT NULL
		 ORDER BY position
		 FOR UPDATE`, assignmentID)
	if err != nil {
		return translate(err, "load graded entries")
	}
	graded, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.GradingEntry, error) {
		var e model.GradingEntry
		err := row.Scan(&e.StudentID, &e.PointsEarned, &e.Comments, &e.Grade)
		return e, err
	})
	if err != nil {
		return translate(err, "scan graded entries")
	}

	regraded, err := gradebook.Regrade(graded, points)
	if err != nil {
		return err
	}
	for _, e := range regraded {
		if _, err := tx.Exec(ctx,
			`UPDATE grading_entries SET grade = $3, updated_at = NOW()
			 WHERE assignment_id = $1 AND student_id = $2`,
			assignmentID, e.StudentID, e.Grade); err != nil {
			return translate(err, "regrade entry")
		}
	}
	return nil
}

// AppendGradingEntries adds ungraded entries after the existing ones. Students
// who already have an entry are skipped. Returns the number of rows inserted.
func (r *AssignmentRepository) AppendGradingEntries(ctx context.Context, assignmentID uuid.UUID, studentIDs []string) (int64, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO grading_entries (assignment_id, student_id, position)
		 SELECT $1, t.student_id,
		        (SELECT COALESCE(MAX(position), -1) FROM grading_entries WHERE assignment_id = $1) + t.ord
		 FROM UNNEST($2::text[]) WITH ORDINALITY AS t(student_id, ord)
		 ON CONFLICT (assignment_id, student_id) DO NOTHING`,
		assignmentID, studentIDs)
	if err != nil {
		return 0, translate(err, "append grading entries")
	}
	return tag.RowsAffected(), nil
}

// Delete removes an assignment and, by cascade, its grading entries.
func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete assignment")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete assignment: %w", gradebook.ErrNotFound)
	}
	return nil
}

func (r *AssignmentRepository) loadEntries(ctx context.Context, byID map[uuid.UUID]*model.Assignment) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT assignment_id, student_id, points_earned, comments, grade
		 FROM grading_entries
		 WHERE assignment_id = ANY($1::uuid[])
		 ORDER BY assignment_id, position, student_id`, ids)
	if err != nil {
		return translate(err, "list grading entries")
	}
	defer rows.Close()

	for rows.Next() {
		var assignmentID uuid.UUID
		var e model.GradingEntry
		if err := rows.Scan(&assignmentID, &e.StudentID, &e.PointsEarned, &e.Comments, &e.Grade); err != nil {
			return translate(err, "scan grading entry")
		}
		if a, ok := byID[assignmentID]; ok {
			a.GradingEntries = append(a.GradingEntries, e)
		}
	}
	return translate(rows.Err(), "list grading entries")
}
