package repository

import (
	"context"
	"fmt"

	"github.com/classmark/gradebook/internal/gradebook"
	"github.com/classmark/gradebook/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const classSelect = `
	SELECT c.id, c.name, c.teacher_username, c.created_at, c.updated_at,
	       COALESCE(ARRAY_AGG(cs.student_username ORDER BY cs.position)
	                FILTER (WHERE cs.student_username IS NOT NULL), '{}')
	FROM classes c
	LEFT JOIN class_students cs ON cs.class_id = c.id`

// ClassRepository handles class and roster data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.Teacher, &c.CreatedAt, &c.UpdatedAt, &c.StudentIDs)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByName retrieves one of a teacher's classes together with its roster.
func (r *ClassRepository) GetByName(ctx context.Context, teacher, name string) (*model.Class, error) {
	c, err := scanClass(r.pool.QueryRow(ctx,
		classSelect+`
		 WHERE c.teacher_username = $1 AND c.name = $2
		 GROUP BY c.id`, teacher, name))
	if err != nil {
		return nil, translate(err, "get class")
	}
	return c, nil
}

// ListByTeacher retrieves all classes owned by teacher, oldest first.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacher string) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		classSelect+`
		 WHERE c.teacher_username = $1
		 GROUP BY c.id
		 ORDER BY c.created_at, c.name`, teacher)
	if err != nil {
		return nil, translate(err, "list classes")
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, translate(err, "scan class")
		}
		classes = append(classes, *c)
	}
	return classes, translate(rows.Err(), "list classes")
}

// Create inserts a class and its initial roster in one transaction.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translate(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO classes (teacher_username, name)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		c.Teacher, c.Name,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return translate(err, "create class")
	}

	if err := insertMembers(ctx, tx, c.ID, c.StudentIDs); err != nil {
		return err
	}
	return translate(tx.Commit(ctx), "commit class")
}

// UpdateRoster removes and adds individual membership rows. Each row is
// touched independently so concurrent edits of different students never
// overwrite one another.
func (r *ClassRepository) UpdateRoster(ctx context.Context, classID uuid.UUID, added, removed []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translate(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE classes SET updated_at = NOW() WHERE id = $1`, classID)
	if err != nil {
		return translate(err, "touch class")
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows, "touch class")
	}

	if len(removed) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM class_students WHERE class_id = $1 AND student_username = ANY($2)`,
			classID, removed); err != nil {
			return translate(err, "remove students")
		}
	}
	if err := insertMembers(ctx, tx, classID, added); err != nil {
		return err
	}
	return translate(tx.Commit(ctx), "commit roster")
}

// Delete removes one of a teacher's classes. Assignments keep their class name.
func (r *ClassRepository) Delete(ctx context.Context, teacher, name string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM classes WHERE teacher_username = $1 AND name = $2`, teacher, name)
	if err != nil {
		return translate(err, "delete class")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete class: %w", gradebook.ErrNotFound)
	}
	return nil
}

func insertMembers(ctx context.Context, tx pgx.Tx, classID uuid.UUID, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO class_students (class_id, student_username)
		 SELECT $1, t.username
		 FROM UNNEST($2::text[]) WITH ORDINALITY AS t(username, ord)
		 ORDER BY t.ord
		 ON CONFLICT (class_id, student_username) DO NOTHING`,
		classID, ids)
	return translate(err, "add students")
}
