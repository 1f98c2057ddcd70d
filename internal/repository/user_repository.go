package repository

import (
	"context"

	"github.com/classmark/gradebook/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. A taken username yields gradebook.ErrExists.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, first_name, last_name, is_teacher)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		u.Username, u.PasswordHash, u.FirstName, u.LastName, u.IsTeacher,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	return translate(err, "create user")
}

// GetByUsername retrieves a user by their unique username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT username, password_hash, first_name, last_name, is_teacher, created_at, updated_at
		 FROM users WHERE username = $1`, username,
	).Scan(&u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.IsTeacher, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err, "get user")
	}
	return u, nil
}

// FindValidStudentIDs returns the subset of ids that belong to existing
// non-teacher users.
func (r *UserRepository) FindValidStudentIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT username FROM users WHERE username = ANY($1) AND NOT is_teacher`, ids)
	if err != nil {
		return nil, translate(err, "find students")
	}
	defer rows.Close()

	var valid []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, translate(err, "scan student")
		}
		valid = append(valid, username)
	}
	return valid, translate(rows.Err(), "find students")
}
