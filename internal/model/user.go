package model

import "time"

// User is either a teacher or a student account.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	IsTeacher    bool      `json:"isTeacher"`
	Classes      []Class   `json:"classes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the authenticated caller as asserted by a verified token.
type Principal struct {
	Username  string
	IsTeacher bool
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,trimmed,min=1,max=64"`
	Password  string `json:"password" binding:"required,trimmed,min=3,max=72"`
	FirstName string `json:"firstName" binding:"omitempty,max=100"`
	LastName  string `json:"lastName" binding:"omitempty,max=100"`
	IsTeacher *bool  `json:"isTeacher" binding:"required"`
}

// LoginRequest is the payload for password authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResponse is returned after a successful login or refresh.
type LoginResponse struct {
	Token string `json:"authToken"`
	User  User   `json:"user"`
}
