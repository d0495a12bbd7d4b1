package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username" validate:"required,min=3,max=50"`
	Email     string    `db:"email" json:"email" validate:"required,email"`
	Password  string    `db:"password" json:"password,omitempty" validate:"required,min=8"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Sanitize returns a copy safe to include in API responses.
func (u *User) Sanitize() *User {
	clone := *u
	clone.Password = ""
	return &clone
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// OrganizerSummary is the subset of user fields embedded in event responses.
type OrganizerSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
}
