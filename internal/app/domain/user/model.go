package user

import "time"

// Role distinguishes staff from administrators.
type Role int

const (
	RoleStaff Role = 0
	RoleAdmin Role = 1
)

// User is a staff member with API access. Deleted users keep their row with
// DeleteDate set.
type User struct {
	ID           string     `json:"user_id" db:"user_id"`
	FirstName    string     `json:"first_name,omitempty" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Email        string     `json:"email,omitempty" db:"email"`
	Phone        string     `json:"phone,omitempty" db:"phone"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         Role       `json:"role" db:"role"`
	Locale       string     `json:"locale,omitempty" db:"locale"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	DeleteDate   *time.Time `json:"delete_date,omitempty" db:"delete_date"`
}

// Deleted reports whether the user has been soft-deleted.
func (u User) Deleted() bool { return u.DeleteDate != nil }
