package models

import "time"

// Role determines what a user may do beyond their own resources.
type Role string

const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
)

// CanModerate reports whether the role grants access to resources owned
// by other users. All cross-user access decisions go through this predicate
// rather than comparing role literals at call sites.
func (r Role) CanModerate() bool {
	return r == RoleAdmin
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// User is a registered account. PasswordHash holds a bcrypt digest and is
// never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
