package model

import "time"

// Role is the closed set of user roles understood by the API.  The
// string values are carried in the JWT "role" claim and stored in the
// users table.  Authorization decisions go through the capability
// helpers in the booking package instead of comparing raw strings at
// call sites.
type Role string

const (
	RoleAdmin Role = "ADMIN" // full access to every resource
	RoleOwner Role = "OWNER" // access scoped to hotels the user owns
	RoleUser  Role = "USER"  // regular guest making reservations
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleUser:
		return true
	}
	return false
}

// User represents an application user record as stored in the `users`
// table.  The password hash is never serialized; handlers build their
// own response shapes for anything beyond the tagged fields.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        *string   `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored; the plain value is returned
// to the client once and never persisted.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
