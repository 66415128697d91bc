package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPendingApproval    = errors.New("account awaiting admin approval")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

// Role is the closed set of roles gating access. There are exactly two.
type Role string

const (
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a member of the role enumeration.
func (r Role) Valid() bool {
	return r == RoleBusiness || r == RoleAdmin
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	IsApproved   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated principal derived from a verified token or
// credential pair. Handlers never construct one directly; the auth usecase is
// the only producer.
type Identity struct {
	ID       string
	Email    string
	Role     Role
	IssuedAt time.Time
}
