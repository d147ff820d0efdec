// Package identity covers authentication and role resolution for the
// school's staff accounts. There are exactly two roles: admin and teacher.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLES
// ══════════════════════════════════════════════════════════════════════════════

// Role is a staff account's access level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// RouteForRole returns the client view fragment an authenticated account
// should land on. Unknown roles get an empty route; the client treats
// that as "stay on the login screen".
func RouteForRole(r Role) string {
	switch r {
	case RoleAdmin:
		return "#adminView"
	case RoleTeacher:
		return "#teacherView"
	default:
		return ""
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT
// ══════════════════════════════════════════════════════════════════════════════

// Account is a staff login. Accounts are separate from students: a student
// never logs in, and an account never attends class.
type Account struct {
	// ID is the account's unique identifier.
	ID uuid.UUID

	// Email is the login email, unique across accounts.
	Email string

	// PasswordHash is the bcrypt hash of the password. The plain password
	// is never stored.
	PasswordHash string

	// Role determines what the account may do.
	Role Role

	// CreatedAt is when the account was created.
	CreatedAt time.Time
}

// NewAccount creates an account with a fresh id. The password hash must
// already be computed by the caller.
func NewAccount(email, passwordHash string, role Role) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if passwordHash == "" {
		return nil, ErrMissingPasswordHash
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	return &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GATE INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Gate authenticates staff and resolves their roles. The attendance core
// never inspects credentials itself; it only asks the gate who a caller is.
type Gate interface {
	// Authenticate checks the credentials and returns the account id.
	// Returns ErrBadCredentials for unknown email or wrong password; the
	// two cases are deliberately indistinguishable to the caller.
	Authenticate(ctx context.Context, email, password string) (uuid.UUID, error)

	// ResolveRole returns the role of the given account, or
	// ErrAccountNotFound.
	ResolveRole(ctx context.Context, accountID uuid.UUID) (Role, error)
}

// Repository persists staff accounts.
type Repository interface {
	// Create stores a new account. Returns ErrEmailTaken when the email
	// is already registered.
	Create(ctx context.Context, a *Account) error

	// GetByEmail returns the account with the given email, or
	// ErrAccountNotFound.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByID returns the account with the given id, or ErrAccountNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrBadCredentials - unknown email or wrong password.
	ErrBadCredentials = errors.New("invalid email or password")

	// ErrAccountNotFound - no account with this id or email.
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailTaken - an account with this email already exists.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidEmail - the email is empty or malformed.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidRole - the role is not admin or teacher.
	ErrInvalidRole = errors.New("invalid role: must be admin or teacher")

	// ErrMissingPasswordHash - an account requires a password hash.
	ErrMissingPasswordHash = errors.New("account requires a password hash")
)
