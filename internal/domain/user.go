package domain

import (
	"context"
	"time"
)

// Role is the single application role a user holds.
type Role string

const (
	RoleMember        Role = "member"
	RolePrelegent     Role = "prelegent"
	RoleAdministrator Role = "administrator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RolePrelegent, RoleAdministrator:
		return true
	}
	return false
}

// User represents a registered user
// swagger:model User
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(email, name string, role Role, passwordHash string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenClaims is what an access token asserts about its bearer.
type TokenClaims struct {
	UserID    int64
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(user *User) (string, error)
}

// TokenVerifier verifies a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// TokenBlacklist remembers revoked token ids until they would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, params PaginationParams) ([]*User, int, error)
	UpdateRole(ctx context.Context, id int64, role Role) error
	Delete(ctx context.Context, id int64) error
	// LockByID takes a row lock on the user for the rest of the transaction in ctx.
	LockByID(ctx context.Context, id int64) error
}

// UserService defines user lookup and administration.
type UserService interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, params PaginationParams) ([]*User, int, error)
	Delete(ctx context.Context, actorID, id int64) error
}

// AuthService handles sign up, login and logout.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	Logout(ctx context.Context, claims *TokenClaims) error
}
