package ports

import (
	"context"
	"time"

	"github.com/shopworks/auth-system/internal/core/domain"
)

// CredentialStore is the persistence surface the auth core depends on: user
// identity records, password hash verification, and role membership.
type CredentialStore interface {
	// FindByEmail returns the user registered under the (case-insensitive)
	// email, or domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// CreateUser persists a new user, hashing the plaintext password.
	// A store-level uniqueness constraint on email is the authoritative
	// duplicate guard; a lost race returns domain.ErrUserExists.
	CreateUser(ctx context.Context, user *domain.User, password string) (*domain.User, error)

	// VerifyPassword reports whether the plaintext matches the user's hash.
	VerifyPassword(user *domain.User, password string) bool

	// RolesOf returns the user's current role names.
	RolesOf(ctx context.Context, user *domain.User) ([]string, error)

	// AddRole grants the user a role. Granting an already-held role is a no-op.
	AddRole(ctx context.Context, user *domain.User, role string) error

	// RoleExists reports whether a role definition with this name exists.
	RoleExists(ctx context.Context, role string) (bool, error)

	// CreateRole defines a role. Creating an existing role is a no-op.
	CreateRole(ctx context.Context, role string) error
}

// RefreshTokenStore persists opaque refresh tokens keyed to a user.
type RefreshTokenStore interface {
	// Save stores a freshly issued token for the user with the given TTL.
	Save(ctx context.Context, token, userID string, ttl time.Duration) error

	// Rotate atomically consumes oldToken and stores newToken for the same
	// user. Returns domain.ErrRefreshTokenInvalid when oldToken is unknown,
	// expired, already rotated, or bound to a different user. Atomicity
	// guarantees two concurrent rotations of one token cannot both succeed.
	Rotate(ctx context.Context, oldToken, newToken, userID string, ttl time.Duration) error
}
