package ports

import (
	"context"

	"github.com/bookinghub/booking-system/internal/core/domain"
)

// CredentialStore is the persistence and verification layer for identities.
// Implementations own the password hash: plaintext goes in, only a verdict
// comes out.
type CredentialStore interface {
	// CreateUser persists a new user with the given plaintext password.
	// Returns *domain.ValidationError when a store rule is broken (duplicate
	// email, weak password). Creation is atomic: no partial user on failure.
	CreateUser(ctx context.Context, user *domain.User, password string) (*domain.User, error)

	// FindByEmail looks a user up by normalized email.
	// Returns domain.ErrUserNotFound on a miss.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// CheckPassword verifies a plaintext password against the stored hash.
	CheckPassword(ctx context.Context, user *domain.User, password string) (bool, error)

	// GetRoles returns the user's current role set.
	GetRoles(ctx context.Context, user *domain.User) ([]string, error)

	// AddToRole places the user in an existing role.
	AddToRole(ctx context.Context, user *domain.User, role string) error

	// RoleExists reports whether the named role is known to the store.
	RoleExists(ctx context.Context, role string) (bool, error)

	// CreateRole registers a new role. Must be idempotent under concurrent
	// calls for the same name.
	CreateRole(ctx context.Context, role string) error
}
