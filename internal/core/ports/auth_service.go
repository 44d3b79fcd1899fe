package ports

import (
	"context"

	"github.com/bookinghub/booking-system/internal/core/domain"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// RegisterResult is the outcome of a successful registration.
type RegisterResult struct {
	User    *domain.User
	Message string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (string, error)
}
