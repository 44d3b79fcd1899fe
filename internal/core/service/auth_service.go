package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/bookinghub/booking-system/internal/core/domain"
	"github.com/bookinghub/booking-system/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration and login on top of a credential store
// and a token issuer. It holds no mutable state and is safe for concurrent use.
type AuthService struct {
	store  ports.CredentialStore
	issuer ports.TokenIssuer
}

func NewAuthService(store ports.CredentialStore, issuer ports.TokenIssuer) *AuthService {
	return &AuthService{store: store, issuer: issuer}
}

// Register creates a new user and, when a role is supplied, ensures the role
// exists and assigns it. Store-level validation failures (duplicate email,
// weak password) come back verbatim as a *domain.ValidationError.
//
// Role assignment happens after the user is created and is not rolled back on
// failure: the account stays usable and the error reports what is missing.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	if verr := validateRegisterInput(input); verr != nil {
		return nil, verr
	}

	user := &domain.User{
		Email:     domain.NormalizeEmail(input.Email),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}

	created, err := s.store.CreateUser(ctx, user, input.Password)
	if err != nil {
		return nil, err
	}

	role := strings.TrimSpace(input.Role)
	if role != "" {
		if err := s.ensureRole(ctx, role); err != nil {
			return nil, &domain.RoleAssignmentError{Role: role, Err: err}
		}
		if err := s.store.AddToRole(ctx, created, role); err != nil {
			return nil, &domain.RoleAssignmentError{Role: role, Err: err}
		}
		created.Roles = append(created.Roles, role)
	}

	msg := fmt.Sprintf("User %s registered successfully", created.Email)
	if role != "" {
		msg = fmt.Sprintf("User %s registered successfully with role %s", created.Email, role)
	}

	return &ports.RegisterResult{User: created, Message: msg}, nil
}

// Login verifies credentials and mints a bearer token. A missing user and a
// wrong password produce the identical error so responses never reveal which
// emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := s.store.CheckPassword(ctx, user, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}

	roles, err := s.store.GetRoles(ctx, user)
	if err != nil {
		return "", err
	}

	return s.issuer.Issue(user.ID, user.DisplayName(), roles)
}

// ensureRole creates the role when it does not exist yet. The store's
// CreateRole is idempotent, so losing a create race is not an error.
func (s *AuthService) ensureRole(ctx context.Context, role string) error {
	exists, err := s.store.RoleExists(ctx, role)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.store.CreateRole(ctx, role)
}

func validateRegisterInput(input ports.RegisterInput) *domain.ValidationError {
	verr := &domain.ValidationError{}

	email := domain.NormalizeEmail(input.Email)
	if email == "" {
		verr.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		verr.Add("email", "email must be a valid address")
	}

	if input.Password == "" {
		verr.Add("password", "password is required")
	} else if len(input.Password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if strings.TrimSpace(input.FirstName) == "" {
		verr.Add("first_name", "first name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		verr.Add("last_name", "last name is required")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
