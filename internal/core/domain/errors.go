package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Login failures collapse to a single sentinel regardless of cause so the
// response never reveals whether an email is registered.
var ErrInvalidCredentials = errors.New("invalid email or password")

var ErrUserNotFound = errors.New("user not found")
var ErrSigningConfig = errors.New("token signing misconfigured")
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// FieldError is a single validation failure attributed to an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level failures from input checks or from
// the credential store's own rules (duplicate email, weak password). It is
// always surfaced whole; a registration either fully succeeds or reports
// every broken rule.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a failure for the given field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any failure has been recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// RoleAssignmentError reports that the user was created but could not be
// placed in the requested role. The partial state is deliberate: the account
// exists and can log in role-less, and the caller decides how to surface it.
type RoleAssignmentError struct {
	Role string
	Err  error
}

func (e *RoleAssignmentError) Error() string {
	return fmt.Sprintf("assign role %q: %v", e.Role, e.Err)
}

func (e *RoleAssignmentError) Unwrap() error {
	return e.Err
}
