package domain

import (
	"strings"
	"time"
)

const (
	RoleClient = "Client"
	RoleHost   = "Host"
	RoleAdmin  = "Admin"
)

// DefaultRoles is the role set seeded at startup. Registration may still
// create additional roles on demand.
var DefaultRoles = []string{RoleClient, RoleHost, RoleAdmin}

// User models a registered account. The password hash is owned by the
// credential store and never serialised outward.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is the human-readable name embedded in issued tokens.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lowercases and trims an email for case-insensitive lookup.
// Uniqueness in the store is enforced on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
