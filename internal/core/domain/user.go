package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

// RequiredRoles is the fixed role set guaranteed to exist after bootstrap.
var RequiredRoles = []string{RoleAdmin, RoleCustomer}

// User models an account held by the credential store.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	PasswordHash   string    `json:"-"`
	Roles          []string  `json:"roles"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DisplayName returns the user's full name, falling back to the email when
// no name was supplied at registration.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Email
	}
	return name
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeEmail canonicalizes an email address for lookup and storage.
// Email uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
