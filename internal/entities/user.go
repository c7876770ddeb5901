// Package entities contains core business entities.
package entities

import (
	"strings"
	"time"
)

// Role enumerates account roles.
type Role string

const (
	// RoleUser is a regular account.
	RoleUser Role = "USER"
	// RoleAdmin has access to the admin console.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a domain representation of an account.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// IsAdmin reports whether the user may use the admin console.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lower-cases and trims an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
