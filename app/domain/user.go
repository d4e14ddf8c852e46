package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// UserRole represents the role of a user
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// ValidRoles lists every role accepted by the API
var ValidRoles = []UserRole{UserRoleAdmin, UserRoleUser}

// IsValid reports whether the role is one of the known roles
func (r UserRole) IsValid() bool {
	for _, valid := range ValidRoles {
		if r == valid {
			return true
		}
	}
	return false
}

// User represents a local identity record mirrored from the identity provider
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   *string   `json:"full_name,omitempty"`
	IsActive   bool      `json:"is_active"`
	Role       UserRole  `json:"role"`
	CognitoSub *string   `json:"cognito_sub,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// SubjectID returns the provider subject id or the empty string
func (u *User) SubjectID() string {
	if u.CognitoSub == nil {
		return ""
	}
	return *u.CognitoSub
}

// CreateUserParams holds the fields for creating a user record.
// The repository forces Role to admin when the store is empty.
type CreateUserParams struct {
	Username   string
	Email      string
	FullName   *string
	Role       UserRole
	CognitoSub *string
}

// Validate checks creation parameters before they reach the store
func (p *CreateUserParams) Validate() error {
	if p.Username == "" {
		return fmt.Errorf("username is required")
	}
	if p.Email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if p.Role != "" && !p.Role.IsValid() {
		return fmt.Errorf("invalid role: %s", p.Role)
	}
	return nil
}

// UpdateUserParams holds a partial update. Nil pointers mean "not provided";
// a pointer to the empty string clears a nullable column.
type UpdateUserParams struct {
	Username   *string
	Email      *string
	FullName   *string
	IsActive   *bool
	Role       *UserRole
	CognitoSub *string
}

// IsEmpty reports whether the update carries no fields at all
func (p *UpdateUserParams) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.FullName == nil &&
		p.IsActive == nil && p.Role == nil && p.CognitoSub == nil
}

// NormalizeEmail lowercases and trims an email address. Lookups and writes
// both go through this so Test@Example.COM and test@example.com resolve to
// the same record.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail normalizes an email and rejects malformed addresses
func ValidateEmail(email string) (string, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return "", fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", fmt.Errorf("invalid email format: %w", err)
	}
	return normalized, nil
}
