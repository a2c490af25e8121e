package types

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address, unique across all accounts.
	// Stored and compared case-sensitively.
	Email string `json:"email" db:"email"`

	// Role indicates the user's authorization level within the system.
	Role Role `json:"role" db:"role"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// EmailVerified reports whether the email address has been confirmed.
	EmailVerified bool `json:"is_email_verified" db:"is_email_verified"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// ResetToken is the pending password-reset token, if one was requested.
	// Set and cleared together with ResetTokenExpiresAt; never serialized.
	ResetToken *string `json:"-" db:"reset_token"`

	// ResetTokenExpiresAt is the instant the pending reset token stops
	// being accepted.
	ResetTokenExpiresAt *time.Time `json:"-" db:"reset_token_expires_at"`
}
