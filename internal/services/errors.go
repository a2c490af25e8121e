package services

import "errors"

// Typed failures returned by the AuthService. Handlers map each to one
// status class and one canonical message.
var (
	// ErrDuplicateEmail is returned by Signup when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. The two causes are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when no user matches the given id or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidResetToken is returned by ResetPassword for a token that was
	// never issued or has expired. The two causes are indistinguishable to
	// the caller.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)
