package user

import "errors"

var (
	// ErrUserExists indicates that the username or email is already registered.
	ErrUserExists = errors.New("username or email already exists")

	// ErrInvalidCredentials is returned for any failed login, whether the
	// user is unknown or the password is wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidResetToken indicates an unknown, used or expired reset token.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)
