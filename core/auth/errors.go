package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateIdentity  = errors.New("username or email already in use")
	ErrRoleNotFound       = errors.New("role not found")
	ErrMissingFields      = errors.New("username, email and password are required")
)
