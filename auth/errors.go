package auth

import (
	"errors"
	"fmt"
)

type (
	// ValidationError flags request input the user can correct.
	ValidationError string

	// ConflictError flags a registration that lost the uniqueness race
	// on the username column.
	ConflictError struct {
		Username string
	}
)

const (
	ErrMissingFields    = ValidationError("missing fields")
	ErrPasswordMismatch = ValidationError("password mismatch")
)

// ErrInvalidCredentials is returned for unknown usernames and wrong
// passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

func (v ValidationError) Error() string {
	return string(v)
}

func (c ConflictError) Error() string {
	return fmt.Sprintf("username %v already taken", c.Username)
}
