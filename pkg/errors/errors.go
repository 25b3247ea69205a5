package threadline_errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidInput  = errors.New("invalid input")
	ErrRateLimited   = errors.New("rate limited")
	ErrAlreadyExists = errors.New("already exists")
	ErrMissingConfig = errors.New("missing configuration")
)

// MissingEnv wraps ErrMissingConfig with the names of the environment
// variables that were absent or empty.
func MissingEnv(names ...string) error {
	return fmt.Errorf("%w: %v", ErrMissingConfig, names)
}
