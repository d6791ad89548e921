package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when a protected operation has no caller identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("user does not own the resource")
	// ErrNotFound is returned when the requested post or comment does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrAuthorNotFound is returned when a stored user id has no username.
	ErrAuthorNotFound = errors.New("author not found")
	// ErrStoreUnavailable wraps every underlying store failure.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidInput is returned for blank titles or comment content.
	ErrInvalidInput = errors.New("invalid input")
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
