package common

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")

	ErrUnauthenticated = errors.New("invalid or missing authentication token")
	// ErrSessionExpired is reported when a session existed but is past its expiry. Callers
	// treat it like ErrUnauthenticated.
	ErrSessionExpired = errors.New("session expired")

	ErrForbidden    = errors.New("you do not have permission to modify this resource")
	ErrUpstreamAuth = errors.New("authentication provider failure")
	ErrMediaUpload  = errors.New("image upload failed")
)

// IsUnauthenticated reports whether err means the caller has no usable credential.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrSessionExpired)
}

// UniqueViolation is a helper function to check if the error is a unique constraint error on the named constraint.
func UniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == constraint {
			return true
		}
	}

	return false
}
