package domain

import "errors"

// Errors surfaced by the backend gateway.
var (
	ErrUnauthorized = errors.New("backend rejected credential")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotLoggedIn  = errors.New("no active session")
)
