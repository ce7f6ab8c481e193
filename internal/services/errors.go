// Package services holds the business logic of the Xpense server. The
// sentinel errors below let handlers distinguish failure classes
// without inspecting storage errors: ErrNotFound means the resource id
// does not exist, ErrForbidden means it exists but belongs to another
// user, ErrConflict signals a unique-constraint violation such as a
// duplicate username, and ErrUnauthorized covers bad credentials and
// unknown bearer tokens.
package services

import "errors"

// ErrNotFound is returned when no record with the requested id exists.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a create cannot proceed because of
// conflicting state, such as signing up with a taken username.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned for bad credentials or an unknown bearer
// token. Handlers should translate this into an HTTP 401 response.
var ErrUnauthorized = errors.New("unauthorized")
