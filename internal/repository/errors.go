// Package repository defines error types that are reused across multiple
// repositories and services. These sentinel values allow higher layers
// such as handlers to distinguish between different failure scenarios
// with errors.Is and translate them into HTTP status codes.
package repository

import "errors"

// ErrValidation is returned for malformed input, such as a missing
// required field or an end time before the start time. Handlers should
// translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

// ErrForbidden is returned when the caller attempts an operation their
// role does not allow, or on a resource they do not own. Handlers
// should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when a referenced record does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a state transition cannot be performed
// because of conflicting state, such as approving a reservation that
// would overlap an already-approved one, or re-deciding a request that
// already left PENDING. Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidTarget is returned when the referenced target exists but
// cannot accept the operation, such as booking an inactive space.
// Handlers should translate this into an HTTP 422 response.
var ErrInvalidTarget = errors.New("invalid target")
