package domain

import "errors"

// Sentinel errors used across services. Handlers translate these into HTTP
// status codes via errors.Is, so services never deal in status codes and
// unexpected store failures surface as a generic 500.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)
