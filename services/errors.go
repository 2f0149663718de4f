package services

import "errors"

// Sentinel errors the handlers translate to HTTP status codes. Services wrap
// them with fmt.Errorf("%w: ...") so the caller still sees the specific
// message.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrConflict        = errors.New("conflict")
	ErrNothingToUpdate = errors.New("nothing to update")
)
