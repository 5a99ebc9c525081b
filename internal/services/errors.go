package services

import "errors"

// Error taxonomy shared by all services. Callers wrap these with context
// (fmt.Errorf("%w: ...")) and handlers map them to HTTP status codes.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrAlreadyExists   = errors.New("already exists")
)
