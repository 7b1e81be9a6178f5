package common

import "errors"

// Service-level error categories. Repos and services wrap these with
// fmt.Errorf("%w: ...") and handlers map them to HTTP statuses with
// errors.Is, so raw storage error text never reaches a client.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("storage failure")
)
