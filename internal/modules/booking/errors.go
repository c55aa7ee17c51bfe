package booking

import "errors"

var (
	ErrNotFound        = errors.New("booking not found")
	ErrValidation      = errors.New("validation error")
	ErrNotAvailable    = errors.New("slot not available")
	ErrIneligibleState = errors.New("operation not permitted in current state")
	ErrForbidden       = errors.New("forbidden")
)
