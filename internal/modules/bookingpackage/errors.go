package bookingpackage

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrIneligibleState = errors.New("ineligible state")
	ErrForbidden       = errors.New("forbidden")
)
