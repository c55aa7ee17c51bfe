package cancellation

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrIneligibleState  = errors.New("operation not permitted in current state")
	ErrDuplicateRequest = errors.New("an unresolved cancellation request already exists")
	ErrInvalidOperation = errors.New("resolved requests cannot be deleted")
	ErrForbidden        = errors.New("forbidden")
)
