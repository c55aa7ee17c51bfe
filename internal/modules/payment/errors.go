package payment

import "errors"

var (
	ErrNotFound         = errors.New("order not found")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrAlreadyConfirmed = errors.New("payment already confirmed")
	ErrIneligibleState  = errors.New("order not awaiting payment")
)
