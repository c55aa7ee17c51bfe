package payment

import (
	"context"
	"time"

	"fieldbook/internal/domain"
)

type bookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, orderCode string, at time.Time) (bool, error)
}

type packageStore interface {
	ConfirmPayment(ctx context.Context, orderCode string, at time.Time) (bool, error)
}
