package booking

import (
	"context"

	"fieldbook/internal/domain"
)

// BookingRepository is the slice of the store the booking module consumes.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	Transition(ctx context.Context, id int64, from, to domain.BookingState, fields map[string]any) error
}

type ScheduleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.FieldSchedule, error)
	Reserve(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) error
}

type FieldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}
