package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"fieldbook/internal/domain"
	"fieldbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

type Service struct {
	bookings  BookingRepository
	schedules ScheduleRepository
	fields    FieldRepository
	now       func() time.Time
}

func NewService(bookings BookingRepository, schedules ScheduleRepository, fields FieldRepository) *Service {
	return &Service{
		bookings:  bookings,
		schedules: schedules,
		fields:    fields,
		now:       time.Now,
	}
}

// CreateBooking reserves a slot and opens a booking in pending/unpaid.
// Price and deposit come from the field; the deposit is what the player
// pays up front and what the refund tiers later apply to.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	sched, err := s.schedules.GetByID(ctx, req.ScheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !sched.StartTime.After(s.now()) {
		return nil, ErrValidation
	}

	field, err := s.fields.GetByID(ctx, sched.FieldID)
	if err != nil {
		return nil, err
	}

	ok, err := s.schedules.Reserve(ctx, sched.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAvailable
	}

	total := field.PricePerSlot
	deposit := total.Mul(decimal.NewFromInt(field.DepositPercent)).Div(oneHundred).Round(2)

	b := &domain.Booking{
		UserID:        req.UserID,
		ScheduleID:    sched.ID,
		OrderCode:     uuid.NewString(),
		TotalPrice:    total,
		DepositAmount: deposit,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentUnpaid,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if relErr := s.schedules.Release(ctx, sched.ID); relErr != nil {
			log.Printf("level=error msg=failed to release slot after create failure schedule_id=%d err=%v", sched.ID, relErr)
		}
		return nil, err
	}

	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, id, requesterID int64, role string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != requesterID && role != string(domain.RoleStaff) && role != string(domain.RoleFieldOwner) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

// CompleteBooking closes out a played booking and puts the slot back on
// the market. Only confirmed/paid bookings can complete; terminal states
// are never left.
func (s *Service) CompleteBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	err := s.bookings.Transition(ctx, id, domain.StateConfirmedPaid, domain.StateCompletedPaid, nil)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case errors.Is(err, repository.ErrStateConflict), errors.Is(err, repository.ErrInvalidTransition):
		return nil, ErrIneligibleState
	case err != nil:
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.schedules.Release(ctx, b.ScheduleID); err != nil {
		log.Printf("level=error msg=failed to release slot on completion booking_id=%d schedule_id=%d err=%v", b.ID, b.ScheduleID, err)
	}
	return b, nil
}
