package cancellation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fieldbook/internal/domain"
	"fieldbook/internal/notification"
	"fieldbook/internal/pkg/refund"
	"fieldbook/internal/repository"

	"gorm.io/gorm"
)

// Service runs the request → verification → settlement workflow. Every
// operation is one transaction: either the request row, the booking
// transition, the settlement record and the slot release all land, or none
// do. Only QR generation and notification run after commit, so a gateway
// outage can never roll a cancellation back.
type Service struct {
	db            *gorm.DB
	bookings      *repository.BookingRepository
	cancellations *repository.CancellationRepository
	schedules     *repository.ScheduleRepository
	accounts      *repository.BankAccountRepository
	gateway       notification.Gateway
	now           func() time.Time
	loggerf       func(format string, args ...interface{})
}

func NewService(db *gorm.DB, accounts *repository.BankAccountRepository, gateway notification.Gateway) *Service {
	return &Service{
		db:            db,
		bookings:      repository.NewBookingRepository(db),
		cancellations: repository.NewCancellationRepository(db),
		schedules:     repository.NewScheduleRepository(db),
		accounts:      accounts,
		gateway:       gateway,
		now:           time.Now,
		loggerf:       log.Printf,
	}
}

// RequestCancellation opens a pending request against a confirmed booking.
// The one-pending-request-per-booking rule is enforced by the store's
// partial unique index, so two racing requests cannot both get through.
func (s *Service) RequestCancellation(ctx context.Context, bookingID, requesterID int64, reason string) (*domain.BookingCancellationRequest, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != requesterID {
		return nil, ErrForbidden
	}
	if b.State() != domain.StateConfirmedPaid {
		return nil, fmt.Errorf("%w: booking is %s/%s, cancellation requires confirmed/paid",
			ErrIneligibleState, b.Status, b.PaymentStatus)
	}

	req := &domain.BookingCancellationRequest{
		BookingID:   bookingID,
		RequesterID: requesterID,
		Reason:      reason,
		Status:      domain.RequestPending,
		RequestedAt: s.now(),
	}
	if err := s.cancellations.CreateRequest(ctx, req); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}
	return req, nil
}

// ConfirmCancellation settles an approved cancellation: the refund tiers
// are evaluated at approval time against the reserved slot's start time,
// the settlement is written, the booking goes terminal and the slot is
// released, all in one transaction. The refund QR is fetched afterwards.
func (s *Service) ConfirmCancellation(ctx context.Context, requestID, verifierID int64) (*SettlementResult, error) {
	var (
		booking    *domain.Booking
		settlement *domain.BookingCancellation
		outcome    refund.Settlement
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cancellations := s.cancellations.WithTx(tx)
		bookings := s.bookings.WithTx(tx)
		schedules := s.schedules.WithTx(tx)

		req, err := cancellations.GetRequestByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if req.Resolved() {
			return fmt.Errorf("%w: request is already %s", ErrIneligibleState, req.Status)
		}

		booking, err = bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if booking.State() != domain.StateConfirmedPaid {
			return fmt.Errorf("%w: booking is %s/%s", ErrIneligibleState, booking.Status, booking.PaymentStatus)
		}
		if booking.Schedule == nil {
			return fmt.Errorf("booking %d has no schedule attached", booking.ID)
		}

		verifiedAt := s.now()
		outcome, err = refund.Settle(booking.DepositAmount, refund.HoursUntil(booking.Schedule.StartTime, verifiedAt))
		if err != nil {
			// Malformed monetary state is fatal: nothing is mutated.
			return err
		}

		target := domain.StateCancelledRefunded
		if !outcome.RefundOwed() {
			target = domain.StateCancelledPaid
		}
		if err := bookings.Transition(ctx, booking.ID, domain.StateConfirmedPaid, target,
			map[string]any{"cancelled_at": verifiedAt}); err != nil {
			if errors.Is(err, repository.ErrStateConflict) {
				return fmt.Errorf("%w: booking state changed concurrently", ErrIneligibleState)
			}
			return err
		}

		if err := cancellations.ResolveRequest(ctx, requestID, domain.RequestApproved); err != nil {
			return err
		}

		settlement = &domain.BookingCancellation{
			BookingID:     booking.ID,
			RequestID:     requestID,
			VerifierID:    verifierID,
			VerifiedAt:    verifiedAt,
			RefundPercent: outcome.RefundPercent,
			RefundAmount:  outcome.Refund,
			PenaltyAmount: outcome.Penalty,
		}
		if err := cancellations.CreateSettlement(ctx, settlement); err != nil {
			return err
		}

		return schedules.Release(ctx, booking.ScheduleID)
	})
	if err != nil {
		return nil, err
	}

	result := &SettlementResult{
		BookingID:     booking.ID,
		RefundPercent: outcome.RefundPercent,
		RefundAmount:  outcome.Refund,
		PenaltyAmount: outcome.Penalty,
	}

	s.dispatchSettlement(ctx, booking, settlement, result)
	return result, nil
}

// dispatchSettlement runs strictly after the settlement is durable.
func (s *Service) dispatchSettlement(ctx context.Context, booking *domain.Booking, settlement *domain.BookingCancellation, result *SettlementResult) {
	if err := s.gateway.SettlementNotice(ctx, notification.Settlement{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Refund:    settlement.RefundAmount,
		Penalty:   settlement.PenaltyAmount,
		Reference: booking.OrderCode,
	}); err != nil {
		s.loggerf("level=warn msg=settlement notice failed booking_id=%d err=%v", booking.ID, err)
	}

	if !result.RefundAmount.IsPositive() {
		// Penalty retained in full, no refund owed, no QR needed.
		result.QRDelivered = true
		return
	}

	account, err := s.accounts.GetDefaultForUser(ctx, booking.UserID)
	if err != nil {
		s.loggerf("level=error msg=no payout account for refund qr booking_id=%d user_id=%d err=%v", booking.ID, booking.UserID, err)
		return
	}

	qr, err := s.gateway.RefundQR(ctx, account, result.RefundAmount, booking.OrderCode)
	if err != nil {
		s.loggerf("level=error msg=refund qr generation failed booking_id=%d err=%v", booking.ID, err)
		return
	}

	if err := s.cancellations.SetSettlementQR(ctx, settlement.ID, qr); err != nil {
		s.loggerf("level=error msg=failed to persist refund qr settlement_id=%d err=%v", settlement.ID, err)
	}
	result.RefundQR = qr
	result.QRDelivered = true
}

// RejectRequest resolves a pending request without touching the booking.
func (s *Service) RejectRequest(ctx context.Context, requestID, verifierID int64) error {
	err := s.cancellations.ResolveRequest(ctx, requestID, domain.RequestRejected)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrStateConflict):
		return fmt.Errorf("%w: request already resolved", ErrIneligibleState)
	case err != nil:
		return err
	}
	s.loggerf("level=info msg=cancellation request rejected request_id=%d verifier_id=%d", requestID, verifierID)
	return nil
}

// DeleteRequest withdraws a request. Resolved decisions are part of the
// audit trail and cannot be deleted.
func (s *Service) DeleteRequest(ctx context.Context, requestID, requesterID int64) error {
	req, err := s.cancellations.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if req.RequesterID != requesterID {
		return ErrForbidden
	}

	err = s.cancellations.DeleteRequest(ctx, requestID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrStateConflict):
		return ErrInvalidOperation
	default:
		return err
	}
}
