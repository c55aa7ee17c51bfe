package bookingpackage

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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service manages monthly packages and their sessions. Session cancellation
// follows the same transaction-then-dispatch shape as booking cancellation:
// the session transition and the refund record commit together, the refund
// QR is fetched only after the commit.
type Service struct {
	db       *gorm.DB
	packages *repository.PackageRepository
	fields   *repository.FieldRepository
	accounts *repository.BankAccountRepository
	gateway  notification.Gateway
	now      func() time.Time
	loggerf  func(format string, args ...interface{})
}

func NewService(db *gorm.DB, accounts *repository.BankAccountRepository, gateway notification.Gateway) *Service {
	return &Service{
		db:       db,
		packages: repository.NewPackageRepository(db),
		fields:   repository.NewFieldRepository(db),
		accounts: accounts,
		gateway:  gateway,
		now:      time.Now,
		loggerf:  log.Printf,
	}
}

// CreatePackage opens a pending/unpaid package with one session row per
// requested slot. Sessions must all lie in the future.
func (s *Service) CreatePackage(ctx context.Context, req CreatePackageRequest) (*PackageResponse, error) {
	if len(req.Sessions) == 0 {
		return nil, fmt.Errorf("%w: at least one session is required", ErrValidation)
	}
	now := s.now()
	for _, slot := range req.Sessions {
		if !slot.EndTime.After(slot.StartTime) {
			return nil, fmt.Errorf("%w: session end must be after start", ErrValidation)
		}
		if !slot.StartTime.After(now) {
			return nil, fmt.Errorf("%w: sessions must be in the future", ErrValidation)
		}
	}

	field, err := s.fields.GetByID(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sessions := make([]domain.PackageSession, 0, len(req.Sessions))
	for _, slot := range req.Sessions {
		sessions = append(sessions, domain.PackageSession{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Status:    domain.SessionScheduled,
		})
	}

	pkg := &domain.BookingPackage{
		UserID:          req.UserID,
		FieldID:         field.ID,
		OrderCode:       uuid.NewString(),
		PricePerSession: field.PricePerSlot,
		TotalPrice:      field.PricePerSlot.Mul(decimal.NewFromInt(int64(len(sessions)))),
		Status:          domain.BookingPending,
		PaymentStatus:   domain.PaymentUnpaid,
		Sessions:        sessions,
	}
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}
	return toPackageResponse(pkg), nil
}

func (s *Service) GetPackage(ctx context.Context, id int64) (*PackageResponse, error) {
	pkg, err := s.packages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toPackageResponse(pkg), nil
}

// CancelSession cancels one session of a paid package and refunds the
// prorated per-session amount. The refund tiers run against the session's
// own start time, not the package's. Sibling sessions and the parent
// package status are never touched.
func (s *Service) CancelSession(ctx context.Context, sessionID, requesterID int64) (*CancelSessionResult, error) {
	var (
		pkg     *domain.BookingPackage
		refRow  *domain.MonthlyPackagePayment
		outcome refund.Settlement
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		packages := s.packages.WithTx(tx)

		session, err := packages.GetSessionByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		pkg = session.Package
		if pkg == nil {
			return fmt.Errorf("session %d has no package attached", sessionID)
		}
		if pkg.UserID != requesterID {
			return ErrForbidden
		}
		if session.Status != domain.SessionScheduled {
			return fmt.Errorf("%w: session is %s", ErrIneligibleState, session.Status)
		}
		if pkg.State() != domain.StateConfirmedPaid {
			return fmt.Errorf("%w: package is %s/%s, session cancellation requires confirmed/paid",
				ErrIneligibleState, pkg.Status, pkg.PaymentStatus)
		}

		outcome, err = refund.Settle(pkg.PricePerSession, refund.HoursUntil(session.StartTime, s.now()))
		if err != nil {
			return err
		}

		if err := packages.TransitionSession(ctx, sessionID, domain.SessionScheduled, domain.SessionCancelled); err != nil {
			if errors.Is(err, repository.ErrStateConflict) {
				return fmt.Errorf("%w: session state changed concurrently", ErrIneligibleState)
			}
			return err
		}

		refRow = &domain.MonthlyPackagePayment{
			PackageID: pkg.ID,
			SessionID: sessionID,
			Amount:    outcome.Refund,
			Status:    domain.MonthlyPaymentRefunded,
		}
		return packages.CreateRefund(ctx, refRow)
	})
	if err != nil {
		return nil, err
	}

	result := &CancelSessionResult{
		SessionID:     sessionID,
		RefundPercent: outcome.RefundPercent,
		RefundAmount:  outcome.Refund,
	}
	s.dispatchRefundQR(ctx, pkg, refRow, result)
	return result, nil
}

// dispatchRefundQR runs strictly after the refund record is durable.
func (s *Service) dispatchRefundQR(ctx context.Context, pkg *domain.BookingPackage, refRow *domain.MonthlyPackagePayment, result *CancelSessionResult) {
	if !result.RefundAmount.IsPositive() {
		result.QRDelivered = true
		return
	}

	account, err := s.accounts.GetDefaultForUser(ctx, pkg.UserID)
	if err != nil {
		s.loggerf("level=error msg=no payout account for session refund qr package_id=%d user_id=%d err=%v", pkg.ID, pkg.UserID, err)
		return
	}

	reference := fmt.Sprintf("%s-s%d", pkg.OrderCode, refRow.SessionID)
	qr, err := s.gateway.RefundQR(ctx, account, result.RefundAmount, reference)
	if err != nil {
		s.loggerf("level=error msg=session refund qr generation failed session_id=%d err=%v", refRow.SessionID, err)
		return
	}

	if err := s.packages.SetRefundQR(ctx, refRow.ID, qr); err != nil {
		s.loggerf("level=error msg=failed to persist session refund qr refund_id=%d err=%v", refRow.ID, err)
	}
	result.RefundQR = qr
	result.QRDelivered = true
}

// CompletePackage transitions the package and every still-scheduled session
// to completed in one transaction. Cancelled sessions keep their status.
func (s *Service) CompletePackage(ctx context.Context, packageID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		packages := s.packages.WithTx(tx)

		err := packages.Transition(ctx, packageID, domain.StateConfirmedPaid, domain.StateCompletedPaid, nil)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrNotFound
		case errors.Is(err, repository.ErrStateConflict):
			return fmt.Errorf("%w: package is not confirmed/paid", ErrIneligibleState)
		case err != nil:
			return err
		}

		return packages.CompleteScheduledSessions(ctx, packageID)
	})
}

func toPackageResponse(pkg *domain.BookingPackage) *PackageResponse {
	sessions := make([]SessionResponse, 0, len(pkg.Sessions))
	for _, s := range pkg.Sessions {
		sessions = append(sessions, SessionResponse{
			ID:        s.ID,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Status:    string(s.Status),
		})
	}
	return &PackageResponse{
		ID:              pkg.ID,
		OrderCode:       pkg.OrderCode,
		FieldID:         pkg.FieldID,
		TotalPrice:      pkg.TotalPrice,
		PricePerSession: pkg.PricePerSession,
		Status:          string(pkg.Status),
		PaymentStatus:   string(pkg.PaymentStatus),
		Sessions:        sessions,
	}
}
