package payment

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"fieldbook/internal/repository"

	"gorm.io/gorm"
)

// Statuses the gateway reports for a settled payment. Anything else is
// acknowledged without a state change so gateway retries stay harmless.
var successStatuses = map[string]bool{
	"PAID":    true,
	"SUCCESS": true,
	"00":      true,
}

type Service struct {
	bookings bookingStore
	packages packageStore
	secret   string
	loggerf  func(format string, args ...interface{})
	now      func() time.Time
}

func NewService(bookings bookingStore, packages packageStore, secret string, loggerf func(string, ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings: bookings,
		packages: packages,
		secret:   secret,
		loggerf:  loggerf,
		now:      time.Now,
	}
}

// Confirm reconciles a gateway callback with the order it references. The
// checksum is validated before anything is looked up; a forged or corrupt
// callback never touches state. Retried deliveries surface
// ErrAlreadyConfirmed exactly as the first delivery surfaced success.
func (s *Service) Confirm(ctx context.Context, orderCode, status, checksum string) error {
	if !strings.EqualFold(checksum, s.checksum(orderCode, status)) {
		s.loggerf("level=warn msg=payment checksum mismatch order_code=%s", orderCode)
		return ErrInvalidSignature
	}

	if !successStatuses[strings.ToUpper(status)] {
		s.loggerf("level=info msg=non-success payment status acknowledged order_code=%s status=%s", orderCode, status)
		return nil
	}

	return s.apply(ctx, orderCode)
}

// ConfirmCallback handles the payos-style callback that references the
// booking by id over a trusted channel.
func (s *Service) ConfirmCallback(ctx context.Context, bookingID int64, status string) error {
	if !successStatuses[strings.ToUpper(status)] {
		s.loggerf("level=info msg=non-success payos callback acknowledged booking_id=%d status=%s", bookingID, status)
		return nil
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.apply(ctx, b.OrderCode)
}

// apply performs the compare-and-set transition. Bookings are tried first,
// then monthly packages, which share the order-code space.
func (s *Service) apply(ctx context.Context, orderCode string) error {
	changed, err := s.bookings.ConfirmPayment(ctx, orderCode, s.now())
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		changed, err = s.packages.ConfirmPayment(ctx, orderCode, s.now())
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrStateConflict):
		return ErrIneligibleState
	case err != nil:
		return err
	}
	if !changed {
		s.loggerf("level=info msg=idempotent payment confirmation order_code=%s", orderCode)
		return ErrAlreadyConfirmed
	}
	return nil
}

func (s *Service) checksum(orderCode, status string) string {
	h := md5.Sum([]byte(strings.Join([]string{orderCode, status, s.secret}, ":")))
	return strings.ToUpper(hex.EncodeToString(h[:]))
}
