package repository

import (
	"context"
	"time"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction so
// workflow services can compose repository calls into one atomic unit.
func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Preload("Schedule").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByOrderCode(ctx context.Context, orderCode string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("order_code = ?", orderCode).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Schedule").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// Transition moves a booking from an expected prior state to a new one as a
// single conditional UPDATE. Zero affected rows means the booking either
// does not exist or moved on since it was read; callers get
// gorm.ErrRecordNotFound or ErrStateConflict respectively, never a silent
// lost update. Extra fields ride along in the same statement.
func (r *BookingRepository) Transition(ctx context.Context, id int64, from, to domain.BookingState, fields map[string]any) error {
	if !from.CanTransition(to) {
		return ErrInvalidTransition
	}

	updates := map[string]any{
		"status":         to.Status,
		"payment_status": to.Payment,
	}
	for k, v := range fields {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ? AND payment_status = ?", id, from.Status, from.Payment).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStateConflict
	}
	return nil
}

// ConfirmPayment is the compare-and-set behind payment confirmation. It
// returns false without error when the booking is already paid, which is
// how retried webhook deliveries are kept idempotent.
func (r *BookingRepository) ConfirmPayment(ctx context.Context, orderCode string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("order_code = ? AND status = ? AND payment_status = ?",
			orderCode, domain.BookingPending, domain.PaymentUnpaid).
		Updates(map[string]any{
			"status":         domain.BookingConfirmed,
			"payment_status": domain.PaymentPaid,
			"confirmed_at":   at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	b, err := r.GetByOrderCode(ctx, orderCode)
	if err != nil {
		return false, err
	}
	if b.PaymentStatus == domain.PaymentPaid {
		return false, nil
	}
	return false, ErrStateConflict
}

func (r *BookingRepository) SetQR(ctx context.Context, id int64, qr string, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"qr_code": qr, "qr_expires_at": expiresAt}).Error
}
