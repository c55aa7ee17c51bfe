package repository

import (
	"context"
	"time"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) WithTx(tx *gorm.DB) *PackageRepository {
	return &PackageRepository{db: tx}
}

func (r *PackageRepository) Create(ctx context.Context, p *domain.BookingPackage) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PackageRepository) GetByID(ctx context.Context, id int64) (*domain.BookingPackage, error) {
	var p domain.BookingPackage
	if err := r.db.WithContext(ctx).Preload("Sessions").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PackageRepository) GetByOrderCode(ctx context.Context, orderCode string) (*domain.BookingPackage, error) {
	var p domain.BookingPackage
	if err := r.db.WithContext(ctx).Where("order_code = ?", orderCode).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PackageRepository) GetSessionByID(ctx context.Context, id int64) (*domain.PackageSession, error) {
	var s domain.PackageSession
	if err := r.db.WithContext(ctx).Preload("Package").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// TransitionSession conditionally moves one session between statuses.
// Sibling sessions are untouched by construction: the statement is keyed on
// the session id alone.
func (r *PackageRepository) TransitionSession(ctx context.Context, id int64, from, to domain.SessionStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.PackageSession{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.PackageSession{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStateConflict
	}
	return nil
}

// Transition mirrors BookingRepository.Transition for packages.
func (r *PackageRepository) Transition(ctx context.Context, id int64, from, to domain.BookingState, fields map[string]any) error {
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
		Model(&domain.BookingPackage{}).
		Where("id = ? AND status = ? AND payment_status = ?", id, from.Status, from.Payment).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.BookingPackage{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStateConflict
	}
	return nil
}

// CompleteScheduledSessions marks every still-scheduled session of a
// package as completed. Cancelled sessions keep their status.
func (r *PackageRepository) CompleteScheduledSessions(ctx context.Context, packageID int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.PackageSession{}).
		Where("package_id = ? AND status = ?", packageID, domain.SessionScheduled).
		Update("status", domain.SessionCompleted).Error
}

func (r *PackageRepository) ConfirmPayment(ctx context.Context, orderCode string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.BookingPackage{}).
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

	p, err := r.GetByOrderCode(ctx, orderCode)
	if err != nil {
		return false, err
	}
	if p.PaymentStatus == domain.PaymentPaid {
		return false, nil
	}
	return false, ErrStateConflict
}

func (r *PackageRepository) CreateRefund(ctx context.Context, p *domain.MonthlyPackagePayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PackageRepository) SetRefundQR(ctx context.Context, refundID int64, qr string) error {
	return r.db.WithContext(ctx).
		Model(&domain.MonthlyPackagePayment{}).
		Where("id = ?", refundID).
		Update("refund_qr", qr).Error
}
