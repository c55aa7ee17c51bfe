package repository

import (
	"context"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type CancellationRepository struct {
	db *gorm.DB
}

func NewCancellationRepository(db *gorm.DB) *CancellationRepository {
	return &CancellationRepository{db: db}
}

func (r *CancellationRepository) WithTx(tx *gorm.DB) *CancellationRepository {
	return &CancellationRepository{db: tx}
}

// CreateRequest inserts a pending cancellation request. The partial unique
// index on (booking_id) WHERE status='pending' makes the duplicate check
// atomic: two simultaneous requests cannot both pass, the loser surfaces a
// unique violation which callers map to DuplicateRequest.
func (r *CancellationRepository) CreateRequest(ctx context.Context, req *domain.BookingCancellationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *CancellationRepository) GetRequestByID(ctx context.Context, id int64) (*domain.BookingCancellationRequest, error) {
	var req domain.BookingCancellationRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ResolveRequest moves a pending request to approved or rejected. Resolved
// requests are immutable: the WHERE clause only matches pending rows.
func (r *CancellationRepository) ResolveRequest(ctx context.Context, id int64, to domain.CancellationRequestStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.BookingCancellationRequest{}).
		Where("id = ? AND status = ?", id, domain.RequestPending).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.BookingCancellationRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStateConflict
	}
	return nil
}

// DeleteRequest removes a request only while it is still pending.
func (r *CancellationRepository) DeleteRequest(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, domain.RequestPending).
		Delete(&domain.BookingCancellationRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.BookingCancellationRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStateConflict
	}
	return nil
}

func (r *CancellationRepository) CreateSettlement(ctx context.Context, c *domain.BookingCancellation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CancellationRepository) GetSettlementByBookingID(ctx context.Context, bookingID int64) (*domain.BookingCancellation, error) {
	var c domain.BookingCancellation
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// SetSettlementQR records the refund QR reference after the settlement has
// been committed. Runs outside the settlement transaction on purpose.
func (r *CancellationRepository) SetSettlementQR(ctx context.Context, settlementID int64, qr string) error {
	return r.db.WithContext(ctx).
		Model(&domain.BookingCancellation{}).
		Where("id = ?", settlementID).
		Update("refund_qr", qr).Error
}
