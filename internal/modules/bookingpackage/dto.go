package bookingpackage

import (
	"time"

	"github.com/shopspring/decimal"
)

type SessionSlot struct {
	StartTime time.Time `json:"start_time" binding:"required" validate:"required"`
	EndTime   time.Time `json:"end_time" binding:"required" validate:"required"`
}

type CreatePackageRequest struct {
	FieldID  int64         `json:"field_id" binding:"required" validate:"required,gt=0"`
	Sessions []SessionSlot `json:"sessions" binding:"required,min=1,dive" validate:"required,min=1,dive"`

	UserID int64 `json:"-"`
}

type SessionResponse struct {
	ID        int64     `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

type PackageResponse struct {
	ID              int64             `json:"id"`
	OrderCode       string            `json:"order_code"`
	FieldID         int64             `json:"field_id"`
	TotalPrice      decimal.Decimal   `json:"total_price"`
	PricePerSession decimal.Decimal   `json:"price_per_session"`
	Status          string            `json:"status"`
	PaymentStatus   string            `json:"payment_status"`
	Sessions        []SessionResponse `json:"sessions"`
}

// CancelSessionResult carries the per-session refund outcome. RefundQR is
// empty when no refund is owed or the QR gateway was unavailable.
type CancelSessionResult struct {
	SessionID     int64           `json:"session_id"`
	RefundPercent int64           `json:"refund_percent"`
	RefundAmount  decimal.Decimal `json:"refund_amount"`
	RefundQR      string          `json:"refundQr,omitempty"`
	QRDelivered   bool            `json:"qr_delivered"`
}
