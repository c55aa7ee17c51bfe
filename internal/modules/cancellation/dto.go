package cancellation

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateRequestBody struct {
	BookingID int64  `json:"bookingId" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type RequestResponse struct {
	ID          int64     `json:"id"`
	BookingID   int64     `json:"booking_id"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// SettlementResult is returned from confirmCancellation. QRDelivered is
// false when the cancellation stood but the QR gateway failed; the client
// may re-fetch the QR later, the settlement is already durable.
type SettlementResult struct {
	BookingID     int64           `json:"booking_id"`
	RefundPercent int64           `json:"refund_percent"`
	RefundAmount  decimal.Decimal `json:"refundAmount"`
	PenaltyAmount decimal.Decimal `json:"penaltyAmount"`
	RefundQR      string          `json:"refundQr,omitempty"`
	QRDelivered   bool            `json:"qr_delivered"`
}
