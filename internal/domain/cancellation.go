package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CancellationRequestStatus string

const (
	RequestPending  CancellationRequestStatus = "pending"
	RequestApproved CancellationRequestStatus = "approved"
	RequestRejected CancellationRequestStatus = "rejected"
)

// BookingCancellationRequest is a player's request to cancel a confirmed
// booking. At most one pending request may exist per booking; the partial
// unique index enforces that at the store level.
type BookingCancellationRequest struct {
	ID          int64                     `gorm:"primaryKey" json:"id"`
	BookingID   int64                     `gorm:"not null;index:idx_pending_request_per_booking,unique,where:status = 'pending'" json:"booking_id"`
	RequesterID int64                     `gorm:"not null" json:"requester_id"`
	Reason      string                    `gorm:"type:text" json:"reason"`
	Status      CancellationRequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	RequestedAt time.Time                 `json:"requested_at"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

func (BookingCancellationRequest) TableName() string { return "booking_cancellation_requests" }

func (r *BookingCancellationRequest) Resolved() bool {
	return r.Status != RequestPending
}

// BookingCancellation is the settlement record written exactly once when a
// cancellation is approved. Refund and penalty always sum to the deposit.
type BookingCancellation struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	BookingID     int64           `gorm:"uniqueIndex;not null" json:"booking_id"`
	RequestID     int64           `gorm:"not null" json:"request_id"`
	VerifierID    int64           `gorm:"not null" json:"verifier_id"`
	VerifiedAt    time.Time       `json:"verified_at"`
	RefundPercent int64           `json:"refund_percent"`
	RefundAmount  decimal.Decimal `gorm:"type:decimal(14,2)" json:"refund_amount"`
	PenaltyAmount decimal.Decimal `gorm:"type:decimal(14,2)" json:"penalty_amount"`
	RefundQR      string          `gorm:"type:text" json:"refund_qr,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

func (BookingCancellation) TableName() string { return "booking_cancellations" }
