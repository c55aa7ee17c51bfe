package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// BookingState is the joint (status, payment status) pair. Transitions are
// validated on the pair as a whole so that combinations like
// confirmed/unpaid are never representable in the store.
type BookingState struct {
	Status  BookingStatus
	Payment PaymentStatus
}

var (
	StatePendingUnpaid     = BookingState{BookingPending, PaymentUnpaid}
	StateConfirmedPaid     = BookingState{BookingConfirmed, PaymentPaid}
	StateCompletedPaid     = BookingState{BookingCompleted, PaymentPaid}
	StateCancelledRefunded = BookingState{BookingCancelled, PaymentRefunded}
	// StateCancelledPaid is the 0%-refund outcome: the deposit is retained
	// as penalty and no refund is owed.
	StateCancelledPaid = BookingState{BookingCancelled, PaymentPaid}
)

var bookingTransitions = map[BookingState][]BookingState{
	StatePendingUnpaid: {StateConfirmedPaid},
	StateConfirmedPaid: {StateCompletedPaid, StateCancelledRefunded, StateCancelledPaid},
}

// Terminal reports whether no further transition may leave this state.
func (s BookingState) Terminal() bool {
	return s.Status == BookingCompleted || s.Status == BookingCancelled
}

func (s BookingState) CanTransition(to BookingState) bool {
	for _, t := range bookingTransitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	UserID        int64           `gorm:"index;not null" json:"user_id"`
	ScheduleID    int64           `gorm:"index;not null" json:"schedule_id"`
	OrderCode     string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_code"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(14,2)" json:"total_price"`
	DepositAmount decimal.Decimal `gorm:"type:decimal(14,2)" json:"deposit_amount"`
	Status        BookingStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);default:'unpaid'" json:"payment_status"`
	QRCode        string          `gorm:"type:text" json:"qr_code,omitempty"`
	QRExpiresAt   *time.Time      `json:"qr_expires_at,omitempty"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	User     *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Schedule *FieldSchedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) State() BookingState {
	return BookingState{Status: b.Status, Payment: b.PaymentStatus}
}
