package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	ScheduleID int64 `json:"schedule_id" binding:"required"`

	// Filled from the authenticated identity, never from the body.
	UserID int64 `json:"-"`
}

type BookingResponse struct {
	ID            int64           `json:"id"`
	OrderCode     string          `json:"order_code"`
	ScheduleID    int64           `json:"schedule_id"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	StartTime     *time.Time      `json:"start_time,omitempty"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
