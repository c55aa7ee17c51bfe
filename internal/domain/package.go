package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// BookingPackage is a monthly booking aggregating many sessions on one
// field. It mirrors Booking structurally and shares its state machine.
type BookingPackage struct {
	ID              int64           `gorm:"primaryKey" json:"id"`
	UserID          int64           `gorm:"index;not null" json:"user_id"`
	FieldID         int64           `gorm:"index;not null" json:"field_id"`
	OrderCode       string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_code"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(14,2)" json:"total_price"`
	PricePerSession decimal.Decimal `gorm:"type:decimal(14,2)" json:"price_per_session"`
	Status          BookingStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);default:'unpaid'" json:"payment_status"`
	QRCode          string          `gorm:"type:text" json:"qr_code,omitempty"`
	QRExpiresAt     *time.Time      `json:"qr_expires_at,omitempty"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	User     *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Field    *Field           `gorm:"foreignKey:FieldID" json:"field,omitempty"`
	Sessions []PackageSession `gorm:"foreignKey:PackageID" json:"sessions,omitempty"`
}

func (BookingPackage) TableName() string { return "booking_packages" }

func (p *BookingPackage) State() BookingState {
	return BookingState{Status: p.Status, Payment: p.PaymentStatus}
}

// PackageSession is one scheduled occurrence within a package. Cancelling a
// session never touches its siblings or the parent package status.
type PackageSession struct {
	ID        int64         `gorm:"primaryKey" json:"id"`
	PackageID int64         `gorm:"index;not null" json:"package_id"`
	StartTime time.Time     `gorm:"not null" json:"start_time"`
	EndTime   time.Time     `gorm:"not null" json:"end_time"`
	Status    SessionStatus `gorm:"type:varchar(20);default:'scheduled';index" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Package *BookingPackage `gorm:"foreignKey:PackageID" json:"package,omitempty"`
}

func (PackageSession) TableName() string { return "package_sessions" }

type MonthlyPaymentStatus string

const (
	MonthlyPaymentRefunded MonthlyPaymentStatus = "refunded"
)

// MonthlyPackagePayment records the prorated refund for one cancelled
// package session.
type MonthlyPackagePayment struct {
	ID        int64                `gorm:"primaryKey" json:"id"`
	PackageID int64                `gorm:"index;not null" json:"package_id"`
	SessionID int64                `gorm:"uniqueIndex;not null" json:"session_id"`
	Amount    decimal.Decimal      `gorm:"type:decimal(14,2)" json:"amount"`
	Status    MonthlyPaymentStatus `gorm:"type:varchar(20)" json:"status"`
	RefundQR  string               `gorm:"type:text" json:"refund_qr,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func (MonthlyPackagePayment) TableName() string { return "monthly_package_payments" }
