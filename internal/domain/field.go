package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// Field is a bookable sports field. Field/complex CRUD lives outside this
// service; only the read paths the booking engine needs exist here.
type Field struct {
	ID             int64           `gorm:"primaryKey" json:"id"`
	OwnerID        int64           `gorm:"index;not null" json:"owner_id"`
	Name           string          `gorm:"type:varchar(120);not null" json:"name"`
	ComplexName    string          `gorm:"type:varchar(120)" json:"complex_name"`
	PricePerSlot   decimal.Decimal `gorm:"type:decimal(14,2)" json:"price_per_slot"`
	DepositPercent int64           `gorm:"default:30" json:"deposit_percent"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Field) TableName() string { return "fields" }

// FieldSchedule is one reservable time slot on a field.
type FieldSchedule struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	FieldID   int64      `gorm:"index;not null" json:"field_id"`
	StartTime time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time  `gorm:"not null" json:"end_time"`
	Status    SlotStatus `gorm:"type:varchar(20);default:'available'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Field *Field `gorm:"foreignKey:FieldID" json:"field,omitempty"`
}

func (FieldSchedule) TableName() string { return "field_schedules" }
