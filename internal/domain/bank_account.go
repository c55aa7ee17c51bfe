package domain

import "time"

// BankAccount is a user's payout account. Account management is an
// external collaborator; the engine only reads the default account to
// address refund QR codes.
type BankAccount struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"index;not null" json:"user_id"`
	BankCode      string    `gorm:"type:varchar(20);not null" json:"bank_code"`
	AccountNumber string    `gorm:"type:varchar(32);not null" json:"account_number"`
	AccountName   string    `gorm:"type:varchar(120)" json:"account_name"`
	IsDefault     bool      `gorm:"default:false;index" json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (BankAccount) TableName() string { return "bank_accounts" }
