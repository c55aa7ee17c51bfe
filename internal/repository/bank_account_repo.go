package repository

import (
	"context"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type BankAccountRepository struct {
	db *gorm.DB
}

func NewBankAccountRepository(db *gorm.DB) *BankAccountRepository {
	return &BankAccountRepository{db: db}
}

// GetDefaultForUser returns the payout account refund QR codes are
// addressed to. Falls back to the user's only account when none is flagged
// default.
func (r *BankAccountRepository) GetDefaultForUser(ctx context.Context, userID int64) (*domain.BankAccount, error) {
	var acc domain.BankAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, id ASC").
		First(&acc).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
