package repository

import (
	"context"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) WithTx(tx *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: tx}
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*domain.FieldSchedule, error) {
	var s domain.FieldSchedule
	if err := r.db.WithContext(ctx).Preload("Field").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Reserve flips an available slot to booked. The conditional update is what
// stops two bookings from racing onto the same slot.
func (r *ScheduleRepository) Reserve(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.FieldSchedule{}).
		Where("id = ? AND status = ?", id, domain.SlotAvailable).
		Update("status", domain.SlotBooked)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Release puts a slot back on the market after completion or cancellation.
func (r *ScheduleRepository) Release(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&domain.FieldSchedule{}).
		Where("id = ?", id).
		Update("status", domain.SlotAvailable)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
