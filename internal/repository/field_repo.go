package repository

import (
	"context"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type FieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

func (r *FieldRepository) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	var f domain.Field
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}
