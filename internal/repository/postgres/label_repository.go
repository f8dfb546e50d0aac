package postgres

import (
	"context"

	"freshCartChurn/domain"

	"gorm.io/gorm"
)

type LabelRepository struct {
	DB *gorm.DB
}

func NewLabelRepository(db *gorm.DB) *LabelRepository {
	return &LabelRepository{
		DB: db,
	}
}

func (r *LabelRepository) ReplaceAll(ctx context.Context, labels []domain.ChurnLabel) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.ChurnLabel{}).Error; err != nil {
			return err
		}
		if len(labels) == 0 {
			return nil
		}
		return tx.CreateInBatches(labels, 500).Error
	})
}

func (r *LabelRepository) GetAll(ctx context.Context) ([]domain.ChurnLabel, error) {
	var labels []domain.ChurnLabel
	err := r.DB.WithContext(ctx).Order("user_id").Find(&labels).Error
	if err != nil {
		return nil, err
	}

	return labels, nil
}

func (r *LabelRepository) CountChurned(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&domain.ChurnLabel{}).Where("is_churn=?", 1).Count(&n).Error
	if err != nil {
		return 0, err
	}

	return n, nil
}
