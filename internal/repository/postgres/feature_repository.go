package postgres

import (
	"context"

	"freshCartChurn/domain"

	"gorm.io/gorm"
)

type FeatureRepository struct {
	DB *gorm.DB
}

func NewFeatureRepository(db *gorm.DB) *FeatureRepository {
	return &FeatureRepository{
		DB: db,
	}
}

// ReplaceAll swaps the whole feature matrix inside one transaction.
// Features are recomputed from scratch each run, so there is no
// incremental upsert path.
func (r *FeatureRepository) ReplaceAll(ctx context.Context, features []domain.UserFeatures) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.UserFeatures{}).Error; err != nil {
			return err
		}
		if len(features) == 0 {
			return nil
		}
		return tx.CreateInBatches(features, 500).Error
	})
}

func (r *FeatureRepository) GetByUserID(ctx context.Context, userID uint64) (domain.UserFeatures, error) {
	var uf domain.UserFeatures
	err := r.DB.WithContext(ctx).Where("user_id=?", userID).First(&uf).Error
	if err != nil {
		return domain.UserFeatures{}, err
	}

	return uf, nil
}

func (r *FeatureRepository) GetAll(ctx context.Context) ([]domain.UserFeatures, error) {
	var features []domain.UserFeatures
	err := r.DB.WithContext(ctx).Order("user_id").Find(&features).Error
	if err != nil {
		return nil, err
	}

	return features, nil
}

func (r *FeatureRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&domain.UserFeatures{}).Count(&n).Error
	if err != nil {
		return 0, err
	}

	return n, nil
}
