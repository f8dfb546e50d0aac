package postgres

import (
	"context"
	"time"

	"freshCartChurn/domain"

	"gorm.io/gorm"
)

// PredictionRepository is the append-only monitoring log behind the
// serving layer. Rows are never updated or deleted.
type PredictionRepository struct {
	DB *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{
		DB: db,
	}
}

func (r *PredictionRepository) Insert(ctx context.Context, rec domain.PredictionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	return r.DB.WithContext(ctx).Create(&rec).Error
}

func (r *PredictionRepository) QueryAll(ctx context.Context) ([]domain.PredictionRecord, error) {
	var records []domain.PredictionRecord
	err := r.DB.WithContext(ctx).Order("id").Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
