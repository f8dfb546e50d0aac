package postgres

import (
	"context"

	"freshCartChurn/domain"

	"gorm.io/gorm"
)

type RFMRepository struct {
	DB *gorm.DB
}

func NewRFMRepository(db *gorm.DB) *RFMRepository {
	return &RFMRepository{
		DB: db,
	}
}

func (r *RFMRepository) ReplaceAll(ctx context.Context, scores []domain.RFMScore) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.RFMScore{}).Error; err != nil {
			return err
		}
		if len(scores) == 0 {
			return nil
		}
		return tx.CreateInBatches(scores, 500).Error
	})
}

func (r *RFMRepository) GetByUserID(ctx context.Context, userID uint64) (domain.RFMScore, error) {
	var score domain.RFMScore
	err := r.DB.WithContext(ctx).Where("user_id=?", userID).First(&score).Error
	if err != nil {
		return domain.RFMScore{}, err
	}

	return score, nil
}

func (r *RFMRepository) CountBySegment(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Segment string
		N       int64
	}
	var rows []row
	err := r.DB.WithContext(ctx).
		Model(&domain.RFMScore{}).
		Select("rfm_segment as segment, count(*) as n").
		Group("rfm_segment").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Segment] = r.N
	}

	return out, nil
}
