package domain

import (
	"time"

	"gorm.io/datatypes"
)

// PredictionRecord is one row of the append-only monitoring log written
// by the serving layer. Features holds the exact vector the classifier
// saw, so a scored row can be replayed later.
type PredictionRecord struct {
	ID           uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID        string            `gorm:"column:run_id;type:text" json:"run_id"`
	UserID       uint64            `gorm:"column:user_id" json:"user_id"`
	Probability  float64           `gorm:"column:probability" json:"probability"`
	ModelVersion string            `gorm:"column:model_version;type:text" json:"model_version"`
	Features     datatypes.JSONMap `gorm:"column:features" json:"features"`
	CreatedAt    time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (PredictionRecord) TableName() string {
	return "churn_predictions"
}
