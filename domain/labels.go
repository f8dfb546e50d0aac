package domain

// ChurnLabel is the supervised ground truth, one row per user that has
// a held-out "train" order. DaysToNextOrder is that order's
// days_since_prior_order (0 when the source left it empty). Users
// without a train row never appear here.
type ChurnLabel struct {
	UserID          uint64  `gorm:"column:user_id;primaryKey" json:"user_id"`
	IsChurn         int     `gorm:"column:is_churn" json:"is_churn"`
	DaysToNextOrder float64 `gorm:"column:days_to_next_order" json:"days_to_next_order"`
}

func (ChurnLabel) TableName() string {
	return "churn_labels"
}
