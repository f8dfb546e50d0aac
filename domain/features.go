package domain

// UserFeatures is the derived feature record, one row per user. It is
// produced once per pipeline run by the RFM and behavioral builders,
// joined on user id, and is immutable afterwards. The no-null policy of
// the builders guarantees every column holds a defined value.
type UserFeatures struct {
	UserID uint64 `gorm:"column:user_id;primaryKey" json:"user_id"`

	// Recency group. The day estimates are order-gap proxies scaled by
	// a 7 days/order assumption, anchored at the global max order number.
	DaysSinceLastOrder   float64 `gorm:"column:days_since_last_order" json:"days_since_last_order"`
	DaysSinceFirstOrder  float64 `gorm:"column:days_since_first_order" json:"days_since_first_order"`
	CustomerAgeDays      float64 `gorm:"column:customer_age_days" json:"customer_age_days"`
	AvgDaysBetweenOrders float64 `gorm:"column:avg_days_between_orders" json:"avg_days_between_orders"`

	// Frequency group.
	TotalOrders          float64 `gorm:"column:total_orders" json:"total_orders"`
	OrdersPerDay         float64 `gorm:"column:orders_per_day" json:"orders_per_day"`
	OrderRegularity      float64 `gorm:"column:order_regularity" json:"order_regularity"`
	StdDaysBetweenOrders float64 `gorm:"column:std_days_between_orders" json:"std_days_between_orders"`

	// Monetary proxy group. No price data in the source, basket size
	// stands in for spend.
	AvgBasketSize              float64 `gorm:"column:avg_basket_size" json:"avg_basket_size"`
	TotalItemsOrdered          float64 `gorm:"column:total_items_ordered" json:"total_items_ordered"`
	BasketSizeStd              float64 `gorm:"column:basket_size_std" json:"basket_size_std"`
	BasketSizeCV               float64 `gorm:"column:basket_size_cv" json:"basket_size_cv"`
	AvgUniqueProductsPerOrder  float64 `gorm:"column:avg_unique_products_per_order" json:"avg_unique_products_per_order"`
	TotalUniqueProductsOrdered float64 `gorm:"column:total_unique_products_ordered" json:"total_unique_products_ordered"`

	// Temporal habit group.
	AvgOrderHour      float64 `gorm:"column:avg_order_hour" json:"avg_order_hour"`
	StdOrderHour      float64 `gorm:"column:std_order_hour" json:"std_order_hour"`
	PreferredHour     float64 `gorm:"column:preferred_hour" json:"preferred_hour"`
	AvgOrderDOW       float64 `gorm:"column:avg_order_dow" json:"avg_order_dow"`
	StdOrderDOW       float64 `gorm:"column:std_order_dow" json:"std_order_dow"`
	PreferredDOW      float64 `gorm:"column:preferred_dow" json:"preferred_dow"`
	WeekendOrderRatio float64 `gorm:"column:weekend_order_ratio" json:"weekend_order_ratio"`
	// The three time-of-day ratios cover [20:00,6:00), [6:00,12:00) and
	// [12:00,18:00). The 18:00-20:00 window is intentionally uncovered,
	// so the three ratios do not sum to 1.
	NightOrderRatio     float64 `gorm:"column:night_order_ratio" json:"night_order_ratio"`
	MorningOrderRatio   float64 `gorm:"column:morning_order_ratio" json:"morning_order_ratio"`
	AfternoonOrderRatio float64 `gorm:"column:afternoon_order_ratio" json:"afternoon_order_ratio"`

	// Reorder behavior group.
	OverallReorderRate     float64 `gorm:"column:overall_reorder_rate" json:"overall_reorder_rate"`
	TotalReorderedItems    float64 `gorm:"column:total_reordered_items" json:"total_reordered_items"`
	ReorderRateStd         float64 `gorm:"column:reorder_rate_std" json:"reorder_rate_std"`
	AvgReorderRatePerOrder float64 `gorm:"column:avg_reorder_rate_per_order" json:"avg_reorder_rate_per_order"`
	ReorderConsistencyStd  float64 `gorm:"column:reorder_consistency_std" json:"reorder_consistency_std"`
	FavoriteProductsCount  float64 `gorm:"column:favorite_products_count" json:"favorite_products_count"`

	// Diversity group.
	UniqueProducts        float64 `gorm:"column:unique_products" json:"unique_products"`
	UniqueAisles          float64 `gorm:"column:unique_aisles" json:"unique_aisles"`
	UniqueDepartments     float64 `gorm:"column:unique_departments" json:"unique_departments"`
	AvgProductsPerOrder   float64 `gorm:"column:avg_products_per_order" json:"avg_products_per_order"`
	ProductDiversityScore float64 `gorm:"column:product_diversity_score" json:"product_diversity_score"`
	ExplorationRate       float64 `gorm:"column:exploration_rate" json:"exploration_rate"`
}

func (UserFeatures) TableName() string {
	return "user_features"
}

// FeatureNames enumerates every feature column in a fixed order. The
// order is part of the output contract: checkpoint artifacts and the
// classifier boundary both iterate columns through this list.
func FeatureNames() []string {
	return []string{
		"days_since_last_order",
		"days_since_first_order",
		"customer_age_days",
		"avg_days_between_orders",
		"total_orders",
		"orders_per_day",
		"order_regularity",
		"std_days_between_orders",
		"avg_basket_size",
		"total_items_ordered",
		"basket_size_std",
		"basket_size_cv",
		"avg_unique_products_per_order",
		"total_unique_products_ordered",
		"avg_order_hour",
		"std_order_hour",
		"preferred_hour",
		"avg_order_dow",
		"std_order_dow",
		"preferred_dow",
		"weekend_order_ratio",
		"night_order_ratio",
		"morning_order_ratio",
		"afternoon_order_ratio",
		"overall_reorder_rate",
		"total_reordered_items",
		"reorder_rate_std",
		"avg_reorder_rate_per_order",
		"reorder_consistency_std",
		"favorite_products_count",
		"unique_products",
		"unique_aisles",
		"unique_departments",
		"avg_products_per_order",
		"product_diversity_score",
		"exploration_rate",
	}
}

// Vector flattens the record into name -> value form for the generic
// classifier interface. Keys match FeatureNames exactly.
func (f UserFeatures) Vector() map[string]float64 {
	return map[string]float64{
		"days_since_last_order":         f.DaysSinceLastOrder,
		"days_since_first_order":        f.DaysSinceFirstOrder,
		"customer_age_days":             f.CustomerAgeDays,
		"avg_days_between_orders":       f.AvgDaysBetweenOrders,
		"total_orders":                  f.TotalOrders,
		"orders_per_day":                f.OrdersPerDay,
		"order_regularity":              f.OrderRegularity,
		"std_days_between_orders":       f.StdDaysBetweenOrders,
		"avg_basket_size":               f.AvgBasketSize,
		"total_items_ordered":           f.TotalItemsOrdered,
		"basket_size_std":               f.BasketSizeStd,
		"basket_size_cv":                f.BasketSizeCV,
		"avg_unique_products_per_order": f.AvgUniqueProductsPerOrder,
		"total_unique_products_ordered": f.TotalUniqueProductsOrdered,
		"avg_order_hour":                f.AvgOrderHour,
		"std_order_hour":                f.StdOrderHour,
		"preferred_hour":                f.PreferredHour,
		"avg_order_dow":                 f.AvgOrderDOW,
		"std_order_dow":                 f.StdOrderDOW,
		"preferred_dow":                 f.PreferredDOW,
		"weekend_order_ratio":           f.WeekendOrderRatio,
		"night_order_ratio":             f.NightOrderRatio,
		"morning_order_ratio":           f.MorningOrderRatio,
		"afternoon_order_ratio":         f.AfternoonOrderRatio,
		"overall_reorder_rate":          f.OverallReorderRate,
		"total_reordered_items":         f.TotalReorderedItems,
		"reorder_rate_std":              f.ReorderRateStd,
		"avg_reorder_rate_per_order":    f.AvgReorderRatePerOrder,
		"reorder_consistency_std":       f.ReorderConsistencyStd,
		"favorite_products_count":       f.FavoriteProductsCount,
		"unique_products":               f.UniqueProducts,
		"unique_aisles":                 f.UniqueAisles,
		"unique_departments":            f.UniqueDepartments,
		"avg_products_per_order":        f.AvgProductsPerOrder,
		"product_diversity_score":       f.ProductDiversityScore,
		"exploration_rate":              f.ExplorationRate,
	}
}

// RFM segment labels, ordered from lowest to highest customer value.
const (
	SegmentAtRisk    = "At Risk"
	SegmentPromising = "Promising"
	SegmentLoyal     = "Loyal"
	SegmentChampions = "Champions"
)

// RFMScore is the optional 1-5 quantile scoring over the three RFM
// pillars. Composite score ranges over [3,15] when all three pillars
// kept their full five bins.
type RFMScore struct {
	UserID         uint64 `gorm:"column:user_id;primaryKey" json:"user_id"`
	RecencyScore   int    `gorm:"column:recency_score" json:"recency_score"`
	FrequencyScore int    `gorm:"column:frequency_score" json:"frequency_score"`
	MonetaryScore  int    `gorm:"column:monetary_score" json:"monetary_score"`
	RFMScore       int    `gorm:"column:rfm_score" json:"rfm_score"`
	Segment        string `gorm:"column:rfm_segment" json:"rfm_segment"`
}

func (RFMScore) TableName() string {
	return "user_rfm_scores"
}
