package domain

const (
	EvalSetPrior = "prior"
	EvalSetTrain = "train"
	EvalSetTest  = "test"
)

// Order is one row of the raw orders table. OrderNumber is a dense
// 1-based sequence per user; exactly one order per user carries
// EvalSet "train" (the held-out next order) or "test".
type Order struct {
	OrderID             uint64  `json:"order_id"`
	UserID              uint64  `json:"user_id"`
	EvalSet             string  `json:"eval_set"`
	OrderNumber         int     `json:"order_number"`
	OrderDOW            int     `json:"order_dow"`
	OrderHourOfDay      int     `json:"order_hour_of_day"`
	DaysSincePriorOrder float64 `json:"days_since_prior_order"`
	// DaysSincePriorKnown is false on a user's first order, where the
	// source leaves days_since_prior_order empty.
	DaysSincePriorKnown bool `json:"days_since_prior_known"`
}

// OrderLine is one product row inside an order.
type OrderLine struct {
	OrderID        uint64 `json:"order_id"`
	ProductID      uint64 `json:"product_id"`
	AddToCartOrder int    `json:"add_to_cart_order"`
	Reordered      bool   `json:"reordered"`
}

// Dataset holds the fully materialized raw tables for one pipeline run.
// Order lines come in two partitions that each cover a disjoint set of
// order ids: prior (historical) and train (held-out next orders).
type Dataset struct {
	Orders      []Order
	PriorLines  []OrderLine
	TrainLines  []OrderLine
	Products    []Product
	Aisles      []Aisle
	Departments []Department
}
