package domain

// Static product catalog dimensions. No temporal dimension on any of
// these, they are pure id -> attribute lookups.

type Product struct {
	ProductID    uint64 `json:"product_id"`
	ProductName  string `json:"product_name"`
	AisleID      uint64 `json:"aisle_id"`
	DepartmentID uint64 `json:"department_id"`
}

type Aisle struct {
	AisleID uint64 `json:"aisle_id"`
	Name    string `json:"aisle"`
}

type Department struct {
	DepartmentID uint64 `json:"department_id"`
	Name         string `json:"department"`
}
