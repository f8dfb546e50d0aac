package features

import (
	"sort"

	"freshCartChurn/domain"
)

// favoriteProductThreshold is the repurchase count at which a product
// counts as a favorite.
const favoriteProductThreshold = 5

type timeGroup struct {
	AvgOrderHour        float64
	StdOrderHour        float64
	PreferredHour       float64
	AvgOrderDOW         float64
	StdOrderDOW         float64
	PreferredDOW        float64
	WeekendOrderRatio   float64
	NightOrderRatio     float64
	MorningOrderRatio   float64
	AfternoonOrderRatio float64
}

// timeFeatures captures when a user likes to order. The three
// time-of-day windows are night [20,6), morning [6,12) and afternoon
// [12,18); the 18:00-20:00 slot is deliberately uncovered, so the
// ratios do not sum to 1 and are not normalized to.
func timeFeatures(orders []domain.Order) timeGroup {
	if len(orders) == 0 {
		return timeGroup{}
	}

	hours := make([]float64, 0, len(orders))
	dows := make([]float64, 0, len(orders))
	hourInts := make([]int, 0, len(orders))
	dowInts := make([]int, 0, len(orders))

	weekend, night, morning, afternoon := 0, 0, 0, 0
	for _, o := range orders {
		hours = append(hours, float64(o.OrderHourOfDay))
		dows = append(dows, float64(o.OrderDOW))
		hourInts = append(hourInts, o.OrderHourOfDay)
		dowInts = append(dowInts, o.OrderDOW)

		if o.OrderDOW >= 5 {
			weekend++
		}
		h := o.OrderHourOfDay
		switch {
		case h >= 20 || h < 6:
			night++
		case h < 12:
			morning++
		case h < 18:
			afternoon++
		}
	}

	n := float64(len(orders))
	return timeGroup{
		AvgOrderHour:        mean(hours),
		StdOrderHour:        sampleStd(hours),
		PreferredHour:       float64(modeSmallest(hourInts)),
		AvgOrderDOW:         mean(dows),
		StdOrderDOW:         sampleStd(dows),
		PreferredDOW:        float64(modeSmallest(dowInts)),
		WeekendOrderRatio:   float64(weekend) / n,
		NightOrderRatio:     float64(night) / n,
		MorningOrderRatio:   float64(morning) / n,
		AfternoonOrderRatio: float64(afternoon) / n,
	}
}

type reorderGroup struct {
	OverallReorderRate     float64
	TotalReorderedItems    float64
	ReorderRateStd         float64
	AvgReorderRatePerOrder float64
	ReorderConsistencyStd  float64
	FavoriteProductsCount  float64
}

// reorderFeatures needs two distinct aggregation levels: the overall
// rate is a flat mean over every line, while avg_reorder_rate_per_order
// first averages within each order and then averages those per-order
// rates. The two are different statistics (a big all-reorder basket
// dominates the flat rate but counts once in the per-order mean) and
// must stay two sequential passes.
func reorderFeatures(lines []priorLine) reorderGroup {
	if len(lines) == 0 {
		return reorderGroup{}
	}

	flags := make([]float64, 0, len(lines))
	perOrder := make(map[uint64][]float64)
	orderIDs := make([]uint64, 0)
	productCounts := make(map[uint64]int)

	for _, l := range lines {
		v := 0.0
		if l.Reordered {
			v = 1.0
		}
		flags = append(flags, v)

		if _, ok := perOrder[l.OrderID]; !ok {
			orderIDs = append(orderIDs, l.OrderID)
		}
		perOrder[l.OrderID] = append(perOrder[l.OrderID], v)
		productCounts[l.ProductID]++
	}
	sort.Slice(orderIDs, func(i, j int) bool { return orderIDs[i] < orderIDs[j] })

	orderRates := make([]float64, 0, len(orderIDs))
	for _, id := range orderIDs {
		orderRates = append(orderRates, mean(perOrder[id]))
	}

	g := reorderGroup{
		OverallReorderRate:     mean(flags),
		ReorderRateStd:         sampleStd(flags),
		AvgReorderRatePerOrder: mean(orderRates),
		ReorderConsistencyStd:  sampleStd(orderRates),
	}
	for _, f := range flags {
		g.TotalReorderedItems += f
	}
	for _, c := range productCounts {
		if c >= favoriteProductThreshold {
			g.FavoriteProductsCount++
		}
	}

	return g
}

type diversityGroup struct {
	UniqueProducts        float64
	UniqueAisles          float64
	UniqueDepartments     float64
	AvgProductsPerOrder   float64
	ProductDiversityScore float64
	ExplorationRate       float64
}

// catalogIndex resolves product -> aisle/department once per run.
type catalogIndex map[uint64]domain.Product

func buildCatalogIndex(products []domain.Product) catalogIndex {
	idx := make(catalogIndex, len(products))
	for _, p := range products {
		idx[p.ProductID] = p
	}
	return idx
}

func diversityFeatures(lines []priorLine, catalog catalogIndex) diversityGroup {
	if len(lines) == 0 {
		return diversityGroup{}
	}

	products := make(map[uint64]struct{})
	aisles := make(map[uint64]struct{})
	departments := make(map[uint64]struct{})
	orders := make(map[uint64]struct{})

	for _, l := range lines {
		products[l.ProductID] = struct{}{}
		orders[l.OrderID] = struct{}{}
		if p, ok := catalog[l.ProductID]; ok {
			aisles[p.AisleID] = struct{}{}
			departments[p.DepartmentID] = struct{}{}
		}
	}

	totalOrders := float64(len(orders))

	g := diversityGroup{
		UniqueProducts:      float64(len(products)),
		UniqueAisles:        float64(len(aisles)),
		UniqueDepartments:   float64(len(departments)),
		AvgProductsPerOrder: float64(len(lines)) / totalOrders,
	}
	g.ProductDiversityScore = g.UniqueProducts / (totalOrders*g.AvgProductsPerOrder + 1)
	g.ExplorationRate = explorationRate(lines)

	return g
}

// explorationRate splits the user's orders at the median order number
// and reports the fraction of late-half distinct products never seen
// in the early half. An empty late half yields 0.
func explorationRate(lines []priorLine) float64 {
	if len(lines) == 0 {
		return 0
	}

	seen := make(map[int]struct{})
	orderNums := make([]float64, 0)
	for _, l := range lines {
		if _, ok := seen[l.OrderNumber]; !ok {
			seen[l.OrderNumber] = struct{}{}
			orderNums = append(orderNums, float64(l.OrderNumber))
		}
	}
	mid := median(orderNums)

	early := make(map[uint64]struct{})
	late := make(map[uint64]struct{})
	for _, l := range lines {
		if float64(l.OrderNumber) <= mid {
			early[l.ProductID] = struct{}{}
		} else {
			late[l.ProductID] = struct{}{}
		}
	}

	if len(late) == 0 {
		return 0
	}

	newProducts := 0
	for p := range late {
		if _, ok := early[p]; !ok {
			newProducts++
		}
	}

	return float64(newProducts) / float64(len(late))
}
