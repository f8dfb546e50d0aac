package features

import (
	"sort"

	"freshCartChurn/domain"
)

// daysPerOrderEstimate converts order-number distance into days. The
// source has no timestamps, so one week per order stands in for
// elapsed time; a coarse estimate, not a measured quantity.
const daysPerOrderEstimate = 7.0

// The three RFM groups are computed independently per user and joined
// into the feature record by the service; a user missing from a group
// (say, orders without a single line row) keeps that group's zero
// values, which is the outer-join + fill-0 policy made explicit.

type recencyGroup struct {
	DaysSinceLastOrder   float64
	DaysSinceFirstOrder  float64
	CustomerAgeDays      float64
	AvgDaysBetweenOrders float64
}

// recencyFeatures anchors at the global max order number, which the
// service computes once over the whole prior table before any per-user
// work starts.
func recencyFeatures(orders []domain.Order, globalMaxOrderNumber int) recencyGroup {
	if len(orders) == 0 {
		return recencyGroup{}
	}

	minNum, maxNum := orders[0].OrderNumber, orders[0].OrderNumber
	for _, o := range orders[1:] {
		if o.OrderNumber < minNum {
			minNum = o.OrderNumber
		}
		if o.OrderNumber > maxNum {
			maxNum = o.OrderNumber
		}
	}

	g := recencyGroup{
		DaysSinceLastOrder: float64(globalMaxOrderNumber-maxNum) * daysPerOrderEstimate,
		CustomerAgeDays:    float64(maxNum-minNum) * daysPerOrderEstimate,
	}
	g.DaysSinceFirstOrder = g.CustomerAgeDays + g.DaysSinceLastOrder
	g.AvgDaysBetweenOrders = mean(knownGaps(orders))

	return g
}

type frequencyGroup struct {
	TotalOrders          float64
	OrdersPerDay         float64
	OrderRegularity      float64
	StdDaysBetweenOrders float64
}

func frequencyFeatures(orders []domain.Order) frequencyGroup {
	if len(orders) == 0 {
		return frequencyGroup{}
	}

	minNum, maxNum := orders[0].OrderNumber, orders[0].OrderNumber
	for _, o := range orders[1:] {
		if o.OrderNumber < minNum {
			minNum = o.OrderNumber
		}
		if o.OrderNumber > maxNum {
			maxNum = o.OrderNumber
		}
	}

	estimatedCustomerDays := float64(maxNum-minNum) * daysPerOrderEstimate

	gaps := knownGaps(orders)

	g := frequencyGroup{
		TotalOrders:          float64(len(orders)),
		OrdersPerDay:         float64(len(orders)) / (estimatedCustomerDays + 1),
		StdDaysBetweenOrders: sampleStd(gaps),
	}
	// Coefficient of variation; 0 when the spread is undefined for a
	// single known gap.
	g.OrderRegularity = g.StdDaysBetweenOrders / (mean(gaps) + 1)

	return g
}

type monetaryGroup struct {
	AvgBasketSize              float64
	TotalItemsOrdered          float64
	BasketSizeStd              float64
	BasketSizeCV               float64
	AvgUniqueProductsPerOrder  float64
	TotalUniqueProductsOrdered float64
}

// monetaryFeatures derives the spend proxy from basket sizes. Orders
// with no line rows contribute nothing, matching the left-join + skip
// semantics of the source pipeline.
func monetaryFeatures(lines []priorLine) monetaryGroup {
	if len(lines) == 0 {
		return monetaryGroup{}
	}

	type basket struct {
		size     int
		distinct map[uint64]struct{}
	}

	baskets := make(map[uint64]*basket)
	orderIDs := make([]uint64, 0)
	for _, l := range lines {
		b, ok := baskets[l.OrderID]
		if !ok {
			b = &basket{distinct: make(map[uint64]struct{})}
			baskets[l.OrderID] = b
			orderIDs = append(orderIDs, l.OrderID)
		}
		b.size++
		b.distinct[l.ProductID] = struct{}{}
	}
	sort.Slice(orderIDs, func(i, j int) bool { return orderIDs[i] < orderIDs[j] })

	sizes := make([]float64, 0, len(orderIDs))
	uniques := make([]float64, 0, len(orderIDs))
	for _, id := range orderIDs {
		b := baskets[id]
		sizes = append(sizes, float64(b.size))
		uniques = append(uniques, float64(len(b.distinct)))
	}

	g := monetaryGroup{
		AvgBasketSize:             mean(sizes),
		BasketSizeStd:             sampleStd(sizes),
		AvgUniqueProductsPerOrder: mean(uniques),
	}
	for i := range sizes {
		g.TotalItemsOrdered += sizes[i]
		g.TotalUniqueProductsOrdered += uniques[i]
	}
	g.BasketSizeCV = g.BasketSizeStd / (g.AvgBasketSize + 1)

	return g
}

// knownGaps extracts the defined days_since_prior_order values; the
// first order of a user has none.
func knownGaps(orders []domain.Order) []float64 {
	gaps := make([]float64, 0, len(orders))
	for _, o := range orders {
		if o.DaysSincePriorKnown {
			gaps = append(gaps, o.DaysSincePriorOrder)
		}
	}
	return gaps
}
