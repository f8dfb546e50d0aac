package features

import (
	"testing"

	"freshCartChurn/domain"

	"github.com/stretchr/testify/assert"
)

func timedOrder(dow, hour int) domain.Order {
	return domain.Order{OrderDOW: dow, OrderHourOfDay: hour}
}

func TestTimeFeaturesWindows(t *testing.T) {
	orders := []domain.Order{
		timedOrder(0, 5),  // night (before 6)
		timedOrder(1, 21), // night
		timedOrder(5, 8),  // morning, weekend
		timedOrder(6, 13), // afternoon, weekend
	}

	g := timeFeatures(orders)

	assert.InDelta(t, 0.5, g.WeekendOrderRatio, 1e-12)
	assert.InDelta(t, 0.5, g.NightOrderRatio, 1e-12)
	assert.InDelta(t, 0.25, g.MorningOrderRatio, 1e-12)
	assert.InDelta(t, 0.25, g.AfternoonOrderRatio, 1e-12)
}

func TestTimeFeaturesEveningGap(t *testing.T) {
	// 18:00-20:00 belongs to no window, so all three ratios stay 0.
	g := timeFeatures([]domain.Order{timedOrder(2, 18), timedOrder(3, 19)})

	assert.Equal(t, 0.0, g.NightOrderRatio)
	assert.Equal(t, 0.0, g.MorningOrderRatio)
	assert.Equal(t, 0.0, g.AfternoonOrderRatio)
}

func TestTimeFeaturesPreferredTieBreak(t *testing.T) {
	g := timeFeatures([]domain.Order{
		timedOrder(2, 9),
		timedOrder(4, 9),
		timedOrder(2, 15),
		timedOrder(4, 15),
	})

	// Hours 9 and 15 tie, dows 2 and 4 tie; both resolve to the
	// smaller value.
	assert.Equal(t, 9.0, g.PreferredHour)
	assert.Equal(t, 2.0, g.PreferredDOW)
}

func reorderedLine(orderID, productID uint64, reordered bool) priorLine {
	return priorLine{OrderLine: domain.OrderLine{
		OrderID:   orderID,
		ProductID: productID,
		Reordered: reordered,
	}}
}

func TestReorderFeaturesTwoAggregationLevels(t *testing.T) {
	// Basket sizes {1, 1, 10}: the big all-reorder basket dominates the
	// flat rate but counts once in the per-order mean.
	lines := []priorLine{
		reorderedLine(1, 100, false),
		reorderedLine(2, 101, false),
	}
	for p := uint64(0); p < 10; p++ {
		lines = append(lines, reorderedLine(3, 200+p, true))
	}

	g := reorderFeatures(lines)

	assert.InDelta(t, 10.0/12.0, g.OverallReorderRate, 1e-12)
	assert.InDelta(t, 1.0/3.0, g.AvgReorderRatePerOrder, 1e-12)
	assert.Equal(t, 10.0, g.TotalReorderedItems)
}

func TestReorderFeaturesFavorites(t *testing.T) {
	var lines []priorLine
	// Product 7 bought five times, product 8 four times.
	for i := uint64(0); i < 5; i++ {
		lines = append(lines, reorderedLine(i, 7, true))
	}
	for i := uint64(0); i < 4; i++ {
		lines = append(lines, reorderedLine(10+i, 8, true))
	}

	g := reorderFeatures(lines)

	assert.Equal(t, 1.0, g.FavoriteProductsCount)
}

func TestReorderFeaturesEmpty(t *testing.T) {
	assert.Equal(t, reorderGroup{}, reorderFeatures(nil))
}

func line(orderID, productID uint64, orderNumber int) priorLine {
	return priorLine{
		OrderLine:   domain.OrderLine{OrderID: orderID, ProductID: productID},
		OrderNumber: orderNumber,
	}
}

func TestExplorationRate(t *testing.T) {
	// Distinct order numbers {1,2,3,4}, median 2.5. Early half sees
	// products {1,2}; late half sees {1,3}, of which 3 is new.
	lines := []priorLine{
		line(1, 1, 1),
		line(2, 2, 2),
		line(3, 1, 3),
		line(4, 3, 4),
	}

	assert.InDelta(t, 0.5, explorationRate(lines), 1e-12)
}

func TestExplorationRateSingleOrder(t *testing.T) {
	// One order: the late half is empty.
	lines := []priorLine{line(1, 1, 1), line(1, 2, 1)}

	assert.Equal(t, 0.0, explorationRate(lines))
}

func TestDiversityFeatures(t *testing.T) {
	catalog := buildCatalogIndex([]domain.Product{
		{ProductID: 1, AisleID: 10, DepartmentID: 100},
		{ProductID: 2, AisleID: 10, DepartmentID: 100},
		{ProductID: 3, AisleID: 11, DepartmentID: 101},
	})

	lines := []priorLine{
		line(1, 1, 1),
		line(1, 2, 1),
		line(2, 3, 2),
		line(2, 3, 2),
	}

	g := diversityFeatures(lines, catalog)

	assert.Equal(t, 3.0, g.UniqueProducts)
	assert.Equal(t, 2.0, g.UniqueAisles)
	assert.Equal(t, 2.0, g.UniqueDepartments)
	assert.InDelta(t, 2.0, g.AvgProductsPerOrder, 1e-12)
	assert.InDelta(t, 3.0/5.0, g.ProductDiversityScore, 1e-12)
}

func TestDiversityFeaturesUnknownProduct(t *testing.T) {
	// A line whose product is missing from the catalog still counts as
	// a product, just not toward aisle or department diversity.
	g := diversityFeatures([]priorLine{line(1, 999, 1)}, catalogIndex{})

	assert.Equal(t, 1.0, g.UniqueProducts)
	assert.Equal(t, 0.0, g.UniqueAisles)
	assert.Equal(t, 0.0, g.UniqueDepartments)
}
