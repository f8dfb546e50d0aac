package features

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"freshCartChurn/domain"
	"freshCartChurn/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ErrEmptyPriorTable means there is nothing to featurize; the matrix
// build refuses to hand back an empty result silently.
var ErrEmptyPriorTable = errors.New("prior order table is empty")

// priorLine is an order line annotated with its order's sequence
// number, the only order attribute the line-level builders need.
type priorLine struct {
	domain.OrderLine
	OrderNumber int
}

// Service turns the prior-window tables into the per-user feature
// matrix. It only ever sees the prior partition; the train and test
// rows stay on the other side of the leakage boundary.
type Service struct {
	workers int
}

func NewService(workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		workers: workers,
	}
}

// BuildMatrix computes every RFM and behavioral feature for each user
// present in the prior orders. Output rows are sorted by user id and
// contain no NaN or infinite values; identical input yields identical
// output regardless of input row order or worker count.
func (s *Service) BuildMatrix(
	ctx context.Context,
	priorOrders []domain.Order,
	priorLines []domain.OrderLine,
	products []domain.Product,
) ([]domain.UserFeatures, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(priorOrders) == 0 {
		return nil, ErrEmptyPriorTable
	}

	start := time.Now()

	// Synchronization barrier: the recency anchor is a cross-user
	// global and must exist before any per-user shard starts.
	globalMax := 0
	for _, o := range priorOrders {
		if o.OrderNumber > globalMax {
			globalMax = o.OrderNumber
		}
	}

	ordersByUser := make(map[uint64][]domain.Order)
	orderOwner := make(map[uint64]domain.Order, len(priorOrders))
	for _, o := range priorOrders {
		ordersByUser[o.UserID] = append(ordersByUser[o.UserID], o)
		orderOwner[o.OrderID] = o
	}

	linesByUser := make(map[uint64][]priorLine)
	for _, l := range priorLines {
		o, ok := orderOwner[l.OrderID]
		if !ok {
			// Line referencing an order outside the prior window;
			// never feature input.
			continue
		}
		linesByUser[o.UserID] = append(linesByUser[o.UserID], priorLine{
			OrderLine:   l,
			OrderNumber: o.OrderNumber,
		})
	}

	// Canonical per-user ordering so every aggregation sees the same
	// sequence no matter how the raw rows arrived.
	userIDs := make([]uint64, 0, len(ordersByUser))
	for id := range ordersByUser {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	for _, id := range userIDs {
		uo := ordersByUser[id]
		sort.Slice(uo, func(i, j int) bool { return uo[i].OrderNumber < uo[j].OrderNumber })

		ul := linesByUser[id]
		sort.Slice(ul, func(i, j int) bool {
			if ul[i].OrderNumber != ul[j].OrderNumber {
				return ul[i].OrderNumber < ul[j].OrderNumber
			}
			if ul[i].AddToCartOrder != ul[j].AddToCartOrder {
				return ul[i].AddToCartOrder < ul[j].AddToCartOrder
			}
			return ul[i].ProductID < ul[j].ProductID
		})
	}

	catalog := buildCatalogIndex(products)

	// Each worker owns a contiguous range of the sorted user ids and
	// fills a disjoint slice of the preallocated output, so the final
	// matrix is a concatenation, never a merge.
	out := make([]domain.UserFeatures, len(userIDs))

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(userIDs) + s.workers - 1) / s.workers

	for w := 0; w < s.workers; w++ {
		lo := w * chunk
		if lo >= len(userIDs) {
			break
		}
		hi := lo + chunk
		if hi > len(userIDs) {
			hi = len(userIDs)
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				id := userIDs[i]
				out[i] = buildUserFeatures(id, ordersByUser[id], linesByUser[id], catalog, globalMax)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build feature shards: %w", err)
	}

	if err := CheckNoNulls(out); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	FeatureBuildDuration.Observe(elapsed.Seconds())
	UsersFeaturized.Add(float64(len(out)))

	logger.Info("feature matrix built",
		"users", len(out),
		"columns", len(domain.FeatureNames()),
		"workers", s.workers,
		"elapsed", elapsed.String(),
	)

	return out, nil
}

// buildUserFeatures assembles one user's record from the independently
// computed groups. A group fed an empty slice hands back its zero
// values, which is the outer-join fill-0 policy.
func buildUserFeatures(
	userID uint64,
	orders []domain.Order,
	lines []priorLine,
	catalog catalogIndex,
	globalMaxOrderNumber int,
) domain.UserFeatures {
	rec := recencyFeatures(orders, globalMaxOrderNumber)
	freq := frequencyFeatures(orders)
	mon := monetaryFeatures(lines)
	tim := timeFeatures(orders)
	reo := reorderFeatures(lines)
	div := diversityFeatures(lines, catalog)

	return domain.UserFeatures{
		UserID: userID,

		DaysSinceLastOrder:   rec.DaysSinceLastOrder,
		DaysSinceFirstOrder:  rec.DaysSinceFirstOrder,
		CustomerAgeDays:      rec.CustomerAgeDays,
		AvgDaysBetweenOrders: rec.AvgDaysBetweenOrders,

		TotalOrders:          freq.TotalOrders,
		OrdersPerDay:         freq.OrdersPerDay,
		OrderRegularity:      freq.OrderRegularity,
		StdDaysBetweenOrders: freq.StdDaysBetweenOrders,

		AvgBasketSize:              mon.AvgBasketSize,
		TotalItemsOrdered:          mon.TotalItemsOrdered,
		BasketSizeStd:              mon.BasketSizeStd,
		BasketSizeCV:               mon.BasketSizeCV,
		AvgUniqueProductsPerOrder:  mon.AvgUniqueProductsPerOrder,
		TotalUniqueProductsOrdered: mon.TotalUniqueProductsOrdered,

		AvgOrderHour:        tim.AvgOrderHour,
		StdOrderHour:        tim.StdOrderHour,
		PreferredHour:       tim.PreferredHour,
		AvgOrderDOW:         tim.AvgOrderDOW,
		StdOrderDOW:         tim.StdOrderDOW,
		PreferredDOW:        tim.PreferredDOW,
		WeekendOrderRatio:   tim.WeekendOrderRatio,
		NightOrderRatio:     tim.NightOrderRatio,
		MorningOrderRatio:   tim.MorningOrderRatio,
		AfternoonOrderRatio: tim.AfternoonOrderRatio,

		OverallReorderRate:     reo.OverallReorderRate,
		TotalReorderedItems:    reo.TotalReorderedItems,
		ReorderRateStd:         reo.ReorderRateStd,
		AvgReorderRatePerOrder: reo.AvgReorderRatePerOrder,
		ReorderConsistencyStd:  reo.ReorderConsistencyStd,
		FavoriteProductsCount:  reo.FavoriteProductsCount,

		UniqueProducts:        div.UniqueProducts,
		UniqueAisles:          div.UniqueAisles,
		UniqueDepartments:     div.UniqueDepartments,
		AvgProductsPerOrder:   div.AvgProductsPerOrder,
		ProductDiversityScore: div.ProductDiversityScore,
		ExplorationRate:       div.ExplorationRate,
	}
}

// CheckNoNulls enforces the no-null output invariant: every feature
// column of every row must be a finite number.
func CheckNoNulls(features []domain.UserFeatures) error {
	for _, f := range features {
		for name, v := range f.Vector() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("user %d: feature %s is not finite", f.UserID, name)
			}
		}
	}
	return nil
}
