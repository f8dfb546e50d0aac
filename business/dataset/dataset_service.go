package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"freshCartChurn/domain"
	"freshCartChurn/pkg/logger"
)

type RawRepository interface {
	LoadAll(ctx context.Context) (domain.Dataset, error)
}

// Service owns the raw tables for the duration of one pipeline run and
// hands out the derived views the builders consume. It never mutates a
// loaded dataset in place.
type Service struct {
	repo RawRepository
}

func NewService(repo RawRepository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) Load(ctx context.Context) (domain.Dataset, error) {
	ds, err := s.repo.LoadAll(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load raw dataset: %w", err)
	}

	info := Summarize(ds)
	logger.Info("dataset summary",
		"orders", info.TotalOrders,
		"users", info.TotalUsers,
		"products", info.TotalProducts,
		"aisles", info.TotalAisles,
		"departments", info.TotalDepartments,
		"avg_orders_per_user", info.AvgOrdersPerUser,
	)

	return ds, nil
}

// MergeOrderLines unions the prior and train line partitions. The two
// sides cover disjoint order ids, so this is a plain concatenation with
// no dedup pass.
func MergeOrderLines(prior, train []domain.OrderLine) []domain.OrderLine {
	merged := make([]domain.OrderLine, 0, len(prior)+len(train))
	merged = append(merged, prior...)
	merged = append(merged, train...)
	return merged
}

// MasterRow is one order line denormalized against every dimension.
// The *Matched flags record which left joins found their row; an
// unmatched dimension leaves its fields zero-valued.
type MasterRow struct {
	domain.OrderLine

	ProductName    string
	AisleID        uint64
	AisleName      string
	DepartmentID   uint64
	DepartmentName string
	ProductMatched bool

	UserID              uint64
	EvalSet             string
	OrderNumber         int
	OrderDOW            int
	OrderHourOfDay      int
	DaysSincePriorOrder float64
	DaysSincePriorKnown bool
	OrderMatched        bool
}

// BuildMasterView left-joins merged order lines through products,
// aisles, departments and orders. Every line row is preserved.
func BuildMasterView(ds domain.Dataset) []MasterRow {
	products := make(map[uint64]domain.Product, len(ds.Products))
	for _, p := range ds.Products {
		products[p.ProductID] = p
	}
	aisles := make(map[uint64]domain.Aisle, len(ds.Aisles))
	for _, a := range ds.Aisles {
		aisles[a.AisleID] = a
	}
	departments := make(map[uint64]domain.Department, len(ds.Departments))
	for _, d := range ds.Departments {
		departments[d.DepartmentID] = d
	}
	orders := make(map[uint64]domain.Order, len(ds.Orders))
	for _, o := range ds.Orders {
		orders[o.OrderID] = o
	}

	lines := MergeOrderLines(ds.PriorLines, ds.TrainLines)
	rows := make([]MasterRow, 0, len(lines))

	for _, l := range lines {
		row := MasterRow{OrderLine: l}

		if p, ok := products[l.ProductID]; ok {
			row.ProductMatched = true
			row.ProductName = p.ProductName
			row.AisleID = p.AisleID
			row.DepartmentID = p.DepartmentID
			if a, ok := aisles[p.AisleID]; ok {
				row.AisleName = a.Name
			}
			if d, ok := departments[p.DepartmentID]; ok {
				row.DepartmentName = d.Name
			}
		}

		if o, ok := orders[l.OrderID]; ok {
			row.OrderMatched = true
			row.UserID = o.UserID
			row.EvalSet = o.EvalSet
			row.OrderNumber = o.OrderNumber
			row.OrderDOW = o.OrderDOW
			row.OrderHourOfDay = o.OrderHourOfDay
			row.DaysSincePriorOrder = o.DaysSincePriorOrder
			row.DaysSincePriorKnown = o.DaysSincePriorKnown
		}

		rows = append(rows, row)
	}

	return rows
}

// Split separates the leakage boundary: feature builders may only see
// the Prior side, the label builder only the Train side.
type Split struct {
	PriorOrders []domain.Order
	TrainOrders []domain.Order
	TestOrders  []domain.Order
	PriorLines  []domain.OrderLine
	TrainLines  []domain.OrderLine
}

func SplitEvalSets(ds domain.Dataset) Split {
	var sp Split
	for _, o := range ds.Orders {
		switch o.EvalSet {
		case domain.EvalSetTrain:
			sp.TrainOrders = append(sp.TrainOrders, o)
		case domain.EvalSetTest:
			sp.TestOrders = append(sp.TestOrders, o)
		default:
			sp.PriorOrders = append(sp.PriorOrders, o)
		}
	}

	sp.PriorLines = ds.PriorLines
	sp.TrainLines = ds.TrainLines

	return sp
}

// SampleUsers draws n distinct users uniformly without replacement and
// filters every dependent table down to them. Candidates are sorted
// before the seeded shuffle, so the draw is independent of input row
// order. Fixture generation only, not part of the production pipeline.
func SampleUsers(ds domain.Dataset, n int, seed int64) domain.Dataset {
	seen := make(map[uint64]struct{})
	userIDs := make([]uint64, 0)
	for _, o := range ds.Orders {
		if _, ok := seen[o.UserID]; !ok {
			seen[o.UserID] = struct{}{}
			userIDs = append(userIDs, o.UserID)
		}
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	if n > len(userIDs) {
		n = len(userIDs)
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(userIDs), func(i, j int) {
		userIDs[i], userIDs[j] = userIDs[j], userIDs[i]
	})

	keepUsers := make(map[uint64]struct{}, n)
	for _, id := range userIDs[:n] {
		keepUsers[id] = struct{}{}
	}

	sampled := domain.Dataset{
		Products:    ds.Products,
		Aisles:      ds.Aisles,
		Departments: ds.Departments,
	}

	keepOrders := make(map[uint64]struct{})
	for _, o := range ds.Orders {
		if _, ok := keepUsers[o.UserID]; ok {
			sampled.Orders = append(sampled.Orders, o)
			keepOrders[o.OrderID] = struct{}{}
		}
	}

	for _, l := range ds.PriorLines {
		if _, ok := keepOrders[l.OrderID]; ok {
			sampled.PriorLines = append(sampled.PriorLines, l)
		}
	}
	for _, l := range ds.TrainLines {
		if _, ok := keepOrders[l.OrderID]; ok {
			sampled.TrainLines = append(sampled.TrainLines, l)
		}
	}

	return sampled
}

type Info struct {
	TotalOrders      int
	TotalUsers       int
	TotalProducts    int
	TotalAisles      int
	TotalDepartments int
	AvgOrdersPerUser float64
}

func Summarize(ds domain.Dataset) Info {
	users := make(map[uint64]struct{})
	for _, o := range ds.Orders {
		users[o.UserID] = struct{}{}
	}

	info := Info{
		TotalOrders:      len(ds.Orders),
		TotalUsers:       len(users),
		TotalProducts:    len(ds.Products),
		TotalAisles:      len(ds.Aisles),
		TotalDepartments: len(ds.Departments),
	}
	if info.TotalUsers > 0 {
		info.AvgOrdersPerUser = float64(info.TotalOrders) / float64(info.TotalUsers)
	}

	return info
}
