package dataset

import (
	"context"
	"errors"
	"testing"

	"freshCartChurn/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	ds  domain.Dataset
	err error
}

func (s *stubRepo) LoadAll(ctx context.Context) (domain.Dataset, error) {
	return s.ds, s.err
}

func fixtureDataset() domain.Dataset {
	return domain.Dataset{
		Orders: []domain.Order{
			{OrderID: 1, UserID: 1, EvalSet: domain.EvalSetPrior, OrderNumber: 1},
			{OrderID: 2, UserID: 1, EvalSet: domain.EvalSetPrior, OrderNumber: 2},
			{OrderID: 3, UserID: 1, EvalSet: domain.EvalSetTrain, OrderNumber: 3},
			{OrderID: 4, UserID: 2, EvalSet: domain.EvalSetPrior, OrderNumber: 1},
			{OrderID: 5, UserID: 2, EvalSet: domain.EvalSetTest, OrderNumber: 2},
		},
		PriorLines: []domain.OrderLine{
			{OrderID: 1, ProductID: 10, AddToCartOrder: 1},
			{OrderID: 4, ProductID: 11, AddToCartOrder: 1},
		},
		TrainLines: []domain.OrderLine{
			{OrderID: 3, ProductID: 10, AddToCartOrder: 1, Reordered: true},
		},
		Products: []domain.Product{
			{ProductID: 10, ProductName: "Organic Bananas", AisleID: 100, DepartmentID: 200},
		},
		Aisles:      []domain.Aisle{{AisleID: 100, Name: "fresh fruits"}},
		Departments: []domain.Department{{DepartmentID: 200, Name: "produce"}},
	}
}

func TestServiceLoad(t *testing.T) {
	svc := NewService(&stubRepo{ds: fixtureDataset()})

	ds, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Orders, 5)
}

func TestServiceLoadError(t *testing.T) {
	svc := NewService(&stubRepo{err: errors.New("boom")})

	_, err := svc.Load(context.Background())
	require.Error(t, err)
}

func TestMergeOrderLines(t *testing.T) {
	ds := fixtureDataset()

	merged := MergeOrderLines(ds.PriorLines, ds.TrainLines)
	assert.Len(t, merged, 3)

	// Inputs stay untouched.
	assert.Len(t, ds.PriorLines, 2)
	assert.Len(t, ds.TrainLines, 1)
}

func TestBuildMasterView(t *testing.T) {
	rows := BuildMasterView(fixtureDataset())
	require.Len(t, rows, 3)

	byProduct := make(map[uint64]MasterRow)
	for _, r := range rows {
		byProduct[r.ProductID] = r
	}

	// Product 10 resolves through the whole dimension chain.
	matched := byProduct[10]
	assert.True(t, matched.ProductMatched)
	assert.Equal(t, "Organic Bananas", matched.ProductName)
	assert.Equal(t, "fresh fruits", matched.AisleName)
	assert.Equal(t, "produce", matched.DepartmentName)
	assert.True(t, matched.OrderMatched)

	// Product 11 has no catalog row; the line survives with zero-valued
	// dimension fields.
	unmatched := byProduct[11]
	assert.False(t, unmatched.ProductMatched)
	assert.Equal(t, "", unmatched.ProductName)
	assert.True(t, unmatched.OrderMatched)
	assert.Equal(t, uint64(2), unmatched.UserID)
}

func TestSplitEvalSets(t *testing.T) {
	sp := SplitEvalSets(fixtureDataset())

	assert.Len(t, sp.PriorOrders, 3)
	assert.Len(t, sp.TrainOrders, 1)
	assert.Len(t, sp.TestOrders, 1)
	assert.Len(t, sp.PriorLines, 2)
	assert.Len(t, sp.TrainLines, 1)
}

func TestSampleUsersDeterministic(t *testing.T) {
	ds := domain.Dataset{}
	orderID := uint64(1)
	for u := uint64(1); u <= 100; u++ {
		for n := 1; n <= 3; n++ {
			ds.Orders = append(ds.Orders, domain.Order{
				OrderID:     orderID,
				UserID:      u,
				EvalSet:     domain.EvalSetPrior,
				OrderNumber: n,
			})
			ds.PriorLines = append(ds.PriorLines, domain.OrderLine{
				OrderID:   orderID,
				ProductID: u,
			})
			orderID++
		}
	}

	a := SampleUsers(ds, 10, 42)
	b := SampleUsers(ds, 10, 42)
	assert.Equal(t, a, b)

	c := SampleUsers(ds, 10, 43)
	assert.NotEqual(t, a.Orders, c.Orders)

	// Every kept line belongs to a kept order.
	keptOrders := make(map[uint64]struct{})
	users := make(map[uint64]struct{})
	for _, o := range a.Orders {
		keptOrders[o.OrderID] = struct{}{}
		users[o.UserID] = struct{}{}
	}
	assert.Len(t, users, 10)
	for _, l := range a.PriorLines {
		_, ok := keptOrders[l.OrderID]
		assert.True(t, ok)
	}
}

func TestSampleUsersMoreThanAvailable(t *testing.T) {
	ds := fixtureDataset()

	sampled := SampleUsers(ds, 99, 1)
	assert.Len(t, sampled.Orders, len(ds.Orders))
}

func TestSummarize(t *testing.T) {
	info := Summarize(fixtureDataset())

	assert.Equal(t, 5, info.TotalOrders)
	assert.Equal(t, 2, info.TotalUsers)
	assert.Equal(t, 1, info.TotalProducts)
	assert.InDelta(t, 2.5, info.AvgOrdersPerUser, 1e-12)
}
