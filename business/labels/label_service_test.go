package labels

import (
	"testing"

	"freshCartChurn/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priorOrder(userID uint64, number int) domain.Order {
	return domain.Order{
		UserID:      userID,
		EvalSet:     domain.EvalSetPrior,
		OrderNumber: number,
	}
}

func trainOrder(userID uint64, days float64, known bool) domain.Order {
	return domain.Order{
		UserID:              userID,
		EvalSet:             domain.EvalSetTrain,
		DaysSincePriorOrder: days,
		DaysSincePriorKnown: known,
	}
}

func TestBuildHoldout(t *testing.T) {
	orders := []domain.Order{
		// User 1: held-out gap right on the threshold, churned.
		priorOrder(1, 1), trainOrder(1, 30, true),
		// User 2: gap below the threshold, active.
		priorOrder(2, 1), trainOrder(2, 15, true),
		// User 3: missing gap counts as 0, active.
		priorOrder(3, 1), trainOrder(3, 0, false),
		// User 4: prior orders only, no held-out order, no label.
		priorOrder(4, 1), priorOrder(4, 2),
		// User 5: test partition, no label.
		{UserID: 5, EvalSet: domain.EvalSetTest, DaysSincePriorOrder: 40, DaysSincePriorKnown: true},
	}

	svc := NewService(30, 0)
	out, err := svc.Build(orders)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, uint64(1), out[0].UserID)
	assert.Equal(t, 1, out[0].IsChurn)
	assert.Equal(t, 30.0, out[0].DaysToNextOrder)

	assert.Equal(t, uint64(2), out[1].UserID)
	assert.Equal(t, 0, out[1].IsChurn)

	assert.Equal(t, uint64(3), out[2].UserID)
	assert.Equal(t, 0, out[2].IsChurn)
	assert.Equal(t, 0.0, out[2].DaysToNextOrder)
}

func TestBuildHoldoutMinOrdersInclusive(t *testing.T) {
	orders := []domain.Order{
		// Exactly three prior orders stays in.
		priorOrder(1, 1), priorOrder(1, 2), priorOrder(1, 3),
		trainOrder(1, 40, true),
		// Two prior orders is filtered out.
		priorOrder(2, 1), priorOrder(2, 2),
		trainOrder(2, 40, true),
	}

	svc := NewService(30, 3)
	out, err := svc.Build(orders)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(1), out[0].UserID)
}

func TestBuildHoldoutNoTrainRows(t *testing.T) {
	svc := NewService(30, 0)

	_, err := svc.Build([]domain.Order{priorOrder(1, 1), priorOrder(2, 1)})
	require.ErrorIs(t, err, ErrNoTrainRows)
}

func TestBuildUnknownPolicy(t *testing.T) {
	svc := NewService(30, 0)

	_, err := svc.BuildWithPolicy([]domain.Order{trainOrder(1, 5, true)}, Policy("bogus"))
	require.Error(t, err)
}

func TestBuildOrderGapProxy(t *testing.T) {
	orders := []domain.Order{
		// Global max order number is 10. User 1 stops at 4: estimated
		// recency (10-4)*7 = 42 days, past the threshold.
		priorOrder(1, 3), priorOrder(1, 4),
		// User 2 reaches the max: recency 0.
		priorOrder(2, 9), priorOrder(2, 10),
	}

	svc := NewService(30, 0)
	out, err := svc.BuildWithPolicy(orders, PolicyOrderGapProxy)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, uint64(1), out[0].UserID)
	assert.Equal(t, 1, out[0].IsChurn)
	assert.Equal(t, 42.0, out[0].DaysToNextOrder)

	assert.Equal(t, uint64(2), out[1].UserID)
	assert.Equal(t, 0, out[1].IsChurn)
}

func TestBuildOrderGapProxyStrictThreshold(t *testing.T) {
	// The proxy comparison is strict: a gap of exactly the threshold is
	// not churn, unlike the hold-out policy.
	orders := []domain.Order{
		priorOrder(1, 5), // (10-5)*7 = 35
		priorOrder(2, 10),
	}

	svc := NewService(35, 0)
	out, err := svc.BuildWithPolicy(orders, PolicyOrderGapProxy)
	require.NoError(t, err)
	assert.Equal(t, 0, out[0].IsChurn)
}

func TestDistribution(t *testing.T) {
	labels := []domain.ChurnLabel{
		{UserID: 1, IsChurn: 1, DaysToNextOrder: 40},
		{UserID: 2, IsChurn: 0, DaysToNextOrder: 5},
		{UserID: 3, IsChurn: 0, DaysToNextOrder: 10},
		{UserID: 4, IsChurn: 1, DaysToNextOrder: 35},
	}

	svc := NewService(30, 0)
	d := svc.Distribution(labels)

	assert.Equal(t, 4, d.TotalUsers)
	assert.Equal(t, 2, d.ChurnedUsers)
	assert.Equal(t, 2, d.ActiveUsers)
	assert.InDelta(t, 0.5, d.ChurnRate, 1e-12)
	assert.Greater(t, d.RecencyP75, d.RecencyP25)
}

func TestDistributionEmpty(t *testing.T) {
	svc := NewService(30, 0)
	d := svc.Distribution(nil)

	assert.Equal(t, 0, d.TotalUsers)
	assert.Equal(t, 0.0, d.ChurnRate)
}
