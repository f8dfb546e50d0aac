package labels

import (
	"errors"
	"fmt"
	"sort"

	"freshCartChurn/domain"
	"freshCartChurn/pkg/logger"

	hist "github.com/VividCortex/gohistogram"
)

type Policy string

const (
	// PolicyHoldout derives the label from the held-out "train" order,
	// the only leakage-free churn signal in this dataset.
	PolicyHoldout Policy = "holdout"

	// PolicyOrderGapProxy approximates recency from order-number
	// distance to the global max, at estimatedDaysPerOrder per step.
	// A documented, inferior fallback: it conflates a sequence index
	// with elapsed time. Callers must select it explicitly; the service
	// never degrades to it on its own.
	PolicyOrderGapProxy Policy = "order_gap_proxy"
)

// estimatedDaysPerOrder is a coarse estimate, not a measured quantity:
// the source carries no timestamps, so the proxy policy assumes one
// order per week.
const estimatedDaysPerOrder = 7.0

// ErrNoTrainRows means the label builder was invoked on a table with
// zero "train"-partition rows. Downstream training needs ground truth,
// so this is fatal rather than an empty result.
var ErrNoTrainRows = errors.New("no train-partition rows to label")

type Service struct {
	thresholdDays float64
	minOrders     int
}

// NewService builds a label service. minOrders is the inclusive minimum
// prior-order count a user needs to be label-eligible; 0 disables the
// filter.
func NewService(thresholdDays float64, minOrders int) *Service {
	return &Service{
		thresholdDays: thresholdDays,
		minOrders:     minOrders,
	}
}

// Build derives labels with the canonical hold-out policy.
func (s *Service) Build(orders []domain.Order) ([]domain.ChurnLabel, error) {
	return s.BuildWithPolicy(orders, PolicyHoldout)
}

func (s *Service) BuildWithPolicy(orders []domain.Order, policy Policy) ([]domain.ChurnLabel, error) {
	switch policy {
	case PolicyHoldout:
		return s.buildHoldout(orders)
	case PolicyOrderGapProxy:
		return s.buildOrderGapProxy(orders)
	default:
		return nil, fmt.Errorf("unknown label policy %q", policy)
	}
}

func (s *Service) buildHoldout(orders []domain.Order) ([]domain.ChurnLabel, error) {
	priorCounts := make(map[uint64]int)
	for _, o := range orders {
		if o.EvalSet == domain.EvalSetPrior {
			priorCounts[o.UserID]++
		}
	}

	var out []domain.ChurnLabel
	for _, o := range orders {
		if o.EvalSet != domain.EvalSetTrain {
			continue
		}
		// Boundary is inclusive: exactly minOrders prior orders keeps
		// the user in.
		if s.minOrders > 0 && priorCounts[o.UserID] < s.minOrders {
			continue
		}

		// Missing days_since_prior_order counts as 0 (not churned)
		// before the comparison.
		days := 0.0
		if o.DaysSincePriorKnown {
			days = o.DaysSincePriorOrder
		}

		label := domain.ChurnLabel{
			UserID:          o.UserID,
			DaysToNextOrder: days,
		}
		if days >= s.thresholdDays {
			label.IsChurn = 1
		}

		out = append(out, label)
	}

	if len(out) == 0 {
		return nil, ErrNoTrainRows
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out, nil
}

func (s *Service) buildOrderGapProxy(orders []domain.Order) ([]domain.ChurnLabel, error) {
	if len(orders) == 0 {
		return nil, errors.New("no orders to label")
	}

	globalMax := 0
	maxPerUser := make(map[uint64]int)
	totalPerUser := make(map[uint64]int)
	for _, o := range orders {
		if o.OrderNumber > globalMax {
			globalMax = o.OrderNumber
		}
		if o.OrderNumber > maxPerUser[o.UserID] {
			maxPerUser[o.UserID] = o.OrderNumber
		}
		totalPerUser[o.UserID]++
	}

	userIDs := make([]uint64, 0, len(maxPerUser))
	for id := range maxPerUser {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	out := make([]domain.ChurnLabel, 0, len(userIDs))
	for _, id := range userIDs {
		estimatedRecency := float64(globalMax-maxPerUser[id]) * estimatedDaysPerOrder

		label := domain.ChurnLabel{
			UserID:          id,
			DaysToNextOrder: estimatedRecency,
		}
		if (s.minOrders == 0 || totalPerUser[id] >= s.minOrders) && estimatedRecency > s.thresholdDays {
			label.IsChurn = 1
		}

		out = append(out, label)
	}

	return out, nil
}

type Distribution struct {
	TotalUsers   int
	ChurnedUsers int
	ActiveUsers  int
	ChurnRate    float64
	// Approximate quartiles of days_to_next_order, for the
	// data-quality log.
	RecencyP25 float64
	RecencyP50 float64
	RecencyP75 float64
}

// Distribution summarizes a label set. Uses a streaming histogram for
// the recency quantiles so the summary stays cheap on the full dataset.
func (s *Service) Distribution(labels []domain.ChurnLabel) Distribution {
	d := Distribution{TotalUsers: len(labels)}
	if len(labels) == 0 {
		return d
	}

	h := hist.NewHistogram(40)
	for _, l := range labels {
		if l.IsChurn == 1 {
			d.ChurnedUsers++
		}
		h.Add(l.DaysToNextOrder)
	}
	d.ActiveUsers = d.TotalUsers - d.ChurnedUsers
	d.ChurnRate = float64(d.ChurnedUsers) / float64(d.TotalUsers)
	d.RecencyP25 = h.Quantile(0.25)
	d.RecencyP50 = h.Quantile(0.5)
	d.RecencyP75 = h.Quantile(0.75)

	logger.Info("churn label distribution",
		"total_users", d.TotalUsers,
		"churned_users", d.ChurnedUsers,
		"active_users", d.ActiveUsers,
		"churn_rate", d.ChurnRate,
		"recency_p50", d.RecencyP50,
	)

	return d
}
