package features

import (
	"freshCartChurn/domain"
)

const rfmScoreBins = 5

// BuildRFMScores quantile-bins the three RFM pillars into 1-5 scores
// and maps the composite onto the fixed segments. Heavily tied values
// collapse quantile edges; degenerate bins are dropped, so a pillar may
// score over fewer than five levels (logged upstream as a data-quality
// signal, never an error).
func BuildRFMScores(features []domain.UserFeatures) []domain.RFMScore {
	if len(features) == 0 {
		return nil
	}

	recency := make([]float64, len(features))
	frequency := make([]float64, len(features))
	monetary := make([]float64, len(features))
	for i, f := range features {
		recency[i] = f.DaysSinceLastOrder
		frequency[i] = f.TotalOrders
		monetary[i] = f.AvgBasketSize
	}

	recEdges := qcutEdges(recency, rfmScoreBins)
	freqEdges := qcutEdges(frequency, rfmScoreBins)
	monEdges := qcutEdges(monetary, rfmScoreBins)

	out := make([]domain.RFMScore, len(features))
	for i, f := range features {
		// Recency is inverted: the most recent bucket earns the top
		// score.
		recBins := len(recEdges) - 1
		rec := recBins - binOf(f.DaysSinceLastOrder, recEdges)
		freq := binOf(f.TotalOrders, freqEdges) + 1
		mon := binOf(f.AvgBasketSize, monEdges) + 1

		total := rec + freq + mon
		out[i] = domain.RFMScore{
			UserID:         f.UserID,
			RecencyScore:   rec,
			FrequencyScore: freq,
			MonetaryScore:  mon,
			RFMScore:       total,
			Segment:        segmentFor(total),
		}
	}

	return out
}

// Fixed composite cut points: (0,6] (6,9] (9,12] (12,15].
func segmentFor(score int) string {
	switch {
	case score <= 6:
		return domain.SegmentAtRisk
	case score <= 9:
		return domain.SegmentPromising
	case score <= 12:
		return domain.SegmentLoyal
	default:
		return domain.SegmentChampions
	}
}
