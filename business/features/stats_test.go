package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.Equal(t, 5.0, mean([]float64{5}))
	assert.InDelta(t, 4.0, mean([]float64{2, 4, 6}), 1e-12)
}

func TestSampleStd(t *testing.T) {
	// n-1 denominator: {2,4,6} has variance 4.
	assert.InDelta(t, 2.0, sampleStd([]float64{2, 4, 6}), 1e-12)

	// Fewer than two samples is a defined 0, never NaN.
	assert.Equal(t, 0.0, sampleStd(nil))
	assert.Equal(t, 0.0, sampleStd([]float64{42}))
}

func TestModeSmallestTieBreak(t *testing.T) {
	// 3 and 7 both appear twice; the smaller value wins.
	assert.Equal(t, 3, modeSmallest([]int{7, 3, 7, 3, 9}))
	assert.Equal(t, 5, modeSmallest([]int{5, 5, 2}))
	assert.Equal(t, 0, modeSmallest(nil))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.InDelta(t, 2.5, median([]float64{4, 1, 2, 3}), 1e-12)

	// Input stays untouched.
	in := []float64{3, 1, 2}
	median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestQcutEdges(t *testing.T) {
	edges := qcutEdges([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	assert.Len(t, edges, 6)
	assert.Equal(t, 1.0, edges[0])
	assert.Equal(t, 10.0, edges[len(edges)-1])
}

func TestQcutEdgesDropsDuplicates(t *testing.T) {
	// Heavily tied values collapse edges instead of failing.
	edges := qcutEdges([]float64{1, 1, 1, 1, 1, 1, 1, 1, 2, 3}, 5)
	for i := 1; i < len(edges); i++ {
		assert.Greater(t, edges[i], edges[i-1])
	}
	assert.Less(t, len(edges), 6)
}

func TestQcutEdgesAllIdentical(t *testing.T) {
	edges := qcutEdges([]float64{4, 4, 4}, 5)
	assert.Equal(t, []float64{4, 4}, edges)
	assert.Equal(t, 0, binOf(4, edges))
}

func TestBinOfFirstBinClosed(t *testing.T) {
	edges := []float64{0, 2, 4, 6}

	// The minimum lands in bin 0, not below it.
	assert.Equal(t, 0, binOf(0, edges))
	assert.Equal(t, 0, binOf(2, edges))
	assert.Equal(t, 1, binOf(3, edges))
	assert.Equal(t, 2, binOf(6, edges))

	// Out-of-range values clamp to the outer bins.
	assert.Equal(t, 0, binOf(-1, edges))
	assert.Equal(t, 2, binOf(99, edges))
}
