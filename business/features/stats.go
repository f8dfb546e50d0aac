package features

import (
	"math"
	"sort"
)

// Aggregation helpers. All of them special-case empty and
// single-sample input with a defined default instead of propagating
// NaN, and none of them depend on input row order beyond what the
// caller already sorted.

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStd is the n-1 standard deviation. Undefined spreads (fewer
// than two samples) yield 0, not NaN.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// modeSmallest returns the most frequent value; ties resolve to the
// smallest tied value so the result never depends on map iteration
// order. Empty input yields 0.
func modeSmallest(xs []int) int {
	if len(xs) == 0 {
		return 0
	}

	counts := make(map[int]int, len(xs))
	for _, x := range xs {
		counts[x]++
	}

	best := xs[0]
	bestCount := 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best
}

// median over a copy; the input slice is left untouched.
func median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// quantile with linear interpolation over an already-sorted slice.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// qcutEdges computes bin edges for quantile binning. Duplicate edges
// (heavily tied values) are dropped rather than failing, so the result
// may hold fewer than bins intervals. At least one interval survives
// for non-empty input.
func qcutEdges(values []float64, bins int) []float64 {
	if len(values) == 0 || bins < 1 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	edges := make([]float64, 0, bins+1)
	for i := 0; i <= bins; i++ {
		e := quantile(sorted, float64(i)/float64(bins))
		if len(edges) == 0 || e > edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}

	// All values identical: keep a single degenerate interval.
	if len(edges) == 1 {
		edges = append(edges, edges[0])
	}

	return edges
}

// binOf places v into its quantile interval. The first interval is
// closed on both ends so the minimum value lands in bin 0, the rest
// are half-open (lo, hi].
func binOf(v float64, edges []float64) int {
	nBins := len(edges) - 1
	if nBins < 1 {
		return 0
	}
	for i := 1; i <= nBins; i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return nBins - 1
}
