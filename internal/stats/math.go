package stats

import (
	"math"
	"slices"
)

// Percentile returns the p-th percentile (p in [0,1]) of values using linear
// interpolation between the closest ranks. An empty slice yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	return PercentileSorted(temp, p)
}

// PercentileSorted is Percentile for a slice already in ascending order.
func PercentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	idx := float64(n-1) * p
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	w := idx - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
