// Package stats provides the pure statistical primitives used by the KPI
// calculator. Every function here assumes a non-empty series; callers must
// short-circuit the empty case to the documented no-data result before
// calling in.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic average of xs. xs must be non-empty.
func Mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Median returns the middle element of xs sorted ascending, or the average
// of the two middle elements for even counts. xs must be non-empty and is
// not modified.
func Median(xs []float64) float64 {
	sorted := sortedCopy(xs)
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Percentile returns the p-th percentile of xs using the nearest-rank
// method: index = ceil(p/100 * n) - 1, clamped to [0, n-1]. No
// interpolation. xs must be non-empty and is not modified.
func Percentile(xs []float64, p float64) float64 {
	sorted := sortedCopy(xs)
	n := len(sorted)
	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// Variance returns the population variance of xs (divisor n, not n-1).
// xs must be non-empty.
func Variance(xs []float64) float64 {
	mean := Mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}

func sortedCopy(xs []float64) []float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return sorted
}
