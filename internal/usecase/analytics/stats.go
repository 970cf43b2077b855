package analytics

import (
	"math"
	"sort"
)

// quantile returns the q-th quantile of values using linear interpolation
// between closest ranks (pos = q*(n-1) over the sorted values). values must
// be non-empty; the input slice is not modified.
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func median(values []float64) float64 {
	return quantile(values, 0.5)
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStddev is the square root of the unbiased sample variance. Returns 0
// for fewer than two values.
func sampleStddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// linspace returns n+1 evenly spaced edges from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	edges := make([]float64, n+1)
	if n == 0 {
		edges[0] = lo
		return edges
	}
	step := (hi - lo) / float64(n)
	for i := 0; i <= n; i++ {
		edges[i] = lo + step*float64(i)
	}
	edges[n] = hi
	return edges
}

// histogram counts values into the half-open bins defined by edges; the last
// bin is closed on both sides. Values outside the edge range are excluded,
// so the returned counts may sum to less than len(values).
func histogram(values, edges []float64) []int {
	counts := make([]int, len(edges)-1)
	last := len(edges) - 1
	for _, v := range values {
		if v < edges[0] || v > edges[last] {
			continue
		}
		if v == edges[last] {
			counts[last-1]++
			continue
		}
		// First edge strictly greater than v; the bin is the one before it.
		i := sort.SearchFloat64s(edges, v)
		if i < len(edges) && edges[i] == v {
			counts[i]++
			continue
		}
		counts[i-1]++
	}
	return counts
}
