// Package stats summarizes per-trace accuracy percentages across a batch.
package stats

import (
	"math"
	"sort"
)

// Distribution describes a sample of values
type Distribution struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	P10    float64 `json:"p10"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// Describe computes the distribution of values; an empty sample yields the zero Distribution
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := sortedCopy(values)
	ps := Percentiles(sorted, []float64{10, 50, 90})
	return Distribution{
		Count:  len(sorted),
		Min:    sorted[0],
		P10:    ps[0],
		Median: ps[1],
		P90:    ps[2],
		Max:    sorted[len(sorted)-1],
		Mean:   Mean(sorted),
	}
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Percentiles calculates multiple percentiles (0-100) at once
func Percentiles(values []float64, ps []float64) []float64 {
	results := make([]float64, len(ps))
	if len(values) == 0 {
		return results
	}

	// Sort once for efficiency
	sorted := sortedCopy(values)
	for i, p := range ps {
		results[i] = quantileSorted(sorted, p/100.0)
	}
	return results
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// quantileSorted returns the q-th quantile (0 <= q <= 1) of a non-empty sorted slice,
// interpolating linearly between closest ranks
func quantileSorted(sorted []float64, q float64) float64 {
	q = math.Max(0, math.Min(1, q))

	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
