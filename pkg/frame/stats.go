package frame

import (
	"math"
	"sort"
)

func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Quantile returns the q-th quantile of the non-NaN values using linear
// interpolation between the closest ranks at position q*(n-1).
// It returns NaN when no value is present.
func Quantile(values []float64, q float64) float64 {
	sorted := present(values)
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	weight := pos - float64(lower)
	return sorted[lower] + weight*(sorted[upper]-sorted[lower])
}

func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Sum adds the non-NaN values; an empty input sums to 0.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			total += v
		}
	}
	return total
}

// Mean averages the non-NaN values and returns NaN when none is present.
func Mean(values []float64) float64 {
	p := present(values)
	if len(p) == 0 {
		return math.NaN()
	}
	return Sum(p) / float64(len(p))
}

// Std returns the standard deviation of the non-NaN values with ddof degrees
// of freedom removed from the divisor: 0 for population, 1 for sample.
func Std(values []float64, ddof int) float64 {
	p := present(values)
	if len(p)-ddof <= 0 {
		return math.NaN()
	}
	mean := Mean(p)
	ss := 0.0
	for _, v := range p {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(p)-ddof))
}

func Min(values []float64) float64 {
	p := present(values)
	if len(p) == 0 {
		return math.NaN()
	}
	m := p[0]
	for _, v := range p[1:] {
		m = math.Min(m, v)
	}
	return m
}

func Max(values []float64) float64 {
	p := present(values)
	if len(p) == 0 {
		return math.NaN()
	}
	m := p[0]
	for _, v := range p[1:] {
		m = math.Max(m, v)
	}
	return m
}

// Count returns the number of non-NaN values.
func Count(values []float64) int {
	return len(present(values))
}

// Mode returns the most frequent present value. Ties resolve to the
// lexicographically smallest candidate. ok is false when nothing is present.
func Mode(values []string, valid []bool) (mode string, ok bool) {
	counts := make(map[string]int)
	for i, v := range values {
		if valid != nil && !valid[i] {
			continue
		}
		counts[v]++
	}
	best := -1
	for v, n := range counts {
		if n > best || (n == best && v < mode) {
			mode, best = v, n
		}
	}
	return mode, best > 0
}
