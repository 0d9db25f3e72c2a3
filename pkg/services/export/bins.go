package export

import (
	"math"
	"sort"
)

// interval is a right-closed bin (lo, hi]. The first bin of a cut may also
// include its lower edge.
type interval struct {
	lo, hi float64
	label  string
}

type cut struct {
	bins       []interval
	includeLow bool
}

func (c cut) label(v float64) (string, bool) {
	if math.IsNaN(v) {
		return "", false
	}
	for i, b := range c.bins {
		if v > b.lo && v <= b.hi {
			return b.label, true
		}
		if i == 0 && c.includeLow && v == b.lo {
			return b.label, true
		}
	}
	return "", false
}

var (
	roiCategories = cut{bins: []interval{
		{math.Inf(-1), 0, "Loss"},
		{0, 50, "Low"},
		{50, 100, "Medium"},
		{100, math.Inf(1), "High"},
	}}
	conversionCategories = cut{includeLow: true, bins: []interval{
		{0, 2, "Very Low"},
		{2, 5, "Low"},
		{5, 10, "Medium"},
		{10, 100, "High"},
	}}
	engagementLevels = cut{includeLow: true, bins: []interval{
		{0, 60, "Low"},
		{60, 180, "Medium"},
		{180, 300, "High"},
		{300, math.Inf(1), "Very High"},
	}}
)

// ROICategory bins an roi percentage: Loss up to 0, then Low, Medium and
// High at 50 and 100.
func ROICategory(roi float64) (string, bool) {
	return roiCategories.label(roi)
}

// ConversionCategory bins a conversion rate in [0, 100]; rates outside it
// have no category.
func ConversionCategory(rate float64) (string, bool) {
	return conversionCategories.label(rate)
}

func EngagementLevel(durationSec float64) (string, bool) {
	return engagementLevels.label(durationSec)
}

// firstRanks ranks values ascending from 1, breaking ties by position.
// Missing values get rank 0.
func firstRanks(values []float64) []int {
	rows := make([]int, 0, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			rows = append(rows, i)
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return values[rows[a]] < values[rows[b]]
	})

	ranks := make([]int, len(values))
	for r, row := range rows {
		ranks[row] = r + 1
	}
	return ranks
}

// QuantileTiers splits the ranked values into len(labels) groups of equal
// size, lowest label first. A single value gets the lowest label.
func QuantileTiers(values []float64, labels []string) ([]string, []bool) {
	ranks := firstRanks(values)
	n := 0
	for _, r := range ranks {
		if r > 0 {
			n++
		}
	}

	tiers := make([]string, len(values))
	valid := make([]bool, len(values))
	q := len(labels)
	for i, r := range ranks {
		if r == 0 {
			continue
		}
		valid[i] = true
		if n == 1 {
			tiers[i] = labels[0]
			continue
		}
		// bin edges sit on the linear quantiles of the ranks 1..n
		for j := 1; j <= q; j++ {
			edge := 1 + float64(n-1)*float64(j)/float64(q)
			if float64(r) <= edge || j == q {
				tiers[i] = labels[j-1]
				break
			}
		}
	}
	return tiers, valid
}

// DescendingRanks ranks values from the largest down, giving tied values
// the truncated mean of their positions.
func DescendingRanks(values []float64) []int {
	rows := make([]int, len(values))
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return values[rows[a]] > values[rows[b]]
	})

	ranks := make([]int, len(values))
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && values[rows[end]] == values[rows[start]] {
			end++
		}
		// positions start+1..end averaged
		avg := float64(start+1+end) / 2
		for _, row := range rows[start:end] {
			ranks[row] = int(avg)
		}
		start = end
	}
	return ranks
}
