package segmentation

import (
	"math"
	"sort"

	"github.com/de-tools/campaign-atlas/pkg/errs"
)

// LabelTable names clusters by rank: the first label goes to the cluster
// with the highest mean revenue, the second to the next one and so on.
type LabelTable struct {
	labels []string
}

// NewLabelTable fails when the table cannot name exactly nClusters clusters.
func NewLabelTable(labels []string, nClusters int) (LabelTable, error) {
	if nClusters < 1 {
		return LabelTable{}, errs.Configuration("n_clusters must be at least 1, got %d", nClusters)
	}
	if len(labels) != nClusters {
		return LabelTable{}, errs.Configuration(
			"segment label table has %d entries but n_clusters is %d", len(labels), nClusters)
	}
	return LabelTable{labels: append([]string(nil), labels...)}, nil
}

func (t LabelTable) Labels() []string {
	return append([]string(nil), t.labels...)
}

func (t LabelTable) Size() int {
	return len(t.labels)
}

// Assign maps cluster ids to labels given each cluster's mean revenue,
// indexed by cluster id. Ranking is by mean revenue descending; equal means
// keep cluster id order and NaN means rank last.
func (t LabelTable) Assign(meanRevenue []float64) (map[int]string, error) {
	if len(meanRevenue) != len(t.labels) {
		return nil, errs.Configuration(
			"got %d clusters for a label table of %d entries", len(meanRevenue), len(t.labels))
	}

	order := make([]int, len(meanRevenue))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := meanRevenue[order[a]], meanRevenue[order[b]]
		if math.IsNaN(rb) {
			return !math.IsNaN(ra)
		}
		return ra > rb
	})

	mapping := make(map[int]string, len(order))
	for rank, cluster := range order {
		mapping[cluster] = t.labels[rank]
	}
	return mapping, nil
}
