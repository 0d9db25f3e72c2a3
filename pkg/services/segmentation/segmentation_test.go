package segmentation

import (
	"context"
	"math"
	"testing"

	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customer struct {
	sessions, duration, pages, transactions, revenue float64
}

var (
	highValue = []customer{{50, 600, 10, 10, 1500}, {52, 620, 11, 12, 1550}, {48, 590, 9, 9, 1450}, {51, 610, 10, 11, 1520}}
	deal      = []customer{{20, 300, 5, 4, 500}, {22, 310, 6, 5, 520}, {19, 290, 5, 4, 480}, {21, 305, 5, 4, 510}}
	casual    = []customer{{5, 60, 2, 0, 100}, {6, 70, 2, 1, 110}, {4, 55, 1, 0, 90}, {5, 65, 2, 0, 95}}
)

// customers interleaves the three groups: rows 0,3,6,9 are high value,
// rows 1,4,7,10 deal seekers and rows 2,5,8,11 casual visitors.
func customers(t *testing.T) *frame.Frame {
	t.Helper()
	var rows []customer
	for i := 0; i < 4; i++ {
		rows = append(rows, highValue[i], deal[i], casual[i])
	}

	cols := map[string][]float64{}
	for _, r := range rows {
		cols["sessions"] = append(cols["sessions"], r.sessions)
		cols["avg_session_duration"] = append(cols["avg_session_duration"], r.duration)
		cols["pages_per_session"] = append(cols["pages_per_session"], r.pages)
		cols["transactions"] = append(cols["transactions"], r.transactions)
		cols["revenue"] = append(cols["revenue"], r.revenue)
	}

	f := frame.New()
	for _, name := range []string{"sessions", "avg_session_duration", "pages_per_session", "transactions", "revenue"} {
		require.NoError(t, f.SetNumeric(name, cols[name]))
	}
	return f
}

func newSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	s, err := NewSegmenter(config.DefaultConfig().Model.Clustering)
	require.NoError(t, err)
	return s
}

func TestNewSegmenter(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *config.ClusteringSettings)
	}{
		{name: "label table mismatch", modify: func(c *config.ClusteringSettings) { c.NClusters = 4 }},
		{name: "too few initialisations", modify: func(c *config.ClusteringSettings) { c.NInit = 5 }},
		{name: "no features", modify: func(c *config.ClusteringSettings) { c.Features = nil }},
		{name: "no iterations", modify: func(c *config.ClusteringSettings) { c.MaxIter = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			settings := config.DefaultConfig().Model.Clustering
			tc.modify(&settings)
			_, err := NewSegmenter(settings)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.CodeConfiguration))
		})
	}
}

func TestSegmenter_Segment(t *testing.T) {
	ctx := context.Background()
	s := newSegmenter(t)

	out, err := s.Segment(ctx, customers(t))
	require.NoError(t, err)
	require.Equal(t, 12, out.Len())

	segments, valid, ok := out.Categorical("segment")
	require.True(t, ok)

	t.Run("every customer gets exactly one known label", func(t *testing.T) {
		counts := map[string]int{}
		for i, seg := range segments {
			require.True(t, valid[i])
			counts[seg]++
		}
		assert.Equal(t, map[string]int{"High-Value Buyers": 4, "Deal Seekers": 4, "Casual Visitors": 4}, counts)
	})

	t.Run("labels follow revenue rank", func(t *testing.T) {
		for i := 0; i < 12; i++ {
			want := []string{"High-Value Buyers", "Deal Seekers", "Casual Visitors"}[i%3]
			assert.Equal(t, want, segments[i], "row %d", i)
		}
	})

	t.Run("cluster ids are consistent with segments", func(t *testing.T) {
		clusters, ok := out.Numeric("cluster")
		require.True(t, ok)
		bySegment := map[string]float64{}
		for i, seg := range segments {
			if id, seen := bySegment[seg]; seen {
				assert.Equal(t, id, clusters[i])
			}
			bySegment[seg] = clusters[i]
		}
	})

	t.Run("reproducible", func(t *testing.T) {
		again, err := s.Segment(ctx, customers(t))
		require.NoError(t, err)
		a, _ := out.Numeric("cluster")
		b, _ := again.Numeric("cluster")
		assert.Equal(t, a, b)
	})

	t.Run("input untouched", func(t *testing.T) {
		in := customers(t)
		_, err := s.Segment(ctx, in)
		require.NoError(t, err)
		assert.False(t, in.Has("segment"))
	})
}

func TestSegmenter_SegmentErrors(t *testing.T) {
	ctx := context.Background()
	s := newSegmenter(t)

	t.Run("missing feature", func(t *testing.T) {
		_, err := s.Segment(ctx, customers(t).Drop("pages_per_session"))
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.CodeConfiguration))
	})

	t.Run("missing revenue", func(t *testing.T) {
		_, err := s.Segment(ctx, customers(t).Drop("revenue"))
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.CodeValidation))
	})

	t.Run("nan feature", func(t *testing.T) {
		f := customers(t)
		sessions, _ := f.Numeric("sessions")
		sessions[4] = math.NaN()
		require.NoError(t, f.SetNumeric("sessions", sessions))

		_, err := s.Segment(ctx, f)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.CodeDegenerate))
	})

	t.Run("fewer customers than clusters", func(t *testing.T) {
		_, err := s.Segment(ctx, customers(t).Take([]int{0, 1}))
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.CodeValidation))
	})
}

func TestSegmenter_Profiles(t *testing.T) {
	s := newSegmenter(t)
	segmented, err := s.Segment(context.Background(), customers(t))
	require.NoError(t, err)

	profiles, err := s.Profiles(segmented)
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, domain.SegmentProfile{
		Segment:            "High-Value Buyers",
		Sessions:           50.25,
		PagesPerSession:    10,
		Transactions:       10.5,
		AvgSessionDuration: 605,
		RevenueMean:        1505,
		RevenueSum:         6020,
		Customers:          4,
		Percentage:         33.3,
	}, profiles[0])
	assert.Equal(t, "Deal Seekers", profiles[1].Segment)
	assert.Equal(t, "Casual Visitors", profiles[2].Segment)
	assert.Greater(t, profiles[0].RevenueMean, profiles[1].RevenueMean)
	assert.Greater(t, profiles[1].RevenueMean, profiles[2].RevenueMean)

	total := 0.0
	for _, p := range profiles {
		total += p.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.2)

	t.Run("unsegmented table", func(t *testing.T) {
		_, err := s.Profiles(customers(t))
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.CodeValidation))
	})

	t.Run("unknown segment label", func(t *testing.T) {
		f := segmented.Clone()
		segments, valid, _ := f.Categorical("segment")
		segments[0] = "Whales"
		require.NoError(t, f.SetCategorical("segment", segments, valid))

		_, err := s.Profiles(f)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Whales")
	})
}
