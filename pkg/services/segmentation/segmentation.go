package segmentation

import (
	"context"
	"maps"
	"slices"

	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/rs/zerolog"
)

const minInit = 10

type Segmenter struct {
	features []string
	labels   LabelTable
	opts     KMeansOptions
}

// NewSegmenter validates the clustering settings up front so that a label
// table that does not match n_clusters fails before any data is read.
func NewSegmenter(settings config.ClusteringSettings) (*Segmenter, error) {
	labels, err := NewLabelTable(settings.SegmentLabels, settings.NClusters)
	if err != nil {
		return nil, err
	}
	if len(settings.Features) == 0 {
		return nil, errs.Configuration("model.clustering.features must not be empty")
	}
	if settings.NInit < minInit {
		return nil, errs.Configuration("model.clustering.n_init must be at least %d, got %d", minInit, settings.NInit)
	}
	if settings.MaxIter < 1 {
		return nil, errs.Configuration("model.clustering.max_iter must be at least 1, got %d", settings.MaxIter)
	}

	return &Segmenter{
		features: append([]string(nil), settings.Features...),
		labels:   labels,
		opts: KMeansOptions{
			K:       settings.NClusters,
			NInit:   settings.NInit,
			MaxIter: settings.MaxIter,
			Seed:    settings.RandomState,
		},
	}, nil
}

func (s *Segmenter) Labels() []string {
	return s.labels.Labels()
}

func (s *Segmenter) featureMatrix(f *frame.Frame) ([][]float64, error) {
	columns := make([][]float64, len(s.features))
	for j, name := range s.features {
		values, ok := f.Numeric(name)
		if !ok {
			return nil, errs.Configuration("clustering feature %q is not a numeric column of the customer table", name)
		}
		if frame.Count(values) == 0 {
			return nil, errs.Degenerate("clustering feature %q has no values", name)
		}
		if frame.Count(values) != len(values) {
			return nil, errs.Degenerate("clustering feature %q has missing values", name)
		}
		columns[j] = values
	}

	points := make([][]float64, f.Len())
	for i := range points {
		p := make([]float64, len(columns))
		for j := range columns {
			p[j] = columns[j][i]
		}
		points[i] = p
	}
	return points, nil
}

// Segment standardises the configured features, clusters the customers and
// returns a copy of f with cluster and segment columns appended.
func (s *Segmenter) Segment(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	logger := zerolog.Ctx(ctx)

	revenue, ok := f.Numeric(domain.ColRevenue)
	if !ok {
		return nil, errs.Validation("missing required columns: [%s]", domain.ColRevenue)
	}
	if f.Len() < s.opts.K {
		return nil, errs.Validation("need at least %d customers for %d clusters, got %d", s.opts.K, s.opts.K, f.Len())
	}

	points, err := s.featureMatrix(f)
	if err != nil {
		return nil, err
	}
	scaled := FitScaler(points).Transform(points)
	result := KMeans(scaled, s.opts)

	sums := make([]float64, s.opts.K)
	counts := make([]float64, s.opts.K)
	for i, c := range result.Labels {
		sums[c] += revenue[i]
		counts[c]++
	}
	means := make([]float64, s.opts.K)
	for c := range means {
		means[c] = sums[c] / counts[c]
	}

	mapping, err := s.labels.Assign(means)
	if err != nil {
		return nil, err
	}

	clusters := make([]float64, f.Len())
	segments := make([]string, f.Len())
	for i, c := range result.Labels {
		clusters[i] = float64(c)
		segments[i] = mapping[c]
	}

	out := f.Clone()
	if err := out.SetNumeric(domain.ColCluster, clusters); err != nil {
		return nil, err
	}
	if err := out.SetCategorical(domain.ColSegment, segments, nil); err != nil {
		return nil, err
	}

	logger.Info().
		Int("records", f.Len()).
		Int("clusters", s.opts.K).
		Float64("inertia", result.Inertia).
		Int("iterations", result.Iterations).
		Msg("segmented customers")
	return out, nil
}

// Profiles aggregates a segmented customer table per segment, in label
// table order. Segments without customers are omitted.
func (s *Segmenter) Profiles(f *frame.Frame) ([]domain.SegmentProfile, error) {
	if f == nil || f.Len() == 0 {
		return nil, errs.Validation("empty input: customer table has no rows")
	}
	required := []string{
		domain.ColSessions, domain.ColPagesPerSession, domain.ColTransactions,
		domain.ColAvgSessionDuration, domain.ColRevenue,
	}
	cols := make(map[string][]float64, len(required))
	for _, name := range required {
		values, ok := f.Numeric(name)
		if !ok {
			return nil, errs.Validation("missing required columns: [%s]", name)
		}
		cols[name] = values
	}
	_, groups, err := f.GroupBy(domain.ColSegment)
	if err != nil {
		return nil, errs.Validation("customer table is not segmented: %v", err)
	}

	total := float64(f.Len())
	profiles := make([]domain.SegmentProfile, 0, len(groups))
	for _, label := range s.labels.labels {
		rows, ok := groups[label]
		if !ok {
			continue
		}
		delete(groups, label)
		revenue := pick(cols[domain.ColRevenue], rows)
		profiles = append(profiles, domain.SegmentProfile{
			Segment:            label,
			Sessions:           frame.Round(frame.Mean(pick(cols[domain.ColSessions], rows)), 2),
			PagesPerSession:    frame.Round(frame.Mean(pick(cols[domain.ColPagesPerSession], rows)), 2),
			Transactions:       frame.Round(frame.Mean(pick(cols[domain.ColTransactions], rows)), 2),
			AvgSessionDuration: frame.Round(frame.Mean(pick(cols[domain.ColAvgSessionDuration], rows)), 2),
			RevenueMean:        frame.Round(frame.Mean(revenue), 2),
			RevenueSum:         frame.Round(frame.Sum(revenue), 2),
			Customers:          len(rows),
			Percentage:         frame.Round(float64(len(rows))/total*100, 1),
		})
	}

	if len(groups) > 0 {
		return nil, errs.Validation("unknown segments in customer table: %v", slices.Sorted(maps.Keys(groups)))
	}
	return profiles, nil
}

func pick(values []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = values[r]
	}
	return out
}
