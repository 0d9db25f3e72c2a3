package segmentation

import (
	"math"
	"math/rand/v2"
)

type KMeansOptions struct {
	K       int
	NInit   int
	MaxIter int
	Seed    int64
}

type KMeansResult struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

// KMeans clusters points with Lloyd's algorithm from NInit k-means++ starts
// and keeps the run with the lowest inertia (first one wins on ties). All
// randomness comes from a generator seeded with opts.Seed, so equal inputs
// and options always produce equal results. Callers guarantee
// 1 <= K <= len(points).
func KMeans(points [][]float64, opts KMeansOptions) KMeansResult {
	rng := rand.New(rand.NewPCG(uint64(opts.Seed), 0x9e3779b97f4a7c15))

	var best KMeansResult
	for run := 0; run < opts.NInit; run++ {
		res := lloyd(points, seedCentroids(points, opts.K, rng), opts.MaxIter)
		if run == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

// seedCentroids picks k initial centroids with k-means++ weighting.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.IntN(len(points))]))

	dist := make([]float64, len(points))
	for i, p := range points {
		dist[i] = sqDist(p, centroids[0])
	}

	for len(centroids) < k {
		total := 0.0
		for _, d := range dist {
			total += d
		}

		next := rng.IntN(len(points))
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				acc += d
				if acc >= target && d > 0 {
					next = i
					break
				}
			}
		}

		c := clonePoint(points[next])
		centroids = append(centroids, c)
		for i, p := range points {
			dist[i] = math.Min(dist[i], sqDist(p, c))
		}
	}
	return centroids
}

func lloyd(points [][]float64, centroids [][]float64, maxIter int) KMeansResult {
	k := len(centroids)
	dims := len(points[0])
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	iter := 0
	for iter < maxIter {
		iter++
		changed := assign(points, centroids, labels)

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for j, v := range p {
				sums[c][j] += v
			}
		}

		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// move the empty centroid onto the point worst served by its own centroid
				far := farthestPoint(points, centroids, labels)
				centroids[c] = clonePoint(points[far])
				labels[far] = c
				changed = true
				continue
			}
			for j := range sums[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}

		if !changed {
			break
		}
	}

	assign(points, centroids, labels)
	inertia := 0.0
	for i, p := range points {
		inertia += sqDist(p, centroids[labels[i]])
	}
	return KMeansResult{Labels: labels, Centroids: centroids, Inertia: inertia, Iterations: iter}
}

// assign moves every point to its nearest centroid, lowest index on ties,
// and reports whether any label changed.
func assign(points, centroids [][]float64, labels []int) bool {
	changed := false
	for i, p := range points {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := sqDist(p, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

func farthestPoint(points, centroids [][]float64, labels []int) int {
	far, farDist := 0, -1.0
	for i, p := range points {
		if d := sqDist(p, centroids[labels[i]]); d > farDist {
			far, farDist = i, d
		}
	}
	return far
}

func clonePoint(p []float64) []float64 {
	return append([]float64(nil), p...)
}
