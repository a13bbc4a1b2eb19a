package binning

import (
	"math"
	"math/rand"
	"sort"

	"github.com/procdiff/procdiff/pkg/errors"
)

// KMeans bins a value by its closest centroid from a one-dimensional
// k-means clustering of the training values. Initialization picks the first
// centroid from the provided random source and the remaining ones greedily
// as the value farthest from its closest chosen centroid (k-means++ style),
// so given a seeded source the clustering is fully deterministic.
type KMeans struct {
	centroids []float64
}

// NewKMeans trains a KMeans binner with k clusters and at most maxIter
// Lloyd iterations. When there are fewer distinct training values than
// clusters, the number of bins shrinks accordingly.
func NewKMeans(values []float64, k, maxIter int, rng *rand.Rand) (*KMeans, error) {
	if k < 1 {
		return nil, errors.New(errors.CodeConfiguration, "cluster count must be at least 1").
			WithContext("k", k)
	}
	if maxIter < 1 {
		return nil, errors.New(errors.CodeConfiguration, "iteration limit must be at least 1").
			WithContext("max_iter", maxIter)
	}
	if len(values) == 0 {
		return &KMeans{centroids: []float64{0}}, nil
	}
	if d := distinct(values); k > d {
		k = d
	}

	centroids := initialize(values, k, rng)
	membership := make([]int, len(values))
	counts := make([]int, k)
	sums := make([]float64, k)

	for it := 0; it < maxIter; it++ {
		changes := 0
		for i, v := range values {
			best := membership[i]
			bestDist := sq(v - centroids[best])
			for c, centroid := range centroids {
				if d := sq(v - centroid); d < bestDist {
					bestDist = d
					best = c
					changes++
				}
			}
			membership[i] = best
		}

		for c := range centroids {
			counts[c] = 0
			sums[c] = 0
		}
		for i, v := range values {
			counts[membership[i]]++
			sums[membership[i]] += v
		}
		for c := range centroids {
			if counts[c] == 0 {
				centroids[c] = 0
				continue
			}
			centroids[c] = sums[c] / float64(counts[c])
		}

		if changes == 0 {
			break
		}
	}

	sort.Float64s(centroids)
	return &KMeans{centroids: centroids}, nil
}

// NumBins returns the number of clusters.
func (b *KMeans) NumBins() int { return len(b.centroids) }

// Bin assigns v to the bin of its closest centroid. Centroids are sorted
// ascending, so bin indices are ordinal in service time.
func (b *KMeans) Bin(v float64) int {
	best := 0
	bestDist := math.Abs(v - b.centroids[0])
	for c := 1; c < len(b.centroids); c++ {
		if d := math.Abs(v - b.centroids[c]); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// initialize picks k starting centroids: the first uniformly at random, the
// rest as the value farthest from its closest already-chosen centroid.
func initialize(values []float64, k int, rng *rand.Rand) []float64 {
	taken := make([]bool, len(values))
	centroids := make([]float64, 0, k)

	first := rng.Intn(len(values))
	taken[first] = true
	centroids = append(centroids, values[first])

	for len(centroids) < k {
		imax := 0
		dmax := math.Inf(-1)
		for i, v := range values {
			if taken[i] {
				continue
			}
			dmin := math.Inf(1)
			for _, c := range centroids {
				if d := sq(v - c); d < dmin {
					dmin = d
				}
			}
			if dmin > dmax {
				dmax = dmin
				imax = i
			}
		}
		taken[imax] = true
		centroids = append(centroids, values[imax])
	}
	return centroids
}

func distinct(values []float64) int {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			n++
		}
	}
	return n
}

func sq(x float64) float64 { return x * x }
