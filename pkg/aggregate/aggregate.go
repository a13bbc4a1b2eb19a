// Package aggregate reduces two weighted variant populations and a pairwise
// distance matrix to a single scalar test statistic.
//
// Policies are total over their weight vectors: all-zero weights on both
// sides reduce to 0 (two empty logs are identical). The comparator rejects
// empty logs before aggregation where the statistic would be undefined.
package aggregate

import "github.com/procdiff/procdiff/pkg/distance"

// Policy reduces two variant populations, given as per-variant weights
// (counts or frequencies; the policy normalizes), and the distance matrix
// between them. len(wa) must equal d.Rows() and len(wb) must equal
// d.Cols(). Implementations must be pure: the same inputs always produce
// the same scalar, because a policy is invoked identically on the observed
// logs and on every resampled partition.
type Policy interface {
	Name() string
	Reduce(wa, wb []float64, d *distance.Matrix) float64
}

// MeanPairwise is the default policy: the frequency-weighted mean of all
// pairwise variant distances, which equals the plain mean of distance(t, t')
// over every trace pair drawn one from each side.
type MeanPairwise struct{}

func (MeanPairwise) Name() string { return "mean_pairwise" }

func (MeanPairwise) Reduce(wa, wb []float64, d *distance.Matrix) float64 {
	ta, tb := total(wa), total(wb)
	if ta == 0 || tb == 0 {
		return 0
	}

	sum := 0.0
	for i, a := range wa {
		if a == 0 {
			continue
		}
		row := 0.0
		for j, b := range wb {
			if b == 0 {
				continue
			}
			row += b * d.At(i, j)
		}
		sum += a * row
	}
	return sum / (ta * tb)
}

// NearestNeighbor averages, for every trace on one side, the distance to its
// closest variant on the other side, then symmetrizes by averaging the two
// directions. More sensitive to outlier variants than MeanPairwise, less
// sensitive to frequency shifts among shared variants.
type NearestNeighbor struct{}

func (NearestNeighbor) Name() string { return "nearest_neighbor" }

func (NearestNeighbor) Reduce(wa, wb []float64, d *distance.Matrix) float64 {
	ta, tb := total(wa), total(wb)
	if ta == 0 || tb == 0 {
		return 0
	}

	forward := directedNN(wa, wb, d.At)
	backward := directedNN(wb, wa, func(i, j int) float64 { return d.At(j, i) })
	return (forward/ta + backward/tb) / 2
}

// directedNN sums w-weighted minimum distances from each source variant to
// any occupied target variant.
func directedNN(from, to []float64, at func(i, j int) float64) float64 {
	sum := 0.0
	for i, w := range from {
		if w == 0 {
			continue
		}
		min := -1.0
		for j, v := range to {
			if v == 0 {
				continue
			}
			if d := at(i, j); min < 0 || d < min {
				min = d
			}
		}
		if min > 0 {
			sum += w * min
		}
	}
	return sum
}

func total(w []float64) float64 {
	t := 0.0
	for _, v := range w {
		t += v
	}
	return t
}
