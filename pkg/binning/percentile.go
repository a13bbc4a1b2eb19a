package binning

import (
	"sort"

	"github.com/procdiff/procdiff/pkg/errors"
)

// OuterPercentile is a simple three-bin binner: values below the lower x-th
// percentile form bin 0, values at or above the upper (100-x)-th percentile
// form bin 2, and everything in between forms bin 1.
type OuterPercentile struct {
	lower float64
	upper float64
}

// NewOuterPercentile trains an OuterPercentile binner. pct must lie in
// [0, 50] so that the lower boundary does not cross the upper one.
func NewOuterPercentile(values []float64, pct float64) (*OuterPercentile, error) {
	if pct < 0 || pct > 50 {
		return nil, errors.New(errors.CodeConfiguration, "outer percentile must be in [0, 50]").
			WithContext("percentile", pct)
	}
	if len(values) == 0 {
		return &OuterPercentile{}, nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return &OuterPercentile{
		lower: percentile(sorted, pct),
		upper: percentile(sorted, 100-pct),
	}, nil
}

// NumBins returns 3.
func (b *OuterPercentile) NumBins() int { return 3 }

// Bin assigns v to one of the three bins.
func (b *OuterPercentile) Bin(v float64) int {
	switch {
	case v < b.lower:
		return 0
	case v < b.upper:
		return 1
	default:
		return 2
	}
}

// percentile computes the pct-th percentile of sorted data by linear
// interpolation between closest ranks.
func percentile(sorted []float64, pct float64) float64 {
	rank := pct / 100 * float64(len(sorted)-1)
	lo := int(rank)
	hi := lo
	if float64(lo) < rank {
		hi = lo + 1
	}
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}
