package resample

import (
	"sort"

	"github.com/procdiff/procdiff/pkg/errors"
)

// Bootstrap draws samples of size k with replacement from a reference
// variant population, weighted by the population's variant frequencies.
// Requesting k larger than the population is not an error: sampling is with
// replacement.
type Bootstrap struct {
	cum   []float64
	total float64
	k     int
	src   *Source
}

// NewBootstrap creates a bootstrap resampler over a reference population
// given as per-variant weights (counts or frequencies). k is the sample
// size of each draw.
func NewBootstrap(weights []float64, k int, src *Source) (*Bootstrap, error) {
	if k < 1 {
		return nil, errors.SampleSize(k)
	}

	cum := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		total += w
		cum[i] = total
	}
	if total == 0 {
		return nil, errors.New(errors.CodeEmptyLog, "bootstrap reference population is empty")
	}

	return &Bootstrap{cum: cum, total: total, k: k, src: src}, nil
}

// SampleSize returns k.
func (b *Bootstrap) SampleSize() int { return b.k }

// Draw fills counts with one bootstrap sample for iteration iter: k
// independent weighted draws with replacement, tallied per variant. counts
// must have length len(weights); it is zeroed first so per-worker buffers
// can be reused.
func (b *Bootstrap) Draw(iter uint64, counts []float64) {
	for i := range counts {
		counts[i] = 0
	}
	rng := b.src.Stream(iter)
	for i := 0; i < b.k; i++ {
		// Map into (0, total] so zero-weight variants, whose cumulative
		// interval is empty, can never be selected.
		r := (1 - rng.Float64()) * b.total
		v := sort.SearchFloat64s(b.cum, r)
		if v == len(b.cum) {
			v = len(b.cum) - 1
		}
		counts[v]++
	}
}
