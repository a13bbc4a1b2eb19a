package comparator

import (
	"context"

	"github.com/procdiff/procdiff/internal/model"
	"github.com/procdiff/procdiff/pkg/binning"
	"github.com/procdiff/procdiff/pkg/distance"
	"github.com/procdiff/procdiff/pkg/lang"
	"github.com/procdiff/procdiff/pkg/resample"
)

// population is the representation-agnostic view of two pooled logs: trace
// counts per variant plus the side sizes. The variant distance matrix is
// computed alongside, once, and shared by the observed statistic and every
// resampling iteration.
type population struct {
	n1, n2   int
	variants int

	// counts tallies the listed pooled trace indices per variant into a
	// caller-owned buffer.
	counts func(pooled []int, counts []float64)

	// observed returns the per-variant counts of the original sides.
	observed func() (c1, c2 []float64)
}

func populationOf[T comparable](p *lang.Pool[T]) population {
	return population{
		n1:       p.N1,
		n2:       p.N2,
		variants: len(p.Variants),
		counts:   p.Counts,
		observed: p.ObservedCounts,
	}
}

// extractor turns two event logs into a pooled population and its variant
// distance matrix. The src stream with index 0 is reserved for extraction
// (binner training); resampling iterations use indices 1 and up.
type extractor interface {
	extract(ctx context.Context, logA, logB *model.EventLog, src *resample.Source, opts *options) (population, *distance.Matrix, error)
}

// controlFlow represents traces by their activity sequence only.
type controlFlow struct{}

func (controlFlow) extract(ctx context.Context, logA, logB *model.EventLog, _ *resample.Source, opts *options) (population, *distance.Matrix, error) {
	reps1, err := model.ActivityTraces(logA)
	if err != nil {
		return population{}, nil, err
	}
	reps2, err := model.ActivityTraces(logB)
	if err != nil {
		return population{}, nil, err
	}

	pool := lang.NewPool(reps1, reps2, lang.ActivityKey)
	costs := opts.labelCosts
	dist := func(a, b []string) float64 {
		if opts.normalize {
			return distance.Normalized(a, b, costs)
		}
		return distance.Weighted(a, b, costs)
	}

	m, err := distance.Symmetric(ctx, pool.Variants, dist, opts.workers, opts.progress.MatrixCells)
	if err != nil {
		return population{}, nil, err
	}
	return populationOf(pool), m, nil
}

// timedControlFlow represents traces as sequences of (activity, service-time
// bin) steps. Binners are trained per activity on the pooled service times
// of both logs, so identical bin boundaries apply to either side.
type timedControlFlow struct{}

func (timedControlFlow) extract(ctx context.Context, logA, logB *model.EventLog, src *resample.Source, opts *options) (population, *distance.Matrix, error) {
	steps1, err := model.ServiceTimeTraces(logA)
	if err != nil {
		return population{}, nil, err
	}
	steps2, err := model.ServiceTimeTraces(logB)
	if err != nil {
		return population{}, nil, err
	}

	var pooled []model.ServiceStep
	for _, t := range steps1 {
		pooled = append(pooled, t...)
	}
	for _, t := range steps2 {
		pooled = append(pooled, t...)
	}

	mgr, err := trainBinners(pooled, src, opts)
	if err != nil {
		return population{}, nil, err
	}

	reps1 := binSteps(steps1, mgr)
	reps2 := binSteps(steps2, mgr)

	pool := lang.NewPool(reps1, reps2, lang.TimedKey)

	costs := opts.timedCosts
	if !opts.timedCostsSet {
		// Scale the timing penalty by the actual largest bin index.
		if bins := opts.numBins(); bins >= 2 {
			costs.MaxBin = bins - 1
		}
	}
	dist := func(a, b []distance.TimedStep) float64 {
		if opts.normalize {
			return distance.Normalized(a, b, costs)
		}
		return distance.Weighted(a, b, costs)
	}

	m, err := distance.Symmetric(ctx, pool.Variants, dist, opts.workers, opts.progress.MatrixCells)
	if err != nil {
		return population{}, nil, err
	}
	return populationOf(pool), m, nil
}

func trainBinners(pooled []model.ServiceStep, src *resample.Source, opts *options) (*binning.Manager, error) {
	switch opts.binner {
	case binPercentile:
		return binning.Train(pooled, func(values []float64) (binning.Binner, error) {
			return binning.NewOuterPercentile(values, opts.percentilePct)
		})
	default:
		// Stream 0 seeds the k-means++ initialization; training happens
		// once before resampling, so the observed statistic stays fixed
		// across iteration counts.
		rng := src.Stream(0)
		return binning.Train(pooled, func(values []float64) (binning.Binner, error) {
			return binning.NewKMeans(values, opts.kmeansK, opts.kmeansMaxIter, rng)
		})
	}
}

func binSteps(traces [][]model.ServiceStep, mgr *binning.Manager) [][]distance.TimedStep {
	out := make([][]distance.TimedStep, len(traces))
	for i, t := range traces {
		rep := make([]distance.TimedStep, len(t))
		for j, s := range t {
			rep[j] = distance.TimedStep{
				Activity: s.Activity,
				Bin:      mgr.Bin(s.Activity, s.Seconds),
			}
		}
		out[i] = rep
	}
	return out
}
