package comparator

import (
	"github.com/procdiff/procdiff/pkg/aggregate"
	"github.com/procdiff/procdiff/pkg/distance"
	"github.com/procdiff/procdiff/pkg/resample"
)

// binnerKind selects the service-time binning strategy of timed comparators.
type binnerKind int

const (
	binKMeans binnerKind = iota
	binPercentile
)

// Progress receives progress callbacks during a comparison. Both callbacks
// may be invoked concurrently and must be safe for parallel use. Either can
// be nil.
type Progress struct {
	// MatrixCells is called with the number of freshly computed distance
	// matrix cells.
	MatrixCells func(n int)

	// Iterations is called once per completed resampling iteration.
	Iterations func(n int)
}

type options struct {
	seeded bool
	seed   uint64

	workers int
	policy  aggregate.Policy

	labelCosts distance.LabelCosts

	timedCosts    distance.TimedCosts
	timedCostsSet bool

	binner        binnerKind
	kmeansK       int
	kmeansMaxIter int
	percentilePct float64

	normalize bool
	progress  Progress
}

func defaultOptions() options {
	return options{
		policy:        aggregate.MeanPairwise{},
		labelCosts:    distance.DefaultLabelCosts(),
		timedCosts:    distance.DefaultTimedCosts(),
		binner:        binKMeans,
		kmeansK:       3,
		kmeansMaxIter: 100,
		percentilePct: 10,
		normalize:     true,
	}
}

func (o *options) source() *resample.Source {
	if o.seeded {
		return resample.Seeded(o.seed)
	}
	return resample.FromEntropy()
}

// numBins returns the bin count the configured binner produces.
func (o *options) numBins() int {
	if o.binner == binKMeans {
		return o.kmeansK
	}
	return 3
}

// Option configures a comparator at construction time.
type Option func(*options)

// WithSeed makes the entire sequence of resampled partitions, and hence the
// returned p-value, bit-for-bit reproducible. Without a seed the comparator
// draws from process-level entropy and results vary between runs.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seeded = true
		o.seed = seed
	}
}

// WithWorkers bounds the number of goroutines used for the distance matrix
// and the resampling loop. Zero or negative means one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithPolicy replaces the default MeanPairwise aggregation policy.
func WithPolicy(p aggregate.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithLabelCosts replaces the control-flow distance cost weights.
func WithLabelCosts(c distance.LabelCosts) Option {
	return func(o *options) { o.labelCosts = c }
}

// WithTimedCosts replaces the timed distance cost weights, including the
// largest bin index the timing term is scaled by.
func WithTimedCosts(c distance.TimedCosts) Option {
	return func(o *options) {
		o.timedCosts = c
		o.timedCostsSet = true
	}
}

// WithKMeansBinning selects k-means service-time binning with k clusters
// (the default, with k=3).
func WithKMeansBinning(k, maxIter int) Option {
	return func(o *options) {
		o.binner = binKMeans
		o.kmeansK = k
		o.kmeansMaxIter = maxIter
	}
}

// WithPercentileBinning selects three-bin outer-percentile service-time
// binning with the given outer percentile.
func WithPercentileBinning(pct float64) Option {
	return func(o *options) {
		o.binner = binPercentile
		o.percentilePct = pct
	}
}

// WithoutNormalization disables post-normalization of trace distances by
// the longer trace's length, yielding raw weighted edit distances.
func WithoutNormalization() Option {
	return func(o *options) { o.normalize = false }
}

// WithProgress installs progress callbacks.
func WithProgress(p Progress) Option {
	return func(o *options) { o.progress = p }
}
