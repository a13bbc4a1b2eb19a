// Package comparator implements resampling-based hypothesis tests between
// two process event logs: is the difference in observed behavior (control
// flow and/or timing) larger than random chance would produce?
//
// A comparator is a fixed composition of a trace representation, an
// aggregation policy and a resampling strategy:
//
//   - TimedLevenshtein / ControlFlowPermutation run a permutation test:
//     the pooled traces are repeatedly reshuffled between the two groups,
//     realizing the null hypothesis that group membership is exchangeable.
//   - ControlFlowBootstrap / TimedLevenshteinBootstrap run a bootstrap
//     test: the null distribution is built by comparing the first log to
//     samples of itself drawn with replacement.
//
// All validation happens synchronously at the start of Compare, before any
// resampling work; there are no transient failure modes and nothing is
// retried. Logs are only read, never mutated.
package comparator

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/procdiff/procdiff/internal/model"
	"github.com/procdiff/procdiff/pkg/errors"
	"github.com/procdiff/procdiff/pkg/resample"
)

const tracerName = "github.com/procdiff/procdiff/pkg/comparator"

// PermutationComparator runs a permutation test between two event logs.
type PermutationComparator struct {
	name string
	rep  extractor
	opts options
}

// NewTimedLevenshtein creates the timed Levenshtein permutation comparator:
// traces are represented as (activity, service-time bin) sequences, compared
// with the post-normalized timed Levenshtein distance, and the null
// distribution is built by permuting the pooled traces.
func NewTimedLevenshtein(opt ...Option) *PermutationComparator {
	return &PermutationComparator{
		name: "timed_levenshtein_permutation",
		rep:  timedControlFlow{},
		opts: applyOptions(opt),
	}
}

// NewControlFlowPermutation creates a permutation comparator over pure
// activity sequences, ignoring timing.
func NewControlFlowPermutation(opt ...Option) *PermutationComparator {
	return &PermutationComparator{
		name: "control_flow_permutation",
		rep:  controlFlow{},
		opts: applyOptions(opt),
	}
}

// Compare computes the observed statistic between logA and logB, builds the
// permutation null distribution over the given number of iterations, and
// returns the resulting p-value. With WithSeed the result is bit-for-bit
// identical across runs for the same inputs and iteration count.
func (c *PermutationComparator) Compare(ctx context.Context, logA, logB *model.EventLog, iterations int) (*Result, error) {
	start := time.Now()
	if err := validateInputs(logA, logB, iterations); err != nil {
		return nil, err
	}
	if err := c.validateCosts(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "compare")
	defer span.End()
	span.SetAttributes(
		attribute.String("comparator", c.name),
		attribute.Int("iterations", iterations),
	)

	src := c.opts.source()
	pop, matrix, err := c.rep.extract(ctx, logA, logB, src, &c.opts)
	if err != nil {
		return nil, err
	}

	perm, err := resample.NewPermutation(pop.n1, pop.n2, src)
	if err != nil {
		return nil, err
	}

	c1, c2 := pop.observed()
	observed := c.opts.policy.Reduce(c1, c2, matrix)

	null, err := runNull(ctx, iterations, c.opts.workers, func() func(iter uint64) float64 {
		buf := make([]int, perm.PoolSize())
		ca := make([]float64, pop.variants)
		cb := make([]float64, pop.variants)
		return func(iter uint64) float64 {
			a, b := perm.Draw(iter, buf)
			pop.counts(a, ca)
			pop.counts(b, cb)
			v := c.opts.policy.Reduce(ca, cb, matrix)
			if c.opts.progress.Iterations != nil {
				c.opts.progress.Iterations(1)
			}
			return v
		}
	})
	if err != nil {
		return nil, err
	}

	return newResult(observed, null, time.Since(start)), nil
}

func (c *PermutationComparator) validateCosts() error {
	return validateCosts(c.rep, &c.opts)
}

// BootstrapComparator runs a bootstrap test: the observed statistic compares
// logA to logB, while the null distribution compares logA to resamples of
// itself, estimating the sampling variability of the statistic.
type BootstrapComparator struct {
	name string
	rep  extractor
	opts options
}

// NewControlFlowBootstrap creates the control-flow bootstrap comparator:
// activity sequences only, timing disabled, post-normalized Levenshtein
// distance.
func NewControlFlowBootstrap(opt ...Option) *BootstrapComparator {
	return &BootstrapComparator{
		name: "control_flow_bootstrap",
		rep:  controlFlow{},
		opts: applyOptions(opt),
	}
}

// NewTimedLevenshteinBootstrap creates a bootstrap comparator over timed
// control flow. An extension of the control-flow bootstrap; uses the same
// binned representation as the timed permutation test.
func NewTimedLevenshteinBootstrap(opt ...Option) *BootstrapComparator {
	return &BootstrapComparator{
		name: "timed_levenshtein_bootstrap",
		rep:  timedControlFlow{},
		opts: applyOptions(opt),
	}
}

// Compare computes the observed statistic between logA and logB and builds
// the null distribution from sampleSize-sized bootstrap resamples of logA.
// sampleSize may exceed the number of traces in logA: sampling is with
// replacement. Callers commonly pass len(logA.Traces), but a different size
// probes robustness to sample size.
func (c *BootstrapComparator) Compare(ctx context.Context, logA, logB *model.EventLog, sampleSize, iterations int) (*Result, error) {
	start := time.Now()
	if err := validateInputs(logA, logB, iterations); err != nil {
		return nil, err
	}
	if err := validateCosts(c.rep, &c.opts); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "compare")
	defer span.End()
	span.SetAttributes(
		attribute.String("comparator", c.name),
		attribute.Int("iterations", iterations),
		attribute.Int("sample_size", sampleSize),
	)

	src := c.opts.source()
	pop, matrix, err := c.rep.extract(ctx, logA, logB, src, &c.opts)
	if err != nil {
		return nil, err
	}

	c1, c2 := pop.observed()
	observed := c.opts.policy.Reduce(c1, c2, matrix)

	boot, err := resample.NewBootstrap(c1, sampleSize, src)
	if err != nil {
		return nil, err
	}

	null, err := runNull(ctx, iterations, c.opts.workers, func() func(iter uint64) float64 {
		sample := make([]float64, pop.variants)
		return func(iter uint64) float64 {
			boot.Draw(iter, sample)
			v := c.opts.policy.Reduce(sample, c1, matrix)
			if c.opts.progress.Iterations != nil {
				c.opts.progress.Iterations(1)
			}
			return v
		}
	})
	if err != nil {
		return nil, err
	}

	return newResult(observed, null, time.Since(start)), nil
}

func applyOptions(opt []Option) options {
	o := defaultOptions()
	for _, fn := range opt {
		fn(&o)
	}
	return o
}

// validateInputs fails fast on degenerate inputs, before any resampling.
func validateInputs(logA, logB *model.EventLog, iterations int) error {
	if iterations < 1 {
		return errors.InvalidIterations(iterations)
	}
	if logA.IsEmpty() {
		return errors.EmptyLog(logName(logA, "log_a"))
	}
	if logB.IsEmpty() {
		return errors.EmptyLog(logName(logB, "log_b"))
	}
	return nil
}

func validateCosts(rep extractor, opts *options) error {
	switch rep.(type) {
	case timedControlFlow:
		if opts.kmeansK < 1 {
			return errors.New(errors.CodeConfiguration, "cluster count must be at least 1").
				WithContext("k", opts.kmeansK)
		}
		return opts.timedCosts.Validate()
	default:
		return opts.labelCosts.Validate()
	}
}

func logName(l *model.EventLog, fallback string) string {
	if l != nil && l.Name != "" {
		return l.Name
	}
	return fallback
}

// runNull evaluates the per-iteration null statistic for iterations 1..N in
// parallel. Slot i-1 always holds the statistic of substream i regardless
// of scheduling: workers own disjoint index ranges and each writes only its
// own slots, so the accumulator needs no locking and the layout is
// deterministic. newWorker allocates the per-worker scratch state.
func runNull(ctx context.Context, iterations, workers int, newWorker func() func(iter uint64) float64) ([]float64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > iterations {
		workers = iterations
	}

	null := make([]float64, iterations)
	chunk := (iterations + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > iterations {
			hi = iterations
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			eval := newWorker()
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				null[i] = eval(uint64(i + 1))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return null, nil
}
