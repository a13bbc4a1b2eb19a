package comparator

import (
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of one comparison run. It is created once per
// Compare invocation and never mutated afterwards.
type Result struct {
	// RunID uniquely identifies this comparison run.
	RunID string

	// Observed is the test statistic computed on the real, unshuffled logs.
	Observed float64

	// PValue is the estimated probability, under the null hypothesis, of a
	// statistic at least as extreme as Observed. Computed with the finite
	// Monte Carlo correction (count+1)/(iterations+1), so it is always in
	// (0, 1].
	PValue float64

	// Iterations is the number of resampling iterations performed.
	Iterations int

	// Null holds the per-iteration null distribution. Null[i] corresponds
	// to the i-th resampled draw under the configured seed, regardless of
	// how the iterations were scheduled.
	Null []float64

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

func newResult(observed float64, null []float64, elapsed time.Duration) *Result {
	ge := 0
	for _, v := range null {
		if v >= observed {
			ge++
		}
	}
	return &Result{
		RunID:      uuid.NewString(),
		Observed:   observed,
		PValue:     float64(ge+1) / float64(len(null)+1),
		Iterations: len(null),
		Null:       null,
		Elapsed:    elapsed,
	}
}
