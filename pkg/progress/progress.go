// Package progress renders terminal progress for long-running comparisons:
// the pairwise distance matrix and the resampling loop dominate runtime on
// large logs, so the CLI shows both phases.
package progress

import (
	"github.com/schollz/progressbar/v3"

	"github.com/procdiff/procdiff/pkg/comparator"
)

// NewBar creates a progress bar with the procdiff house style. A negative
// total renders a spinner.
func NewBar(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// ForComparison wires progress bars into a comparison run: a spinner while
// the distance matrix fills (its size depends on the number of unique
// variants, unknown up front) and a bar over the resampling iterations.
// Both callbacks are safe for concurrent use; progressbar serializes
// internally.
func ForComparison(iterations int) comparator.Progress {
	matrix := NewBar(-1, "Computing distance matrix")
	iters := NewBar(int64(iterations), "Computing null distribution")

	return comparator.Progress{
		MatrixCells: func(n int) { _ = matrix.Add(n) },
		Iterations:  func(n int) { _ = iters.Add(n) },
	}
}
