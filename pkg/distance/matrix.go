package distance

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Matrix is a dense row-major matrix of pairwise distances between trace
// variants. It is ephemeral, derived data: recomputed per comparison call
// and never persisted.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the distance at (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Set stores the distance at (i, j).
func (m *Matrix) Set(i, j int, v float64) {
	m.data[i*m.cols+j] = v
}

// Symmetric computes the full pairwise distance matrix over a single set of
// variants, assuming dist is symmetric so only the upper triangle is
// evaluated. Rows are distributed across workers; each worker owns its rows'
// upper-triangle cells and their mirrors, so no cell is written twice.
//
// onPairs, when non-nil, is called with the number of freshly computed cells
// and must be safe for concurrent use. This is the dominant cost of a
// comparison and the natural place to report progress.
func Symmetric[T any](ctx context.Context, variants [][]T, dist func(a, b []T) float64, workers int, onPairs func(n int)) (*Matrix, error) {
	n := len(variants)
	m := NewMatrix(n, n)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			done := 0
			for j := i; j < n; j++ {
				d := dist(variants[i], variants[j])
				m.Set(i, j, d)
				if i != j {
					m.Set(j, i, d)
					done += 2
				} else {
					done++
				}
			}
			if onPairs != nil {
				onPairs(done)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}
