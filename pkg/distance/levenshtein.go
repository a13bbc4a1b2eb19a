// Package distance implements the weighted (timed) Levenshtein distance
// between traces, together with dense distance matrices over trace variants.
//
// The distance is a pure function of its two arguments and the configured
// cost model: it holds no state and uses no randomness, so it can be invoked
// identically on observed logs and on every resampled partition.
package distance

// CostModel assigns per-element operation costs for the weighted edit
// distance. Implementations must be symmetric in the sense that
// SubstitutionCost(x, x) == 0 for all x.
type CostModel[T any] interface {
	// InsertionCost is the cost of inserting x.
	InsertionCost(x T) float64

	// DeletionCost is the cost of deleting x.
	DeletionCost(x T) float64

	// SubstitutionCost is the cost of substituting x by y.
	SubstitutionCost(x, y T) float64
}

// Weighted computes the weighted Levenshtein distance between two sequences
// under the given cost model.
//
// The dynamic program fills the classic (len(a)+1) x (len(b)+1) table, but
// only a single rolling row of length min(len(a), len(b))+1 is kept in
// memory, so repeated invocation across many resampling iterations stays
// memory-bounded.
func Weighted[T comparable](a, b []T, m CostModel[T]) float64 {
	if sliceEqual(a, b) {
		return 0
	}

	// Keep the shorter sequence along the row buffer. Transposing the table
	// computes distance(b, a) with insert and delete roles exchanged, which
	// the transposed wrapper accounts for.
	if len(b) > len(a) {
		a, b = b, a
		m = transposed[T]{m}
	}

	row := make([]float64, len(b)+1)
	for j := 1; j <= len(b); j++ {
		row[j] = row[j-1] + m.InsertionCost(b[j-1])
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] += m.DeletionCost(a[i-1])
		for j := 1; j <= len(b); j++ {
			del := row[j] + m.DeletionCost(a[i-1])
			ins := row[j-1] + m.InsertionCost(b[j-1])
			sub := diag + m.SubstitutionCost(a[i-1], b[j-1])
			diag = row[j]
			row[j] = min3(del, ins, sub)
		}
	}

	return row[len(b)]
}

// Normalized computes the post-normalized weighted Levenshtein distance:
// the weighted distance divided by the length of the longer sequence.
// Two empty sequences have distance 0.
func Normalized[T comparable](a, b []T, m CostModel[T]) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	return Weighted(a, b, m) / float64(n)
}

// transposed exchanges the insert and delete roles of a cost model, so that
// the distance computed over swapped arguments is unchanged.
type transposed[T any] struct {
	m CostModel[T]
}

func (t transposed[T]) InsertionCost(x T) float64 { return t.m.DeletionCost(x) }
func (t transposed[T]) DeletionCost(x T) float64  { return t.m.InsertionCost(x) }
func (t transposed[T]) SubstitutionCost(x, y T) float64 {
	return t.m.SubstitutionCost(y, x)
}

func sliceEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func min3(x, y, z float64) float64 {
	if y < x {
		x = y
	}
	if z < x {
		x = z
	}
	return x
}
