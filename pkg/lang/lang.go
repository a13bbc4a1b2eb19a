// Package lang implements stochastic languages over trace representations:
// the unique variants of a trace population together with their relative
// frequencies. Statistics over logs reduce to weighted reductions over
// variants, so pairwise distances are computed once per unique variant pair
// instead of once per trace pair — the resampling loop then only reshuffles
// frequencies.
package lang

import (
	"sort"
	"strconv"
	"strings"

	"github.com/procdiff/procdiff/pkg/distance"
)

// Pool deduplicates the pooled representations of two logs into one variant
// set and maps every pooled trace to its variant index. Variants are sorted
// by their canonical key so the layout is deterministic regardless of input
// order.
type Pool[T comparable] struct {
	// Variants holds the unique representations of both logs combined.
	Variants [][]T

	// Index maps pooled trace position to variant index. Positions
	// [0, N1) come from the first log, [N1, N1+N2) from the second.
	Index []int

	N1, N2 int
}

// NewPool builds the combined variant pool for two collections of trace
// representations. key must produce a unique canonical encoding per variant.
func NewPool[T comparable](reps1, reps2 [][]T, key func([]T) string) *Pool[T] {
	type entry struct {
		variant []T
		pos     int
	}

	seen := make(map[string]*entry)
	keys := make([]string, 0, len(reps1)+len(reps2))
	pooledKeys := make([]string, 0, len(reps1)+len(reps2))

	for _, reps := range [][][]T{reps1, reps2} {
		for _, r := range reps {
			k := key(r)
			pooledKeys = append(pooledKeys, k)
			if _, ok := seen[k]; !ok {
				seen[k] = &entry{variant: r}
				keys = append(keys, k)
			}
		}
	}

	sort.Strings(keys)
	variants := make([][]T, len(keys))
	for i, k := range keys {
		seen[k].pos = i
		variants[i] = seen[k].variant
	}

	index := make([]int, len(pooledKeys))
	for i, k := range pooledKeys {
		index[i] = seen[k].pos
	}

	return &Pool[T]{
		Variants: variants,
		Index:    index,
		N1:       len(reps1),
		N2:       len(reps2),
	}
}

// Size returns the number of pooled traces.
func (p *Pool[T]) Size() int { return p.N1 + p.N2 }

// Counts fills counts[v] with the number of listed pooled traces whose
// variant is v. counts must have length len(p.Variants); it is zeroed first
// so per-worker buffers can be reused across iterations.
func (p *Pool[T]) Counts(pooled []int, counts []float64) {
	for i := range counts {
		counts[i] = 0
	}
	for _, idx := range pooled {
		counts[p.Index[idx]]++
	}
}

// ObservedCounts returns the per-variant trace counts of the two original,
// unshuffled sides.
func (p *Pool[T]) ObservedCounts() (c1, c2 []float64) {
	c1 = make([]float64, len(p.Variants))
	c2 = make([]float64, len(p.Variants))
	for i := 0; i < p.N1; i++ {
		c1[p.Index[i]]++
	}
	for i := p.N1; i < p.N1+p.N2; i++ {
		c2[p.Index[i]]++
	}
	return c1, c2
}

// Frequencies converts counts to relative frequencies. A zero total yields
// all-zero frequencies.
func Frequencies(counts []float64) []float64 {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = c / total
	}
	return out
}

// ActivityKey canonically encodes an activity sequence.
func ActivityKey(seq []string) string {
	return strings.Join(seq, "\x1f")
}

// TimedKey canonically encodes a timed control-flow sequence.
func TimedKey(seq []distance.TimedStep) string {
	var sb strings.Builder
	for i, s := range seq {
		if i > 0 {
			sb.WriteByte('\x1e')
		}
		sb.WriteString(s.Activity)
		sb.WriteByte('\x1f')
		sb.WriteString(strconv.Itoa(s.Bin))
	}
	return sb.String()
}
