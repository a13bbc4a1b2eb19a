package resample

import "github.com/procdiff/procdiff/pkg/errors"

// Permutation realizes the null hypothesis that group membership is
// exchangeable: the pooled traces of both logs are shuffled uniformly and
// split at the first log's size, preserving the original group sizes.
type Permutation struct {
	n1, n2 int
	src    *Source
}

// NewPermutation creates a permutation resampler for pooled sides of size
// n1 and n2. Either side empty is an error: a degenerate permutation
// carries no statistical meaning.
func NewPermutation(n1, n2 int, src *Source) (*Permutation, error) {
	if n1 < 1 || n2 < 1 {
		return nil, errors.New(errors.CodeEmptyLog, "permutation resampling requires traces on both sides").
			WithContext("size_a", n1).
			WithContext("size_b", n2)
	}
	return &Permutation{n1: n1, n2: n2, src: src}, nil
}

// PoolSize returns n1+n2.
func (p *Permutation) PoolSize() int { return p.n1 + p.n2 }

// Draw shuffles the pooled indices 0..n1+n2-1 for iteration iter and splits
// them into a synthetic (group a, group b) pair of the original sizes. buf
// must have length PoolSize(); the returned slices alias it, so each worker
// needs its own buffer.
func (p *Permutation) Draw(iter uint64, buf []int) (a, b []int) {
	for i := range buf {
		buf[i] = i
	}
	rng := p.src.Stream(iter)
	rng.Shuffle(len(buf), func(i, j int) {
		buf[i], buf[j] = buf[j], buf[i]
	})
	return buf[:p.n1], buf[p.n1:]
}
