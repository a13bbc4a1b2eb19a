// Package resample produces randomized re-groupings of pooled trace
// populations under the permutation null (label exchangeability) and the
// bootstrap null (sampling with replacement).
//
// Randomness is explicit and splittable: a Source derives an independent
// substream per iteration index from its seed, so iteration i draws the
// same partition whether the loop runs sequentially or across workers.
package resample

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Source derives deterministic per-iteration random substreams.
type Source struct {
	seed uint64
}

// Seeded returns a Source whose substreams depend only on (seed, iteration
// index). The entire sequence of resampled partitions, and hence the
// p-value, is bit-for-bit reproducible across runs and platforms.
func Seeded(seed uint64) *Source {
	return &Source{seed: seed}
}

// FromEntropy returns a Source seeded from process-level entropy. Results
// are not reproducible across runs; use Seeded when reproducibility matters.
func FromEntropy() *Source {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms; if it ever
		// does, fall back to a fixed seed rather than aborting.
		return &Source{seed: 0x9E3779B97F4A7C15}
	}
	return &Source{seed: binary.LittleEndian.Uint64(buf[:])}
}

// Stream returns the random substream for iteration i.
func (s *Source) Stream(i uint64) *rand.Rand {
	// Mix the iteration index into the seed with one SplitMix64 step, so
	// neighbouring iterations start from decorrelated states.
	sm := &splitMix{state: s.seed + i*0x9E3779B97F4A7C15}
	return rand.New(sm)
}

// splitMix is a SplitMix64 generator implementing rand.Source64. Its output
// is defined purely by 64-bit integer arithmetic, identical on every
// platform.
type splitMix struct {
	state uint64
}

func (s *splitMix) Uint64() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func (s *splitMix) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

func (s *splitMix) Seed(seed int64) {
	s.state = uint64(seed)
}
