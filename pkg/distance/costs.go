package distance

import (
	"math"

	"github.com/procdiff/procdiff/pkg/errors"
)

// LabelCosts scores pure activity sequences (control flow only).
// Insertion and deletion carry a fixed base cost per event; substitution is
// free on matching labels and costs Mismatch otherwise.
type LabelCosts struct {
	Insertion float64
	Deletion  float64
	Mismatch  float64
}

// DefaultLabelCosts returns the documented baseline: unit costs for all
// three operations, giving the classic Levenshtein distance over labels.
func DefaultLabelCosts() LabelCosts {
	return LabelCosts{Insertion: 1, Deletion: 1, Mismatch: 1}
}

// Validate rejects inconsistent cost weights.
func (c LabelCosts) Validate() error {
	if c.Insertion < 0 || c.Deletion < 0 || c.Mismatch < 0 {
		return errors.New(errors.CodeConfiguration, "cost weights must be non-negative").
			WithContext("insertion", c.Insertion).
			WithContext("deletion", c.Deletion).
			WithContext("mismatch", c.Mismatch)
	}
	return nil
}

func (c LabelCosts) InsertionCost(string) float64 { return c.Insertion }
func (c LabelCosts) DeletionCost(string) float64  { return c.Deletion }

func (c LabelCosts) SubstitutionCost(x, y string) float64 {
	if x == y {
		return 0
	}
	return c.Mismatch
}

// TimedStep pairs an activity label with its binned service time. This is
// the element type of timed control-flow representations.
type TimedStep struct {
	Activity string
	Bin      int
}

// TimedCosts scores timed control-flow sequences of TimedStep elements.
//
// Insertion and deletion of a step cost 0.5*Base*(1+bin), so steps in a
// higher service-time bin are more expensive to drop. Substitution costs
// 0.5*(Mismatch*labelCost + TimeScale*|Δbin|/MaxBin), where labelCost is 0
// on matching activities and 1 otherwise; the timing term scales linearly
// with the bin difference and reaches TimeScale/2 at the largest possible
// difference. With the default weights and three bins this is the cost
// model of the timed Levenshtein permutation test.
type TimedCosts struct {
	Base      float64
	Mismatch  float64
	TimeScale float64
	MaxBin    int
}

// DefaultTimedCosts returns the documented baseline for three service-time
// bins (bin indices 0..2).
func DefaultTimedCosts() TimedCosts {
	return TimedCosts{Base: 1, Mismatch: 1, TimeScale: 1, MaxBin: 2}
}

// Validate rejects inconsistent cost weights.
func (c TimedCosts) Validate() error {
	if c.Base < 0 || c.Mismatch < 0 || c.TimeScale < 0 {
		return errors.New(errors.CodeConfiguration, "cost weights must be non-negative").
			WithContext("base", c.Base).
			WithContext("mismatch", c.Mismatch).
			WithContext("time_scale", c.TimeScale)
	}
	if c.MaxBin < 1 {
		return errors.New(errors.CodeConfiguration, "largest bin index must be at least 1").
			WithContext("max_bin", c.MaxBin)
	}
	return nil
}

func (c TimedCosts) InsertionCost(x TimedStep) float64 {
	return 0.5 * c.Base * float64(1+x.Bin)
}

func (c TimedCosts) DeletionCost(x TimedStep) float64 {
	return 0.5 * c.Base * float64(1+x.Bin)
}

func (c TimedCosts) SubstitutionCost(x, y TimedStep) float64 {
	label := 0.0
	if x.Activity != y.Activity {
		label = c.Mismatch
	}
	timing := c.TimeScale * math.Abs(float64(x.Bin-y.Bin)) / float64(c.MaxBin)
	return 0.5 * (label + timing)
}
