package aggregate

import (
	"math"
	"testing"

	"github.com/procdiff/procdiff/pkg/distance"
)

// 3 variants with distances d(0,1)=2, d(0,2)=4, d(1,2)=6.
func testMatrix() *distance.Matrix {
	m := distance.NewMatrix(3, 3)
	m.Set(0, 1, 2)
	m.Set(1, 0, 2)
	m.Set(0, 2, 4)
	m.Set(2, 0, 4)
	m.Set(1, 2, 6)
	m.Set(2, 1, 6)
	return m
}

func TestMeanPairwise(t *testing.T) {
	m := testMatrix()
	p := MeanPairwise{}

	if p.Name() != "mean_pairwise" {
		t.Errorf("Name = %q", p.Name())
	}

	tests := []struct {
		name   string
		wa, wb []float64
		want   float64
	}{
		{
			name: "disjoint single variants",
			wa:   []float64{2, 0, 0},
			wb:   []float64{0, 2, 0},
			want: 2, // every cross pair is variants 0 vs 1
		},
		{
			name: "identical populations",
			wa:   []float64{1, 1, 0},
			wb:   []float64{1, 1, 0},
			// pairs (0,0)=0, (0,1)=2, (1,0)=2, (1,1)=0 over 4 pairs
			want: 1,
		},
		{
			name: "counts and frequencies agree",
			wa:   []float64{0.5, 0.5, 0},
			wb:   []float64{0.5, 0.5, 0},
			want: 1,
		},
		{
			name: "weighted",
			wa:   []float64{3, 1, 0},
			wb:   []float64{0, 0, 2},
			// (3*4 + 1*6) * 2 / (4 * 2)
			want: 4.5,
		},
		{
			name: "empty side",
			wa:   []float64{0, 0, 0},
			wb:   []float64{1, 1, 1},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Reduce(tt.wa, tt.wb, m); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Reduce = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNearestNeighbor(t *testing.T) {
	m := testMatrix()
	p := NearestNeighbor{}

	if p.Name() != "nearest_neighbor" {
		t.Errorf("Name = %q", p.Name())
	}

	tests := []struct {
		name   string
		wa, wb []float64
		want   float64
	}{
		{
			name: "identical populations",
			wa:   []float64{1, 1, 1},
			wb:   []float64{1, 1, 1},
			want: 0, // every variant finds itself at distance 0
		},
		{
			name: "disjoint single variants",
			wa:   []float64{2, 0, 0},
			wb:   []float64{0, 2, 0},
			want: 2,
		},
		{
			name: "asymmetric coverage",
			// Side a: variants 0 and 1. Side b: variant 0 only.
			// Forward: 0->0 is 0, 1->0 is 2, mean 1. Backward: 0->0 is 0.
			wa:   []float64{1, 1, 0},
			wb:   []float64{1, 0, 0},
			want: 0.5,
		},
		{
			name: "empty side",
			wa:   []float64{1, 0, 0},
			wb:   []float64{0, 0, 0},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Reduce(tt.wa, tt.wb, m); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Reduce = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicies_ScaleInvariant(t *testing.T) {
	m := testMatrix()
	wa := []float64{3, 2, 1}
	wb := []float64{1, 0, 5}

	scale := func(w []float64, f float64) []float64 {
		out := make([]float64, len(w))
		for i, v := range w {
			out[i] = v * f
		}
		return out
	}

	for _, p := range []Policy{MeanPairwise{}, NearestNeighbor{}} {
		base := p.Reduce(wa, wb, m)
		scaled := p.Reduce(scale(wa, 10), scale(wb, 0.25), m)
		if math.Abs(base-scaled) > 1e-12 {
			t.Errorf("%s not scale invariant: %v vs %v", p.Name(), base, scaled)
		}
	}
}
