package lang

import (
	"reflect"
	"testing"

	"github.com/procdiff/procdiff/pkg/distance"
)

func TestNewPool(t *testing.T) {
	reps1 := [][]string{
		{"a", "b", "c"},
		{"a", "b", "c"},
		{"a", "c", "b"},
	}
	reps2 := [][]string{
		{"a", "c", "b"},
		{"b"},
	}

	p := NewPool(reps1, reps2, ActivityKey)

	if p.N1 != 3 || p.N2 != 2 || p.Size() != 5 {
		t.Fatalf("pool sizes = (%d, %d), want (3, 2)", p.N1, p.N2)
	}

	// Variants are sorted by canonical key: abc < acb < b.
	want := [][]string{
		{"a", "b", "c"},
		{"a", "c", "b"},
		{"b"},
	}
	if !reflect.DeepEqual(p.Variants, want) {
		t.Fatalf("Variants = %v, want %v", p.Variants, want)
	}

	wantIndex := []int{0, 0, 1, 1, 2}
	if !reflect.DeepEqual(p.Index, wantIndex) {
		t.Fatalf("Index = %v, want %v", p.Index, wantIndex)
	}
}

func TestNewPool_OrderIndependentVariants(t *testing.T) {
	a := [][]string{{"x"}, {"y"}, {"z"}}
	b := [][]string{{"z"}, {"y"}, {"x"}}

	p1 := NewPool(a, b, ActivityKey)
	p2 := NewPool(b, a, ActivityKey)

	if !reflect.DeepEqual(p1.Variants, p2.Variants) {
		t.Errorf("variant layout depends on input order: %v vs %v", p1.Variants, p2.Variants)
	}
}

func TestObservedCounts(t *testing.T) {
	p := NewPool(
		[][]string{{"a"}, {"a"}, {"b"}},
		[][]string{{"b"}, {"c"}},
		ActivityKey,
	)

	c1, c2 := p.ObservedCounts()
	if want := []float64{2, 1, 0}; !reflect.DeepEqual(c1, want) {
		t.Errorf("c1 = %v, want %v", c1, want)
	}
	if want := []float64{0, 1, 1}; !reflect.DeepEqual(c2, want) {
		t.Errorf("c2 = %v, want %v", c2, want)
	}
}

func TestCounts_ReusesBuffer(t *testing.T) {
	p := NewPool(
		[][]string{{"a"}, {"b"}},
		[][]string{{"a"}},
		ActivityKey,
	)

	counts := []float64{99, 99}
	p.Counts([]int{0, 2}, counts)
	if want := []float64{2, 0}; !reflect.DeepEqual(counts, want) {
		t.Errorf("counts = %v, want %v", counts, want)
	}

	p.Counts([]int{1}, counts)
	if want := []float64{0, 1}; !reflect.DeepEqual(counts, want) {
		t.Errorf("counts after reuse = %v, want %v", counts, want)
	}
}

func TestFrequencies(t *testing.T) {
	tests := []struct {
		counts []float64
		want   []float64
	}{
		{[]float64{2, 1, 1}, []float64{0.5, 0.25, 0.25}},
		{[]float64{0, 0}, []float64{0, 0}},
		{[]float64{}, []float64{}},
	}
	for _, tt := range tests {
		if got := Frequencies(tt.counts); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Frequencies(%v) = %v, want %v", tt.counts, got, tt.want)
		}
	}
}

func TestKeys_Distinguish(t *testing.T) {
	// Concatenation ambiguity: ["ab"] vs ["a", "b"].
	if ActivityKey([]string{"ab"}) == ActivityKey([]string{"a", "b"}) {
		t.Error("ActivityKey conflates different sequences")
	}

	steps1 := []distance.TimedStep{{Activity: "a", Bin: 1}, {Activity: "b", Bin: 2}}
	steps2 := []distance.TimedStep{{Activity: "a", Bin: 1}, {Activity: "b", Bin: 1}}
	if TimedKey(steps1) == TimedKey(steps2) {
		t.Error("TimedKey ignores bins")
	}
	if TimedKey(steps1) == TimedKey(steps1[:1]) {
		t.Error("TimedKey conflates different lengths")
	}
}
